package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mcncl/jsontransformer/internal/codec"
	"github.com/mcncl/jsontransformer/internal/config"
	"github.com/mcncl/jsontransformer/internal/errors"
	"github.com/mcncl/jsontransformer/internal/processor"
)

// Error payload messages
const (
	msgInvalidJSON       = "Invalid JSON format"
	msgInvalidFilter     = "Invalid JSON format or properties"
	msgInvalidCompare    = "Invalid JSON format: json1 and json2 are required"
	msgBodyTooLarge      = "Request body too large"
	msgInternal          = "Internal server error"
	contentTypeJSON      = "application/json"
	contentTypePlainText = "text/plain; charset=utf-8"
)

// Server is the HTTP front end for the processors. Every request builds its
// own processor chain; the codec is the only shared component.
type Server struct {
	cfg    config.ServerConfig
	codec  *codec.Codec
	logger *slog.Logger
	mux    *http.ServeMux
}

// New creates a Server and registers its routes
func New(cfg config.ServerConfig, c *codec.Codec, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		codec:  c,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /json/minify", s.handleDocument("minify", func(base processor.Processor) processor.Processor {
		return processor.NewMinify(s.codec, base)
	}))
	s.mux.HandleFunc("POST /json/prettify", s.handleDocument("prettify", func(base processor.Processor) processor.Processor {
		return processor.NewPrettify(s.codec, base)
	}))
	s.mux.HandleFunc("POST /json/filter/include", s.handleFilter("filter include", func(base processor.Processor, props []string) processor.Processor {
		return processor.NewFilterInclude(s.codec, base, props)
	}))
	s.mux.HandleFunc("POST /json/filter/exclude", s.handleFilter("filter exclude", func(base processor.Processor, props []string) processor.Processor {
		return processor.NewFilterExclude(s.codec, base, props)
	}))
	s.mux.HandleFunc("POST /json/compare", s.handleCompare)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the routed handler wrapped with request logging
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.NewServerError(fmt.Sprintf("failed to listen on '%s'", s.cfg.Addr), err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", "addr", listener.Addr().String())
		if err := httpServer.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.NewServerError("server stopped unexpectedly", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.NewServerError("graceful shutdown failed", err)
		}
		return nil
	})
	return g.Wait()
}

// handleDocument serves endpoints whose body is the document itself
func (s *Server) handleDocument(op string, build func(base processor.Processor) processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("received request", "operation", op)

		body, ok := s.readBody(w, r, op)
		if !ok {
			return
		}

		out, err := build(processor.NewBase(s.codec)).Process(string(body))
		if err != nil {
			s.fail(w, op, err, msgInvalidJSON)
			return
		}
		s.write(w, http.StatusOK, contentTypeJSON, out)
	}
}

// filterRequest is the body of the filter endpoints. JSON holds the document
// either as a JSON string containing the text or as an embedded value.
type filterRequest struct {
	JSON       json.RawMessage `json:"json"`
	Properties []string        `json:"properties"`
}

func (s *Server) handleFilter(op string, build func(base processor.Processor, props []string) processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("received request", "operation", op)

		body, ok := s.readBody(w, r, op)
		if !ok {
			return
		}

		var req filterRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.fail(w, op, errors.NewParsingError("invalid filter request", err), msgInvalidFilter)
			return
		}
		document, err := embeddedDocument(req.JSON)
		if err != nil {
			s.fail(w, op, err, msgInvalidFilter)
			return
		}

		out, err := build(processor.NewBase(s.codec), req.Properties).Process(document)
		if err != nil {
			s.fail(w, op, err, msgInvalidFilter)
			return
		}
		s.write(w, http.StatusOK, contentTypeJSON, out)
	}
}

// compareRequest carries the reference (json1) and actual (json2) documents
type compareRequest struct {
	JSON1 json.RawMessage `json:"json1"`
	JSON2 json.RawMessage `json:"json2"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "compare"
	s.logger.Info("received request", "operation", op)

	body, ok := s.readBody(w, r, op)
	if !ok {
		return
	}

	var req compareRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(w, op, errors.NewParsingError("invalid compare request", err), msgInvalidJSON)
		return
	}
	if len(req.JSON1) == 0 || len(req.JSON2) == 0 {
		s.fail(w, op, errors.NewMalformedError("json1 and json2 are required"), msgInvalidCompare)
		return
	}

	differ := processor.NewDiffer(s.codec, string(req.JSON1))
	if r.URL.Query().Get("format") == "json" {
		report, err := differ.Report(string(req.JSON2))
		if err != nil {
			s.fail(w, op, err, msgInvalidJSON)
			return
		}
		s.write(w, http.StatusOK, contentTypeJSON, report.JSON())
		return
	}

	out, err := differ.Process(string(req.JSON2))
	if err != nil {
		s.fail(w, op, err, msgInvalidJSON)
		return
	}
	s.write(w, http.StatusOK, contentTypePlainText, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.write(w, http.StatusOK, contentTypeJSON, `{"status":"ok"}`)
}

// embeddedDocument extracts the document text from a filter request field
func embeddedDocument(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.NewMalformedError("json field is required")
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", errors.NewMalformedError(fmt.Sprintf("json field is not a valid string: %v", err))
		}
		return text, nil
	}
	return string(raw), nil
}

// readBody reads the request body up to the configured limit. It writes the
// error response itself and reports false on failure.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			s.logger.Warn("request body too large", "operation", op, "limit", maxErr.Limit)
			s.writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return nil, false
		}
		s.logger.Error("failed to read request body", "operation", op, "error", err)
		s.writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return nil, false
	}
	return body, true
}

// fail maps a processing error to an error payload
func (s *Server) fail(w http.ResponseWriter, op string, err error, message string) {
	var appErr *errors.AppError
	if errors.IsMalformed(err) || (stderrors.As(err, &appErr) && appErr.Type == errors.ErrorTypeParsing) {
		s.logger.Error("request failed", "operation", op, "error", err)
		s.writeError(w, http.StatusBadRequest, message)
		return
	}
	s.logger.Error("unexpected error", "operation", op, "error", err)
	s.writeError(w, http.StatusInternalServerError, msgInternal)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	payload, _ := json.Marshal(map[string]string{"error": message})
	s.write(w, status, contentTypeJSON, string(payload))
}

func (s *Server) write(w http.ResponseWriter, status int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := io.WriteString(w, body); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
