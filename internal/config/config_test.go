package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsontransformer/internal/errors"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "  ", cfg.JSON.Indent)
	assert.Equal(t, 512, cfg.JSON.MaxDepth)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := writeTempConfig(t, `
server:
  addr: "127.0.0.1:9000"
  read_timeout: 2s
  max_body_bytes: 4096
json:
  indent: "    "
  max_depth: 64
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(4096), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "    ", cfg.JSON.Indent)
	assert.Equal(t, 64, cfg.JSON.MaxDepth)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	// Unset keys keep their defaults
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "auto", cfg.Output.Color)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, `
server:
  addr: [unclosed array
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_search_test")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	err = os.MkdirAll(nestedDir, 0o755)
	require.NoError(t, err)

	configPath := filepath.Join(tmpDir, "project", ".jsontransformer.yml")
	err = os.WriteFile(configPath, []byte(`server: {addr: ":7000"}`), 0o644)
	require.NoError(t, err)

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(nestedDir)
	require.NoError(t, err)

	// Should find it in the parent directory
	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), `":7000"`)

	cfg, err := Load("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "no_config_test")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(tmpDir)
	require.NoError(t, err)

	assert.Empty(t, FindConfigFile())
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "JSONTRANSFORMER_SERVER_ADDR", EnvName("server.addr"))
	assert.Equal(t, "JSONTRANSFORMER_SERVER_MAX_BODY_BYTES", EnvName("server.max_body_bytes"))
	assert.Equal(t, "JSONTRANSFORMER_JSON_MAX_DEPTH", EnvName("json.max_depth"))
}

func TestConfig_ApplyEnv(t *testing.T) {
	cfg := NewConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"JSONTRANSFORMER_SERVER_ADDR":             ":9999",
		"JSONTRANSFORMER_SERVER_SHUTDOWN_TIMEOUT": "1m",
		"JSONTRANSFORMER_SERVER_MAX_BODY_BYTES":   "2048",
		"JSONTRANSFORMER_JSON_MAX_DEPTH":          "10",
		"JSONTRANSFORMER_LOG_LEVEL":               "warn",
		"JSONTRANSFORMER_OUTPUT_COLOR":            "never",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, time.Minute, cfg.Server.ShutdownTimeout)
	assert.Equal(t, int64(2048), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 10, cfg.JSON.MaxDepth)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "never", cfg.Output.Color)
}

func TestConfig_ApplyEnvInvalidValue(t *testing.T) {
	cfg := NewConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{"JSONTRANSFORMER_JSON_MAX_DEPTH": "deep"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSONTRANSFORMER_JSON_MAX_DEPTH")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{"negative depth", func(c *Config) { c.JSON.MaxDepth = -1 }},
		{"non-whitespace indent", func(c *Config) { c.JSON.Indent = "--" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"warning alias", func(c *Config) { c.Log.Level = "warning" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"unknown color mode", func(c *Config) { c.Output.Color = "sometimes" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidConfig)
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempConfig(t, `
server:
  addr: ":7000"
log:
  level: debug
`)

	cfg, err := Load(path, envMap(map[string]string{"JSONTRANSFORMER_SERVER_ADDR": ":7001"}))
	require.NoError(t, err)

	// Environment beats file, file beats defaults
	assert.Equal(t, ":7001", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 512, cfg.JSON.MaxDepth)
}

func TestLoad_InvalidFile(t *testing.T) {
	_, err := Load("/non/existent/config.yml", noEnv)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeConfig, appErr.Type)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeTempConfig(t, `json: {max_depth: 0}`)
	_, err := Load(path, noEnv)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}
