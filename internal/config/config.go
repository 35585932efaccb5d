package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsontransformer/internal/errors"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "JSONTRANSFORMER"

// Config represents the complete configuration for the transformer
type Config struct {
	Server ServerConfig `yaml:"server"`
	JSON   JSONConfig   `yaml:"json"`
	Log    LogConfig    `yaml:"log"`
	Output OutputConfig `yaml:"output"`
}

// ServerConfig controls the HTTP front end
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// JSONConfig controls parsing and serialization
type JSONConfig struct {
	Indent   string `yaml:"indent"`
	MaxDepth int    `yaml:"max_depth"`
}

// LogLevels lists the accepted values of log.level
var LogLevels = []string{"debug", "info", "warn", "error"}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Color string `yaml:"color"` // auto, always or never
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		JSON: JSONConfig{
			Indent:   "  ",
			MaxDepth: 512,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontransformer.yml", ".jsontransformer.yaml", "jsontransformer.yml", "jsontransformer.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// envBinding maps a dotted YAML path to a setter
type envBinding struct {
	path string
	set  func(c *Config, value string) error
}

var envBindings = []envBinding{
	{"server.addr", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
	{"server.read_timeout", durationSetter(func(c *Config) *time.Duration { return &c.Server.ReadTimeout })},
	{"server.write_timeout", durationSetter(func(c *Config) *time.Duration { return &c.Server.WriteTimeout })},
	{"server.shutdown_timeout", durationSetter(func(c *Config) *time.Duration { return &c.Server.ShutdownTimeout })},
	{"server.max_body_bytes", func(c *Config, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.Server.MaxBodyBytes = n
		return nil
	}},
	{"json.indent", func(c *Config, v string) error { c.JSON.Indent = v; return nil }},
	{"json.max_depth", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.JSON.MaxDepth = n
		return nil
	}},
	{"log.level", func(c *Config, v string) error { c.Log.Level = v; return nil }},
	{"log.format", func(c *Config, v string) error { c.Log.Format = v; return nil }},
	{"output.color", func(c *Config, v string) error { c.Output.Color = v; return nil }},
}

func durationSetter(field func(c *Config) *time.Duration) func(c *Config, value string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

// EnvName returns the environment variable overriding the given dotted
// YAML path, e.g. "server.max_body_bytes" -> JSONTRANSFORMER_SERVER_MAX_BODY_BYTES.
func EnvName(path string) string {
	return EnvPrefix + "_" + strcase.ToScreamingSnake(strings.ReplaceAll(path, ".", "_"))
}

// ApplyEnv overrides settings from the environment. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		name := EnvName(b.path)
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := b.set(c, value); err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, name, err)
		}
	}
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.MaxBodyBytes <= 0 {
		return errors.NewConfigError("server.max_body_bytes must be positive", errors.ErrInvalidConfig)
	}
	if c.JSON.MaxDepth <= 0 {
		return errors.NewConfigError("json.max_depth must be positive", errors.ErrInvalidConfig)
	}
	if strings.Trim(c.JSON.Indent, " \t") != "" {
		return errors.NewConfigError("json.indent may only contain spaces and tabs", errors.ErrInvalidConfig)
	}
	if !slices.Contains(LogLevels, strings.ToLower(c.Log.Level)) {
		return errors.NewConfigError(fmt.Sprintf("unknown log level '%s'", c.Log.Level), errors.ErrInvalidConfig)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown log format '%s'", c.Log.Format), errors.ErrInvalidConfig)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown color mode '%s'", c.Output.Color), errors.ErrInvalidConfig)
	}
	return nil
}

// Load resolves the effective configuration: defaults, then the config file
// (configPath, or one found by FindConfigFile), then environment overrides.
func Load(configPath string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to load '%s'", configPath), err)
		}
		cfg = fileConfig
	}

	if lookup != nil {
		if err := cfg.ApplyEnv(lookup); err != nil {
			return nil, errors.NewConfigError("failed to apply environment overrides", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
