// Package config defines the application configuration.
//
// Settings come from the environment (optionally seeded from a .env file
// in the working directory). Separated from cmd so that db, ai, ssh and
// tui can depend on it without importing Cobra.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application settings.
type Config struct {
	Trino  TrinoConfig
	AI     AIConfig
	Log    LogConfig    `envPrefix:"TRINOAI_LOG_"`
	Prompt PromptConfig `envPrefix:"TRINOAI_"`
}

// TrinoConfig describes the query engine connection.
type TrinoConfig struct {
	Host       string    `env:"TRINO_HOST"        envDefault:"localhost"`
	Port       int       `env:"TRINO_PORT"        envDefault:"8080"`
	User       string    `env:"TRINO_USER"        envDefault:"admin"`
	Catalog    string    `env:"TRINO_CATALOG"     envDefault:"lakehouse"`
	Schema     string    `env:"TRINO_SCHEMA"      envDefault:"dbt_marts"`
	HTTPScheme string    `env:"TRINO_HTTP_SCHEME" envDefault:"http"`
	SSH        SSHConfig `envPrefix:"TRINO_SSH_"`
}

// SSHConfig holds SSH tunnel settings for reaching a coordinator
// behind a bastion host.
type SSHConfig struct {
	Enabled       bool   `env:"ENABLED"        envDefault:"false"`
	Host          string `env:"HOST"`
	Port          int    `env:"PORT"           envDefault:"22"`
	User          string `env:"USER"`
	KeyPath       string `env:"KEY_PATH"`
	KeyPassphrase string `env:"KEY_PASSPHRASE"`
	KnownHosts    string `env:"KNOWN_HOSTS"` // verify the bastion host key when set
}

// AIConfig holds backend credentials and model selection.
type AIConfig struct {
	// Backend is the dashboard's initial mode: ollama, claude, mistral or all.
	Backend   string `env:"TRINOAI_BACKEND" envDefault:"ollama"`
	Anthropic AnthropicConfig
	Mistral   MistralConfig
	Ollama    OllamaConfig
}

// AnthropicConfig holds Claude settings.
type AnthropicConfig struct {
	APIKey  string `env:"ANTHROPIC_API_KEY"`
	Model   string `env:"CLAUDE_MODEL"       envDefault:"claude-sonnet-4-20250514"`
	BaseURL string `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
}

// MistralConfig holds Mistral settings.
type MistralConfig struct {
	APIKey  string `env:"MISTRAL_API_KEY"`
	Model   string `env:"MISTRAL_MODEL"    envDefault:"mistral-small-latest"`
	BaseURL string `env:"MISTRAL_BASE_URL" envDefault:"https://api.mistral.ai"`
}

// OllamaConfig holds local model server settings.
type OllamaConfig struct {
	Host  string `env:"OLLAMA_HOST"  envDefault:"http://localhost:11434"`
	Model string `env:"OLLAMA_MODEL" envDefault:"qwen2.5-coder:7b"`
}

// LogConfig controls the application log file.
type LogConfig struct {
	Level  string `env:"LEVEL"  envDefault:"info"` // debug, info, warn, error
	Format string `env:"FORMAT" envDefault:"text"` // text, json
	File   string `env:"FILE"   envDefault:"~/.trinoai/logs/app.log"`
}

// PromptConfig bounds the schema description sent to backends.
type PromptConfig struct {
	MaxTablesPerSchema int `env:"MAX_TABLES_PER_SCHEMA" envDefault:"10"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFrom(nil)
}

// LoadFrom parses configuration from the given environment map; a nil
// map means the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Log.File = expandHome(cfg.Log.File)
	cfg.Trino.SSH.KeyPath = expandHome(cfg.Trino.SSH.KeyPath)
	cfg.Trino.SSH.KnownHosts = expandHome(cfg.Trino.SSH.KnownHosts)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Trino.Host == "" {
		return errors.New("TRINO_HOST must not be empty")
	}
	if c.Trino.Port <= 0 || c.Trino.Port > 65535 {
		return fmt.Errorf("TRINO_PORT %d out of range", c.Trino.Port)
	}
	switch c.Trino.HTTPScheme {
	case "http", "https":
	default:
		return fmt.Errorf("TRINO_HTTP_SCHEME must be http or https, got %q", c.Trino.HTTPScheme)
	}
	if c.Trino.SSH.Enabled {
		if c.Trino.SSH.Host == "" || c.Trino.SSH.User == "" {
			return errors.New("TRINO_SSH_HOST and TRINO_SSH_USER are required when the SSH tunnel is enabled")
		}
		if c.Trino.SSH.KeyPath == "" {
			return errors.New("TRINO_SSH_KEY_PATH is required when the SSH tunnel is enabled")
		}
	}
	switch strings.ToLower(c.AI.Backend) {
	case "ollama", "claude", "mistral", "all":
	default:
		return fmt.Errorf("TRINOAI_BACKEND must be one of ollama, claude, mistral, all; got %q", c.AI.Backend)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Prompt.MaxTablesPerSchema <= 0 {
		return fmt.Errorf("TRINOAI_MAX_TABLES_PER_SCHEMA must be positive, got %d", c.Prompt.MaxTablesPerSchema)
	}
	return nil
}

// Address returns host:port of the coordinator.
func (t TrinoConfig) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// ServerURI builds the coordinator URI with the user embedded, the form
// the Trino driver expects. When an SSH tunnel is active, the caller
// overrides Host/Port with the local tunnel endpoint first.
func (t TrinoConfig) ServerURI() string {
	u := url.URL{
		Scheme: t.HTTPScheme,
		User:   url.User(t.User),
		Host:   t.Address(),
	}
	return u.String()
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
