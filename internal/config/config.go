package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppName is used for the installation root directory and as the MCP server name.
const AppName = "gworkspace-mcp"

// Credential store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Transports supported by the serve command.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

const (
	credentialsFile   = "credentials.json"
	credentialsDBFile = "credentials.db"
	dotEnvFile        = ".env"
)

// Config holds the runtime configuration. Values come from the environment
// (optionally seeded from .env files) and may be overridden by CLI flags.
type Config struct {
	// Home is the installation root. Defaults to $XDG_DATA_HOME/gworkspace-mcp.
	Home string `env:"GWORKSPACE_MCP_HOME"`

	ClientID          string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret      string `env:"GOOGLE_CLIENT_SECRET"`
	ClientSecretsFile string `env:"GWORKSPACE_MCP_CLIENT_SECRETS"`

	CredentialStore string `env:"GWORKSPACE_MCP_CREDENTIAL_STORE" envDefault:"file"`

	Transport string `env:"GWORKSPACE_MCP_TRANSPORT" envDefault:"stdio"`
	HTTPAddr  string `env:"GWORKSPACE_MCP_HTTP_ADDR" envDefault:":8080"`

	// Interactive allows the consent flow to run from inside a tool call.
	// When false, a missing or insufficient grant fails with an auth error
	// and the operator has to run `auth login`.
	Interactive    bool          `env:"GWORKSPACE_MCP_INTERACTIVE" envDefault:"true"`
	OpenBrowser    bool          `env:"GWORKSPACE_MCP_OPEN_BROWSER" envDefault:"true"`
	ConsentTimeout time.Duration `env:"GWORKSPACE_MCP_CONSENT_TIMEOUT" envDefault:"5m"`
	ConsentPort    int           `env:"GWORKSPACE_MCP_CONSENT_PORT" envDefault:"0"`

	// APIEndpoint overrides the base URL of every Google API client.
	APIEndpoint string `env:"GWORKSPACE_MCP_API_ENDPOINT"`

	MetricsEnabled bool   `env:"GWORKSPACE_MCP_METRICS_ENABLED" envDefault:"false"`
	MetricsAddr    string `env:"GWORKSPACE_MCP_METRICS_ADDR" envDefault:":9090"`

	Debug bool `env:"GWORKSPACE_MCP_DEBUG"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DefaultHome returns the installation root used when GWORKSPACE_MCP_HOME is unset.
func DefaultHome() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Load reads .env files from the working directory and the installation root,
// then parses the environment. Variables already set in the process
// environment always win over .env values.
func Load() (Config, error) {
	if err := LoadDotEnv(dotEnvFile); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Home == "" {
		cfg.Home = DefaultHome()
	}

	if err := LoadDotEnv(filepath.Join(cfg.Home, dotEnvFile)); err != nil {
		return Config{}, err
	}
	// Re-parse so values from the installation .env are picked up.
	home := cfg.Home
	cfg = Config{}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Home == "" {
		cfg.Home = home
	}

	return cfg, nil
}

// LoadDotEnv loads the given .env files, skipping the ones that do not exist.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// CredentialPath returns the fixed location of the credential record for the
// configured store backend. It is empty for the memory backend.
func (c Config) CredentialPath() string {
	switch c.CredentialStore {
	case StoreSQLite:
		return filepath.Join(c.Home, credentialsDBFile)
	case StoreMemory:
		return ""
	default:
		return filepath.Join(c.Home, credentialsFile)
	}
}

// HasClientIdentity reports whether an OAuth client id is available either
// directly or through a client secrets file.
func (c Config) HasClientIdentity() bool {
	return c.ClientID != "" || c.ClientSecretsFile != ""
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("installation root must not be empty")
	}

	switch c.CredentialStore {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("invalid credential store %q, must be one of: file, sqlite, memory", c.CredentialStore)
	}

	switch c.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("invalid transport %q, must be one of: stdio, streamable-http", c.Transport)
	}

	if c.ConsentTimeout <= 0 {
		return fmt.Errorf("consent timeout must be positive, got %s", c.ConsentTimeout)
	}
	if c.ConsentPort < 0 || c.ConsentPort > 65535 {
		return fmt.Errorf("consent port out of range: %d", c.ConsentPort)
	}

	if c.ClientID != "" && c.ClientSecretsFile != "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID and GWORKSPACE_MCP_CLIENT_SECRETS are mutually exclusive")
	}

	return nil
}

// InitHome is the explicit first-run step: it creates the installation root
// and a .gitignore that keeps the credential record out of version control.
// Nothing else in the program creates this directory.
func InitHome(home string) error {
	if err := os.MkdirAll(home, 0o700); err != nil {
		return fmt.Errorf("create installation root: %w", err)
	}

	ignore := filepath.Join(home, ".gitignore")
	if _, err := os.Stat(ignore); err == nil {
		return nil
	}
	if err := os.WriteFile(ignore, []byte("*\n"), 0o600); err != nil {
		return fmt.Errorf("write .gitignore: %w", err)
	}
	return nil
}
