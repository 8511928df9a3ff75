package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/gworkspace-mcp/internal/config"
	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/logging"
	"github.com/teemow/gworkspace-mcp/internal/tools/calendar_tools"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
	"github.com/teemow/gworkspace-mcp/internal/tools/docs_tools"
	"github.com/teemow/gworkspace-mcp/internal/tools/drive_tools"
	"github.com/teemow/gworkspace-mcp/internal/tools/gmail_tools"
	"github.com/teemow/gworkspace-mcp/internal/tools/sheets_tools"
)

// globalFlags are shared by every command that touches the credential.
type globalFlags struct {
	home            string
	credentialStore string
	clientSecrets   string
	debug           bool
}

var flags globalFlags

func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&flags.home, "home", "", "Installation root (default: $XDG_DATA_HOME/gworkspace-mcp). Can also use GWORKSPACE_MCP_HOME env var.")
	cmd.PersistentFlags().StringVar(&flags.credentialStore, "credential-store", "", "Credential store backend: file, sqlite or memory. Can also use GWORKSPACE_MCP_CREDENTIAL_STORE env var.")
	cmd.PersistentFlags().StringVar(&flags.clientSecrets, "client-secrets", "", "Google client secrets JSON file. Can also use GWORKSPACE_MCP_CLIENT_SECRETS env var.")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
}

// loadConfig reads the environment and applies the global flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if flags.home != "" {
		cfg.Home = flags.home
	}
	if flags.credentialStore != "" {
		cfg.CredentialStore = flags.credentialStore
	}
	if flags.clientSecrets != "" {
		cfg.ClientSecretsFile = flags.clientSecrets
		cfg.ClientID = ""
	}
	if flags.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// newLogger logs to stderr since stdout carries the stdio transport.
func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.Debug)
}

type closer func()

// openStore returns the configured credential store and a function that
// releases it.
func openStore(cfg config.Config, logger *slog.Logger) (google.CredentialStore, closer, error) {
	switch cfg.CredentialStore {
	case config.StoreFile:
		return google.NewFileStore(cfg.CredentialPath(), logger), func() {}, nil
	case config.StoreSQLite:
		s := google.NewSQLiteStore(cfg.CredentialPath(), logger)
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Warn("close credential store", logging.Err(err))
			}
		}, nil
	case config.StoreMemory:
		s := google.NewMemoryStore()
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("invalid credential store %q", cfg.CredentialStore)
}

type authorizerOptions struct {
	interactive bool
	metrics     google.AuthMetrics
}

// newAuthorizer wires the store, the OAuth client and, when interactive,
// the loopback consent flow.
func newAuthorizer(cfg config.Config, store google.CredentialStore, logger *slog.Logger, opts authorizerOptions) (*google.Authorizer, error) {
	oauthConf, err := google.NewOAuthConfig(google.ClientIdentity{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		SecretsFile:  cfg.ClientSecretsFile,
	}, google.AllScopes())
	if err != nil {
		return nil, err
	}

	ac := google.AuthorizerConfig{
		Store:   store,
		OAuth:   oauthConf,
		Logger:  logger,
		Metrics: opts.metrics,
	}
	if opts.interactive {
		ac.Consent = &google.ConsentFlow{
			Port:    cfg.ConsentPort,
			Timeout: cfg.ConsentTimeout,
			Prompter: &google.TerminalPrompter{
				Out:         os.Stderr,
				OpenBrowser: cfg.OpenBrowser,
				Logger:      logger,
			},
			Logger: logger,
		}
	}
	return google.NewAuthorizer(ac)
}

// allTools returns every tool in registration order.
func allTools() []common.Tool {
	var tools []common.Tool
	tools = append(tools, common.PingTool())
	tools = append(tools, gmail_tools.Tools()...)
	tools = append(tools, calendar_tools.Tools()...)
	tools = append(tools, docs_tools.Tools()...)
	tools = append(tools, sheets_tools.Tools()...)
	tools = append(tools, drive_tools.Tools()...)
	return tools
}

// selectTools drops every tool that modifies data when readOnly is set.
func selectTools(tools []common.Tool, readOnly bool) []common.Tool {
	if !readOnly {
		return tools
	}
	out := make([]common.Tool, 0, len(tools))
	for _, t := range tools {
		if t.ReadOnly || t.Surface == "" {
			out = append(out, t)
		}
	}
	return out
}

// requiredScopes is the union of the scopes of tools.
func requiredScopes(tools []common.Tool) google.ScopeSet {
	var scopes google.ScopeSet
	for _, t := range tools {
		scopes = scopes.Union(t.RequiredScopes())
	}
	return scopes
}

func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.RFC1123)
}
