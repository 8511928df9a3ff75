package cmd

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/gworkspace-mcp/internal/config"
	"github.com/teemow/gworkspace-mcp/internal/google"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Google credential of this installation",
		Long: `Manage the single Google credential used by every tool.

Run "auth login" once before starting the server non-interactively. The
credential is kept in the installation root and refreshed automatically.`,
	}

	cmd.AddCommand(newAuthInitCmd())
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthClearCmd())
	return cmd
}

func newAuthInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the installation root",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.InitHome(cfg.Home); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", cfg.Home)
			return nil
		},
	}
}

func newAuthLoginCmd() *cobra.Command {
	var (
		timeout   time.Duration
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize access to Gmail, Calendar, Docs, Sheets and Drive",
		Long: `Run the Google consent flow for the scopes of every tool and store the
resulting credential. The installation root is created if needed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if timeout > 0 {
				cfg.ConsentTimeout = timeout
			}
			if noBrowser {
				cfg.OpenBrowser = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.InitHome(cfg.Home); err != nil {
				return err
			}

			logger := newLogger(cfg)
			store, closeStore, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			authorizer, err := newAuthorizer(cfg, store, logger, authorizerOptions{interactive: true})
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			grant, err := authorizer.Login(ctx, requiredScopes(allTools()))
			if err != nil {
				return err
			}
			printGrant(cmd.OutOrStdout(), cfg, grant)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "consent-timeout", 0, "How long to wait for the consent to complete (default: 5m)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Only print the consent URL instead of opening a browser")
	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored credential without refreshing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			store, closeStore, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			grant, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			if grant == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No credential stored. Run `%s auth login`.\n", config.AppName)
				return nil
			}
			printGrant(cmd.OutOrStdout(), cfg, grant)

			if missing := grant.Scopes.Missing(requiredScopes(allTools())); len(missing) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Missing scopes (granted on first use or by `auth login`):")
				for _, s := range missing {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", s)
				}
			}
			return nil
		},
	}
}

func newAuthClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			store, closeStore, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credential removed.")
			return nil
		},
	}
}

func printGrant(w io.Writer, cfg config.Config, g *google.Grant) {
	fmt.Fprintf(w, "Store:       %s %s\n", cfg.CredentialStore, cfg.CredentialPath())
	fmt.Fprintf(w, "Client ID:   %s\n", g.ClientID)
	fmt.Fprintf(w, "Expires:     %s\n", formatExpiry(g.Expiry))
	fmt.Fprintf(w, "Refreshable: %t\n", g.CanRefresh())
	fmt.Fprintln(w, "Scopes:")
	for _, s := range g.Scopes {
		fmt.Fprintf(w, "  %s\n", s)
	}
}
