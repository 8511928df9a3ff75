package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teemow/gworkspace-mcp/internal/config"
	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/instrumentation"
	"github.com/teemow/gworkspace-mcp/internal/logging"
	"github.com/teemow/gworkspace-mcp/internal/resources"
	"github.com/teemow/gworkspace-mcp/internal/server"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

const (
	mcpEndpoint       = "/mcp"
	httpReadTimeout   = 30 * time.Second
	httpIdleTimeout   = 120 * time.Second
	shutdownTimeout   = 10 * time.Second
	storeCheckTimeout = 2 * time.Second
)

// serveOptions are the serve flags that are not part of config.Config.
type serveOptions struct {
	readOnly         bool
	disableStreaming bool
}

func newServeCmd() *cobra.Command {
	var (
		transport      string
		httpAddr       string
		noInteractive  bool
		consentTimeout time.Duration
		metricsEnabled bool
		metricsAddr    string
		opts           serveOptions
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Gmail, Calendar,
Docs, Sheets and Drive tools.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp

Authorization:
  Tools use the credential stored by "auth login". When a tool needs a
  scope that has not been granted yet, the consent flow is started and
  the consent URL is printed to stderr. Use --no-interactive to fail
  such calls with an auth error instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("transport") {
				cfg.Transport = transport
			}
			if cmd.Flags().Changed("http-addr") {
				cfg.HTTPAddr = httpAddr
			}
			if noInteractive {
				cfg.Interactive = false
			}
			if consentTimeout > 0 {
				cfg.ConsentTimeout = consentTimeout
			}
			if cmd.Flags().Changed("metrics-enabled") {
				cfg.MetricsEnabled = metricsEnabled
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", config.TransportStdio, "Transport type: stdio or streamable-http. Can also use GWORKSPACE_MCP_TRANSPORT env var.")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport). Can also use GWORKSPACE_MCP_HTTP_ADDR env var.")
	cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "Never start the consent flow from a tool call")
	cmd.Flags().DurationVar(&consentTimeout, "consent-timeout", 0, "How long a tool call waits for the consent to complete (default: 5m)")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "Only register tools that do not modify data")
	cmd.Flags().BoolVar(&opts.disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", false, "Enable the metrics server on a dedicated port (streamable-http only). Can also use GWORKSPACE_MCP_METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use GWORKSPACE_MCP_METRICS_ADDR env var.")

	return cmd
}

func runServe(parent context.Context, cfg config.Config, opts serveOptions) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(cfg)

	instrConfig, err := instrumentation.LoadConfig()
	if err != nil {
		return err
	}
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("instrumentation shutdown", logging.Err(err))
		}
	}()

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	authorizer, err := newAuthorizer(cfg, store, logger, authorizerOptions{
		interactive: cfg.Interactive,
		metrics:     provider.Metrics(),
	})
	if err != nil {
		return err
	}

	serverContext := server.NewServerContext(ctx, server.Options{APIEndpoint: cfg.APIEndpoint})
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("server context shutdown", logging.Err(err))
		}
	}()

	dispatcher := common.NewDispatcher(common.DispatcherConfig{
		Credentials: authorizer,
		Clients:     serverContext,
		Metrics:     provider.Metrics(),
		Audit:       instrumentation.NewAuditLogger(logger, instrConfig.AuditLogging),
		Logger:      logger,
	})
	if err := dispatcher.Register(selectTools(allTools(), opts.readOnly)...); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}

	mcpSrv := mcpserver.NewMCPServer(config.AppName, version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithRecovery(),
	)
	common.RegisterMCP(mcpSrv, dispatcher)
	resources.Register(mcpSrv, authorizer, dispatcher)

	logger.Info("starting server",
		"transport", cfg.Transport,
		"tools", len(dispatcher.Tools()),
		"read_only", opts.readOnly,
		"interactive", authorizer.Interactive(),
		"credential_store", cfg.CredentialStore)

	switch cfg.Transport {
	case config.TransportStdio:
		return runStdioServer(ctx, mcpSrv, logger)
	case config.TransportStreamableHTTP:
		health := server.NewHealthChecker(serverContext)
		health.AddCheck("credential_store", storeCheck(authorizer))
		health.SetInfo(version, len(dispatcher.Tools()))
		return runStreamableHTTPServer(ctx, mcpSrv, cfg, opts, provider, health, logger)
	}
	return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
}

// runStdioServer serves MCP on stdin/stdout until ctx is done or stdin is
// closed. Log output stays on stderr.
func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, logger *slog.Logger) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, cfg config.Config, opts serveOptions, provider *instrumentation.Provider, health *server.HealthChecker, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}

	httpSrv := &http.Server{
		Handler:           newHTTPHandler(mcpSrv, health, opts),
		ReadHeaderTimeout: httpReadTimeout,
		IdleTimeout:       httpIdleTimeout,
	}

	var metricsServer *server.MetricsServer
	if cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			InstrumentationProvider: provider,
			Health:                  health,
			Logger:                  logger,
		})
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving MCP", "addr", ln.Addr().String(), "endpoint", mcpEndpoint)
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if metricsServer != nil {
		g.Go(metricsServer.Start)
	}
	health.SetReady(true)

	g.Go(func() error {
		<-gctx.Done()
		health.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		logger.Info("shutting down MCP server")
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

// newHTTPHandler routes /mcp to the streamable HTTP transport and adds the
// health endpoints.
func newHTTPHandler(mcpSrv *mcpserver.MCPServer, health *server.HealthChecker, opts serveOptions) http.Handler {
	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(mcpEndpoint),
		mcpserver.WithDisableStreaming(opts.disableStreaming),
	)

	mux := http.NewServeMux()
	mux.Handle(mcpEndpoint, streamable)
	health.RegisterHealthEndpoints(mux)
	return mux
}

// storeCheck reports the credential store as unhealthy when the Authorizer
// cannot read it. A missing credential is healthy.
func storeCheck(authorizer *google.Authorizer) server.CheckFunc {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, storeCheckTimeout)
		defer cancel()
		return authorizer.CheckStore(ctx)
	}
}
