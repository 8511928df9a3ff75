package common

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/instrumentation"
	"github.com/teemow/gworkspace-mcp/internal/logging"
	"github.com/teemow/gworkspace-mcp/internal/toolerr"
)

// CredentialProvider produces a valid grant covering the required scopes.
// *google.Authorizer is the production implementation.
type CredentialProvider interface {
	GetValidCredential(ctx context.Context, required google.ScopeSet) (*google.Grant, error)
}

// ClientFactory returns the API client of a surface bound to a grant.
// *server.ServerContext is the production implementation.
type ClientFactory interface {
	ClientFor(ctx context.Context, surface google.Surface, grant *google.Grant) (any, error)
}

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	Credentials CredentialProvider
	Clients     ClientFactory
	Metrics     *instrumentation.Metrics
	Audit       *instrumentation.AuditLogger
	Logger      *slog.Logger
}

// Dispatcher routes tool invocations to their handlers.
type Dispatcher struct {
	credentials CredentialProvider
	clients     ClientFactory
	metrics     *instrumentation.Metrics
	audit       *instrumentation.AuditLogger
	logger      *slog.Logger

	mu    sync.RWMutex
	tools map[string]*Tool
	order []string
}

// NewDispatcher returns a Dispatcher without tools.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		credentials: cfg.Credentials,
		clients:     cfg.Clients,
		metrics:     cfg.Metrics,
		audit:       cfg.Audit,
		logger:      logger,
		tools:       make(map[string]*Tool),
	}
}

// Register adds tools. Names must be unique.
func (d *Dispatcher) Register(tools ...Tool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, t := range tools {
		if err := t.validate(); err != nil {
			return err
		}
		if _, exists := d.tools[t.Name]; exists {
			return fmt.Errorf("tool %s is already registered", t.Name)
		}
		tool := t
		d.tools[t.Name] = &tool
		d.order = append(d.order, t.Name)
	}
	return nil
}

// Tools returns the registered tools in registration order.
func (d *Dispatcher) Tools() []Tool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Tool, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, *d.tools[name])
	}
	return out
}

// Lookup returns the tool registered under name.
func (d *Dispatcher) Lookup(name string) (Tool, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, ok := d.tools[name]
	if !ok {
		return Tool{}, false
	}
	return *t, true
}

// run validates the arguments, resolves the client and calls the handler.
// Arguments are checked before any credential or network work happens.
func (d *Dispatcher) run(ctx context.Context, tool Tool, raw map[string]any) (any, error) {
	args, err := ParseArgs(tool.Params, raw)
	if err != nil {
		return nil, err
	}

	var client any
	if tool.Surface != "" {
		client, err = d.resolveClient(ctx, tool)
		if err != nil {
			return nil, err
		}
	}

	return d.call(ctx, tool, args, client)
}

func (d *Dispatcher) resolveClient(ctx context.Context, tool Tool) (any, error) {
	if d.credentials == nil || d.clients == nil {
		return nil, toolerr.Auth(nil, "no credential provider configured")
	}

	grant, err := d.credentials.GetValidCredential(ctx, tool.RequiredScopes())
	if err != nil {
		if te, ok := toolerr.As(err); ok {
			return nil, te
		}
		return nil, toolerr.Auth(err, "could not obtain a valid credential: %v", err)
	}

	client, err := d.clients.ClientFor(ctx, tool.Surface, grant)
	if err != nil {
		return nil, toolerr.Remote(toolerr.CategoryOther, 0, fmt.Errorf("create %s client: %w", tool.Surface, err))
	}
	return client, nil
}

func (d *Dispatcher) call(ctx context.Context, tool Tool, args Args, client any) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool handler panicked",
				logging.Tool(tool.Name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			payload = nil
			err = toolerr.Remote(toolerr.CategoryOther, 0, fmt.Errorf("tool %s failed unexpectedly: %v", tool.Name, r))
		}
	}()

	if tool.Service == "" {
		payload, err = tool.Handler(ctx, args, client)
	} else {
		payload, err = d.callGoogleAPI(ctx, tool, args, client)
	}
	if err != nil {
		return nil, toolerr.Classify(err)
	}
	return payload, nil
}
