package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	calendarapi "google.golang.org/api/calendar/v3"
	docsapi "google.golang.org/api/docs/v1"
	driveapi "google.golang.org/api/drive/v3"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/teemow/gworkspace-mcp/internal/calendar"
	"github.com/teemow/gworkspace-mcp/internal/docs"
	"github.com/teemow/gworkspace-mcp/internal/drive"
	"github.com/teemow/gworkspace-mcp/internal/gmail"
	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/sheets"
)

// Options configures a ServerContext.
type Options struct {
	// APIEndpoint overrides the base URL of every Google API client.
	APIEndpoint string

	// HTTPClient is the base client the OAuth transport wraps. Nil uses
	// the default transport.
	HTTPClient *http.Client
}

type cachedClient struct {
	accessToken string
	client      any
}

// ServerContext holds the context for the MCP server and caches one
// client per surface.
type ServerContext struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    Options
	clients map[google.Surface]cachedClient
	mu      sync.RWMutex

	shutdown bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, opts Options) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		opts:    opts,
		clients: make(map[google.Surface]cachedClient),
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// ClientFor returns the client for surface bound to grant's access token:
// *gmail.Client, *calendar.Client, *docs.Client, *sheets.Client or
// *drive.Client. A cached client is reused while the access token is the
// same; a new token replaces it.
func (sc *ServerContext) ClientFor(ctx context.Context, surface google.Surface, grant *google.Grant) (any, error) {
	if grant == nil || grant.AccessToken == "" {
		return nil, fmt.Errorf("no access token for surface %s", surface)
	}

	sc.mu.RLock()
	if sc.shutdown {
		sc.mu.RUnlock()
		return nil, fmt.Errorf("server is shutting down")
	}
	if c, ok := sc.clients[surface]; ok && c.accessToken == grant.AccessToken {
		sc.mu.RUnlock()
		return c.client, nil
	}
	sc.mu.RUnlock()

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if c, ok := sc.clients[surface]; ok && c.accessToken == grant.AccessToken {
		return c.client, nil
	}

	client, err := sc.build(ctx, surface, grant)
	if err != nil {
		return nil, err
	}
	sc.clients[surface] = cachedClient{accessToken: grant.AccessToken, client: client}
	return client, nil
}

func (sc *ServerContext) build(ctx context.Context, surface google.Surface, grant *google.Grant) (any, error) {
	httpCtx := sc.ctx
	if sc.opts.HTTPClient != nil {
		httpCtx = context.WithValue(httpCtx, oauth2.HTTPClient, sc.opts.HTTPClient)
	}
	hc := google.NewHTTPClient(httpCtx, oauth2.StaticTokenSource(grant.Token()))

	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if sc.opts.APIEndpoint != "" {
		opts = append(opts, option.WithEndpoint(sc.opts.APIEndpoint))
	}

	switch surface {
	case google.SurfaceMail:
		svc, err := gmailapi.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gmail service: %w", err)
		}
		return gmail.NewClient(svc), nil

	case google.SurfaceCalendar:
		svc, err := calendarapi.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Calendar service: %w", err)
		}
		return calendar.NewClient(svc), nil

	case google.SurfaceDocs:
		docsSvc, err := docsapi.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Docs service: %w", err)
		}
		driveSvc, err := driveapi.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Drive service: %w", err)
		}
		return docs.NewClient(docsSvc, driveSvc), nil

	case google.SurfaceSheets:
		sheetsSvc, err := sheetsapi.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Sheets service: %w", err)
		}
		driveSvc, err := driveapi.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Drive service: %w", err)
		}
		return sheets.NewClient(sheetsSvc, driveSvc), nil

	case google.SurfaceFiles:
		svc, err := driveapi.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Drive service: %w", err)
		}
		return drive.NewClient(svc), nil
	}

	return nil, fmt.Errorf("unknown surface %q", surface)
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context and drops every cached client.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	clear(sc.clients)
	sc.cancel()
	return nil
}
