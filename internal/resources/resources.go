package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

const (
	AuthStatusURI = "gworkspace://auth/status"
	ToolScopesURI = "gworkspace://tools/scopes"
)

// StatusSource returns the stored grant without refreshing it.
// *google.Authorizer is the production implementation.
type StatusSource interface {
	Status(ctx context.Context) (*google.Grant, error)
}

// AuthStatus describes the stored credential. Tokens are never included.
type AuthStatus struct {
	Authorized    bool      `json:"authorized"`
	ClientID      string    `json:"clientId,omitempty"`
	Scopes        []string  `json:"scopes"`
	MissingScopes []string  `json:"missingScopes"`
	Expiry        time.Time `json:"expiry,omitzero"`
	Refreshable   bool      `json:"refreshable"`
}

// ToolScopes maps a tool name to the scopes it requires.
type ToolScopes map[string][]string

// Register adds the authorization status and tool scope resources to s.
func Register(s *mcpserver.MCPServer, status StatusSource, d *common.Dispatcher) {
	statusResource := mcp.NewResource(
		AuthStatusURI,
		"Authorization Status",
		mcp.WithResourceDescription("Scopes granted to the stored Google credential and the scopes still missing"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(statusResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		st, err := ReadAuthStatus(ctx, status, d.Tools())
		if err != nil {
			return nil, err
		}
		return jsonContents(request.Params.URI, st)
	})

	scopesResource := mcp.NewResource(
		ToolScopesURI,
		"Tool Scopes",
		mcp.WithResourceDescription("Google scopes required by each registered tool"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(scopesResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, ScopesOf(d.Tools()))
	})
}

// ReadAuthStatus builds the status of the stored grant against the scopes
// required by tools.
func ReadAuthStatus(ctx context.Context, status StatusSource, tools []common.Tool) (*AuthStatus, error) {
	var required google.ScopeSet
	for _, t := range tools {
		required = required.Union(t.RequiredScopes())
	}

	g, err := status.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}
	if g == nil {
		return &AuthStatus{
			Scopes:        []string{},
			MissingScopes: nonNil(required),
		}, nil
	}

	return &AuthStatus{
		Authorized:    true,
		ClientID:      g.ClientID,
		Scopes:        nonNil(g.Scopes),
		MissingScopes: nonNil(g.Scopes.Missing(required)),
		Expiry:        g.Expiry,
		Refreshable:   g.CanRefresh(),
	}, nil
}

// ScopesOf returns the scopes of every tool that needs a credential.
func ScopesOf(tools []common.Tool) ToolScopes {
	out := make(ToolScopes, len(tools))
	for _, t := range tools {
		if scopes := t.RequiredScopes(); len(scopes) > 0 {
			out[t.Name] = scopes
		}
	}
	return out
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
