package common

import (
	"context"
	"fmt"

	"github.com/teemow/gworkspace-mcp/internal/google"
)

// ParamType is the type an argument is coerced to before the handler runs.
type ParamType int

const (
	ParamString ParamType = iota
	ParamInt
	ParamBool
	// ParamStringList accepts a JSON array of strings or a comma-separated string.
	ParamStringList
	// ParamGrid is a non-empty two-dimensional array of cell values.
	ParamGrid
	// ParamTime is an RFC3339 timestamp, a timestamp without offset, or a date.
	ParamTime
	// ParamDate is a date as YYYY-MM-DD or YYYY/MM/DD.
	ParamDate
)

func (t ParamType) String() string {
	switch t {
	case ParamString:
		return "string"
	case ParamInt:
		return "integer"
	case ParamBool:
		return "boolean"
	case ParamStringList:
		return "string list"
	case ParamGrid:
		return "grid"
	case ParamTime:
		return "time"
	case ParamDate:
		return "date"
	}
	return fmt.Sprintf("ParamType(%d)", int(t))
}

// Param declares one tool argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	// Default is used when the argument is absent. It must already have
	// the coerced Go type (string, int, bool, []string).
	Default any
	// Min is the smallest accepted value of a ParamInt when positive.
	Min int
	// NonNegative rejects negative values of a ParamInt.
	NonNegative bool
}

// Handler performs the remote operation of a tool. client is the value
// returned by the ClientFactory for the tool's surface, nil for tools
// without a surface. The returned payload is rendered as JSON.
type Handler func(ctx context.Context, args Args, client any) (any, error)

// Tool is a named operation exposed to MCP clients.
type Tool struct {
	Name        string
	Description string

	// Surface is the API the tool talks to. Tools without a surface need
	// no credential.
	Surface google.Surface
	// Scopes overrides the scopes required for Surface.
	Scopes google.ScopeSet

	// Service and Operation label the Google API metrics and spans.
	Service   string
	Operation string

	ReadOnly    bool
	Destructive bool
	// Idempotent marks tools whose repeated calls have no further effect.
	Idempotent bool

	Params  []Param
	Handler Handler
}

// RequiredScopes returns the scopes a grant must cover to run the tool.
func (t Tool) RequiredScopes() google.ScopeSet {
	if len(t.Scopes) > 0 {
		return t.Scopes
	}
	if t.Surface == "" {
		return nil
	}
	return google.ScopesFor(t.Surface)
}

func (t Tool) validate() error {
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %s has no handler", t.Name)
	}
	seen := make(map[string]bool, len(t.Params))
	for _, p := range t.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %s has a parameter without name", t.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %s declares parameter %s twice", t.Name, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Bind adapts a handler taking a concrete client type. The dispatcher
// passes the client as any; a client of another type is an error.
func Bind[C any](fn func(ctx context.Context, args Args, client C) (any, error)) Handler {
	return func(ctx context.Context, args Args, client any) (any, error) {
		c, ok := client.(C)
		if !ok {
			var want C
			return nil, fmt.Errorf("tool expects client %T, got %T", want, client)
		}
		return fn(ctx, args, c)
	}
}

// MaxResults declares the usual max_results parameter.
func MaxResults(def int) Param {
	return Param{
		Name:        "max_results",
		Type:        ParamInt,
		Description: fmt.Sprintf("Maximum number of results to return (default: %d)", def),
		Default:     def,
		Min:         1,
	}
}
