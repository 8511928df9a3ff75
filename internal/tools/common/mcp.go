package common

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterMCP adds every tool of d to s. Each call goes through
// Dispatcher.Dispatch.
func RegisterMCP(s *mcpserver.MCPServer, d *Dispatcher) {
	for _, t := range d.Tools() {
		name := t.Name
		s.AddTool(MCPTool(t), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return MCPResult(d.Dispatch(ctx, name, request.GetArguments())), nil
		})
	}
}

// MCPTool converts a Tool into its MCP declaration.
func MCPTool(t Tool) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(t.Description),
		mcp.WithReadOnlyHintAnnotation(t.ReadOnly),
		mcp.WithDestructiveHintAnnotation(t.Destructive),
		mcp.WithIdempotentHintAnnotation(t.ReadOnly || t.Idempotent),
		mcp.WithOpenWorldHintAnnotation(t.Surface != ""),
	}
	for _, p := range t.Params {
		opts = append(opts, mcpParam(p))
	}
	return mcp.NewTool(t.Name, opts...)
}

func mcpParam(p Param) mcp.ToolOption {
	props := []mcp.PropertyOption{mcp.Description(p.Description)}
	if p.Required {
		props = append(props, mcp.Required())
	}

	switch p.Type {
	case ParamInt:
		if def, ok := p.Default.(int); ok {
			props = append(props, mcp.DefaultNumber(float64(def)))
		}
		switch {
		case p.Min > 0:
			props = append(props, mcp.Min(float64(p.Min)))
		case p.NonNegative:
			props = append(props, mcp.Min(0))
		}
		return mcp.WithNumber(p.Name, props...)
	case ParamBool:
		if def, ok := p.Default.(bool); ok {
			props = append(props, mcp.DefaultBool(def))
		}
		return mcp.WithBoolean(p.Name, props...)
	case ParamStringList:
		props = append(props, mcp.WithStringItems())
		return mcp.WithArray(p.Name, props...)
	case ParamGrid:
		props = append(props, mcp.Items(map[string]any{"type": "array"}))
		return mcp.WithArray(p.Name, props...)
	default:
		if def, ok := p.Default.(string); ok {
			props = append(props, mcp.DefaultString(def))
		}
		return mcp.WithString(p.Name, props...)
	}
}

// MCPResult converts a Result into an MCP tool result. Failures become
// error results whose text is the JSON error envelope.
func MCPResult(r Result) *mcp.CallToolResult {
	if r.IsError() {
		body, err := json.Marshal(r.Envelope())
		if err != nil {
			return mcp.NewToolResultError(r.Err.Error())
		}
		return mcp.NewToolResultError(string(body))
	}
	return mcp.NewToolResultStructuredOnly(r.Payload)
}
