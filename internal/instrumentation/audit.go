package instrumentation

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

// ToolInvocation is the audit record of one tool call.
type ToolInvocation struct {
	ID        string
	Tool      string
	Surface   string
	Arguments []string // argument names, never values

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	ErrorKind string
	Category  string
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts timing a tool call.
func NewToolInvocation(id, tool string) *ToolInvocation {
	return &ToolInvocation{ID: id, Tool: tool, StartTime: time.Now()}
}

// WithSurface sets the API surface the tool talks to.
func (ti *ToolInvocation) WithSurface(surface string) *ToolInvocation {
	ti.Surface = surface
	return ti
}

// WithArguments records the sorted names of the supplied arguments.
func (ti *ToolInvocation) WithArguments(args map[string]any) *ToolInvocation {
	names := make([]string, 0, len(args))
	for k := range args {
		names = append(names, k)
	}
	slices.Sort(names)
	ti.Arguments = names
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID = GetTraceID(ctx)
	ti.SpanID = GetSpanID(ctx)
	return ti
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = true
	return ti
}

// CompleteWithError marks the invocation as failed.
func (ti *ToolInvocation) CompleteWithError(kind, category, message string) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = false
	ti.ErrorKind = kind
	ti.Category = category
	ti.Error = message
	return ti
}

// Status returns "success" or "error".
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns the attributes of the audit record.
func (ti *ToolInvocation) LogAttrs(includeArguments bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.ID),
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Surface != "" {
		attrs = append(attrs, slog.String("surface", ti.Surface))
	}
	if includeArguments && len(ti.Arguments) > 0 {
		attrs = append(attrs, slog.Any("arguments", ti.Arguments))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID), slog.String("span_id", ti.SpanID))
	}
	if ti.ErrorKind != "" {
		attrs = append(attrs, slog.String("error_kind", ti.ErrorKind))
	}
	if ti.Category != "" {
		attrs = append(attrs, slog.String("category", ti.Category))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// AuditLogger writes one structured record per tool invocation.
type AuditLogger struct {
	logger           *slog.Logger
	enabled          bool
	includeArguments bool
}

// NewAuditLogger creates an AuditLogger. A nil logger uses slog.Default().
func NewAuditLogger(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:           logger,
		enabled:          config.Enabled,
		includeArguments: config.IncludeArguments,
	}
}

// LogToolInvocation writes the audit record of ti.
func (al *AuditLogger) LogToolInvocation(ctx context.Context, ti *ToolInvocation) {
	if al == nil || !al.enabled {
		return
	}
	level := slog.LevelInfo
	msg := "tool_executed"
	if !ti.Success {
		level = slog.LevelWarn
		msg = "tool_failed"
	}
	al.logger.LogAttrs(ctx, level, msg, ti.LogAttrs(al.includeArguments)...)
}
