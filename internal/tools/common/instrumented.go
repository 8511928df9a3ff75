package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/gworkspace-mcp/internal/instrumentation"
	"github.com/teemow/gworkspace-mcp/internal/logging"
	"github.com/teemow/gworkspace-mcp/internal/toolerr"
)

// unknownToolLabel replaces unregistered tool names in metric labels.
const unknownToolLabel = "unknown"

// Dispatch executes one invocation and returns its result. It records the
// invocation span, the tool metrics and one audit record, each carrying a
// fresh invocation id.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw map[string]any) Result {
	id := uuid.NewString()
	ctx, span := instrumentation.StartToolSpan(ctx, name,
		attribute.String(instrumentation.SpanAttrInvocationID, id))
	defer span.End()

	invocation := instrumentation.NewToolInvocation(id, name).
		WithArguments(raw).
		WithSpanContext(ctx)
	logger := logging.WithTool(d.logger, name).With(logging.InvocationID(id))
	ctx = logging.NewContext(ctx, logger)

	label := name
	var payload any
	var err error

	tool, ok := d.Lookup(name)
	if !ok {
		label = unknownToolLabel
		err = toolerr.UnknownTool(name)
	} else {
		if tool.Surface != "" {
			invocation.WithSurface(string(tool.Surface))
			span.SetAttributes(attribute.String(instrumentation.SpanAttrSurface, string(tool.Surface)))
		}
		logger.Debug("tool invoked", logging.Surface(string(tool.Surface)))
		payload, err = d.run(ctx, tool, raw)
	}

	var result Result
	if err != nil {
		te := toolerr.Classify(err)
		invocation.CompleteWithError(string(te.Kind), string(te.Category), te.Message)
		span.SetAttributes(attribute.String(instrumentation.SpanAttrErrorKind, string(te.Kind)))
		instrumentation.SetSpanError(span, te)
		d.metrics.RecordToolError(ctx, label, string(te.Kind), string(te.Category))
		logger.Debug("tool failed",
			slog.String(logging.KeyErrorKind, string(te.Kind)),
			slog.String(logging.KeyCategory, string(te.Category)),
			logging.Err(te))
		result = Result{Err: te}
	} else {
		invocation.CompleteSuccess()
		instrumentation.SetSpanSuccess(span)
		result = Result{Payload: payload}
	}

	logger.Debug("tool completed", logging.Status(invocation.Status()), logging.Duration(invocation.Duration))
	d.metrics.RecordToolInvocation(ctx, label, invocation.Status(), invocation.Duration)
	d.audit.LogToolInvocation(ctx, invocation)
	return result
}

// callGoogleAPI runs a handler that performs one Google API operation
// inside a client span and records the operation metrics.
func (d *Dispatcher) callGoogleAPI(ctx context.Context, tool Tool, args Args, client any) (any, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, tool.Service, tool.Operation)
	defer span.End()

	start := time.Now()
	payload, err := tool.Handler(ctx, args, client)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	d.metrics.RecordGoogleAPIOperation(ctx, tool.Service, tool.Operation, status, duration)
	logging.FromContext(ctx).Debug("google api call",
		logging.Service(tool.Service),
		logging.Operation(tool.Operation),
		logging.Status(status),
		logging.Duration(duration),
		logging.Err(err))

	return payload, err
}
