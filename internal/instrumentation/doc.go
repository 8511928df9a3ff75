// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for the gworkspace-mcp server.
//
// # Metrics
//
// Google API metrics:
//   - google_api_operations_total: Google API calls by service, operation and status
//   - google_api_operation_duration_seconds: Google API call durations
//
// Credential metrics:
//   - oauth_consent_total: interactive consent flows by result
//   - oauth_token_refresh_total: refresh sequences by result
//   - credential_store_operations_total: store load/save/clear by status
//
// Tool metrics:
//   - mcp_tool_invocations_total: invocations by tool and status
//   - mcp_tool_duration_seconds: invocation durations
//   - mcp_tool_errors_total: failed invocations by error kind and category
//
// With the Prometheus exporter the metrics are served from a private
// registry through Provider.MetricsHandler.
//
// # Tracing
//
// Spans are created for tool invocations (tool.<name>) and Google API calls
// (google.<service>.<operation>). Tracing is off unless TRACING_EXPORTER is
// set to otlp or stdout.
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED (default true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default 0.1)
//   - OTEL_SERVICE_NAME (default gworkspace-mcp)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_ARGUMENTS
package instrumentation
