// Package server provides the runtime around the tool dispatcher: the
// ServerContext that builds and caches Google API clients, the metrics
// server and the health endpoints.
//
// # Client factory
//
// ServerContext.ClientFor returns the client of one surface bound to the
// access token of a grant. Clients never refresh tokens themselves; the
// credential lifecycle belongs to the Authorizer. A client is reused as
// long as the access token is unchanged.
//
// # Metrics and health
//
// MetricsServer exposes /metrics from the instrumentation provider's
// Prometheus registry together with /healthz and /readyz on a dedicated
// address, separate from the MCP transport.
package server
