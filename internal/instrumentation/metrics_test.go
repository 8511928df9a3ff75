package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

// counterValue sums the data points of the named Int64 counter whose
// attributes include every pair in want.
func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string, want ...attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				match := true
				for _, kv := range want {
					v, found := dp.Attributes.Value(kv.Key)
					if !found || v.Emit() != kv.Value.Emit() {
						match = false
						break
					}
				}
				if match {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestMetrics_RecordGoogleAPIOperation(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordGoogleAPIOperation(ctx, ServiceGmail, OperationSearch, StatusSuccess, 50*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceGmail, OperationSearch, StatusSuccess, 70*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationDelete, StatusError, 10*time.Millisecond)

	assert.Equal(t, int64(2), counterValue(t, reader, "google_api_operations_total",
		attribute.String("service", ServiceGmail), attribute.String("status", StatusSuccess)))
	assert.Equal(t, int64(1), counterValue(t, reader, "google_api_operations_total",
		attribute.String("service", ServiceDrive), attribute.String("operation", OperationDelete)))
}

func TestMetrics_CredentialCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordOAuthConsent(ctx, "success")
	m.RecordOAuthTokenRefresh(ctx, "revoked")
	m.RecordOAuthTokenRefresh(ctx, "success")
	m.RecordCredentialStoreOperation(ctx, "save", StatusError)

	assert.Equal(t, int64(1), counterValue(t, reader, "oauth_consent_total", attribute.String("result", "success")))
	assert.Equal(t, int64(1), counterValue(t, reader, "oauth_token_refresh_total", attribute.String("result", "revoked")))
	assert.Equal(t, int64(2), counterValue(t, reader, "oauth_token_refresh_total"))
	assert.Equal(t, int64(1), counterValue(t, reader, "credential_store_operations_total",
		attribute.String("operation", "save"), attribute.String("status", StatusError)))
}

func TestMetrics_ToolCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordToolInvocation(ctx, "ping", StatusSuccess, time.Millisecond)
	m.RecordToolInvocation(ctx, "delete_file", StatusError, time.Millisecond)
	m.RecordToolError(ctx, "delete_file", "remote_error", "not_found")
	m.RecordToolError(ctx, "create_event", "invalid_arguments", "")

	assert.Equal(t, int64(1), counterValue(t, reader, "mcp_tool_invocations_total", attribute.String("tool", "ping")))
	assert.Equal(t, int64(1), counterValue(t, reader, "mcp_tool_errors_total",
		attribute.String("error_kind", "remote_error"), attribute.String("category", "not_found")))
	assert.Equal(t, int64(2), counterValue(t, reader, "mcp_tool_errors_total"))
}

func TestMetrics_NilAndZeroAreNoOps(t *testing.T) {
	ctx := context.Background()
	for _, m := range []*Metrics{nil, {}} {
		assert.NotPanics(t, func() {
			m.RecordGoogleAPIOperation(ctx, ServiceDocs, OperationGet, StatusSuccess, time.Second)
			m.RecordOAuthConsent(ctx, "success")
			m.RecordOAuthTokenRefresh(ctx, "failure")
			m.RecordCredentialStoreOperation(ctx, "load", StatusSuccess)
			m.RecordToolInvocation(ctx, "ping", StatusSuccess, time.Second)
			m.RecordToolError(ctx, "ping", "auth_error", "")
		})
	}
}
