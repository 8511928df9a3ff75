package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"google.golang.org/api/googleapi"

	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/instrumentation"
	"github.com/teemow/gworkspace-mcp/internal/toolerr"
)

type fakeCredentials struct {
	calls atomic.Int32
	grant *google.Grant
	err   error
	last  google.ScopeSet
}

func (f *fakeCredentials) GetValidCredential(_ context.Context, required google.ScopeSet) (*google.Grant, error) {
	f.calls.Add(1)
	f.last = required
	return f.grant, f.err
}

type fakeClients struct {
	calls  atomic.Int32
	client any
	err    error
}

func (f *fakeClients) ClientFor(_ context.Context, _ google.Surface, _ *google.Grant) (any, error) {
	f.calls.Add(1)
	return f.client, f.err
}

type fakeMailClient struct{ name string }

func mailTool(handler Handler) Tool {
	return Tool{
		Name:      "list_things",
		Surface:   google.SurfaceMail,
		Service:   instrumentation.ServiceGmail,
		Operation: instrumentation.OperationList,
		Params:    []Param{{Name: "id", Type: ParamString, Required: true}},
		Handler:   handler,
	}
}

func newTestDispatcher(t *testing.T, creds CredentialProvider, clients ClientFactory, tools ...Tool) *Dispatcher {
	t.Helper()
	d := NewDispatcher(DispatcherConfig{Credentials: creds, Clients: clients})
	require.NoError(t, d.Register(tools...))
	return d
}

func TestDispatcher_Register(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})
	require.NoError(t, d.Register(PingTool()))

	assert.Error(t, d.Register(PingTool()), "duplicate name")
	assert.Error(t, d.Register(Tool{Name: "no_handler"}))
	assert.Error(t, d.Register(Tool{Name: "dup_param", Handler: PingTool().Handler,
		Params: []Param{{Name: "a"}, {Name: "a"}}}))

	tools := d.Tools()
	require.Len(t, tools, 1)
	assert.Equal(t, "ping", tools[0].Name)
}

func TestDispatcher_PingNeedsNoCredential(t *testing.T) {
	creds := &fakeCredentials{err: toolerr.Auth(nil, "no credential")}
	clients := &fakeClients{}
	d := newTestDispatcher(t, creds, clients, PingTool())

	res := d.Dispatch(context.Background(), "ping", nil)
	require.False(t, res.IsError())
	assert.Equal(t, map[string]string{"status": "ok", "message": "PONG"}, res.Payload)
	assert.Zero(t, creds.calls.Load())
	assert.Zero(t, clients.calls.Load())
}

func TestDispatcher_UnknownTool(t *testing.T) {
	d := newTestDispatcher(t, nil, nil)

	res := d.Dispatch(context.Background(), "make_coffee", nil)
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.KindUnknownTool, res.Err.Kind)
}

func TestDispatcher_InvalidArgumentsBeforeCredential(t *testing.T) {
	creds := &fakeCredentials{grant: &google.Grant{AccessToken: "t"}}
	clients := &fakeClients{client: &fakeMailClient{}}
	called := false
	d := newTestDispatcher(t, creds, clients, mailTool(func(context.Context, Args, any) (any, error) {
		called = true
		return nil, nil
	}))

	res := d.Dispatch(context.Background(), "list_things", map[string]any{})
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.KindInvalidArguments, res.Err.Kind)
	assert.Equal(t, "id", res.Err.Field)
	assert.False(t, called)
	assert.Zero(t, creds.calls.Load())
	assert.Zero(t, clients.calls.Load())
}

func TestDispatcher_NoCredentialIsAuthErrorWithoutClient(t *testing.T) {
	creds := &fakeCredentials{err: toolerr.Auth(nil, "no stored credential, run `gworkspace-mcp auth login`")}
	clients := &fakeClients{client: &fakeMailClient{}}
	called := false
	d := newTestDispatcher(t, creds, clients, mailTool(func(context.Context, Args, any) (any, error) {
		called = true
		return nil, nil
	}))

	res := d.Dispatch(context.Background(), "list_things", map[string]any{"id": "1"})
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.KindAuth, res.Err.Kind)
	assert.Equal(t, int32(1), creds.calls.Load())
	assert.Zero(t, clients.calls.Load())
	assert.False(t, called)
}

func TestDispatcher_PlainCredentialErrorBecomesAuthError(t *testing.T) {
	creds := &fakeCredentials{err: errors.New("boom")}
	d := newTestDispatcher(t, creds, &fakeClients{}, mailTool(func(context.Context, Args, any) (any, error) { return nil, nil }))

	res := d.Dispatch(context.Background(), "list_things", map[string]any{"id": "1"})
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.KindAuth, res.Err.Kind)
}

func TestDispatcher_StorageErrorPassesThrough(t *testing.T) {
	creds := &fakeCredentials{err: toolerr.Storage(errors.New("disk"), "read credential")}
	d := newTestDispatcher(t, creds, &fakeClients{}, mailTool(func(context.Context, Args, any) (any, error) { return nil, nil }))

	res := d.Dispatch(context.Background(), "list_things", map[string]any{"id": "1"})
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.KindStorage, res.Err.Kind)
}

func TestDispatcher_Success(t *testing.T) {
	creds := &fakeCredentials{grant: &google.Grant{AccessToken: "t"}}
	clients := &fakeClients{client: &fakeMailClient{name: "mail"}}
	d := newTestDispatcher(t, creds, clients, mailTool(Bind(func(_ context.Context, args Args, c *fakeMailClient) (any, error) {
		return map[string]string{"id": args.String("id"), "client": c.name}, nil
	})))

	res := d.Dispatch(context.Background(), "list_things", map[string]any{"id": "42"})
	require.False(t, res.IsError(), "%v", res.Err)
	assert.Equal(t, map[string]string{"id": "42", "client": "mail"}, res.Payload)
	assert.Equal(t, google.ScopesFor(google.SurfaceMail), creds.last)
}

func TestDispatcher_RemoteErrorClassified(t *testing.T) {
	creds := &fakeCredentials{grant: &google.Grant{AccessToken: "t"}}
	d := newTestDispatcher(t, creds, &fakeClients{client: &fakeMailClient{}}, mailTool(func(context.Context, Args, any) (any, error) {
		return nil, &googleapi.Error{Code: http.StatusNotFound, Message: "gone"}
	}))

	res := d.Dispatch(context.Background(), "list_things", map[string]any{"id": "1"})
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.KindRemote, res.Err.Kind)
	assert.Equal(t, toolerr.CategoryNotFound, res.Err.Category)
	assert.Equal(t, http.StatusNotFound, res.Err.Status)
}

func TestDispatcher_WrongClientType(t *testing.T) {
	creds := &fakeCredentials{grant: &google.Grant{AccessToken: "t"}}
	d := newTestDispatcher(t, creds, &fakeClients{client: "not a client"}, mailTool(Bind(func(context.Context, Args, *fakeMailClient) (any, error) {
		return nil, nil
	})))

	res := d.Dispatch(context.Background(), "list_things", map[string]any{"id": "1"})
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.CategoryOther, res.Err.Category)
}

func TestDispatcher_HandlerPanicIsRecovered(t *testing.T) {
	creds := &fakeCredentials{grant: &google.Grant{AccessToken: "t"}}
	d := NewDispatcher(DispatcherConfig{
		Credentials: creds,
		Clients:     &fakeClients{client: &fakeMailClient{}},
		Logger:      slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
	require.NoError(t, d.Register(mailTool(func(context.Context, Args, any) (any, error) {
		panic("nil map")
	})))

	var res Result
	assert.NotPanics(t, func() {
		res = d.Dispatch(context.Background(), "list_things", map[string]any{"id": "1"})
	})
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.KindRemote, res.Err.Kind)
	assert.Equal(t, toolerr.CategoryOther, res.Err.Category)
}

func TestDispatcher_RecordsMetricsAndAudit(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := instrumentation.NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	var auditBuf bytes.Buffer
	audit := instrumentation.NewAuditLogger(slog.New(slog.NewJSONHandler(&auditBuf, nil)), instrumentation.AuditLoggingConfig{Enabled: true})

	creds := &fakeCredentials{grant: &google.Grant{AccessToken: "t"}}
	d := NewDispatcher(DispatcherConfig{
		Credentials: creds,
		Clients:     &fakeClients{client: &fakeMailClient{}},
		Metrics:     metrics,
		Audit:       audit,
	})
	require.NoError(t, d.Register(PingTool(), mailTool(func(context.Context, Args, any) (any, error) {
		return nil, &googleapi.Error{Code: http.StatusForbidden}
	})))

	ctx := context.Background()
	d.Dispatch(ctx, "ping", nil)
	d.Dispatch(ctx, "list_things", map[string]any{"id": "1"})
	d.Dispatch(ctx, "nope", nil)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Equal(t, int64(1), sumCounter(rm, "mcp_tool_invocations_total", attribute.String("tool", "ping"), attribute.String("status", "success")))
	assert.Equal(t, int64(1), sumCounter(rm, "mcp_tool_invocations_total", attribute.String("tool", "list_things"), attribute.String("status", "error")))
	assert.Equal(t, int64(1), sumCounter(rm, "mcp_tool_errors_total", attribute.String("tool", "list_things"), attribute.String("category", "permission_denied")))
	assert.Equal(t, int64(1), sumCounter(rm, "mcp_tool_errors_total", attribute.String("tool", "unknown"), attribute.String("error_kind", "unknown_tool")))
	assert.Equal(t, int64(1), sumCounter(rm, "google_api_operations_total", attribute.String("service", "gmail"), attribute.String("status", "error")))

	var records []map[string]any
	dec := json.NewDecoder(&auditBuf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		records = append(records, m)
	}
	require.Len(t, records, 3)
	ids := map[any]bool{}
	for _, r := range records {
		ids[r["invocation_id"]] = true
	}
	assert.Len(t, ids, 3, "each invocation gets its own id")
}

func sumCounter(rm metricdata.ResourceMetrics, name string, want ...attribute.KeyValue) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
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
