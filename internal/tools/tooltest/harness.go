// Package tooltest runs tools end to end against a fake Google API server.
//
// A Harness wires a Dispatcher to a real server.ServerContext whose API
// endpoint is an httptest server, so a test registers the routes it
// expects on Mux and asserts on what the tool sends and returns.
package tooltest

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/server"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

// AccessToken is the token every request of a Harness carries.
const AccessToken = "test-access-token"

// Credentials hands out a fixed grant or error and counts the calls.
type Credentials struct {
	mu    sync.Mutex
	Grant *google.Grant
	Err   error
	calls int
}

func (c *Credentials) GetValidCredential(_ context.Context, _ google.ScopeSet) (*google.Grant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.Grant, c.Err
}

// Calls returns how often a credential was requested.
func (c *Credentials) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Harness is a Dispatcher backed by a fake Google API server.
type Harness struct {
	t           *testing.T
	Mux         *http.ServeMux
	Server      *httptest.Server
	Credentials *Credentials
	Dispatcher  *common.Dispatcher

	requests atomic.Int32
	logs     logBuffer
}

type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Logs returns everything the Dispatcher and the tools logged so far.
func (h *Harness) Logs() string {
	h.logs.mu.Lock()
	defer h.logs.mu.Unlock()
	return h.logs.buf.String()
}

// New registers tools on a Dispatcher whose clients talk to a fresh
// httptest server.
func New(t *testing.T, tools ...common.Tool) *Harness {
	t.Helper()

	h := &Harness{
		t:   t,
		Mux: http.NewServeMux(),
		Credentials: &Credentials{Grant: &google.Grant{
			AccessToken: AccessToken,
			TokenType:   "Bearer",
			Scopes:      google.AllScopes(),
		}},
	}
	h.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.requests.Add(1)
		assert.Equal(t, "Bearer "+AccessToken, r.Header.Get("Authorization"))
		h.Mux.ServeHTTP(w, r)
	}))
	t.Cleanup(h.Server.Close)

	sc := server.NewServerContext(context.Background(), server.Options{
		APIEndpoint: h.Server.URL + "/",
		HTTPClient:  h.Server.Client(),
	})
	t.Cleanup(func() { _ = sc.Shutdown() })

	h.Dispatcher = common.NewDispatcher(common.DispatcherConfig{
		Credentials: h.Credentials,
		Clients:     sc,
		Logger:      slog.New(slog.NewTextHandler(&h.logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	require.NoError(t, h.Dispatcher.Register(tools...))
	return h
}

// Call dispatches one invocation.
func (h *Harness) Call(name string, args map[string]any) common.Result {
	h.t.Helper()
	return h.Dispatcher.Dispatch(context.Background(), name, args)
}

// Payload dispatches one invocation, requires success and returns the
// payload decoded from its JSON rendering.
func (h *Harness) Payload(name string, args map[string]any) map[string]any {
	h.t.Helper()
	res := h.Call(name, args)
	require.False(h.t, res.IsError(), "unexpected error: %v", res.Err)

	b, err := res.JSON()
	require.NoError(h.t, err)
	var out map[string]any
	require.NoError(h.t, json.Unmarshal(b, &out))
	return out
}

// Requests returns the number of requests the fake API received.
func (h *Harness) Requests() int {
	return int(h.requests.Load())
}

// WriteJSON writes v as a JSON response.
func WriteJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

// WriteError writes a Google API error response.
func WriteError(t *testing.T, w http.ResponseWriter, status int, reason, message string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": message,
			"errors":  []map[string]string{{"reason": reason, "message": message}},
		},
	}))
}
