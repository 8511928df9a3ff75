package resources

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

type fakeStatus struct {
	grant *google.Grant
	err   error
}

func (f fakeStatus) Status(context.Context) (*google.Grant, error) {
	return f.grant, f.err
}

func testTools() []common.Tool {
	noop := func(context.Context, common.Args, any) (any, error) { return nil, nil }
	return []common.Tool{
		common.PingTool(),
		{Name: "search_emails", Surface: google.SurfaceMail, Scopes: google.NewScopeSet(google.ScopeGmailReadonly), ReadOnly: true, Handler: noop},
		{Name: "list_events", Surface: google.SurfaceCalendar, ReadOnly: true, Handler: noop},
	}
}

func TestReadAuthStatus_NoCredential(t *testing.T) {
	st, err := ReadAuthStatus(context.Background(), fakeStatus{}, testTools())
	require.NoError(t, err)

	assert.False(t, st.Authorized)
	assert.Empty(t, st.Scopes)
	assert.ElementsMatch(t, []string{google.ScopeGmailReadonly, google.ScopeCalendar}, st.MissingScopes)
}

func TestReadAuthStatus_PartialGrant(t *testing.T) {
	expiry := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	st, err := ReadAuthStatus(context.Background(), fakeStatus{grant: &google.Grant{
		AccessToken:  "secret-token",
		RefreshToken: "secret-refresh",
		Expiry:       expiry,
		Scopes:       google.NewScopeSet(google.ScopeGmailReadonly),
		ClientID:     "client-1",
	}}, testTools())
	require.NoError(t, err)

	assert.True(t, st.Authorized)
	assert.True(t, st.Refreshable)
	assert.Equal(t, "client-1", st.ClientID)
	assert.Equal(t, expiry, st.Expiry)
	assert.Equal(t, []string{google.ScopeGmailReadonly}, st.Scopes)
	assert.Equal(t, []string{google.ScopeCalendar}, st.MissingScopes)

	raw, err := json.Marshal(st)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
}

func TestReadAuthStatus_StoreError(t *testing.T) {
	_, err := ReadAuthStatus(context.Background(), fakeStatus{err: errors.New("disk gone")}, testTools())
	assert.ErrorContains(t, err, "disk gone")
}

func TestScopesOf(t *testing.T) {
	scopes := ScopesOf(testTools())

	assert.NotContains(t, scopes, "ping")
	assert.Equal(t, []string{google.ScopeGmailReadonly}, scopes["search_emails"])
	assert.Equal(t, []string(google.ScopesFor(google.SurfaceCalendar)), scopes["list_events"])
}

func TestRegister_ReadResource(t *testing.T) {
	d := common.NewDispatcher(common.DispatcherConfig{})
	require.NoError(t, d.Register(testTools()...))

	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithResourceCapabilities(false, false))
	Register(s, fakeStatus{}, d)

	for _, uri := range []string{AuthStatusURI, ToolScopesURI} {
		t.Run(uri, func(t *testing.T) {
			req := map[string]any{
				"jsonrpc": "2.0",
				"id":      1,
				"method":  "resources/read",
				"params":  map[string]any{"uri": uri},
			}
			msg, err := json.Marshal(req)
			require.NoError(t, err)

			resp := s.HandleMessage(context.Background(), msg)
			raw, err := json.Marshal(resp)
			require.NoError(t, err)
			assert.Contains(t, string(raw), uri)
			assert.Contains(t, string(raw), "application/json")
			assert.NotContains(t, string(raw), `"error"`)
		})
	}
}
