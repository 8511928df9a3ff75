package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gworkspace-mcp/internal/config"
	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

func toolNames(tools []common.Tool) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}

func TestAllTools_UniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range toolNames(allTools()) {
		assert.False(t, seen[name], "duplicate tool %s", name)
		seen[name] = true
	}
	for _, name := range []string{
		"ping",
		"search_emails", "send_email", "list_recent_emails",
		"list_events", "create_event", "update_event", "delete_event",
		"list_docs", "create_doc", "read_doc", "update_doc", "delete_doc",
		"create_sheet", "read_sheet", "write_sheet", "append_sheet", "list_sheets", "delete_sheet_tab",
		"list_files", "search_files", "upload_file", "download_file", "delete_file",
	} {
		assert.True(t, seen[name], "missing tool %s", name)
	}
}

func TestSelectTools_ReadOnly(t *testing.T) {
	all := allTools()
	assert.Equal(t, all, selectTools(all, false))

	names := toolNames(selectTools(all, true))
	assert.Contains(t, names, "ping")
	assert.Contains(t, names, "search_emails")
	assert.Contains(t, names, "read_sheet")
	assert.Contains(t, names, "list_files")
	assert.NotContains(t, names, "send_email")
	assert.NotContains(t, names, "delete_event")
	assert.NotContains(t, names, "write_sheet")
	assert.NotContains(t, names, "upload_file")
}

func TestRequiredScopes(t *testing.T) {
	scopes := requiredScopes(allTools())
	for _, s := range []string{
		google.ScopeGmailReadonly,
		google.ScopeGmailSend,
		google.ScopeCalendar,
		google.ScopeDocuments,
		google.ScopeSpreadsheets,
		google.ScopeDrive,
	} {
		assert.True(t, scopes.Has(s), "missing %s", s)
	}

	assert.Empty(t, requiredScopes([]common.Tool{common.PingTool()}))
}

func TestGenerateToolsMarkdown(t *testing.T) {
	md := generateToolsMarkdown(allTools())

	assert.Contains(t, md, "# MCP Tools Reference")
	assert.Contains(t, md, "- [Gmail](#gmail)")
	assert.Contains(t, md, "- [Google Sheets](#google-sheets)")
	assert.Contains(t, md, "## General")
	assert.Contains(t, md, "### send_email")
	assert.Contains(t, md, "- `to` (array, required): Recipient addresses")
	assert.Contains(t, md, "- `"+google.ScopeGmailSend+"`")
	assert.Contains(t, md, "_destructive, idempotent_")
	assert.Less(t, bytes.Index([]byte(md), []byte("## Gmail")), bytes.Index([]byte(md), []byte("## Google Drive")))
}

func TestOpenStore(t *testing.T) {
	logger := newLogger(config.Config{})
	home := t.TempDir()

	for _, backend := range []string{config.StoreFile, config.StoreSQLite, config.StoreMemory} {
		t.Run(backend, func(t *testing.T) {
			store, closeStore, err := openStore(config.Config{Home: home, CredentialStore: backend}, logger)
			require.NoError(t, err)
			defer closeStore()

			g, err := store.Load(context.Background())
			require.NoError(t, err)
			assert.Nil(t, g)
		})
	}

	_, _, err := openStore(config.Config{Home: home, CredentialStore: "redis"}, logger)
	assert.Error(t, err)
}

func TestNewAuthorizer_RequiresClientIdentity(t *testing.T) {
	cfg := config.Config{CredentialStore: config.StoreMemory}
	_, err := newAuthorizer(cfg, google.NewMemoryStore(), newLogger(cfg), authorizerOptions{})
	assert.Error(t, err)

	cfg.ClientID = "client.apps.googleusercontent.com"
	cfg.ClientSecret = "secret"
	a, err := newAuthorizer(cfg, google.NewMemoryStore(), newLogger(cfg), authorizerOptions{})
	require.NoError(t, err)
	assert.False(t, a.Interactive())
}

func TestStoreCheck(t *testing.T) {
	cfg := config.Config{
		CredentialStore: config.StoreMemory,
		ClientID:        "client.apps.googleusercontent.com",
		ClientSecret:    "secret",
	}
	a, err := newAuthorizer(cfg, google.NewMemoryStore(), newLogger(cfg), authorizerOptions{})
	require.NoError(t, err)
	assert.NoError(t, storeCheck(a)(context.Background()))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "never", formatExpiry(time.Time{}))
	assert.NotEqual(t, "never", formatExpiry(time.Now()))
}

// setupHome points the configuration at a fresh installation root.
func setupHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("GWORKSPACE_MCP_HOME", home)
	t.Setenv("GWORKSPACE_MCP_CREDENTIAL_STORE", config.StoreFile)
	flags = globalFlags{}
	return home
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newAuthCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAuthInit(t *testing.T) {
	home := setupHome(t)

	out, err := runCmd(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, home)

	info, err := os.Stat(home)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.FileExists(t, filepath.Join(home, ".gitignore"))
}

func TestAuthStatus(t *testing.T) {
	home := setupHome(t)

	out, err := runCmd(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No credential stored")

	require.NoError(t, config.InitHome(home))
	store := google.NewFileStore(filepath.Join(home, "credentials.json"), newLogger(config.Config{}))
	require.NoError(t, store.Save(context.Background(), &google.Grant{
		AccessToken:  "at",
		RefreshToken: "rt",
		Scopes:       google.NewScopeSet(google.ScopeGmailReadonly),
		ClientID:     "client-1",
	}))

	out, err = runCmd(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Client ID:   client-1")
	assert.Contains(t, out, "Expires:     never")
	assert.Contains(t, out, "Refreshable: true")
	assert.Contains(t, out, google.ScopeGmailReadonly)
	assert.Contains(t, out, "Missing scopes")
	assert.Contains(t, out, google.ScopeDrive)
}

func TestAuthClear(t *testing.T) {
	home := setupHome(t)
	require.NoError(t, config.InitHome(home))
	path := filepath.Join(home, "credentials.json")
	store := google.NewFileStore(path, newLogger(config.Config{}))
	require.NoError(t, store.Save(context.Background(), &google.Grant{AccessToken: "at", ClientID: "c"}))

	out, err := runCmd(t, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Credential removed.")
	assert.NoFileExists(t, path)

	_, err = runCmd(t, "clear")
	assert.NoError(t, err)
}

func TestVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "gworkspace-mcp version "+version)
}
