package instrumentation

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolInvocation_Success(t *testing.T) {
	ti := NewToolInvocation("inv-1", "search_emails").
		WithSurface("mail").
		WithArguments(map[string]any{"subject": "x", "keyword": "y"})

	assert.False(t, ti.StartTime.IsZero())
	assert.Equal(t, []string{"keyword", "subject"}, ti.Arguments)

	ti.CompleteSuccess()
	assert.True(t, ti.Success)
	assert.Equal(t, StatusSuccess, ti.Status())
	assert.Empty(t, ti.ErrorKind)
}

func TestToolInvocation_Error(t *testing.T) {
	ti := NewToolInvocation("inv-2", "delete_file").CompleteWithError("remote_error", "not_found", "file gone")

	assert.False(t, ti.Success)
	assert.Equal(t, StatusError, ti.Status())
	assert.Equal(t, "remote_error", ti.ErrorKind)
	assert.Equal(t, "not_found", ti.Category)
	assert.Equal(t, "file gone", ti.Error)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	al := NewAuditLogger(logger, AuditLoggingConfig{Enabled: true})

	ok := NewToolInvocation("inv-1", "ping").CompleteSuccess()
	failed := NewToolInvocation("inv-2", "send_email").
		WithArguments(map[string]any{"to": "someone@example.com"}).
		CompleteWithError("auth_error", "", "no credential")

	al.LogToolInvocation(context.Background(), ok)
	al.LogToolInvocation(context.Background(), failed)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "tool_executed", lines[0]["msg"])
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "inv-1", lines[0]["invocation_id"])

	assert.Equal(t, "tool_failed", lines[1]["msg"])
	assert.Equal(t, "WARN", lines[1]["level"])
	assert.Equal(t, "auth_error", lines[1]["error_kind"])
	assert.NotContains(t, lines[1], "arguments")
	assert.NotContains(t, buf.String(), "someone@example.com")
}

func TestAuditLogger_IncludeArgumentsLogsNamesOnly(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)), AuditLoggingConfig{Enabled: true, IncludeArguments: true})

	ti := NewToolInvocation("inv-3", "send_email").
		WithArguments(map[string]any{"to": "someone@example.com", "subject": "hi"}).
		CompleteSuccess()
	al.LogToolInvocation(context.Background(), ti)

	out := buf.String()
	assert.Contains(t, out, `"arguments":["subject","to"]`)
	assert.NotContains(t, out, "someone@example.com")
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)), AuditLoggingConfig{Enabled: false})
	al.LogToolInvocation(context.Background(), NewToolInvocation("x", "ping").CompleteSuccess())
	assert.Zero(t, buf.Len())

	var nilLogger *AuditLogger
	assert.NotPanics(t, func() {
		nilLogger.LogToolInvocation(context.Background(), NewToolInvocation("y", "ping"))
	})
}
