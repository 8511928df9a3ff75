package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug record written with debug disabled")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("info record missing")
	}

	buf.Reset()
	New(&buf, true).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug record missing with debug enabled")
	}
}

func TestWithTool(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).With(Operation("sheets.append")).Info("done")
	WithTool(New(&buf, false), "append_sheet").Info("done", Service("sheets"))

	out := buf.String()
	for _, want := range []string{"operation=sheets.append", "tool=append_sheet", "service=sheets"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestContextLogger(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Error("FromContext without a logger should return slog.Default()")
	}

	var buf bytes.Buffer
	ctx := NewContext(context.Background(), WithTool(New(&buf, false), "send_email"))
	FromContext(ctx).Info("sent", Recipient("alice@example.com"))

	out := buf.String()
	if !strings.Contains(out, "tool=send_email") || !strings.Contains(out, "recipient=user:") {
		t.Errorf("output %q missing tool or recipient", out)
	}
	if strings.Contains(out, "alice") {
		t.Errorf("output %q leaked the address", out)
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		name    string
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{"operation", Operation("drive.delete"), KeyOperation, "drive.delete"},
		{"service", Service("gmail"), KeyService, "gmail"},
		{"surface", Surface("files"), KeySurface, "files"},
		{"tool", Tool("delete_file"), KeyTool, "delete_file"},
		{"status", Status(StatusSuccess), KeyStatus, "success"},
		{"invocation", InvocationID("abc"), KeyInvocationID, "abc"},
		{"duration", Duration(1500 * time.Millisecond), KeyDuration, "1.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantVal {
				t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.wantVal)
			}
		})
	}
}

func TestScopesAttr(t *testing.T) {
	attr := Scopes([]string{
		"https://www.googleapis.com/auth/drive",
		"https://www.googleapis.com/auth/spreadsheets",
	})
	if attr.Value.String() != "drive,spreadsheets" {
		t.Errorf("Scopes value = %q", attr.Value.String())
	}
}

func TestErrAttr(t *testing.T) {
	attr := Err(errors.New("test error"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "test error" {
		t.Errorf("Err value = %q", attr.Value.String())
	}

	nilAttr := Err(nil)
	if nilAttr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty", nilAttr.Key)
	}
}

func TestAnonymizeEmail(t *testing.T) {
	if AnonymizeEmail("") != "" {
		t.Error("AnonymizeEmail(\"\") should be empty")
	}

	a := AnonymizeEmail("alice@example.com")
	if !strings.HasPrefix(a, "user:") || strings.Contains(a, "alice") {
		t.Errorf("AnonymizeEmail leaked or malformed: %q", a)
	}
	if a != AnonymizeEmail(" Alice@Example.com ") {
		t.Error("AnonymizeEmail should normalize case and whitespace")
	}
	if a == AnonymizeEmail("bob@example.com") {
		t.Error("different emails produced the same hash")
	}

	if Recipient("alice@example.com").Value.String() != a {
		t.Error("Recipient should use AnonymizeEmail")
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("SanitizeToken(\"\") = %q", got)
	}
	if got := SanitizeToken("ya29.secret"); got != "[token:11 chars]" {
		t.Errorf("SanitizeToken = %q", got)
	}
}
