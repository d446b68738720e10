package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/you/studiosvc/domain"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	tests := []struct {
		level string
		msg   string
		attr  string
	}{
		{"DEBUG", "dbg", "a=1"},
		{"INFO", "inf", "b=2"},
		{"WARN", "wrn", "c=3"},
		{"ERROR", "err", "d=4"},
	}
	for _, tc := range tests {
		if !strings.Contains(out, "level="+tc.level) || !strings.Contains(out, "msg="+tc.msg) || !strings.Contains(out, tc.attr) {
			t.Fatalf("expected %s line %q with %s in output:\n%s", tc.level, tc.msg, tc.attr, out)
		}
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)
	log.With("request_id", "r-1").Info(context.Background(), "hello")

	if !strings.Contains(buf.String(), "request_id=r-1") {
		t.Fatalf("expected child attribute in output:\n%s", buf.String())
	}
}

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Format: "json", Output: &buf})

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level:\n%s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected JSON warn record, got:\n%s", out)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != slog.LevelDebug || ParseLevel("bogus") != slog.LevelInfo {
		t.Fatal("unexpected level mapping")
	}
}

func TestAuditLogger_LogEvent(t *testing.T) {
	log, buf := newTestLogger(t)
	audit := NewAuditLogger(log)

	ctx := domain.WithClientContext(context.Background(), &domain.ClientContext{IPAddress: "10.0.0.9", UserAgent: "curl"})
	audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, 0).
		WithEmail("admin@example.com").
		WithError(errors.New("invalid email or password")))

	out := buf.String()
	for _, want := range []string{"level=WARN", "component=audit", "event_type=USER_LOGIN_FAILED", "ip=10.0.0.9", "email=admin@example.com", "success=false"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAuditLogger_NilEvent(t *testing.T) {
	log, buf := newTestLogger(t)
	NewAuditLogger(log).LogEvent(context.Background(), nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
