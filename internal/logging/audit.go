package logging

import (
	"context"

	"github.com/you/studiosvc/domain"
)

// AuditLogger writes security events as structured log records
type AuditLogger struct {
	log Logger
}

// NewAuditLogger creates an audit logger on top of log
func NewAuditLogger(log Logger) *AuditLogger {
	return &AuditLogger{log: log.With("component", "audit")}
}

var _ domain.AuditLogger = (*AuditLogger)(nil)

// LogEvent implements domain.AuditLogger
func (a *AuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	if event == nil {
		return
	}
	if cc := domain.ClientContextFrom(ctx); cc != nil && event.IPAddress == "" {
		event.WithClientContext(cc)
	}

	args := []any{
		"event_type", string(event.EventType),
		"success", event.Success,
		"timestamp", event.Timestamp,
	}
	if event.UserID != 0 {
		args = append(args, "user_id", event.UserID)
	}
	if event.Email != "" {
		args = append(args, "email", event.Email)
	}
	if event.SessionID != "" {
		args = append(args, "session_id", event.SessionID)
	}
	if event.IPAddress != "" {
		args = append(args, "ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		args = append(args, "user_agent", event.UserAgent)
	}
	if event.ErrorMsg != "" {
		args = append(args, "error", event.ErrorMsg)
	}
	for k, v := range event.Metadata {
		args = append(args, k, v)
	}

	if event.Success {
		a.log.Info(ctx, "audit", args...)
	} else {
		a.log.Warn(ctx, "audit", args...)
	}
}
