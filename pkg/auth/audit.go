package auth

import (
	"context"
	"time"

	"github.com/setara/authcore/pkg/contextkeys"
	"github.com/setara/authcore/pkg/observability"
)

// Audit actions
const (
	ActionLogin             = "auth.login"
	ActionLogout            = "auth.logout"
	ActionTokenRejected     = "auth.token_rejected"
	ActionAccessDenied      = "auth.access_denied"
	ActionRateLimitExceeded = "ratelimit.exceeded"
)

// Audit statuses
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
	AuditDenied  = "denied"
)

// AuditEvent is one security-relevant occurrence
type AuditEvent struct {
	Action    string
	Status    string
	AccountID string
	IPAddress string
	UserAgent string
	Reason    string
	Timestamp time.Time
}

// AuditLogger writes security events as structured log entries on a
// dedicated "audit" channel.
type AuditLogger struct {
	logger *observability.Logger
}

// NewAuditLogger creates an audit logger. A nil logger discards events.
func NewAuditLogger(logger *observability.Logger) *AuditLogger {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &AuditLogger{logger: logger.WithField("channel", "audit")}
}

// Log records event. Missing timestamps are filled in.
func (al *AuditLogger) Log(ctx context.Context, event AuditEvent) {
	if al == nil || event.Action == "" {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.IPAddress == "" {
		event.IPAddress = contextkeys.GetClientAddress(ctx)
	}

	fields := map[string]interface{}{
		"action":    event.Action,
		"status":    event.Status,
		"timestamp": event.Timestamp.Format(time.RFC3339Nano),
	}
	if event.AccountID != "" {
		fields["account_id"] = event.AccountID
	}
	if event.IPAddress != "" {
		fields["ip_address"] = event.IPAddress
	}
	if event.UserAgent != "" {
		fields["user_agent"] = event.UserAgent
	}
	if event.Reason != "" {
		fields["reason"] = event.Reason
	}
	if requestID := contextkeys.GetRequestID(ctx); requestID != "" {
		fields["request_id"] = requestID
	}

	entry := al.logger.WithFields(fields)
	if event.Status == AuditSuccess {
		entry.Info("audit event")
		return
	}
	entry.Warn("audit event")
}
