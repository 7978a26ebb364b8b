package ports

import (
	"context"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

// AuditRecorder accepts audit events without ever reporting failure.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditSink is a single destination for audit events. Implementations may
// fail; callers must treat every error as discardable.
type AuditSink interface {
	Write(ctx context.Context, event domain.AuditEvent) error
}
