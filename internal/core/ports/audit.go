package ports

import (
	"context"

	"github.com/itamhq/itam-api/internal/core/domain"
)

// AuditSink accepts audit records. Implementations must not block the caller
// on persistence.
type AuditSink interface {
	Record(rec domain.AuditRecord)
}

// AuditRepository persists audit records.
type AuditRepository interface {
	InsertAudit(ctx context.Context, rec domain.AuditRecord) error
}
