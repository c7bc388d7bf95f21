package domain

import "time"

// AuditAction names a mutation recorded in the audit trail.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// AuditRecord describes a single successful mutation.
type AuditRecord struct {
	Entity        string
	EntityID      int64
	Action        AuditAction
	ActorID       *int64 // nil for anonymous self-registration
	ActorUsername string
	At            time.Time
}
