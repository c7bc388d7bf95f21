package service

import (
	"time"

	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/policy"
	"github.com/itamhq/itam-api/internal/core/ports"
)

// audit hands a mutation to the sink. A nil sink disables auditing.
func audit(sink ports.AuditSink, actor *domain.Actor, entity policy.Entity, id int64, action domain.AuditAction) {
	if sink == nil {
		return
	}
	rec := domain.AuditRecord{
		Entity:   string(entity),
		EntityID: id,
		Action:   action,
		At:       time.Now().UTC(),
	}
	if actor != nil {
		actorID := actor.ID
		rec.ActorID = &actorID
		rec.ActorUsername = actor.Username
	}
	sink.Record(rec)
}

func invalid(msg string) error {
	return &inputError{msg: msg}
}

// inputError is a validation failure whose message is safe to show clients.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return domain.ErrInvalidInput.Error() + ": " + e.msg }

func (e *inputError) Unwrap() error { return domain.ErrInvalidInput }
