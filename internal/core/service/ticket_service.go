package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/policy"
	"github.com/itamhq/itam-api/internal/core/ports"
)

type TicketService struct {
	tickets ports.TicketRepository
	assets  ports.AssetRepository
	users   ports.UserRepository
	audit   ports.AuditSink
	logger  zerolog.Logger
	now     func() time.Time
}

func NewTicketService(
	tickets ports.TicketRepository,
	assets ports.AssetRepository,
	users ports.UserRepository,
	sink ports.AuditSink,
	logger zerolog.Logger,
) *TicketService {
	return &TicketService{
		tickets: tickets,
		assets:  assets,
		users:   users,
		audit:   sink,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns a ticket if actor is an admin or owns it. Existence is checked
// before ownership, so a missing ticket is reported as not found.
func (s *TicketService) Get(ctx context.Context, actor *domain.Actor, id int64) (*domain.Ticket, error) {
	return s.load(ctx, actor, policy.Read, id)
}

// List narrows the listing to what actor may see rather than rejecting it.
func (s *TicketService) List(ctx context.Context, actor *domain.Actor, page ports.Page) ([]*domain.Ticket, error) {
	scope, err := policy.ScopeFor(actor)
	if err != nil {
		return nil, err
	}
	page = page.Normalize()
	if scope.All() {
		return s.tickets.List(ctx, page)
	}
	return s.tickets.ListByOwner(ctx, scope.OwnerID(), page)
}

// Create opens a ticket. The owner defaults to actor; referenced asset and
// user must exist before anything is written.
func (s *TicketService) Create(ctx context.Context, actor *domain.Actor, in domain.NewTicket) (*domain.Ticket, error) {
	if err := policy.Check(actor, policy.Ticket, policy.Create, policy.Target{}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title is required")
	}
	if err := checkLengths(
		rule("title", in.Title, maxTitleLen),
		rule("status", in.Status, maxStatusLen),
		rule("priority", in.Priority, maxPriorityLen),
	); err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = domain.TicketStatusOpen
	}
	if in.Priority == "" {
		in.Priority = domain.TicketPriorityMedium
	}
	if in.CreatedAt == nil {
		today := s.today()
		in.CreatedAt = &today
	}
	if in.UserID == nil {
		owner := actor.ID
		in.UserID = &owner
	}

	if err := s.checkReferences(ctx, in.AssetID, in.UserID); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Create(ctx, in)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create ticket")
		return nil, err
	}

	s.logger.Info().Int64("ticket_id", ticket.ID).Int64("actor_id", actor.ID).Msg("ticket created")
	audit(s.audit, actor, policy.Ticket, ticket.ID, domain.AuditCreate)
	return ticket, nil
}

func (s *TicketService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.TicketPatch) (*domain.Ticket, error) {
	if _, err := s.load(ctx, actor, policy.Update, id); err != nil {
		return nil, err
	}
	if patch.Title.Set && (!patch.Title.Valid || strings.TrimSpace(patch.Title.Value) == "") {
		return nil, invalid("title cannot be empty")
	}
	if patch.Status.Set && (!patch.Status.Valid || patch.Status.Value == "") {
		return nil, invalid("status cannot be empty")
	}
	if patch.Priority.Set && (!patch.Priority.Valid || patch.Priority.Value == "") {
		return nil, invalid("priority cannot be empty")
	}
	if err := checkLengths(
		optRule("title", patch.Title, maxTitleLen),
		optRule("status", patch.Status, maxStatusLen),
		optRule("priority", patch.Priority, maxPriorityLen),
	); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, patch.AssetID.Ptr(), patch.UserID.Ptr()); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	audit(s.audit, actor, policy.Ticket, ticket.ID, domain.AuditUpdate)
	return ticket, nil
}

func (s *TicketService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	if _, err := s.load(ctx, actor, policy.Delete, id); err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("ticket_id", id).Int64("actor_id", actor.ID).Msg("ticket deleted")
	audit(s.audit, actor, policy.Ticket, id, domain.AuditDelete)
	return nil
}

// load fetches a ticket and authorizes action on it.
func (s *TicketService) load(ctx context.Context, actor *domain.Actor, action policy.Action, id int64) (*domain.Ticket, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	ticket, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(actor, policy.Ticket, action, policy.Target{ID: id, OwnerID: ticket.UserID}); err != nil {
		return nil, err
	}
	return ticket, nil
}

// checkReferences verifies that linked records exist. Nil ids are skipped.
func (s *TicketService) checkReferences(ctx context.Context, assetID, userID *int64) error {
	if assetID != nil {
		if _, err := s.assets.Get(ctx, *assetID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: linked asset %d does not exist", domain.ErrReferentialIntegrity, *assetID)
			}
			return err
		}
	}
	if userID != nil {
		if _, err := s.users.Get(ctx, *userID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: linked user %d does not exist", domain.ErrReferentialIntegrity, *userID)
			}
			return err
		}
	}
	return nil
}

func (s *TicketService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
