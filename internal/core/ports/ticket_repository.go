package ports

import (
	"context"

	"github.com/itamhq/itam-api/internal/core/domain"
)

// TicketRepository is the persistence gateway for tickets.
// Get, Update and Delete return domain.ErrTicketNotFound for a missing id.
type TicketRepository interface {
	Get(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, page Page) ([]*domain.Ticket, error)
	// ListByOwner returns only tickets whose user_id equals ownerID.
	ListByOwner(ctx context.Context, ownerID int64, page Page) ([]*domain.Ticket, error)
	Create(ctx context.Context, t domain.NewTicket) (*domain.Ticket, error)
	Update(ctx context.Context, id int64, patch domain.TicketPatch) (*domain.Ticket, error)
	Delete(ctx context.Context, id int64) error
}
