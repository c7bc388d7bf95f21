package ports

import (
	"context"

	"github.com/itamhq/itam-api/internal/core/domain"
)

// A nil actor in the methods below means an anonymous caller.

// AssetService defines use-case operations for assets.
type AssetService interface {
	Get(ctx context.Context, actor *domain.Actor, id int64) (*domain.Asset, error)
	List(ctx context.Context, actor *domain.Actor, page Page) ([]*domain.Asset, error)
	Create(ctx context.Context, actor *domain.Actor, in domain.NewAsset) (*domain.Asset, error)
	Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.AssetPatch) (*domain.Asset, error)
	Delete(ctx context.Context, actor *domain.Actor, id int64) error
}

// UserService defines use-case operations for users.
type UserService interface {
	Get(ctx context.Context, actor *domain.Actor, id int64) (*domain.User, error)
	List(ctx context.Context, actor *domain.Actor, page Page) ([]*domain.User, error)
	Create(ctx context.Context, actor *domain.Actor, in domain.NewUser) (*domain.User, error)
	Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.Actor, id int64) error
}

// TicketService defines use-case operations for tickets.
type TicketService interface {
	Get(ctx context.Context, actor *domain.Actor, id int64) (*domain.Ticket, error)
	// List returns the tickets visible to actor: all for admins, owned otherwise.
	List(ctx context.Context, actor *domain.Actor, page Page) ([]*domain.Ticket, error)
	Create(ctx context.Context, actor *domain.Actor, in domain.NewTicket) (*domain.Ticket, error)
	Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.TicketPatch) (*domain.Ticket, error)
	Delete(ctx context.Context, actor *domain.Actor, id int64) error
}
