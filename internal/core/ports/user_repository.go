package ports

import (
	"context"

	"github.com/itamhq/itam-api/internal/core/domain"
)

// UserRepository is the persistence gateway for users and their credentials.
// Get, FindByUsername, Update and Delete return domain.ErrUserNotFound for a
// missing record; unique violations surface as domain.ErrConflict.
type UserRepository interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, page Page) ([]*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Update(ctx context.Context, id int64, changes domain.UserChanges) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
