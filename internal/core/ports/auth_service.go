package ports

import (
	"context"
	"time"

	"github.com/itamhq/itam-api/internal/core/domain"
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
}

// AuthService covers the login flow and per-request authentication.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Authenticate resolves a raw bearer token to an active actor.
	Authenticate(ctx context.Context, rawToken string) (*domain.Actor, error)
}

// LoginThrottle tracks failed login attempts per username.
type LoginThrottle interface {
	Blocked(ctx context.Context, username string) (bool, error)
	Failure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
