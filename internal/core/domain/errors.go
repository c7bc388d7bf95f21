package domain

import (
	"errors"
	"fmt"
)

// Authentication and authorization errors.
var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")

	// ErrRoleChangeDenied and ErrSelfDeletionDenied are both ErrForbidden.
	ErrRoleChangeDenied   = fmt.Errorf("%w: only administrators can change roles", ErrForbidden)
	ErrSelfDeletionDenied = fmt.Errorf("%w: you cannot delete your own account", ErrForbidden)
)

// Token errors returned by the token service.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
)

// Data errors.
var (
	ErrNotFound             = errors.New("not found")
	ErrAssetNotFound        = fmt.Errorf("asset %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrTicketNotFound       = fmt.Errorf("ticket %w", ErrNotFound)
	ErrConflict             = errors.New("already exists")
	ErrReferentialIntegrity = errors.New("referenced record does not exist")
	ErrInvalidInput         = errors.New("invalid input")
)
