package service

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/ports"
)

// Credentials is the credential store: username lookup plus bcrypt hashing
// and verification. Plaintext passwords never leave these methods.
type Credentials struct {
	users ports.UserRepository
	cost  int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewCredentials wraps the user repository. A cost outside bcrypt's range
// falls back to bcrypt.DefaultCost.
func NewCredentials(users ports.UserRepository, cost int) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Credentials{users: users, cost: cost}
}

func (c *Credentials) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return c.users.FindByUsername(ctx, username)
}

func (c *Credentials) HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (c *Credentials) VerifyPassword(u *domain.User, plaintext string) bool {
	if u == nil || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

// burn spends the same bcrypt work as a real verification so that unknown
// usernames take as long to reject as wrong passwords.
func (c *Credentials) burn(plaintext string) {
	c.dummyOnce.Do(func() {
		c.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("itam-dummy-password"), c.cost)
	})
	_ = bcrypt.CompareHashAndPassword(c.dummyHash, []byte(plaintext))
}
