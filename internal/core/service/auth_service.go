package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/ports"
)

const TokenKindBearer = "bearer"

// AuthService implements login and per-request authentication.
type AuthService struct {
	creds    *Credentials
	tokens   *TokenService
	throttle ports.LoginThrottle
	tokenTTL time.Duration
	log      zerolog.Logger
}

// NewAuthService wires the login flow. throttle may be nil.
func NewAuthService(creds *Credentials, tokens *TokenService, throttle ports.LoginThrottle, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{creds: creds, tokens: tokens, throttle: throttle, tokenTTL: tokenTTL, log: log}
}

// Login exchanges a username and password for a bearer token. Unknown users,
// wrong passwords and disabled accounts all yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.creds.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		s.creds.burn(password)
		s.failed(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.creds.VerifyPassword(user, password) || !user.IsActive {
		s.failed(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	token, err := s.tokens.Issue(user.Username, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("login succeeded")

	return &ports.LoginResult{
		AccessToken: token,
		TokenType:   TokenKindBearer,
		ExpiresIn:   s.tokenTTL,
	}, nil
}

func (s *AuthService) failed(ctx context.Context, username string) {
	s.log.Info().Str("username", username).Msg("login failed")
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Failure(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

// Authenticate resolves a raw bearer token to the actor making the request.
// The subject is looked up on every call so deleted or disabled accounts are
// rejected even while their token is unexpired.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*domain.Actor, error) {
	if rawToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	username, err := s.tokens.Validate(rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	user, err := s.creds.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account disabled", domain.ErrUnauthenticated)
	}

	return domain.ActorFromUser(user), nil
}
