package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/itamhq/itam-api/internal/core/domain"
)

func newAuthFixture(t *testing.T, throttle *stubThrottle) (*AuthService, *stubUserRepo, *TokenService) {
	t.Helper()
	repo := newStubUserRepo()
	creds := NewCredentials(repo, bcrypt.MinCost)
	tokens := NewTokenService("secret")

	hash, err := creds.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo.seed(&domain.User{ID: 1, Username: "alice", PasswordHash: hash, IsActive: true, Role: domain.RoleUser})
	repo.seed(&domain.User{ID: 2, Username: "bob", PasswordHash: hash, IsActive: true, Role: domain.RoleAdmin})
	repo.seed(&domain.User{ID: 3, Username: "carol", PasswordHash: hash, IsActive: false, Role: domain.RoleUser})

	var svc *AuthService
	if throttle != nil {
		svc = NewAuthService(creds, tokens, throttle, time.Hour, zerolog.Nop())
	} else {
		svc = NewAuthService(creds, tokens, nil, time.Hour, zerolog.Nop())
	}
	return svc, repo, tokens
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, tokens := newAuthFixture(t, nil)

	res, err := svc.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.TokenType != TokenKindBearer {
		t.Fatalf("expected token type %q, got %q", TokenKindBearer, res.TokenType)
	}
	if res.ExpiresIn != time.Hour {
		t.Fatalf("expected expires_in 1h, got %s", res.ExpiresIn)
	}

	subject, err := tokens.Validate(res.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if subject != "alice" {
		t.Fatalf("expected subject alice, got %q", subject)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "nope"},
		{"unknown user", "mallory", "s3cret"},
		{"disabled account", "carol", "s3cret"},
		{"empty password", "alice", ""},
		{"empty username", "", "s3cret"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Login(context.Background(), tc.username, tc.password)
			if err != domain.ErrInvalidCredentials {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if res != nil {
				t.Fatalf("expected no result, got %+v", res)
			}
		})
	}
}

func TestAuthService_Login_Throttle(t *testing.T) {
	throttle := newStubThrottle()
	svc, _, _ := newAuthFixture(t, throttle)

	_, _ = svc.Login(context.Background(), "alice", "nope")
	_, _ = svc.Login(context.Background(), "mallory", "nope")
	if throttle.failures["alice"] != 1 || throttle.failures["mallory"] != 1 {
		t.Fatalf("expected one failure per username, got %v", throttle.failures)
	}

	if _, err := svc.Login(context.Background(), "alice", "s3cret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if len(throttle.resets) != 1 || throttle.resets[0] != "alice" {
		t.Fatalf("expected alice's counter to be reset, got %v", throttle.resets)
	}

	throttle.blocked = true
	if _, err := svc.Login(context.Background(), "alice", "s3cret"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_ThrottleErrorDoesNotBlock(t *testing.T) {
	throttle := newStubThrottle()
	throttle.blockErr = errors.New("redis down")
	svc, _, _ := newAuthFixture(t, throttle)

	if _, err := svc.Login(context.Background(), "alice", "s3cret"); err != nil {
		t.Fatalf("expected login to succeed when the throttle is unavailable, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, repo, tokens := newAuthFixture(t, nil)

	token, err := tokens.Issue("bob", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	actor, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if actor.ID != 2 || actor.Username != "bob" || !actor.IsAdmin() {
		t.Fatalf("unexpected actor: %+v", actor)
	}

	// Deactivation takes effect on the next request, not at token expiry.
	active := false
	if _, err := repo.Update(context.Background(), 2, domain.UserChanges{IsActive: domain.Some(active)}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for disabled account, got %v", err)
	}

	if err := repo.Delete(context.Background(), 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for deleted account, got %v", err)
	}
}

func TestAuthService_Authenticate_BadTokens(t *testing.T) {
	svc, _, tokens := newAuthFixture(t, nil)

	if _, err := svc.Authenticate(context.Background(), ""); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated for empty token, got %v", err)
	}

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	if !errors.Is(err, domain.ErrUnauthenticated) || !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected unauthenticated malformed error, got %v", err)
	}

	past := time.Now().Add(-2 * time.Hour)
	tokens.now = func() time.Time { return past }
	expired, err := tokens.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tokens.now = time.Now

	_, err = svc.Authenticate(context.Background(), expired)
	if !errors.Is(err, domain.ErrUnauthenticated) || !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected unauthenticated expired error, got %v", err)
	}
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	tokens := NewTokenService("secret")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return now }

	raw, err := tokens.Issue("alice", 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		t.Fatalf("parse unverified: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("expected expiry %s, got %s", now.Add(30*time.Minute), claims.ExpiresAt.Time)
	}
	if claims.ID == "" {
		t.Fatalf("expected a token id")
	}

	subject, err := tokens.Validate(raw)
	if err != nil || subject != "alice" {
		t.Fatalf("expected alice, got %q (%v)", subject, err)
	}

	other, _ := tokens.Issue("alice", 30*time.Minute)
	if other == raw {
		t.Fatalf("expected distinct tokens for repeated issues")
	}
}

func TestTokenService_Validate_Expired(t *testing.T) {
	tokens := NewTokenService("secret")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return now }

	raw, err := tokens.Issue("alice", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tokens.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := tokens.Validate(raw); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_Validate_ExpiryBoundary(t *testing.T) {
	tokens := NewTokenService("secret")
	issued := time.Date(2024, 5, 1, 12, 0, 0, 500_000_000, time.UTC)
	tokens.now = func() time.Time { return issued }

	raw, err := tokens.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	exp := time.Date(2024, 5, 1, 13, 0, 1, 0, time.UTC)

	cases := []struct {
		name    string
		at      time.Time
		expired bool
	}{
		{"just before ttl", issued.Add(59*time.Minute + 59*time.Second + 600*time.Millisecond), false},
		{"at ttl", issued.Add(time.Hour), false},
		{"at expires_at", exp, false},
		{"after expires_at", exp.Add(time.Second), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens.now = func() time.Time { return tc.at }
			_, err := tokens.Validate(raw)
			if tc.expired && err != domain.ErrTokenExpired {
				t.Fatalf("expected ErrTokenExpired, got %v", err)
			}
			if !tc.expired && err != nil {
				t.Fatalf("expected valid token, got %v", err)
			}
		})
	}
}

func TestTokenService_Validate_Malformed(t *testing.T) {
	tokens := NewTokenService("secret")
	now := time.Now()

	foreign := NewTokenService("other-secret")
	wrongKey, _ := foreign.Issue("alice", time.Hour)

	// A foreign token is malformed even once expired: the signature is checked first.
	foreign.now = func() time.Time { return now.Add(-2 * time.Hour) }
	wrongKeyExpired, _ := foreign.Issue("alice", time.Hour)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte("secret"))

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("secret"))

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("secret"))

	cases := map[string]string{
		"garbage":              "garbage",
		"wrong key":            wrongKey,
		"wrong key, expired":   wrongKeyExpired,
		"missing expiry":       noExp,
		"missing subject":      noSubject,
		"unexpected algorithm": hs512,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tokens.Validate(raw); !errors.Is(err, domain.ErrTokenMalformed) {
				t.Fatalf("expected ErrTokenMalformed, got %v", err)
			}
		})
	}
}
