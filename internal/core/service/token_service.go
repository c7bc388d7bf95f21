package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/itamhq/itam-api/internal/core/domain"
)

// TokenService issues and validates HS256 bearer tokens. Tokens are
// stateless: subject, issued-at, expiry and a random id.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for username that expires ttl from now. The expiry is
// rounded up to the next whole second so a token is never valid for less
// than ttl.
func (s *TokenService) Issue(username string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(ttl))),
		ID:        uuid.NewString(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate verifies raw and returns its subject. It fails with
// domain.ErrTokenExpired for a verifiable token strictly past its expiry and
// with domain.ErrTokenMalformed for anything that cannot be parsed or verified.
func (s *TokenService) Validate(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	// Signature and algorithm are still checked; expiry is compared below
	// because jwt treats now == exp as already expired.
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return "", fmt.Errorf("%w: missing expiry", domain.ErrTokenMalformed)
	}
	if s.now().After(claims.ExpiresAt.Time) {
		return "", domain.ErrTokenExpired
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrTokenMalformed)
	}
	return claims.Subject, nil
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}
