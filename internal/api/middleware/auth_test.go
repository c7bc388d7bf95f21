package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/ports"
)

type stubAuthService struct {
	actors map[string]*domain.Actor
	err    error
}

func (s *stubAuthService) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Authenticate(_ context.Context, raw string) (*domain.Actor, error) {
	if s.err != nil {
		return nil, s.err
	}
	actor, ok := s.actors[raw]
	if !ok {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrTokenMalformed)
	}
	return actor, nil
}

func newStubAuth() *stubAuthService {
	return &stubAuthService{actors: map[string]*domain.Actor{
		"good-token": {ID: 1, Username: "alice", Role: domain.RoleUser, IsActive: true},
	}}
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, header string) (called bool, actor *domain.Actor, err error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = mw(func(c echo.Context) error {
		called = true
		actor, _ = c.Get(ActorKey).(*domain.Actor)
		return c.NoContent(http.StatusOK)
	})(c)
	return called, actor, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	called, actor, err := runMiddleware(t, Auth(newStubAuth()), "Bearer good-token")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if actor == nil || actor.Username != "alice" {
		t.Fatalf("actor not set, got %+v", actor)
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	if _, actor, err := runMiddleware(t, Auth(newStubAuth()), "bearer good-token"); err != nil || actor == nil {
		t.Fatalf("expected lower-case scheme to be accepted, got %v", err)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"empty token":    "Bearer ",
		"unknown token":  "Bearer forged",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			called, _, err := runMiddleware(t, Auth(newStubAuth()), header)
			if called {
				t.Fatalf("next must not be called")
			}
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	stub := newStubAuth()
	stub.err = fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrTokenExpired)

	_, _, err := runMiddleware(t, Auth(stub), "Bearer good-token")
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired to be preserved, got %v", err)
	}
}

func TestOptionalAuth(t *testing.T) {
	called, actor, err := runMiddleware(t, OptionalAuth(newStubAuth()), "")
	if err != nil || !called {
		t.Fatalf("expected anonymous request to pass, got %v", err)
	}
	if actor != nil {
		t.Fatalf("expected no actor, got %+v", actor)
	}

	_, actor, err = runMiddleware(t, OptionalAuth(newStubAuth()), "Bearer good-token")
	if err != nil || actor == nil {
		t.Fatalf("expected actor for valid token, got %v", err)
	}

	called, _, err = runMiddleware(t, OptionalAuth(newStubAuth()), "Bearer forged")
	if called || !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected invalid token to be rejected, got %v", err)
	}
}
