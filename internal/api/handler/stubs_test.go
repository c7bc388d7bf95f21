package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/itamhq/itam-api/internal/api/middleware"
	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Actor, error) {
	return nil, domain.ErrUnauthenticated
}

type stubAssetService struct {
	getFn    func(ctx context.Context, actor *domain.Actor, id int64) (*domain.Asset, error)
	listFn   func(ctx context.Context, actor *domain.Actor, page ports.Page) ([]*domain.Asset, error)
	createFn func(ctx context.Context, actor *domain.Actor, in domain.NewAsset) (*domain.Asset, error)
	updateFn func(ctx context.Context, actor *domain.Actor, id int64, patch domain.AssetPatch) (*domain.Asset, error)
	deleteFn func(ctx context.Context, actor *domain.Actor, id int64) error
}

func (s *stubAssetService) Get(ctx context.Context, actor *domain.Actor, id int64) (*domain.Asset, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubAssetService) List(ctx context.Context, actor *domain.Actor, page ports.Page) ([]*domain.Asset, error) {
	return s.listFn(ctx, actor, page)
}

func (s *stubAssetService) Create(ctx context.Context, actor *domain.Actor, in domain.NewAsset) (*domain.Asset, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubAssetService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.AssetPatch) (*domain.Asset, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubAssetService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

type stubUserService struct {
	getFn    func(ctx context.Context, actor *domain.Actor, id int64) (*domain.User, error)
	listFn   func(ctx context.Context, actor *domain.Actor, page ports.Page) ([]*domain.User, error)
	createFn func(ctx context.Context, actor *domain.Actor, in domain.NewUser) (*domain.User, error)
	updateFn func(ctx context.Context, actor *domain.Actor, id int64, patch domain.UserPatch) (*domain.User, error)
	deleteFn func(ctx context.Context, actor *domain.Actor, id int64) error
}

func (s *stubUserService) Get(ctx context.Context, actor *domain.Actor, id int64) (*domain.User, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubUserService) List(ctx context.Context, actor *domain.Actor, page ports.Page) ([]*domain.User, error) {
	return s.listFn(ctx, actor, page)
}

func (s *stubUserService) Create(ctx context.Context, actor *domain.Actor, in domain.NewUser) (*domain.User, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubUserService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.UserPatch) (*domain.User, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubUserService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

type stubTicketService struct {
	getFn    func(ctx context.Context, actor *domain.Actor, id int64) (*domain.Ticket, error)
	listFn   func(ctx context.Context, actor *domain.Actor, page ports.Page) ([]*domain.Ticket, error)
	createFn func(ctx context.Context, actor *domain.Actor, in domain.NewTicket) (*domain.Ticket, error)
	updateFn func(ctx context.Context, actor *domain.Actor, id int64, patch domain.TicketPatch) (*domain.Ticket, error)
	deleteFn func(ctx context.Context, actor *domain.Actor, id int64) error
}

func (s *stubTicketService) Get(ctx context.Context, actor *domain.Actor, id int64) (*domain.Ticket, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubTicketService) List(ctx context.Context, actor *domain.Actor, page ports.Page) ([]*domain.Ticket, error) {
	return s.listFn(ctx, actor, page)
}

func (s *stubTicketService) Create(ctx context.Context, actor *domain.Actor, in domain.NewTicket) (*domain.Ticket, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubTicketService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.TicketPatch) (*domain.Ticket, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubTicketService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

var (
	alice = &domain.Actor{ID: 1, Username: "alice", Role: domain.RoleUser, IsActive: true}
	bob   = &domain.Actor{ID: 2, Username: "bob", Role: domain.RoleAdmin, IsActive: true}
)

// newContext builds an echo context for a JSON request, optionally carrying
// an authenticated actor and an :id path parameter.
func newContext(t *testing.T, method, target string, body io.Reader, actor *domain.Actor, id string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	if actor != nil {
		c.Set(middleware.ActorKey, actor)
	}
	return c, rec
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }
