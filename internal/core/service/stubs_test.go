package service

import (
	"context"
	"sort"
	"sync"

	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	getErr error // if set, Get and FindByUsername return this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Get(_ context.Context, id int64) (*domain.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, page ports.Page) ([]*domain.User, error) {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*domain.User, 0, len(ids))
	for _, id := range window(ids, page) {
		out = append(out, cloneUser(r.users[id]))
	}
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return nil, domain.ErrConflict
		}
	}
	clone := cloneUser(u)
	if clone.ID == 0 {
		clone.ID = r.nextID
	}
	if clone.ID >= r.nextID {
		r.nextID = clone.ID + 1
	}
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

// seed stores u as-is, keeping its id.
func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	created, err := r.Create(context.Background(), u)
	if err != nil {
		panic(err)
	}
	return created
}

func (r *stubUserRepo) Update(_ context.Context, id int64, c domain.UserChanges) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if c.Username.Set {
		u.Username = c.Username.Value
	}
	if c.Fullname.Set {
		u.Fullname = c.Fullname.Ptr()
	}
	if c.Email.Set {
		u.Email = c.Email.Ptr()
	}
	if c.Department.Set {
		u.Department = c.Department.Ptr()
	}
	if c.IsActive.Set {
		u.IsActive = c.IsActive.Value
	}
	if c.Role.Set {
		u.Role = c.Role.Value
	}
	if c.PasswordHash.Set {
		u.PasswordHash = c.PasswordHash.Value
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubAssetRepo struct {
	assets map[int64]*domain.Asset
	nextID int64
}

func newStubAssetRepo() *stubAssetRepo {
	return &stubAssetRepo{assets: make(map[int64]*domain.Asset), nextID: 1}
}

func (r *stubAssetRepo) Get(_ context.Context, id int64) (*domain.Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAssetRepo) List(_ context.Context, page ports.Page) ([]*domain.Asset, error) {
	ids := make([]int64, 0, len(r.assets))
	for id := range r.assets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*domain.Asset, 0, len(ids))
	for _, id := range window(ids, page) {
		clone := *r.assets[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubAssetRepo) Create(_ context.Context, in domain.NewAsset) (*domain.Asset, error) {
	a := &domain.Asset{
		ID:          r.nextID,
		Hostname:    in.Hostname,
		Serial:      in.Serial,
		Model:       in.Model,
		Location:    in.Location,
		Status:      in.Status,
		PurchasedAt: in.PurchasedAt,
	}
	r.nextID++
	r.assets[a.ID] = a
	clone := *a
	return &clone, nil
}

func (r *stubAssetRepo) Update(_ context.Context, id int64, p domain.AssetPatch) (*domain.Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	if p.Hostname.Set {
		a.Hostname = p.Hostname.Value
	}
	if p.Serial.Set {
		a.Serial = p.Serial.Ptr()
	}
	if p.Model.Set {
		a.Model = p.Model.Ptr()
	}
	if p.Location.Set {
		a.Location = p.Location.Ptr()
	}
	if p.Status.Set {
		a.Status = p.Status.Value
	}
	if p.PurchasedAt.Set {
		a.PurchasedAt = p.PurchasedAt.Ptr()
	}
	clone := *a
	return &clone, nil
}

func (r *stubAssetRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.assets[id]; !ok {
		return domain.ErrAssetNotFound
	}
	delete(r.assets, id)
	return nil
}

type stubTicketRepo struct {
	tickets     map[int64]*domain.Ticket
	nextID      int64
	lastOwnerID int64 // owner passed to the last ListByOwner call
	listAllCall bool
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[int64]*domain.Ticket), nextID: 1}
}

func (r *stubTicketRepo) Get(_ context.Context, id int64) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTicketRepo) sorted(keep func(*domain.Ticket) bool, page ports.Page) []*domain.Ticket {
	var ids []int64
	for id, t := range r.tickets {
		if keep(t) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*domain.Ticket, 0, len(ids))
	for _, id := range window(ids, page) {
		clone := *r.tickets[id]
		out = append(out, &clone)
	}
	return out
}

func (r *stubTicketRepo) List(_ context.Context, page ports.Page) ([]*domain.Ticket, error) {
	r.listAllCall = true
	return r.sorted(func(*domain.Ticket) bool { return true }, page), nil
}

// ListByOwner mirrors the real query's user_id filter.
func (r *stubTicketRepo) ListByOwner(_ context.Context, ownerID int64, page ports.Page) ([]*domain.Ticket, error) {
	r.lastOwnerID = ownerID
	return r.sorted(func(t *domain.Ticket) bool { return t.OwnedBy(ownerID) }, page), nil
}

func (r *stubTicketRepo) Create(_ context.Context, in domain.NewTicket) (*domain.Ticket, error) {
	t := &domain.Ticket{
		ID:          r.nextID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedAt:   in.CreatedAt,
		AssetID:     in.AssetID,
		UserID:      in.UserID,
	}
	r.nextID++
	r.tickets[t.ID] = t
	clone := *t
	return &clone, nil
}

func (r *stubTicketRepo) Update(_ context.Context, id int64, p domain.TicketPatch) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	if p.Title.Set {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Ptr()
	}
	if p.Status.Set {
		t.Status = p.Status.Value
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	if p.CreatedAt.Set {
		t.CreatedAt = p.CreatedAt.Ptr()
	}
	if p.AssetID.Set {
		t.AssetID = p.AssetID.Ptr()
	}
	if p.UserID.Set {
		t.UserID = p.UserID.Ptr()
	}
	clone := *t
	return &clone, nil
}

func (r *stubTicketRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tickets[id]; !ok {
		return domain.ErrTicketNotFound
	}
	delete(r.tickets, id)
	return nil
}

func window(ids []int64, page ports.Page) []int64 {
	page = page.Normalize()
	if page.Offset >= len(ids) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[page.Offset:end]
}

type stubAuditSink struct {
	mu      sync.Mutex
	records []domain.AuditRecord
}

func (s *stubAuditSink) Record(rec domain.AuditRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

func (s *stubAuditSink) actions() []domain.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditAction, len(s.records))
	for i, r := range s.records {
		out[i] = r.Action
	}
	return out
}

type stubThrottle struct {
	blocked  bool
	blockErr error
	failures map[string]int
	resets   []string
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{failures: make(map[string]int)}
}

func (t *stubThrottle) Blocked(_ context.Context, _ string) (bool, error) {
	return t.blocked, t.blockErr
}

func (t *stubThrottle) Failure(_ context.Context, username string) error {
	t.failures[username]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, username string) error {
	t.resets = append(t.resets, username)
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }
