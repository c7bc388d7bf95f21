package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/policy"
	"github.com/itamhq/itam-api/internal/core/ports"
)

type UserService struct {
	repo  ports.UserRepository
	creds *Credentials
	audit ports.AuditSink
	log   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, creds *Credentials, sink ports.AuditSink, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, creds: creds, audit: sink, log: log}
}

func (s *UserService) Get(ctx context.Context, actor *domain.Actor, id int64) (*domain.User, error) {
	if err := policy.Check(actor, policy.User, policy.Read, policy.Target{ID: id}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context, actor *domain.Actor, page ports.Page) ([]*domain.User, error) {
	if err := policy.Check(actor, policy.User, policy.List, policy.Target{}); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, page.Normalize())
}

// Create registers a user. Anonymous callers may only create plain users.
func (s *UserService) Create(ctx context.Context, actor *domain.Actor, in domain.NewUser) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	target := policy.Target{RoleChange: true, Role: in.Role}
	if err := policy.Check(actor, policy.User, policy.Create, target); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, invalid("role must be one of: admin user")
	}
	if strings.TrimSpace(in.Username) == "" {
		return nil, invalid("username is required")
	}
	if in.Password == "" {
		return nil, invalid("password is required")
	}
	if err := checkLengths(
		rule("username", in.Username, maxUsernameLen),
		ptrRule("fullname", in.Fullname, maxFullnameLen),
		ptrRule("email", in.Email, maxEmailLen),
		ptrRule("department", in.Department, maxDepartmentLen),
	); err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &domain.User{
		Username:     in.Username,
		Fullname:     in.Fullname,
		Email:        in.Email,
		Department:   in.Department,
		PasswordHash: hash,
		IsActive:     in.IsActive,
		Role:         in.Role,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Str("role", string(user.Role)).Msg("user created")
	audit(s.audit, actor, policy.User, user.ID, domain.AuditCreate)
	return user, nil
}

// Update applies a partial update. Role changes are authorized before, and
// independently of, the self-or-admin check. A null role from a non-admin is
// treated as absent; from an admin it is invalid input.
func (s *UserService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.UserPatch) (*domain.User, error) {
	target := policy.Target{ID: id, RoleChange: patch.ChangesRole(), Role: patch.Role.Value}
	if err := policy.Check(actor, policy.User, policy.Update, target); err != nil {
		return nil, err
	}
	if patch.Role.Set && !patch.Role.Valid && !actor.IsAdmin() {
		patch.Role = domain.Optional[domain.Role]{}
	}

	changes, err := s.changes(patch)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Int64("actor_id", actor.ID).Msg("user updated")
	audit(s.audit, actor, policy.User, user.ID, domain.AuditUpdate)
	return user, nil
}

// changes validates the patch and swaps the plaintext password for its hash.
func (s *UserService) changes(p domain.UserPatch) (domain.UserChanges, error) {
	if p.Username.Set && (!p.Username.Valid || strings.TrimSpace(p.Username.Value) == "") {
		return domain.UserChanges{}, invalid("username cannot be empty")
	}
	if p.Role.Set && (!p.Role.Valid || !p.Role.Value.Valid()) {
		return domain.UserChanges{}, invalid("role must be one of: admin user")
	}
	if p.IsActive.Set && !p.IsActive.Valid {
		return domain.UserChanges{}, invalid("is_active cannot be null")
	}
	if p.Password.Set && (!p.Password.Valid || p.Password.Value == "") {
		return domain.UserChanges{}, invalid("password cannot be empty")
	}
	if err := checkLengths(
		optRule("username", p.Username, maxUsernameLen),
		optRule("fullname", p.Fullname, maxFullnameLen),
		optRule("email", p.Email, maxEmailLen),
		optRule("department", p.Department, maxDepartmentLen),
	); err != nil {
		return domain.UserChanges{}, err
	}
	if p.Password.Set {
		if err := checkPassword(p.Password.Value); err != nil {
			return domain.UserChanges{}, err
		}
	}

	c := domain.UserChanges{
		Username:   p.Username,
		Fullname:   p.Fullname,
		Email:      p.Email,
		Department: p.Department,
		IsActive:   p.IsActive,
		Role:       p.Role,
	}
	if p.Password.Set {
		hash, err := s.creds.HashPassword(p.Password.Value)
		if err != nil {
			return domain.UserChanges{}, fmt.Errorf("update user: hash password: %w", err)
		}
		c.PasswordHash = domain.Some(hash)
	}
	return c, nil
}

func (s *UserService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	if err := policy.Check(actor, policy.User, policy.Delete, policy.Target{ID: id}); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", id).Int64("actor_id", actor.ID).Msg("user deleted")
	audit(s.audit, actor, policy.User, id, domain.AuditDelete)
	return nil
}

// EnsureAdmin creates an active admin with the given credentials unless a
// user with that name already exists. Used to seed the first administrator.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("ensure admin: hash password: %w", err)
	}
	user, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return false, nil
		}
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", username).Msg("bootstrap admin created")
	audit(s.audit, nil, policy.User, user.ID, domain.AuditCreate)
	return true, nil
}
