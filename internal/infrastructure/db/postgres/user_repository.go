package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/ports"
)

const userColumns = `id, username, fullname, email, department, hashed_password, is_active, role`

// UserRepository stores users and their password hashes in the users table.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Fullname, &u.Email, &u.Department,
		&u.PasswordHash, &u.IsActive, &role)
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (r *UserRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound, "get user")
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound, "find user")
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, page ports.Page) ([]*domain.User, error) {
	page = page.Normalize()
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset)
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound, "list users")
	}
	defer rows.Close()

	out := make([]*domain.User, 0, page.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translate(err, domain.ErrUserNotFound, "scan user")
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, fullname, email, department, hashed_password, is_active, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		u.Username, u.Fullname, u.Email, u.Department, u.PasswordHash, u.IsActive, string(u.Role),
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound, "create user")
	}
	return created, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, changes domain.UserChanges) (*domain.User, error) {
	var b setBuilder
	setOptional(&b, "username", changes.Username)
	setOptional(&b, "fullname", changes.Fullname)
	setOptional(&b, "email", changes.Email)
	setOptional(&b, "department", changes.Department)
	setOptional(&b, "is_active", changes.IsActive)
	setOptional(&b, "hashed_password", changes.PasswordHash)
	if changes.Role.Set {
		var role *string
		if changes.Role.Valid {
			s := string(changes.Role.Value)
			role = &s
		}
		b.add("role", role)
	}
	if b.empty() {
		return r.Get(ctx, id)
	}

	sql, args := b.query("users", userColumns, id)
	u, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound, "update user")
	}
	return u, nil
}

// Delete removes the user; owned tickets go with it.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate(err, domain.ErrUserNotFound, "delete user")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
