package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/itamhq/itam-api/internal/core/domain"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgreSQL SQLSTATE codes mapped onto domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeStringTooLong       = "22001"
)

// translate maps driver errors onto domain sentinels. notFound is returned
// for pgx.ErrNoRows.
func translate(err error, notFound error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, uniqueField(pgErr.ConstraintName))
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrReferentialIntegrity, pgErr.ConstraintName)
		case codeNotNullViolation:
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, pgErr.ColumnName)
		case codeCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.ConstraintName)
		case codeStringTooLong:
			return fmt.Errorf("%w: value too long", domain.ErrInvalidInput)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// uniqueField turns "users_email_key" into "email".
func uniqueField(constraint string) string {
	parts := strings.Split(constraint, "_")
	if len(parts) < 3 {
		return constraint
	}
	return strings.Join(parts[1:len(parts)-1], "_")
}

// setBuilder accumulates the SET list of a partial UPDATE.
type setBuilder struct {
	clauses []string
	args    []any
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *setBuilder) empty() bool {
	return len(b.clauses) == 0
}

// query renders "UPDATE table SET ... WHERE id = $n RETURNING returning".
func (b *setBuilder) query(table, returning string, id int64) (string, []any) {
	args := append(b.args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(b.clauses, ", "), len(args), returning)
	return sql, args
}

// setOptional adds column only when the field is present in the patch;
// a present null writes SQL NULL.
func setOptional[T any](b *setBuilder, column string, o domain.Optional[T]) {
	if o.Set {
		b.add(column, o.Ptr())
	}
}
