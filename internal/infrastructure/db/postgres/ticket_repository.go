package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/ports"
)

const ticketColumns = `id, title, description, status, priority, created_at, asset_id, user_id`

// TicketRepository stores tickets in the tickets table.
type TicketRepository struct {
	db DBTX
}

func NewTicketRepository(db DBTX) *TicketRepository {
	return &TicketRepository{db: db}
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.CreatedAt, &t.AssetID, &t.UserID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TicketRepository) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, domain.ErrTicketNotFound, "get ticket")
	}
	return t, nil
}

func (r *TicketRepository) List(ctx context.Context, page ports.Page) ([]*domain.Ticket, error) {
	page = page.Normalize()
	return r.list(ctx,
		`SELECT `+ticketColumns+` FROM tickets ORDER BY id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset)
}

func (r *TicketRepository) ListByOwner(ctx context.Context, ownerID int64, page ports.Page) ([]*domain.Ticket, error) {
	page = page.Normalize()
	return r.list(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`,
		ownerID, page.Limit, page.Offset)
}

func (r *TicketRepository) list(ctx context.Context, sql string, args ...any) ([]*domain.Ticket, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, domain.ErrTicketNotFound, "list tickets")
	}
	defer rows.Close()

	out := make([]*domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, translate(err, domain.ErrTicketNotFound, "scan ticket")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TicketRepository) Create(ctx context.Context, in domain.NewTicket) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO tickets (title, description, status, priority, created_at, asset_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+ticketColumns,
		in.Title, in.Description, in.Status, in.Priority, in.CreatedAt, in.AssetID, in.UserID,
	)
	t, err := scanTicket(row)
	if err != nil {
		return nil, translate(err, domain.ErrTicketNotFound, "create ticket")
	}
	return t, nil
}

func (r *TicketRepository) Update(ctx context.Context, id int64, patch domain.TicketPatch) (*domain.Ticket, error) {
	var b setBuilder
	setOptional(&b, "title", patch.Title)
	setOptional(&b, "description", patch.Description)
	setOptional(&b, "status", patch.Status)
	setOptional(&b, "priority", patch.Priority)
	setOptional(&b, "created_at", patch.CreatedAt)
	setOptional(&b, "asset_id", patch.AssetID)
	setOptional(&b, "user_id", patch.UserID)
	if b.empty() {
		return r.Get(ctx, id)
	}

	sql, args := b.query("tickets", ticketColumns, id)
	t, err := scanTicket(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translate(err, domain.ErrTicketNotFound, "update ticket")
	}
	return t, nil
}

func (r *TicketRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return translate(err, domain.ErrTicketNotFound, "delete ticket")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}
