package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/ports"
)

const assetColumns = `id, hostname, serial, model, location, status, purchased_at`

// AssetRepository stores assets in the assets table.
type AssetRepository struct {
	db DBTX
}

func NewAssetRepository(db DBTX) *AssetRepository {
	return &AssetRepository{db: db}
}

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	a := &domain.Asset{}
	err := row.Scan(&a.ID, &a.Hostname, &a.Serial, &a.Model, &a.Location, &a.Status, &a.PurchasedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AssetRepository) Get(ctx context.Context, id int64) (*domain.Asset, error) {
	row := r.db.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	a, err := scanAsset(row)
	if err != nil {
		return nil, translate(err, domain.ErrAssetNotFound, "get asset")
	}
	return a, nil
}

func (r *AssetRepository) List(ctx context.Context, page ports.Page) ([]*domain.Asset, error) {
	page = page.Normalize()
	rows, err := r.db.Query(ctx,
		`SELECT `+assetColumns+` FROM assets ORDER BY id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset)
	if err != nil {
		return nil, translate(err, domain.ErrAssetNotFound, "list assets")
	}
	defer rows.Close()

	out := make([]*domain.Asset, 0, page.Limit)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, translate(err, domain.ErrAssetNotFound, "scan asset")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AssetRepository) Create(ctx context.Context, in domain.NewAsset) (*domain.Asset, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO assets (hostname, serial, model, location, status, purchased_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+assetColumns,
		in.Hostname, in.Serial, in.Model, in.Location, in.Status, in.PurchasedAt,
	)
	a, err := scanAsset(row)
	if err != nil {
		return nil, translate(err, domain.ErrAssetNotFound, "create asset")
	}
	return a, nil
}

func (r *AssetRepository) Update(ctx context.Context, id int64, patch domain.AssetPatch) (*domain.Asset, error) {
	var b setBuilder
	setOptional(&b, "hostname", patch.Hostname)
	setOptional(&b, "serial", patch.Serial)
	setOptional(&b, "model", patch.Model)
	setOptional(&b, "location", patch.Location)
	setOptional(&b, "status", patch.Status)
	setOptional(&b, "purchased_at", patch.PurchasedAt)
	if b.empty() {
		return r.Get(ctx, id)
	}

	sql, args := b.query("assets", assetColumns, id)
	a, err := scanAsset(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translate(err, domain.ErrAssetNotFound, "update asset")
	}
	return a, nil
}

// Delete removes the asset; linked tickets go with it.
func (r *AssetRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return translate(err, domain.ErrAssetNotFound, "delete asset")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}
