package ports

import (
	"context"

	"github.com/itamhq/itam-api/internal/core/domain"
)

// AssetRepository is the persistence gateway for assets.
// Get, Update and Delete return domain.ErrAssetNotFound for a missing id.
type AssetRepository interface {
	Get(ctx context.Context, id int64) (*domain.Asset, error)
	List(ctx context.Context, page Page) ([]*domain.Asset, error)
	Create(ctx context.Context, a domain.NewAsset) (*domain.Asset, error)
	Update(ctx context.Context, id int64, patch domain.AssetPatch) (*domain.Asset, error)
	Delete(ctx context.Context, id int64) error
}
