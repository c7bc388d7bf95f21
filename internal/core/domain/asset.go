package domain

import "time"

const AssetStatusActive = "active"

// Asset is a piece of tracked IT equipment.
type Asset struct {
	ID          int64      `json:"id"`
	Hostname    string     `json:"hostname"`
	Serial      *string    `json:"serial"`
	Model       *string    `json:"model"`
	Location    *string    `json:"location"`
	Status      string     `json:"status"`
	PurchasedAt *time.Time `json:"purchased_at"`
}

// NewAsset carries the fields needed to create an asset.
type NewAsset struct {
	Hostname    string
	Serial      *string
	Model       *string
	Location    *string
	Status      string
	PurchasedAt *time.Time
}

// AssetPatch is a partial update. Absent fields are left unchanged.
type AssetPatch struct {
	Hostname    Optional[string]
	Serial      Optional[string]
	Model       Optional[string]
	Location    Optional[string]
	Status      Optional[string]
	PurchasedAt Optional[time.Time]
}
