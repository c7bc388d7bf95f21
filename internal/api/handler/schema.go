package handler

import "github.com/itamhq/itam-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// dateLayout is the wire format of calendar dates (purchased_at, created_at).
const dateLayout = "2006-01-02"

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// --- Assets ---

type createAssetRequest struct {
	Hostname    string  `json:"hostname"     validate:"required,max=128"`
	Serial      *string `json:"serial"       validate:"omitempty,max=128"`
	Model       *string `json:"model"        validate:"omitempty,max=128"`
	Location    *string `json:"location"     validate:"omitempty,max=128"`
	Status      *string `json:"status"       validate:"omitempty,min=1,max=32"`
	PurchasedAt *string `json:"purchased_at" validate:"omitempty,datetime=2006-01-02"`
}

type updateAssetRequest struct {
	Hostname    domain.Optional[string] `json:"hostname"     swaggertype:"string"`
	Serial      domain.Optional[string] `json:"serial"       swaggertype:"string"`
	Model       domain.Optional[string] `json:"model"        swaggertype:"string"`
	Location    domain.Optional[string] `json:"location"     swaggertype:"string"`
	Status      domain.Optional[string] `json:"status"       swaggertype:"string"`
	PurchasedAt domain.Optional[string] `json:"purchased_at" swaggertype:"string"`
}

type assetResponse struct {
	ID          int64   `json:"id"`
	Hostname    string  `json:"hostname"`
	Serial      *string `json:"serial"`
	Model       *string `json:"model"`
	Location    *string `json:"location"`
	Status      string  `json:"status"`
	PurchasedAt *string `json:"purchased_at"`
}

// --- Users ---

type createUserRequest struct {
	Username   string  `json:"username"   validate:"required,max=64"`
	Password   string  `json:"password"   validate:"required,max=72"`
	Fullname   *string `json:"fullname"   validate:"omitempty,max=128"`
	Email      *string `json:"email"      validate:"omitempty,email,max=128"`
	Department *string `json:"department" validate:"omitempty,max=64"`
	IsActive   *bool   `json:"is_active"`
	Role       *string `json:"role"       validate:"omitempty,oneof=admin user"`
}

type updateUserRequest struct {
	Username   domain.Optional[string] `json:"username"   swaggertype:"string"`
	Fullname   domain.Optional[string] `json:"fullname"   swaggertype:"string"`
	Email      domain.Optional[string] `json:"email"      swaggertype:"string"`
	Department domain.Optional[string] `json:"department" swaggertype:"string"`
	IsActive   domain.Optional[bool]   `json:"is_active"  swaggertype:"boolean"`
	Role       domain.Optional[string] `json:"role"       swaggertype:"string"`
	Password   domain.Optional[string] `json:"password"   swaggertype:"string"`
}

type userResponse struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	Fullname   *string `json:"fullname"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
	IsActive   bool    `json:"is_active"`
	Role       string  `json:"role"`
}

// --- Tickets ---

type createTicketRequest struct {
	Title       string  `json:"title"       validate:"required,max=256"`
	Description *string `json:"description"`
	Status      *string `json:"status"      validate:"omitempty,min=1,max=32"`
	Priority    *string `json:"priority"    validate:"omitempty,min=1,max=32"`
	CreatedAt   *string `json:"created_at"  validate:"omitempty,datetime=2006-01-02"`
	AssetID     *int64  `json:"asset_id"    validate:"omitempty,gt=0"`
	UserID      *int64  `json:"user_id"     validate:"omitempty,gt=0"`
}

type updateTicketRequest struct {
	Title       domain.Optional[string] `json:"title"       swaggertype:"string"`
	Description domain.Optional[string] `json:"description" swaggertype:"string"`
	Status      domain.Optional[string] `json:"status"      swaggertype:"string"`
	Priority    domain.Optional[string] `json:"priority"    swaggertype:"string"`
	CreatedAt   domain.Optional[string] `json:"created_at"  swaggertype:"string"`
	AssetID     domain.Optional[int64]  `json:"asset_id"    swaggertype:"integer"`
	UserID      domain.Optional[int64]  `json:"user_id"     swaggertype:"integer"`
}

type ticketResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	CreatedAt   *string `json:"created_at"`
	AssetID     *int64  `json:"asset_id"`
	UserID      *int64  `json:"user_id"`
}

type messageResponse struct {
	Message string `json:"message"`
}
