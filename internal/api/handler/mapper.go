package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/itamhq/itam-api/internal/core/domain"
)

// --- Request → domain ---

func parseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field))
	}
	return &t, nil
}

func optionalDate(field string, o domain.Optional[string]) (domain.Optional[time.Time], error) {
	if !o.Set {
		return domain.Optional[time.Time]{}, nil
	}
	if !o.Valid {
		return domain.Null[time.Time](), nil
	}
	t, err := parseDate(field, &o.Value)
	if err != nil {
		return domain.Optional[time.Time]{}, err
	}
	return domain.Some(*t), nil
}

func toNewAsset(req createAssetRequest) (domain.NewAsset, error) {
	purchasedAt, err := parseDate("purchased_at", req.PurchasedAt)
	if err != nil {
		return domain.NewAsset{}, err
	}
	in := domain.NewAsset{
		Hostname:    req.Hostname,
		Serial:      req.Serial,
		Model:       req.Model,
		Location:    req.Location,
		PurchasedAt: purchasedAt,
	}
	if req.Status != nil {
		in.Status = *req.Status
	}
	return in, nil
}

func toAssetPatch(req updateAssetRequest) (domain.AssetPatch, error) {
	purchasedAt, err := optionalDate("purchased_at", req.PurchasedAt)
	if err != nil {
		return domain.AssetPatch{}, err
	}
	return domain.AssetPatch{
		Hostname:    req.Hostname,
		Serial:      req.Serial,
		Model:       req.Model,
		Location:    req.Location,
		Status:      req.Status,
		PurchasedAt: purchasedAt,
	}, nil
}

func toNewUser(req createUserRequest) domain.NewUser {
	in := domain.NewUser{
		Username:   req.Username,
		Password:   req.Password,
		Fullname:   req.Fullname,
		Email:      req.Email,
		Department: req.Department,
		IsActive:   true,
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}
	if req.Role != nil {
		in.Role = domain.Role(*req.Role)
	}
	return in
}

func toUserPatch(req updateUserRequest) domain.UserPatch {
	return domain.UserPatch{
		Username:   req.Username,
		Fullname:   req.Fullname,
		Email:      req.Email,
		Department: req.Department,
		IsActive:   req.IsActive,
		Role: domain.Optional[domain.Role]{
			Set:   req.Role.Set,
			Valid: req.Role.Valid,
			Value: domain.Role(req.Role.Value),
		},
		Password: req.Password,
	}
}

func toNewTicket(req createTicketRequest) (domain.NewTicket, error) {
	createdAt, err := parseDate("created_at", req.CreatedAt)
	if err != nil {
		return domain.NewTicket{}, err
	}
	in := domain.NewTicket{
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   createdAt,
		AssetID:     req.AssetID,
		UserID:      req.UserID,
	}
	if req.Status != nil {
		in.Status = *req.Status
	}
	if req.Priority != nil {
		in.Priority = *req.Priority
	}
	return in, nil
}

func toTicketPatch(req updateTicketRequest) (domain.TicketPatch, error) {
	createdAt, err := optionalDate("created_at", req.CreatedAt)
	if err != nil {
		return domain.TicketPatch{}, err
	}
	return domain.TicketPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		CreatedAt:   createdAt,
		AssetID:     req.AssetID,
		UserID:      req.UserID,
	}, nil
}

// --- domain → Response ---

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toAssetResponse(a *domain.Asset) assetResponse {
	return assetResponse{
		ID:          a.ID,
		Hostname:    a.Hostname,
		Serial:      a.Serial,
		Model:       a.Model,
		Location:    a.Location,
		Status:      a.Status,
		PurchasedAt: formatDate(a.PurchasedAt),
	}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Fullname:   u.Fullname,
		Email:      u.Email,
		Department: u.Department,
		IsActive:   u.IsActive,
		Role:       string(u.Role),
	}
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   formatDate(t.CreatedAt),
		AssetID:     t.AssetID,
		UserID:      t.UserID,
	}
}

func mapSlice[T, R any](items []*T, fn func(*T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
