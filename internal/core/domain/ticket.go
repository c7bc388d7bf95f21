package domain

import "time"

const (
	TicketStatusOpen     = "open"
	TicketPriorityMedium = "medium"
)

// Ticket is a support request, optionally linked to an asset and owned by a user.
type Ticket struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	CreatedAt   *time.Time `json:"created_at"`
	AssetID     *int64     `json:"asset_id"`
	UserID      *int64     `json:"user_id"`
}

// OwnedBy reports whether the ticket belongs to the given user id.
func (t *Ticket) OwnedBy(userID int64) bool {
	return t.UserID != nil && *t.UserID == userID
}

// NewTicket carries the fields needed to create a ticket.
type NewTicket struct {
	Title       string
	Description *string
	Status      string
	Priority    string
	CreatedAt   *time.Time
	AssetID     *int64
	UserID      *int64
}

// TicketPatch is a partial update. Absent fields are left unchanged.
type TicketPatch struct {
	Title       Optional[string]
	Description Optional[string]
	Status      Optional[string]
	Priority    Optional[string]
	CreatedAt   Optional[time.Time]
	AssetID     Optional[int64]
	UserID      Optional[int64]
}
