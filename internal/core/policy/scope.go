package policy

import "github.com/itamhq/itam-api/internal/core/domain"

// TicketScope narrows a ticket listing. The zero value is not usable; build
// one with ScopeFor.
type TicketScope struct {
	all     bool
	ownerID int64
}

// All reports whether the scope is unrestricted.
func (s TicketScope) All() bool { return s.all }

// OwnerID returns the owner filter; meaningless when All is true.
func (s TicketScope) OwnerID() int64 { return s.ownerID }

// ScopeFor returns the ticket visibility for actor: admins see every ticket,
// everybody else only their own.
func ScopeFor(actor *domain.Actor) (TicketScope, error) {
	if actor == nil {
		return TicketScope{}, domain.ErrUnauthenticated
	}
	if actor.IsAdmin() {
		return TicketScope{all: true}, nil
	}
	return TicketScope{ownerID: actor.ID}, nil
}
