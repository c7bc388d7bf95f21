// Package policy holds the authorization rules for every (entity, action)
// pair. Rules are pure: no I/O, no mutation, same answer for the same input.
// Services consult Check before touching the store and ScopeFor when a list
// must be narrowed instead of rejected.
package policy

import (
	"fmt"

	"github.com/itamhq/itam-api/internal/core/domain"
)

// Entity identifies the resource type a rule applies to.
type Entity string

const (
	Asset  Entity = "asset"
	User   Entity = "user"
	Ticket Entity = "ticket"
)

// Action identifies the operation a rule applies to.
type Action string

const (
	Create Action = "create"
	Read   Action = "read"
	List   Action = "list"
	Update Action = "update"
	Delete Action = "delete"
)

// Target carries the facts about the resource that rules may inspect.
type Target struct {
	// ID is the target record id (user id for User rules).
	ID int64
	// OwnerID is the ticket owner; nil when the ticket has no owner.
	OwnerID *int64
	// RoleChange is set when a User update or create assigns a role.
	RoleChange bool
	// Role is the role being assigned when RoleChange is set.
	Role domain.Role
}

// Rule decides one (entity, action) pair. A nil actor is an anonymous caller.
type Rule func(actor *domain.Actor, target Target) error

type key struct {
	entity Entity
	action Action
}

var table = map[key]Rule{
	{Asset, Create}: authenticated,
	{Asset, Update}: authenticated,
	{Asset, Delete}: authenticated,
	{Asset, Read}:   anyone,
	{Asset, List}:   anyone,

	{User, Create}: selfRegistration,
	{User, List}:   authenticated,
	{User, Read}:   authenticated,
	{User, Update}: userUpdate,
	{User, Delete}: userDelete,

	{Ticket, Create}: authenticated,
	{Ticket, Read}:   adminOrOwner,
	{Ticket, Update}: adminOrOwner,
	{Ticket, Delete}: adminOrOwner,
}

// Check returns nil when actor may perform action on target, otherwise an
// error matching domain.ErrUnauthenticated or domain.ErrForbidden.
// Ticket listing is not a binary decision; use ScopeFor.
func Check(actor *domain.Actor, entity Entity, action Action, target Target) error {
	rule, ok := table[key{entity, action}]
	if !ok {
		return fmt.Errorf("%w: no rule for %s %s", domain.ErrForbidden, action, entity)
	}
	return rule(actor, target)
}

func anyone(*domain.Actor, Target) error {
	return nil
}

func authenticated(actor *domain.Actor, _ Target) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	return nil
}

// selfRegistration lets anyone create a plain user; any other role needs an admin.
func selfRegistration(actor *domain.Actor, t Target) error {
	if t.RoleChange && t.Role != domain.RoleUser && !actor.IsAdmin() {
		return domain.ErrRoleChangeDenied
	}
	return nil
}

// userUpdate checks the role change first so that a non-admin is refused even
// when editing their own profile.
func userUpdate(actor *domain.Actor, t Target) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if t.RoleChange && !actor.IsAdmin() {
		return domain.ErrRoleChangeDenied
	}
	if !actor.IsAdmin() && actor.ID != t.ID {
		return fmt.Errorf("%w: you can only edit your own profile", domain.ErrForbidden)
	}
	return nil
}

func userDelete(actor *domain.Actor, t Target) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only administrators can delete users", domain.ErrForbidden)
	}
	if actor.ID == t.ID {
		return domain.ErrSelfDeletionDenied
	}
	return nil
}

func adminOrOwner(actor *domain.Actor, t Target) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if actor.IsAdmin() {
		return nil
	}
	if t.OwnerID != nil && *t.OwnerID == actor.ID {
		return nil
	}
	return fmt.Errorf("%w: you can only access your own tickets", domain.ErrForbidden)
}
