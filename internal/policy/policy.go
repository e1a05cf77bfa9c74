// Package policy decides whether an actor may perform an action on a
// resource. It has no storage or transport dependencies; callers perform a
// collection-level check before looking anything up and an object-level
// check once the owner of the target is known.
package policy

import (
	"fmt"

	"review-backend/internal/apperr"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Resource string

const (
	ResourceTitle    Resource = "title"
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	ResourceUser     Resource = "user"
	// ResourceProfile is the actor's own account reached through /users/me.
	ResourceProfile Resource = "profile"
)

// Decision is the outcome of a policy check.
type Decision int

const (
	Allow Decision = iota
	// DenyUnauthenticated means the action needs an identity the actor lacks.
	DenyUnauthenticated
	// DenyForbidden means the actor is known but not privileged enough.
	DenyForbidden
)

func (d Decision) Allowed() bool {
	return d == Allow
}

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "unauthenticated"
	case DenyForbidden:
		return "forbidden"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// Target identifies what an action applies to. Object is false for
// collection-level checks made before any object has been loaded.
type Target struct {
	Resource Resource
	Object   bool
	OwnerID  uint
}

// On builds a collection-level target.
func On(resource Resource) Target {
	return Target{Resource: resource}
}

// OwnedBy builds an object-level target for a resource with an author. An
// ownerID of zero matches no actor.
func OwnedBy(resource Resource, ownerID uint) Target {
	return Target{Resource: resource, Object: true, OwnerID: ownerID}
}

// Can maps (actor, action, target) to a decision.
func Can(actor Actor, action Action, target Target) Decision {
	switch target.Resource {
	case ResourceTitle, ResourceCategory, ResourceGenre:
		return catalog(actor, action)
	case ResourceReview, ResourceComment:
		return authored(actor, action, target)
	case ResourceUser:
		return adminOnly(actor)
	case ResourceProfile:
		return profile(actor, action)
	}
	if !actor.Authenticated() {
		return DenyUnauthenticated
	}
	return DenyForbidden
}

// Err converts a denial into the matching application error, nil on Allow.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return apperr.Unauthorized("Authentication credentials were not provided")
	default:
		return apperr.Forbidden("You do not have permission to perform this action")
	}
}

// Check is Can followed by Err.
func Check(actor Actor, action Action, target Target) error {
	return Can(actor, action, target).Err()
}

func catalog(actor Actor, action Action) Decision {
	if action == ActionRead {
		return Allow
	}
	return adminOnly(actor)
}

func authored(actor Actor, action Action, target Target) Decision {
	if action == ActionRead {
		return Allow
	}
	if !actor.Authenticated() {
		return DenyUnauthenticated
	}
	switch action {
	case ActionCreate:
		return Allow
	case ActionUpdate, ActionDelete:
		if !target.Object {
			return Allow
		}
		if actor.Owns(target.OwnerID) || actor.IsAdmin() || actor.IsModerator() {
			return Allow
		}
	}
	return DenyForbidden
}

func adminOnly(actor Actor) Decision {
	if !actor.Authenticated() {
		return DenyUnauthenticated
	}
	if actor.IsAdmin() {
		return Allow
	}
	return DenyForbidden
}

func profile(actor Actor, action Action) Decision {
	if !actor.Authenticated() {
		return DenyUnauthenticated
	}
	if action == ActionRead || action == ActionUpdate {
		return Allow
	}
	return DenyForbidden
}
