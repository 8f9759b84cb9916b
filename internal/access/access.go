// Package access holds the authorization predicates gating resource
// operations. Each predicate answers allow/deny for an actor and a resource;
// Check evaluates an ordered chain of them with AND semantics.
package access

import (
	"github.com/skychimp/newsletter-service/internal/models"
)

// Owned is any resource attributed to a creating user
type Owned interface {
	OwnerID() uint
}

// Predicate decides whether the actor may operate on the resource
type Predicate func(actor *models.User, resource any) bool

// Authenticated requires a known, active actor
func Authenticated(actor *models.User, _ any) bool {
	return actor != nil && actor.IsActive
}

// OwnerOnly requires the actor to be the resource's creator
func OwnerOnly(actor *models.User, resource any) bool {
	if actor == nil {
		return false
	}
	owned, ok := resource.(Owned)
	return ok && owned.OwnerID() == actor.ID
}

// OwnerOrStaff requires the resource's creator, a staff member or a superuser
func OwnerOrStaff(actor *models.User, resource any) bool {
	if actor == nil {
		return false
	}
	if actor.IsStaff || actor.IsSuperuser {
		return true
	}
	return OwnerOnly(actor, resource)
}

// LogOwner requires the owner of the log's parent newsletter, a staff member
// or a superuser. The log's Newsletter must be loaded.
func LogOwner(actor *models.User, resource any) bool {
	if actor == nil {
		return false
	}
	if actor.IsStaff || actor.IsSuperuser {
		return true
	}
	log, ok := resource.(*models.NewsletterLog)
	return ok && log.Newsletter.CreatedByID == actor.ID
}

// ManagerOnly requires a staff member or a superuser
func ManagerOnly(actor *models.User, _ any) bool {
	return actor != nil && (actor.IsStaff || actor.IsSuperuser)
}

// Check evaluates the predicates in order; the first denial loses
func Check(actor *models.User, resource any, predicates ...Predicate) bool {
	for _, p := range predicates {
		if !p(actor, resource) {
			return false
		}
	}
	return true
}
