package usecase

import (
	"github.com/google/uuid"

	"github.com/basafinder/basafinder-backend/internal/domain/model"
)

// Actor is the authenticated caller of a core operation. It is the
// single closed identity type used by every authorization check.
type Actor struct {
	ID   uuid.UUID
	Role model.UserRole
}

// canAccess decides whether the actor may operate on a resource owned
// by ownerID when the operation is reserved for the given role.
// Admins may always act; everyone else must hold the role and own the
// resource. An explicit deny here surfaces as Forbidden, never as a
// filtered empty result.
func canAccess(actor Actor, role model.UserRole, ownerID uuid.UUID) bool {
	if actor.Role == model.RoleAdmin {
		return true
	}
	return actor.Role == role && actor.ID == ownerID
}
