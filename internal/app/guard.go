package app

import (
	"github.com/google/uuid"

	"staybook/internal/domain"
)

// Principal is the authenticated caller as established by the token
// middleware.
type Principal struct {
	ID   uuid.UUID
	Role domain.Role
}

// AssertOwner gates mutations of a specific hotel/room instance. Roles decide
// which endpoints are reachable at all; this decides which instances a given
// owner may touch. Admin gets no bypass: an admin who does not own the
// resource is rejected like anyone else.
func AssertOwner(p Principal, ownerID uuid.UUID) error {
	if p.ID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}
