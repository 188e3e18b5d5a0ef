// Package authz decides whether an actor may modify an entity, given
// authorship, role and the age of the entity.
package authz

import (
	"time"

	"github.com/google/uuid"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

// DefaultEditWindow is how long an author may edit, delete or clear attempts
// on their own content. Elevated roles are not subject to it.
const DefaultEditWindow = 24 * time.Hour

// CanModify is the authorization gate run before edit, delete and
// attempt-clear operations. Pure function of its inputs.
//
// Elevated roles are always allowed. Authors are allowed while the entity is
// younger than window; everyone else is denied. The returned error is a
// ForbiddenError carrying "unauthorized" or "window_expired".
func CanModify(authorID uuid.UUID, createdAt time.Time, actorID uuid.UUID, role models.Role, window time.Duration, now time.Time) error {
	if role.Elevated() {
		return nil
	}
	if actorID != authorID {
		return models.Forbidden(models.ReasonUnauthorized)
	}
	if now.After(createdAt.Add(window)) {
		return models.Forbidden(models.ReasonWindowExpired)
	}
	return nil
}
