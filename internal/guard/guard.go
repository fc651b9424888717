// Package guard holds the role and ownership checks every protected
// operation runs before touching storage.
//
// There is no default-allow: an operation that forgets to call RequireRole
// has no other path to authorization.
package guard

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/model"
)

// RequireRole fails with a Forbidden error unless caller holds role.
// A nil caller never passes.
func RequireRole(caller *model.User, role model.Role) error {
	if caller == nil {
		return apperror.Forbidden("Unauthorized", "authentication required")
	}
	if caller.Role != role {
		msg := fmt.Sprintf("User must be %s", role)
		return apperror.Forbidden(msg, msg)
	}
	return nil
}

// RequireSelf fails with a Forbidden error unless ownerID is the caller's
// own ID. detail names what the caller tried to do on someone else's behalf
// ("Cannot create job for another user").
func RequireSelf(caller *model.User, ownerID uuid.UUID, detail string) error {
	if caller == nil || caller.ID != ownerID {
		return apperror.Forbidden("Unauthorized", detail)
	}
	return nil
}

// Require runs RequireRole and then RequireSelf.
func Require(caller *model.User, role model.Role, ownerID uuid.UUID, detail string) error {
	if err := RequireRole(caller, role); err != nil {
		return err
	}
	return RequireSelf(caller, ownerID, detail)
}
