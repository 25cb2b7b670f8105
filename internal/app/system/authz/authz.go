// internal/app/system/authz/authz.go
package authz

import (
	"context"
	"net/http"

	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the current user's ID, display name, and a found flag.
// ok=true means a valid, authenticated user is attached to the request.
func UserCtx(r *http.Request) (userID primitive.ObjectID, name string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	return user.ID, user.Name, true
}

// IsStaff reports whether the current request's user carries the staff
// flag. Staff accounts bypass team scoping for read access.
func IsStaff(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	return ok && user.IsStaff
}

// Resolver turns a request's user into a team role. Roles are never
// cached in the session; every request re-reads the membership so a
// demotion takes effect immediately.
type Resolver struct {
	Memberships *membershipstore.Store
}

// TeamRole resolves the current user's role in the team. Visitors and
// non-members resolve to RoleNone.
func (rs Resolver) TeamRole(ctx context.Context, r *http.Request, teamID primitive.ObjectID) (models.Role, error) {
	userID, _, ok := UserCtx(r)
	if !ok {
		return models.RoleNone, nil
	}
	return rs.Memberships.RoleOf(ctx, teamID, userID)
}
