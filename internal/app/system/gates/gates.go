// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, rendering appropriate error
// pages when checks fail.
//
// # Three-Tier Authorization Pattern
//
// TrackHub uses a three-tier authorization approach:
//
//  1. Route-Level Middleware (auth.RequireSignedIn, auth.RequireStaff)
//     Applied in routes.go files for coarse-grained access control.
//     When middleware handles the check, handlers don't need gates.
//
//  2. Handler-Level Gates (this package)
//     Used in handlers that need checks WITHOUT route-level middleware,
//     or need a team role resolved against the database.
//     Gates render error pages and return user context.
//
//  3. Policy Layer (internal/app/policy/*)
//     Used for resource-specific authorization decisions.
//     Example: projectpolicy.CanManageProject checks a specific project.
//     Policies return booleans - callers handle error rendering.
//
// Team-scoped denials render a not-found page rather than a forbidden page,
// so probing for team slugs reveals nothing about which teams exist.
package gates

import (
	"net/http"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	UserID  primitive.ObjectID
	Name    string
	IsStaff bool
	Role    models.Role
	OK      bool
}

// RequireAuth ensures a user is authenticated.
// If not authenticated, it renders an unauthorized error and returns OK=false.
// The loginURL parameter specifies where to redirect for login.
func RequireAuth(w http.ResponseWriter, r *http.Request, loginURL string) Result {
	uid, name, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, loginURL)
		return Result{OK: false}
	}
	return Result{UserID: uid, Name: name, IsStaff: authz.IsStaff(r), OK: true}
}

// RequireStaff ensures the user is authenticated and carries the staff flag.
// If not authenticated, renders unauthorized error.
// If authenticated but not staff, renders forbidden error with the provided
// message and fallback URL.
func RequireStaff(w http.ResponseWriter, r *http.Request, forbiddenMsg, fallbackURL string) Result {
	uid, name, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}
	if !authz.IsStaff(r) {
		uierrors.RenderForbidden(w, r, forbiddenMsg, fallbackURL)
		return Result{OK: false}
	}
	return Result{UserID: uid, Name: name, IsStaff: true, OK: true}
}

// RequireTeamRole ensures the user is authenticated and holds at least
// minRole on the given team. Staff accounts pass regardless of membership.
// Denials render a not-found page, not a forbidden page.
func RequireTeamRole(w http.ResponseWriter, r *http.Request, resolver *authz.Resolver, teamID primitive.ObjectID, minRole models.Role) Result {
	uid, name, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}
	if authz.IsStaff(r) {
		return Result{UserID: uid, Name: name, IsStaff: true, Role: models.RoleOwner, OK: true}
	}
	role, err := resolver.TeamRole(r.Context(), r, teamID)
	if err != nil || role < minRole {
		uierrors.RenderNotFound(w, r)
		return Result{OK: false}
	}
	return Result{UserID: uid, Name: name, Role: role, OK: true}
}

// RequireTeamManage is RequireTeamRole without the staff shortcut: the
// actor's real membership role is resolved and must meet minRole.
// Management rights come only from membership; the staff flag grants
// read access elsewhere but never write access.
func RequireTeamManage(w http.ResponseWriter, r *http.Request, resolver *authz.Resolver, teamID primitive.ObjectID, minRole models.Role) Result {
	uid, name, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}
	role, err := resolver.TeamRole(r.Context(), r, teamID)
	if err != nil || role < minRole {
		uierrors.RenderNotFound(w, r)
		return Result{OK: false}
	}
	return Result{UserID: uid, Name: name, IsStaff: authz.IsStaff(r), Role: role, OK: true}
}
