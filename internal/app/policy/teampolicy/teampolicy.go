// Package teampolicy answers team-scoped authorization questions.
//
// Authorization rules:
//   - Owners hold every team-wide capability.
//   - Managers are ordinary members for team administration purposes;
//     their authority exists only through the projects they manage
//     (see projectpolicy).
//   - Staff accounts can view any team but gain no management rights.
//
// All functions are pure: callers resolve the actor's role through the
// membership store and pass it in. A caller that receives false should
// surface the failure as "not found", never as "forbidden", so that
// outsiders cannot distinguish a hidden team from a missing one.
package teampolicy

import (
	"github.com/dalemusser/trackhub/internal/domain/models"
)

// CanView reports whether a user with the given role may see the team at
// all. Staff override applies to viewing only.
func CanView(role models.Role, isStaff bool) bool {
	return role != models.RoleNone || isStaff
}

// CanManage reports whether the role carries team administration rights:
// adding/removing owners, managers, and members, editing team metadata,
// and sending invitations. Owner only; Manager is deliberately excluded.
func CanManage(role models.Role) bool {
	return role == models.RoleOwner
}

// CanCreateProject reports whether the role may create projects, update
// project metadata, or toggle a project's archived flag. Owner only.
func CanCreateProject(role models.Role) bool {
	return role == models.RoleOwner
}
