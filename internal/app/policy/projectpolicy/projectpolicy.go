// Package projectpolicy answers project-scoped authorization questions.
//
// Authorization rules:
//   - Team owners see and manage every project in the team.
//   - The project's manager and its developers see the project.
//   - A team manager who does not manage this specific project has no
//     automatic access: the Manager role grants no blanket project
//     visibility.
//
// Functions are pure; callers fetch the project and the actor's team role
// first. A false answer must surface as "not found" (existence
// obfuscation), not "forbidden".
package projectpolicy

import (
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanView reports whether the user may see the project and its tickets.
func CanView(role models.Role, userID primitive.ObjectID, p models.Project, isStaff bool) bool {
	if isStaff || role == models.RoleOwner {
		return true
	}
	if role == models.RoleNone {
		return false
	}
	return p.IsManager(userID) || p.HasDeveloper(userID)
}

// CanManageDevelopers reports whether the user may add or remove project
// developers. Team owner or this project's manager; a team Manager who
// does not manage the project is insufficient.
func CanManageDevelopers(role models.Role, userID primitive.ObjectID, p models.Project) bool {
	return role == models.RoleOwner || p.IsManager(userID)
}
