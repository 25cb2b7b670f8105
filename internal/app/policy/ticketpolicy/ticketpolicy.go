// Package ticketpolicy answers ticket-scoped authorization questions.
//
// Viewing a ticket follows the parent project's visibility rule. Updating
// is narrower than creating: any project developer may file a ticket, but
// only the ticket's assigned developers (plus the project manager and the
// team owners) may update or close it.
package ticketpolicy

import (
	"github.com/dalemusser/trackhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanView reports whether the user may see a ticket. Delegates to the
// parent project's visibility rule.
func CanView(role models.Role, userID primitive.ObjectID, parent models.Project, isStaff bool) bool {
	return projectpolicy.CanView(role, userID, parent, isStaff)
}

// CanCreate reports whether the user may file a new ticket under the
// project: team owner, project manager, or any project developer.
func CanCreate(role models.Role, userID primitive.ObjectID, parent models.Project) bool {
	return role == models.RoleOwner || parent.IsManager(userID) || parent.HasDeveloper(userID)
}

// CanUpdate reports whether the user may edit, close, or reopen the
// ticket: team owner, project manager, or a developer assigned to this
// ticket. A project developer who is not assigned to the ticket cannot.
func CanUpdate(role models.Role, userID primitive.ObjectID, parent models.Project, t models.Ticket) bool {
	return role == models.RoleOwner || parent.IsManager(userID) || t.AssignedTo(userID)
}

// CanDeleteComment reports whether the user may delete a comment: team
// owner or the comment's author.
func CanDeleteComment(role models.Role, userID primitive.ObjectID, c models.Comment) bool {
	return role == models.RoleOwner || c.AuthorID == userID
}
