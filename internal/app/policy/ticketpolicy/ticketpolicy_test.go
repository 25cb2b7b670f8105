package ticketpolicy_test

import (
	"testing"

	"github.com/dalemusser/trackhub/internal/app/policy/ticketpolicy"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanCreateVsCanUpdate(t *testing.T) {
	manager := primitive.NewObjectID()
	assignedDev := primitive.NewObjectID()
	unassignedDev := primitive.NewObjectID()

	project := models.Project{
		ID:           primitive.NewObjectID(),
		ManagerID:    &manager,
		DeveloperIDs: []primitive.ObjectID{assignedDev, unassignedDev},
	}
	ticket := models.Ticket{
		ID:           primitive.NewObjectID(),
		ProjectID:    project.ID,
		DeveloperIDs: []primitive.ObjectID{assignedDev},
	}

	// Any project developer may file tickets.
	if !ticketpolicy.CanCreate(models.RoleMember, unassignedDev, project) {
		t.Error("project developer should be able to create tickets")
	}
	// But only ticket-assigned developers may update them.
	if ticketpolicy.CanUpdate(models.RoleMember, unassignedDev, project, ticket) {
		t.Error("unassigned project developer must not update the ticket")
	}
	if !ticketpolicy.CanUpdate(models.RoleMember, assignedDev, project, ticket) {
		t.Error("assigned developer should update the ticket")
	}
	if !ticketpolicy.CanUpdate(models.RoleManager, manager, project, ticket) {
		t.Error("project manager should update the ticket")
	}
	if !ticketpolicy.CanUpdate(models.RoleOwner, primitive.NewObjectID(), project, ticket) {
		t.Error("team owner should update any ticket")
	}
	if ticketpolicy.CanCreate(models.RoleMember, primitive.NewObjectID(), project) {
		t.Error("plain member must not create tickets")
	}
}

func TestCanView(t *testing.T) {
	dev := primitive.NewObjectID()
	project := models.Project{
		ID:           primitive.NewObjectID(),
		DeveloperIDs: []primitive.ObjectID{dev},
	}

	if !ticketpolicy.CanView(models.RoleMember, dev, project, false) {
		t.Error("project developer should view tickets")
	}
	if ticketpolicy.CanView(models.RoleManager, primitive.NewObjectID(), project, false) {
		t.Error("unrelated team manager must not view tickets")
	}
}

func TestCanDeleteComment(t *testing.T) {
	author := primitive.NewObjectID()
	other := primitive.NewObjectID()
	comment := models.Comment{ID: primitive.NewObjectID(), AuthorID: author}

	if !ticketpolicy.CanDeleteComment(models.RoleMember, author, comment) {
		t.Error("author should delete own comment")
	}
	if !ticketpolicy.CanDeleteComment(models.RoleOwner, other, comment) {
		t.Error("owner should delete any comment")
	}
	if ticketpolicy.CanDeleteComment(models.RoleManager, other, comment) {
		t.Error("manager must not delete another user's comment")
	}
}
