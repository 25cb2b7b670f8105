// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a unit of work within a team. It has at most one manager
// (expected to be a team manager or owner; the caller enforces that) and
// any number of developers drawn from the team's members.
//
// TeamID is a pointer because a project survives team deletion as an
// orphan with the reference nulled.
//
// SubscriberIDs is an independent set: project-level subscription is a
// bulk convenience over ticket subscriptions, not a live relationship.
type Project struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	TeamID      *primitive.ObjectID `bson:"team_id,omitempty" json:"team_id,omitempty"`
	Title       string              `bson:"title" json:"title"`
	TitleCI     string              `bson:"title_ci" json:"title_ci"`
	Description string              `bson:"description" json:"description"`
	ManagerID   *primitive.ObjectID `bson:"manager_id,omitempty" json:"manager_id,omitempty"`
	IsArchived  bool                `bson:"is_archived" json:"is_archived"`

	DeveloperIDs  []primitive.ObjectID `bson:"developer_ids,omitempty" json:"developer_ids,omitempty"`
	SubscriberIDs []primitive.ObjectID `bson:"subscriber_ids,omitempty" json:"subscriber_ids,omitempty"`

	CreatedOn time.Time `bson:"created_on" json:"created_on"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsManager reports whether userID is this project's manager.
func (p Project) IsManager(userID primitive.ObjectID) bool {
	return p.ManagerID != nil && *p.ManagerID == userID
}

// HasDeveloper reports whether userID is in the project's developer set.
func (p Project) HasDeveloper(userID primitive.ObjectID) bool {
	return containsID(p.DeveloperIDs, userID)
}

// HasSubscriber reports whether userID is in the project's subscriber set.
func (p Project) HasSubscriber(userID primitive.ObjectID) bool {
	return containsID(p.SubscriberIDs, userID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
