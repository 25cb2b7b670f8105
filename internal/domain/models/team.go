// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is the top-level grouping of users and projects.
//
// NOTE:
//   - Member/owner lists are not embedded here.
//     All standing is stored in the team_memberships collection, and a
//     valid team always has at least one membership with RoleOwner.
//   - Slug is derived from Title at creation and never changes.
type Team struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"`
	Description string             `bson:"description" json:"description"`
	Slug        string             `bson:"slug" json:"slug"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
