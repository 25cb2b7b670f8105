// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a user's standing within one team. The zero value means the
// user has no membership at all.
type Role int

const (
	RoleNone    Role = 0
	RoleMember  Role = 1
	RoleManager Role = 2
	RoleOwner   Role = 3
)

// String returns the display name for the role.
func (r Role) String() string {
	switch r {
	case RoleMember:
		return "Member"
	case RoleManager:
		return "Manager"
	case RoleOwner:
		return "Owner"
	default:
		return "None"
	}
}

// Valid reports whether r is one of the three assignable roles.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleManager || r == RoleOwner
}

// TeamMembership is the authoritative join between users and teams.
// Exactly one document per (team_id, user_id); there is no separate
// owner field anywhere else.
type TeamMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID    primitive.ObjectID `bson:"team_id" json:"team_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role      Role               `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
