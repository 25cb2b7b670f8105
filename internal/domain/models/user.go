// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account that can belong to any number of teams.
//
// NOTE:
//   - Team standing is not embedded on User.
//     Use the team_memberships collection to discover a user's teams.
//   - NotificationSettings may be partial or nil; absent keys fall back
//     to NotificationDefaults. Always read through NotificationEnabled.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"username_ci"` // lowercase, diacritics-stripped
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	IsStaff    bool               `bson:"is_staff,omitempty" json:"is_staff,omitempty"`

	// bcrypt hash; never serialized to JSON.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	NotificationSettings map[string]bool `bson:"notification_settings,omitempty" json:"notification_settings,omitempty"`

	// Convenience pointer for the UI ("jump back to where I was"),
	// never consulted by authorization.
	LastViewedProjectID *primitive.ObjectID `bson:"last_viewed_project_id,omitempty" json:"last_viewed_project_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NotificationEnabled reports whether the given notification key is enabled
// for this user, applying the documented default when the key (or the whole
// settings map) is absent.
func (u User) NotificationEnabled(key string) bool {
	if u.NotificationSettings != nil {
		if v, ok := u.NotificationSettings[key]; ok {
			return v
		}
	}
	if def, ok := NotificationDefaults[key]; ok {
		return def
	}
	return true
}
