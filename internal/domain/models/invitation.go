// internal/domain/models/invitation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation statuses. Expiry is never stored; it is computed from
// CreatedOn (see IsExpired).
const (
	InvitationPending  = 1
	InvitationAccepted = 2
	InvitationDeclined = 3
)

// InvitationTTL is how long an invitation stays usable after creation.
const InvitationTTL = 7 * 24 * time.Hour

// TeamInvitation invites an email address (optionally resolved to an
// existing user) to join a team. The Token is the opaque identifier the
// invitee presents to accept or decline.
type TeamInvitation struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Token        string              `bson:"token" json:"token"`
	TeamID       primitive.ObjectID  `bson:"team_id" json:"team_id"`
	InviteeID    *primitive.ObjectID `bson:"invitee_id,omitempty" json:"invitee_id,omitempty"`
	InviteeEmail string              `bson:"invitee_email" json:"invitee_email"`
	Status       int                 `bson:"status" json:"status"`
	CreatedOn    time.Time           `bson:"created_on" json:"created_on"`
}

// IsExpired reports whether the invitation is older than InvitationTTL at
// the given instant, regardless of stored status.
func (i TeamInvitation) IsExpired(at time.Time) bool {
	return at.After(i.CreatedOn.Add(InvitationTTL))
}

// Usable reports whether the invitation can still be accepted: it must be
// pending and not expired.
func (i TeamInvitation) Usable(at time.Time) bool {
	return i.Status == InvitationPending && !i.IsExpired(at)
}
