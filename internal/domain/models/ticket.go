// internal/domain/models/ticket.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket priorities, lowest to highest.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Ticket statuses.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// ResolutionUnspecified is stored when a ticket is closed without a
// resolution and none was recorded earlier.
const ResolutionUnspecified = "Unspecified."

// Ticket is an issue tracked within a project. TeamID duplicates the
// project's team reference so team-scoped ticket queries avoid a join;
// like Project.TeamID it is nulled if the team is deleted.
type Ticket struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	ProjectID   primitive.ObjectID  `bson:"project_id" json:"project_id"`
	TeamID      *primitive.ObjectID `bson:"team_id,omitempty" json:"team_id,omitempty"`
	SubmitterID primitive.ObjectID  `bson:"submitter_id" json:"submitter_id"`
	Title       string              `bson:"title" json:"title"`
	TitleCI     string              `bson:"title_ci" json:"title_ci"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Resolution  string              `bson:"resolution,omitempty" json:"resolution,omitempty"`
	Priority    string              `bson:"priority" json:"priority"`
	Status      string              `bson:"status" json:"status"`

	// DeveloperIDs are the users assigned to work this ticket, normally a
	// subset of the project's developers (not enforced by the data layer).
	DeveloperIDs  []primitive.ObjectID `bson:"developer_ids,omitempty" json:"developer_ids,omitempty"`
	SubscriberIDs []primitive.ObjectID `bson:"subscriber_ids,omitempty" json:"subscriber_ids,omitempty"`

	CreatedOn     time.Time `bson:"created_on" json:"created_on"`
	LastUpdatedOn time.Time `bson:"last_updated_on" json:"last_updated_on"`
}

// IsOpen reports whether the ticket is open.
func (t Ticket) IsOpen() bool { return t.Status == StatusOpen }

// AssignedTo reports whether userID is in the ticket's developer set.
func (t Ticket) AssignedTo(userID primitive.ObjectID) bool {
	return containsID(t.DeveloperIDs, userID)
}

// HasSubscriber reports whether userID is in the ticket's subscriber set.
func (t Ticket) HasSubscriber(userID primitive.ObjectID) bool {
	return containsID(t.SubscriberIDs, userID)
}

// PriorityRank orders priorities for sorting: urgent > high > medium > low.
// Unknown priorities sort last.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// ValidPriority reports whether priority is one of the known levels.
func ValidPriority(priority string) bool {
	return PriorityRank(priority) < 4
}
