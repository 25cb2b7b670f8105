// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// System comment texts appended by ticket state transitions.
const (
	CommentClosed   = "Closed."
	CommentReopened = "Reopened."
)

// Comment is a note on a ticket. Comments are listed newest-first.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TicketID  primitive.ObjectID `bson:"ticket_id" json:"ticket_id"`
	AuthorID  primitive.ObjectID `bson:"author_id" json:"author_id"`
	Text      string             `bson:"text" json:"text"`
	CreatedOn time.Time          `bson:"created_on" json:"created_on"`
}
