// internal/domain/models/ticketfile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketFile is an attachment on a ticket. Title is unique within the
// ticket (unique index on ticket_id + title_ci). The blob itself lives in
// the storage backend at Path; content type and size are validated before
// the document is created.
type TicketFile struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TicketID     primitive.ObjectID  `bson:"ticket_id" json:"ticket_id"`
	Title        string              `bson:"title" json:"title"`
	TitleCI      string              `bson:"title_ci" json:"title_ci"`
	UploadedByID *primitive.ObjectID `bson:"uploaded_by_id,omitempty" json:"uploaded_by_id,omitempty"`
	Path         string              `bson:"path" json:"path"`
	FileName     string              `bson:"file_name" json:"file_name"`
	Size         int64               `bson:"size" json:"size"`
	ContentType  string              `bson:"content_type" json:"content_type"`
	UploadedOn   time.Time           `bson:"uploaded_on" json:"uploaded_on"`
}
