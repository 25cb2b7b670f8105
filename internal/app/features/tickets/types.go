// internal/app/features/tickets/types.go
package tickets

import (
	"html/template"
	"time"

	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// priorityChoices drives the priority <select> on the new/edit forms,
// highest first.
var priorityChoices = []string{
	models.PriorityUrgent,
	models.PriorityHigh,
	models.PriorityMedium,
	models.PriorityLow,
}

// newData is the view model for the "New Ticket" page.
type newData struct {
	formutil.Base

	ProjectID   string
	TicketTitle string
	Description string
	Priority    string
	Priorities  []string
}

// editData is the view model for the "Edit Ticket" page.
type editData struct {
	formutil.Base

	ID          string
	TicketTitle string
	Description string
	Priority    string
	Resolution  string
	Priorities  []string
}

// personRow names a submitter or assigned developer on the ticket page.
type personRow struct {
	UserID   primitive.ObjectID
	Username string
	Name     string
}

// commentRow is one comment on the ticket page, newest first.
type commentRow struct {
	ID        primitive.ObjectID
	Author    string
	Body      template.HTML
	CreatedOn time.Time
	CanDelete bool
}

// fileRow is one attachment on the ticket page.
type fileRow struct {
	ID         primitive.ObjectID
	FileTitle  string
	FileName   string
	Size       int64
	UploadedOn time.Time
}

// viewData is the view model for the ticket view page.
type viewData struct {
	formutil.Base

	ID          string
	ProjectID   string
	TicketTitle string
	Description template.HTML
	Priority    string
	Status      string
	Resolution  string
	IsOpen      bool
	IsArchived  bool

	Submitter  *personRow
	Developers []personRow

	CanUpdate    bool // owner, project manager, or assigned developer
	CanComment   bool
	IsSubscribed bool

	Comments []commentRow
	Files    []fileRow
}
