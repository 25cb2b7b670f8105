// internal/app/features/projects/types.go
package projects

import (
	"time"

	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newData is the view model for the "New Project" page.
type newData struct {
	formutil.Base

	TeamID       string
	ProjectTitle string
	Description  string
}

// editData is the view model for the "Edit Project" page.
type editData struct {
	formutil.Base

	ID           string
	ProjectTitle string
	Description  string
}

// ticketRow is one ticket on the project view page.
type ticketRow struct {
	ID        primitive.ObjectID
	Title     string
	Priority  string
	Status    string
	UpdatedOn time.Time
}

// personRow names a manager or developer on the project view page.
type personRow struct {
	UserID   primitive.ObjectID
	Username string
	Name     string
}

// viewData is the view model for the project view page.
type viewData struct {
	formutil.Base

	ID           string
	TeamID       string
	ProjectTitle string
	Description  string
	IsArchived   bool

	Manager    *personRow
	Developers []personRow

	CanEdit       bool // owner only
	CanManageDevs bool // owner or project manager
	IsSubscribed  bool
	CanCreate     bool

	Tickets []ticketRow
}
