// internal/app/features/teams/types.go
package teams

import (
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listItem is a single row in the teams list.
type listItem struct {
	ID          primitive.ObjectID
	Title       string
	TitleCI     string // case-insensitive title for cursor building
	Slug        string
	Description string
	Role        string // the viewer's role; empty on the staff listing
}

// listData is the view model for the teams list page.
type listData struct {
	formutil.Base

	Q     string
	Items []listItem

	// Pagination (staff listing only)
	Paged      bool
	Shown      int
	Total      int64
	HasPrev    bool
	HasNext    bool
	PrevCursor string
	NextCursor string
	RangeStart int
	RangeEnd   int
	PrevStart  int
	NextStart  int
}

// newData is the view model for the "New Team" page.
type newData struct {
	formutil.Base

	TeamTitle   string
	Description string
}

// memberRow is one member on the team view page.
type memberRow struct {
	UserID   primitive.ObjectID
	Username string
	Name     string
	Role     models.Role
	RoleName string
}

// projectRow is one project on the team view page.
type projectRow struct {
	ID         primitive.ObjectID
	Title      string
	IsArchived bool
}

// viewData is the view model for the team view page.
type viewData struct {
	formutil.Base

	ID           string
	TeamTitle    string
	Slug         string
	Description  string
	Role         models.Role
	RoleName     string
	CanManage    bool
	CanLeave     bool
	MemberQuery  string
	Members      []memberRow
	Projects     []projectRow
	PendingCount int64
}

// editData is the view model for the "Edit Team" page.
type editData struct {
	formutil.Base

	ID          string
	TeamTitle   string
	Description string
}
