// internal/app/features/invitations/types.go
package invitations

import (
	"time"

	"github.com/dalemusser/trackhub/internal/app/system/formutil"
)

// newData is the view model for the "Invite to Team" form.
type newData struct {
	formutil.Base

	TeamID  string
	Invitee string
}

// listItem is one pending invitation on the listing page.
type listItem struct {
	Token     string
	TeamTitle string
	SentOn    time.Time
	Expired   bool
}

// listData is the view model for the pending invitation listing.
type listData struct {
	formutil.Base

	Invitations []listItem
}

// viewData is the view model for a single invitation page.
type viewData struct {
	formutil.Base

	Token     string
	TeamTitle string
	ExpiresOn time.Time
}
