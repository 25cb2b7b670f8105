// internal/app/features/tickets/view.go
package tickets

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	commentstore "github.com/dalemusser/trackhub/internal/app/store/comments"
	filestore "github.com/dalemusser/trackhub/internal/app/store/ticketfiles"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/policy/ticketpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/markdown"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeView renders the ticket page: description, assigned developers,
// attachments, and comments newest-first. Description and comment text
// are rendered as sanitized markdown.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.resolveTicket(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if !ticketpolicy.CanView(tc.Role, tc.UserID, tc.Project, tc.IsStaff) {
		uierrors.RenderNotFound(w, r)
		return
	}

	t := tc.Ticket

	comments, err := commentstore.New(h.DB).ListByTicket(ctx, t.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list comments failed", err, "Unable to load the ticket.", "/teams")
		return
	}
	files, err := filestore.New(h.DB).ListByTicket(ctx, t.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list ticket files failed", err, "Unable to load the ticket.", "/teams")
		return
	}

	// Resolve every person on the page in one query: submitter, assigned
	// developers, and comment authors.
	personIDs := append([]primitive.ObjectID{t.SubmitterID}, t.DeveloperIDs...)
	for _, c := range comments {
		personIDs = append(personIDs, c.AuthorID)
	}
	people, err := userstore.New(h.DB).GetMany(ctx, personIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load ticket people failed", err, "Unable to load the ticket.", "/teams")
		return
	}
	personByID := make(map[primitive.ObjectID]models.User, len(people))
	for _, u := range people {
		personByID[u.ID] = u
	}
	displayName := func(id primitive.ObjectID) string {
		u, ok := personByID[id]
		if !ok {
			return "(removed user)"
		}
		if u.Name != "" {
			return u.Name
		}
		return u.Username
	}

	canUpdate := !tc.IsStaff && ticketpolicy.CanUpdate(tc.Role, tc.UserID, tc.Project, t)

	data := viewData{
		ID:          t.ID.Hex(),
		ProjectID:   t.ProjectID.Hex(),
		TicketTitle: t.Title,
		Description: markdown.Render(t.Description),
		Priority:    t.Priority,
		Status:      t.Status,
		Resolution:  t.Resolution,
		IsOpen:      t.IsOpen(),
		IsArchived:  tc.Project.IsArchived,

		CanUpdate:    canUpdate,
		CanComment:   !tc.IsStaff,
		IsSubscribed: t.HasSubscriber(tc.UserID),
	}

	if u, ok := personByID[t.SubmitterID]; ok {
		data.Submitter = &personRow{UserID: u.ID, Username: u.Username, Name: u.Name}
	}
	for _, id := range t.DeveloperIDs {
		if u, ok := personByID[id]; ok {
			data.Developers = append(data.Developers, personRow{UserID: u.ID, Username: u.Username, Name: u.Name})
		}
	}

	for _, c := range comments {
		data.Comments = append(data.Comments, commentRow{
			ID:        c.ID,
			Author:    displayName(c.AuthorID),
			Body:      markdown.Render(c.Text),
			CreatedOn: c.CreatedOn,
			CanDelete: !tc.IsStaff && ticketpolicy.CanDeleteComment(tc.Role, tc.UserID, c),
		})
	}
	for _, f := range files {
		data.Files = append(data.Files, fileRow{
			ID:         f.ID,
			FileTitle:  f.Title,
			FileName:   f.FileName,
			Size:       f.Size,
			UploadedOn: f.UploadedOn,
		})
	}

	formutil.SetBase(&data.Base, r, t.Title, "/projects/"+t.ProjectID.Hex()+"/view")
	templates.Render(w, r, "ticket_view", data)
}
