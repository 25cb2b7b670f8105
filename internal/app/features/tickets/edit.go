// internal/app/features/tickets/edit.go
package tickets

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	ticketstore "github.com/dalemusser/trackhub/internal/app/store/tickets"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/policy/ticketpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/inputval"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// developerNotFoundMsg deliberately covers both failure cases so the
// form cannot be used to learn which usernames exist.
const developerNotFoundMsg = "That user does not exist or is not a developer on this project."

// editTicketInput defines validation rules for updating a ticket.
type editTicketInput struct {
	Title       string `validate:"required,max=200" label:"Ticket title"`
	Description string `validate:"max=10000" label:"Description"`
	Resolution  string `validate:"max=10000" label:"Resolution"`
}

// requireUpdate resolves the ticket and checks the actor may modify it.
// Staff read everywhere but never write.
func (h *Handler) requireUpdate(ctx context.Context, w http.ResponseWriter, r *http.Request) (ticketCtx, bool) {
	tc, ok := h.resolveTicket(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return ticketCtx{}, false
	}
	if tc.IsStaff || !ticketpolicy.CanUpdate(tc.Role, tc.UserID, tc.Project, tc.Ticket) {
		uierrors.RenderNotFound(w, r)
		return ticketCtx{}, false
	}
	return tc, true
}

// ServeEdit renders the "Edit Ticket" form.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.requireUpdate(ctx, w, r)
	if !ok {
		return
	}

	t := tc.Ticket
	data := editData{
		ID:          t.ID.Hex(),
		TicketTitle: t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Resolution:  t.Resolution,
		Priorities:  priorityChoices,
	}
	formutil.SetBase(&data.Base, r, "Edit Ticket", tc.backURL())
	templates.Render(w, r, "ticket_edit", data)
}

// HandleEdit processes the Edit Ticket form submission.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/teams")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.requireUpdate(ctx, w, r)
	if !ok {
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	resolution := strings.TrimSpace(r.FormValue("resolution"))
	priority := normalize.Priority(r.FormValue("priority"))
	backURL := tc.backURL()

	renderWithError := func(msg string) {
		data := editData{
			ID:          tc.Ticket.ID.Hex(),
			TicketTitle: title,
			Description: description,
			Priority:    priority,
			Resolution:  resolution,
			Priorities:  priorityChoices,
		}
		formutil.SetBase(&data.Base, r, "Edit Ticket", backURL)
		data.SetError(msg)
		templates.Render(w, r, "ticket_edit", data)
	}

	input := editTicketInput{Title: title, Description: description, Resolution: resolution}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}
	if !models.ValidPriority(priority) {
		renderWithError("Priority is invalid.")
		return
	}

	if err := ticketstore.New(h.DB).Update(ctx, tc.Ticket.ID, title, description, resolution, priority); err != nil {
		h.ErrLog.LogServerError(w, r, "update ticket failed", err, "Database error while updating the ticket.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleAddDeveloper assigns one of the project's developers to the
// ticket; assignment also subscribes them. Unknown usernames and users
// outside the project's developer set report the same message.
func (h *Handler) HandleAddDeveloper(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/teams")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.requireUpdate(ctx, w, r)
	if !ok {
		return
	}

	backURL := tc.backURL()
	username := normalize.Name(r.FormValue("username"))
	if username == "" {
		uierrors.RenderForbidden(w, r, developerNotFoundMsg, backURL)
		return
	}

	target, err := userstore.New(h.DB).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderForbidden(w, r, developerNotFoundMsg, backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "lookup user failed", err, "Database error while updating the ticket.", backURL)
		return
	}
	if !tc.Project.HasDeveloper(target.ID) {
		uierrors.RenderForbidden(w, r, developerNotFoundMsg, backURL)
		return
	}

	if err := ticketstore.New(h.DB).AddDeveloper(ctx, tc.Ticket.ID, target.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "assign developer failed", err, "Database error while updating the ticket.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleRemoveDeveloper unassigns a currently-assigned developer. Their
// ticket subscription survives the unassignment.
func (h *Handler) HandleRemoveDeveloper(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.requireUpdate(ctx, w, r)
	if !ok {
		return
	}

	backURL := tc.backURL()

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil || !tc.Ticket.AssignedTo(targetID) {
		uierrors.RenderForbidden(w, r, developerNotFoundMsg, backURL)
		return
	}

	if err := ticketstore.New(h.DB).RemoveDeveloper(ctx, tc.Ticket.ID, targetID); err != nil {
		h.ErrLog.LogServerError(w, r, "unassign developer failed", err, "Database error while updating the ticket.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
