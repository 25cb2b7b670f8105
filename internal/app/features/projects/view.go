// internal/app/features/projects/view.go
package projects

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	ticketstore "github.com/dalemusser/trackhub/internal/app/store/tickets"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/trackhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/trackhub/internal/app/policy/ticketpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeView renders the project page: description, manager, developers,
// and the ticket list ordered by urgency then recency.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pc, ok := h.resolveProject(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if !projectpolicy.CanView(pc.Role, pc.UserID, pc.Project, pc.IsStaff) {
		uierrors.RenderNotFound(w, r)
		return
	}

	p := pc.Project

	tickets, err := ticketstore.New(h.DB).ListByProject(ctx, p.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tickets failed", err, "Unable to load the project.", "/teams")
		return
	}
	ticketRows := make([]ticketRow, 0, len(tickets))
	for _, t := range tickets {
		ticketRows = append(ticketRows, ticketRow{
			ID:        t.ID,
			Title:     t.Title,
			Priority:  t.Priority,
			Status:    t.Status,
			UpdatedOn: t.LastUpdatedOn,
		})
	}

	// Resolve the people shown on the page in one query.
	personIDs := make([]primitive.ObjectID, 0, len(p.DeveloperIDs)+1)
	if p.ManagerID != nil {
		personIDs = append(personIDs, *p.ManagerID)
	}
	personIDs = append(personIDs, p.DeveloperIDs...)

	users := userstore.New(h.DB)
	people, err := users.GetMany(ctx, personIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load project people failed", err, "Unable to load the project.", "/teams")
		return
	}
	personByID := make(map[primitive.ObjectID]models.User, len(people))
	for _, u := range people {
		personByID[u.ID] = u
	}

	data := viewData{
		ID:           p.ID.Hex(),
		ProjectTitle: p.Title,
		Description:  p.Description,
		IsArchived:   p.IsArchived,

		CanEdit:       !pc.IsStaff && teampolicy.CanCreateProject(pc.Role),
		CanManageDevs: !pc.IsStaff && projectpolicy.CanManageDevelopers(pc.Role, pc.UserID, p),
		IsSubscribed:  p.HasSubscriber(pc.UserID),
		CanCreate:     !pc.IsStaff && ticketpolicy.CanCreate(pc.Role, pc.UserID, p),

		Tickets: ticketRows,
	}
	if p.TeamID != nil {
		data.TeamID = p.TeamID.Hex()
	}
	if p.ManagerID != nil {
		if u, ok := personByID[*p.ManagerID]; ok {
			data.Manager = &personRow{UserID: u.ID, Username: u.Username, Name: u.Name}
		}
	}
	for _, id := range p.DeveloperIDs {
		if u, ok := personByID[id]; ok {
			data.Developers = append(data.Developers, personRow{UserID: u.ID, Username: u.Username, Name: u.Name})
		}
	}

	// Remember where the user was; purely a convenience, never fatal.
	if !pc.IsStaff {
		if err := users.SetLastViewedProject(ctx, pc.UserID, &p.ID); err != nil {
			h.Log.Debug("set last viewed project", zap.Error(err))
		}
	}

	backURL := "/teams"
	if p.TeamID != nil {
		backURL = "/teams/" + p.TeamID.Hex() + "/view"
	}
	formutil.SetBase(&data.Base, r, p.Title, backURL)
	templates.Render(w, r, "project_view", data)
}
