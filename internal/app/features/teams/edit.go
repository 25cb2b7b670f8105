// internal/app/features/teams/edit.go
package teams

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	teamstore "github.com/dalemusser/trackhub/internal/app/store/teams"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/gates"
	"github.com/dalemusser/trackhub/internal/app/system/inputval"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// editTeamInput defines validation rules for editing a team.
type editTeamInput struct {
	Description string `validate:"max=2000" label:"Description"`
}

// ServeEdit renders the "Edit Team" form. The title and slug are fixed
// at creation; only the description can change.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	res := gates.RequireTeamManage(w, r, h.Resolver, teamID, models.RoleOwner)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	team, err := teamstore.New(h.DB).GetByID(ctx, teamID)
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	data := editData{
		ID:          team.ID.Hex(),
		TeamTitle:   team.Title,
		Description: team.Description,
	}
	formutil.SetBase(&data.Base, r, "Edit Team", "/teams/"+team.ID.Hex()+"/view")
	templates.Render(w, r, "team_edit", data)
}

// HandleEdit processes the Edit Team form submission.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	res := gates.RequireTeamManage(w, r, h.Resolver, teamID, models.RoleOwner)
	if !res.OK {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/teams")
		return
	}

	description := strings.TrimSpace(r.FormValue("description"))
	backURL := "/teams/" + teamID.Hex() + "/view"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teamStore := teamstore.New(h.DB)
	team, err := teamStore.GetByID(ctx, teamID)
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	renderWithError := func(msg string) {
		data := editData{
			ID:          team.ID.Hex(),
			TeamTitle:   team.Title,
			Description: description,
		}
		formutil.SetBase(&data.Base, r, "Edit Team", backURL)
		data.SetError(msg)
		templates.Render(w, r, "team_edit", data)
	}

	input := editTeamInput{Description: description}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	if err := teamStore.UpdateDescription(ctx, teamID, description); err != nil {
		h.ErrLog.LogServerError(w, r, "update team failed", err, "Database error while saving the team.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
