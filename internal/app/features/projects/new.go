// internal/app/features/projects/new.go
package projects

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/gates"
	"github.com/dalemusser/trackhub/internal/app/system/inputval"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// createProjectInput defines validation rules for creating a project.
type createProjectInput struct {
	Title       string `validate:"required,max=200" label:"Project title"`
	Description string `validate:"max=2000" label:"Description"`
}

// ServeNew renders the "New Project" form. Owner only; the team comes
// from the ?team= query parameter.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(query.Get(r, "team"))
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	res := gates.RequireTeamManage(w, r, h.Resolver, teamID, models.RoleOwner)
	if !res.OK {
		return
	}

	data := newData{TeamID: teamID.Hex()}
	formutil.SetBase(&data.Base, r, "New Project", "/teams/"+teamID.Hex()+"/view")
	templates.Render(w, r, "project_new", data)
}

// HandleCreate processes the New Project form submission.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/teams")
		return
	}

	teamID, err := primitive.ObjectIDFromHex(strings.TrimSpace(r.FormValue("team")))
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	res := gates.RequireTeamManage(w, r, h.Resolver, teamID, models.RoleOwner)
	if !res.OK {
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	backURL := "/teams/" + teamID.Hex() + "/view"

	renderWithError := func(msg string) {
		data := newData{
			TeamID:       teamID.Hex(),
			ProjectTitle: title,
			Description:  description,
		}
		formutil.SetBase(&data.Base, r, "New Project", backURL)
		data.SetError(msg)
		templates.Render(w, r, "project_new", data)
	}

	input := createProjectInput{Title: title, Description: description}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := projectstore.New(h.DB).Create(ctx, models.Project{
		TeamID:      &teamID,
		Title:       title,
		Description: description,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create project failed", err, "Database error while creating the project.", backURL)
		return
	}

	h.Log.Info("project created",
		zap.String("project_id", p.ID.Hex()),
		zap.String("team_id", teamID.Hex()))

	http.Redirect(w, r, "/projects/"+p.ID.Hex()+"/view", http.StatusSeeOther)
}
