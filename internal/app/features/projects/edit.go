// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	"github.com/dalemusser/trackhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/inputval"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/go-chi/chi/v5"
)

// editProjectInput defines validation rules for editing a project.
type editProjectInput struct {
	Title       string `validate:"required,max=200" label:"Project title"`
	Description string `validate:"max=2000" label:"Description"`
}

// ServeEdit renders the "Edit Project" form. Owner only.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pc, ok := h.resolveProject(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if pc.IsStaff || !teampolicy.CanCreateProject(pc.Role) {
		uierrors.RenderNotFound(w, r)
		return
	}

	data := editData{
		ID:           pc.Project.ID.Hex(),
		ProjectTitle: pc.Project.Title,
		Description:  pc.Project.Description,
	}
	formutil.SetBase(&data.Base, r, "Edit Project", "/projects/"+pc.Project.ID.Hex()+"/view")
	templates.Render(w, r, "project_edit", data)
}

// HandleEdit processes the Edit Project form submission.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/teams")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pc, ok := h.resolveProject(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if pc.IsStaff || !teampolicy.CanCreateProject(pc.Role) {
		uierrors.RenderNotFound(w, r)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	backURL := "/projects/" + pc.Project.ID.Hex() + "/view"

	renderWithError := func(msg string) {
		data := editData{
			ID:           pc.Project.ID.Hex(),
			ProjectTitle: title,
			Description:  description,
		}
		formutil.SetBase(&data.Base, r, "Edit Project", backURL)
		data.SetError(msg)
		templates.Render(w, r, "project_edit", data)
	}

	input := editProjectInput{Title: title, Description: description}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	if err := projectstore.New(h.DB).UpdateInfo(ctx, pc.Project.ID, title, description); err != nil {
		h.ErrLog.LogServerError(w, r, "update project failed", err, "Database error while saving the project.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
