// internal/app/features/projects/manage.go
package projects

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	teamstore "github.com/dalemusser/trackhub/internal/app/store/teams"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/trackhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// memberNotFoundMsg deliberately covers both failure cases so the form
// cannot be used to learn which usernames exist.
const (
	memberNotFoundMsg  = "That user does not exist or is not a member of this team."
	managerRoleNeedMsg = "The project manager must be a manager or owner of the team."
)

// HandleArchiveToggle flips the project's archived flag. Owner only.
// Archived projects stay readable but never send subscriber email.
func (h *Handler) HandleArchiveToggle(w http.ResponseWriter, r *http.Request) {
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

	backURL := "/projects/" + pc.Project.ID.Hex() + "/view"

	archived, err := projectstore.New(h.DB).ToggleArchive(ctx, pc.Project.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "toggle archive failed", err, "Database error while updating the project.", backURL)
		return
	}

	h.Log.Info("project archive toggled",
		zap.String("project_id", pc.Project.ID.Hex()),
		zap.Bool("archived", archived))

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleSetManager assigns or clears the project manager. Owner only.
// The new manager must hold the manager or owner role in the team;
// assignment sends a preference-gated email when the manager actually
// changes.
func (h *Handler) HandleSetManager(w http.ResponseWriter, r *http.Request) {
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

	backURL := "/projects/" + pc.Project.ID.Hex() + "/view"
	username := normalize.Name(r.FormValue("username"))

	projStore := projectstore.New(h.DB)

	// Empty username clears the manager slot.
	if username == "" {
		if err := projStore.SetManager(ctx, pc.Project.ID, nil); err != nil {
			h.ErrLog.LogServerError(w, r, "clear manager failed", err, "Database error while updating the project.", backURL)
			return
		}
		http.Redirect(w, r, backURL, http.StatusSeeOther)
		return
	}

	target, role, ok2 := h.resolveTeamMember(ctx, w, r, pc, username, backURL)
	if !ok2 {
		return
	}
	if role != models.RoleManager && role != models.RoleOwner {
		uierrors.RenderForbidden(w, r, managerRoleNeedMsg, backURL)
		return
	}

	changed := pc.Project.ManagerID == nil || *pc.Project.ManagerID != target.ID

	if err := projStore.SetManager(ctx, pc.Project.ID, &target.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "set manager failed", err, "Database error while updating the project.", backURL)
		return
	}

	if changed {
		h.notifyProjectRole(ctx, pc, target, "the manager")
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleAddDeveloper adds a team member to the project's developer set.
// Owner or project manager.
func (h *Handler) HandleAddDeveloper(w http.ResponseWriter, r *http.Request) {
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
	if pc.IsStaff || !projectpolicy.CanManageDevelopers(pc.Role, pc.UserID, pc.Project) {
		uierrors.RenderNotFound(w, r)
		return
	}

	backURL := "/projects/" + pc.Project.ID.Hex() + "/view"
	username := normalize.Name(r.FormValue("username"))

	target, _, ok2 := h.resolveTeamMember(ctx, w, r, pc, username, backURL)
	if !ok2 {
		return
	}

	if err := projectstore.New(h.DB).AddDeveloper(ctx, pc.Project.ID, target.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "add developer failed", err, "Database error while updating the project.", backURL)
		return
	}

	h.notifyProjectRole(ctx, pc, target, "a developer")

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleRemoveDeveloper removes a current developer from the project.
// Owner or project manager. A target who is not currently a developer
// reports the same message as an unknown user.
func (h *Handler) HandleRemoveDeveloper(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pc, ok := h.resolveProject(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if pc.IsStaff || !projectpolicy.CanManageDevelopers(pc.Role, pc.UserID, pc.Project) {
		uierrors.RenderNotFound(w, r)
		return
	}

	backURL := "/projects/" + pc.Project.ID.Hex() + "/view"

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil || !pc.Project.HasDeveloper(targetID) {
		uierrors.RenderForbidden(w, r, memberNotFoundMsg, backURL)
		return
	}

	if err := projectstore.New(h.DB).RemoveDeveloper(ctx, pc.Project.ID, targetID); err != nil {
		h.ErrLog.LogServerError(w, r, "remove developer failed", err, "Database error while updating the project.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// resolveTeamMember turns a username into a user that is a current
// member of the project's team, along with their team role. Unknown
// usernames and non-members produce the same rendered message.
func (h *Handler) resolveTeamMember(ctx context.Context, w http.ResponseWriter, r *http.Request, pc projectCtx, username, backURL string) (models.User, models.Role, bool) {
	if username == "" {
		uierrors.RenderForbidden(w, r, memberNotFoundMsg, backURL)
		return models.User{}, models.RoleNone, false
	}

	target, err := userstore.New(h.DB).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderForbidden(w, r, memberNotFoundMsg, backURL)
			return models.User{}, models.RoleNone, false
		}
		h.ErrLog.LogServerError(w, r, "lookup user failed", err, "Database error while updating the project.", backURL)
		return models.User{}, models.RoleNone, false
	}

	role, err := h.Resolver.Memberships.RoleOf(ctx, pc.TeamID, target.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resolve member role failed", err, "Database error while updating the project.", backURL)
		return models.User{}, models.RoleNone, false
	}
	if role == models.RoleNone {
		uierrors.RenderForbidden(w, r, memberNotFoundMsg, backURL)
		return models.User{}, models.RoleNone, false
	}
	return target, role, true
}

// notifyProjectRole sends the preference-gated project role email.
func (h *Handler) notifyProjectRole(ctx context.Context, pc projectCtx, target models.User, roleName string) {
	team, err := teamstore.New(h.DB).GetByID(ctx, pc.TeamID)
	if err != nil {
		h.Log.Warn("project role notification: load team", zap.Error(err))
		return
	}
	h.Notify.ProjectRoleAssigned(ctx, team, pc.Project, target, roleName)
}
