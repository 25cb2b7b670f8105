// internal/app/features/teams/new.go
package teams

import (
	"context"
	"errors"
	"net/http"
	"strings"

	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	teamstore "github.com/dalemusser/trackhub/internal/app/store/teams"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/gates"
	"github.com/dalemusser/trackhub/internal/app/system/inputval"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/navigation"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/app/system/txn"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// createTeamInput defines validation rules for creating a team.
type createTeamInput struct {
	Title       string `validate:"required,max=200" label:"Team title"`
	Description string `validate:"max=2000" label:"Description"`
}

// ServeNew renders the "New Team" form. Any signed-in user may create
// a team; the creator becomes its first owner.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAuth(w, r, "/login"); !res.OK {
		return
	}

	var data newData
	formutil.SetBase(&data.Base, r, "New Team", "/teams")
	templates.Render(w, r, "team_new", data)
}

// HandleCreate processes the New Team form submission. The team insert
// and the creator's owner membership commit together.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/teams")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))

	renderWithError := func(msg string) {
		data := newData{
			TeamTitle:   title,
			Description: description,
		}
		formutil.SetBase(&data.Base, r, "New Team", "/teams")
		data.SetError(msg)
		templates.Render(w, r, "team_new", data)
	}

	input := createTeamInput{Title: title, Description: description}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teamStore := teamstore.New(h.DB)
	memberStore := membershipstore.New(h.DB)

	var created models.Team
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		t, err := teamStore.Create(ctx, models.Team{
			Title:       title,
			Description: description,
		})
		if err != nil {
			return err
		}
		created = t
		_, err = memberStore.Add(ctx, t.ID, res.UserID, models.RoleOwner)
		return err
	})
	if err != nil {
		if errors.Is(err, teamstore.ErrDuplicateTitle) {
			renderWithError("A team with that title already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create team failed", err, "Database error while creating the team.", "/teams")
		return
	}

	h.Log.Info("team created",
		zap.String("team_id", created.ID.Hex()),
		zap.String("slug", created.Slug))

	ret := navigation.SafeBackURL(r, navigation.TeamsBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
