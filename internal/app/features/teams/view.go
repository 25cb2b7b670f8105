// internal/app/features/teams/view.go
package teams

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	invitationstore "github.com/dalemusser/trackhub/internal/app/store/invitations"
	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	teamstore "github.com/dalemusser/trackhub/internal/app/store/teams"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/gates"
	"github.com/dalemusser/trackhub/internal/app/system/search"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeView renders the team page: description, members with roles, and
// the projects the viewer can see.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	res := gates.RequireTeamRole(w, r, h.Resolver, teamID, models.RoleMember)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	team, err := teamstore.New(h.DB).GetByID(ctx, teamID)
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	memberships, err := membershipstore.New(h.DB).ListByTeam(ctx, teamID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list team members failed", err, "Unable to load the team.", "/teams")
		return
	}

	userIDs := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		userIDs = append(userIDs, m.UserID)
	}
	users, err := userstore.New(h.DB).GetMany(ctx, userIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load team members failed", err, "Unable to load the team.", "/teams")
		return
	}
	userByID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	// An optional ?q= narrows the member list. Queries with an '@' match
	// against email, everything else against username and display name.
	memberQuery := strings.TrimSpace(query.Get(r, "q"))
	byEmail := search.LooksLikeEmail(memberQuery)
	folded := text.Fold(memberQuery)

	members := make([]memberRow, 0, len(memberships))
	for _, m := range memberships {
		u := userByID[m.UserID]
		if memberQuery != "" && !memberMatches(u, folded, byEmail) {
			continue
		}
		members = append(members, memberRow{
			UserID:   m.UserID,
			Username: u.Username,
			Name:     u.Name,
			Role:     m.Role,
			RoleName: m.Role.String(),
		})
	}

	projects, err := projectstore.New(h.DB).ListForTeamAndUser(ctx, teamID, res.UserID, res.Role, res.IsStaff)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list team projects failed", err, "Unable to load the team.", "/teams")
		return
	}
	projectRows := make([]projectRow, 0, len(projects))
	for _, p := range projects {
		projectRows = append(projectRows, projectRow{
			ID:         p.ID,
			Title:      p.Title,
			IsArchived: p.IsArchived,
		})
	}

	data := viewData{
		ID:          team.ID.Hex(),
		TeamTitle:   team.Title,
		Slug:        team.Slug,
		Description: team.Description,
		Role:        res.Role,
		RoleName:    res.Role.String(),
		CanManage:   !res.IsStaff && teampolicy.CanManage(res.Role),
		CanLeave:    !res.IsStaff && res.Role != models.RoleOwner && res.Role != models.RoleNone,
		MemberQuery: memberQuery,
		Members:     members,
		Projects:    projectRows,
	}

	// Owners see how many invitations are still outstanding.
	if data.CanManage {
		if n, err := invitationstore.New(h.DB).CountPendingForTeam(ctx, teamID); err == nil {
			data.PendingCount = n
		}
	}

	formutil.SetBase(&data.Base, r, team.Title, "/teams")
	templates.Render(w, r, "team_view", data)
}

// memberMatches reports whether a member row matches the folded query.
func memberMatches(u models.User, folded string, byEmail bool) bool {
	if byEmail {
		return strings.Contains(text.Fold(u.Email), folded)
	}
	return strings.Contains(u.UsernameCI, folded) ||
		strings.Contains(text.Fold(u.Name), folded)
}
