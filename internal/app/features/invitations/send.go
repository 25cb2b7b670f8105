// internal/app/features/invitations/send.go
package invitations

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	invitationstore "github.com/dalemusser/trackhub/internal/app/store/invitations"
	teamstore "github.com/dalemusser/trackhub/internal/app/store/teams"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/gates"
	"github.com/dalemusser/trackhub/internal/app/system/inputval"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeNew renders the "Invite to team" form. Owner only; the team
// comes from the ?team= query parameter.
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
	formutil.SetBase(&data.Base, r, "Invite to Team", "/teams/"+teamID.Hex()+"/view")
	templates.Render(w, r, "invitation_new", data)
}

// HandleSend processes the invite form. The invitee field takes either
// a username, which must resolve to a user with an email address, or a
// literal email address. Known users must not already belong to the
// team or hold a pending invitation.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
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

	invitee := strings.TrimSpace(r.FormValue("invitee"))
	backURL := "/teams/" + teamID.Hex() + "/view"

	renderWithError := func(msg string) {
		data := newData{TeamID: teamID.Hex(), Invitee: invitee}
		formutil.SetBase(&data.Base, r, "Invite to Team", backURL)
		data.SetError(msg)
		templates.Render(w, r, "invitation_new", data)
	}

	if invitee == "" {
		renderWithError("Enter a username or an email address.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users := userstore.New(h.DB)

	// Resolve the invitee. An address can match an existing account; a
	// username must.
	var (
		target  *models.User
		toEmail string
	)
	if strings.Contains(invitee, "@") {
		toEmail = normalize.Email(invitee)
		if !inputval.IsValidEmail(toEmail) {
			renderWithError("That email address is not valid.")
			return
		}
		u, err := users.GetByEmail(ctx, toEmail)
		switch {
		case err == nil:
			target = &u
		case errors.Is(err, mongo.ErrNoDocuments):
			// Inviting an address with no account is fine.
		default:
			h.ErrLog.LogServerError(w, r, "lookup user by email failed", err, "Database error while sending the invitation.", backURL)
			return
		}
	} else {
		u, err := users.GetByUsername(ctx, normalize.Name(invitee))
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				renderWithError("No user with that username exists.")
				return
			}
			h.ErrLog.LogServerError(w, r, "lookup user failed", err, "Database error while sending the invitation.", backURL)
			return
		}
		if u.Email == "" {
			renderWithError("That user has no email address on file.")
			return
		}
		target = &u
		toEmail = u.Email
	}

	invStore := invitationstore.New(h.DB)
	var inviteeID *primitive.ObjectID
	if target != nil {
		role, err := h.Resolver.Memberships.RoleOf(ctx, teamID, target.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "resolve invitee role failed", err, "Database error while sending the invitation.", backURL)
			return
		}
		if role != models.RoleNone {
			renderWithError("That user is already a member of this team.")
			return
		}
		pending, err := invStore.HasPending(ctx, teamID, target.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "check pending invitation failed", err, "Database error while sending the invitation.", backURL)
			return
		}
		if pending {
			renderWithError("That user already has a pending invitation to this team.")
			return
		}
		inviteeID = &target.ID
	}

	inv, err := invStore.Create(ctx, teamID, inviteeID, toEmail)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create invitation failed", err, "Database error while sending the invitation.", backURL)
		return
	}

	h.Log.Info("invitation sent",
		zap.String("team_id", teamID.Hex()),
		zap.String("invitation_id", inv.ID.Hex()))

	team, err := teamstore.New(h.DB).GetByID(ctx, teamID)
	if err != nil {
		h.Log.Warn("invitation notification: load team", zap.Error(err))
	} else if inviter, err := users.GetByID(ctx, res.UserID); err != nil {
		h.Log.Warn("invitation notification: load inviter", zap.Error(err))
	} else {
		h.Notify.InvitationSent(ctx, team, inviter, target, toEmail, inv.Token)
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
