// internal/app/features/invitations/respond.go
package invitations

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	invitationstore "github.com/dalemusser/trackhub/internal/app/store/invitations"
	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	teamstore "github.com/dalemusser/trackhub/internal/app/store/teams"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/app/system/txn"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// invalidMsg is the single outcome for every unusable token: unknown,
// already resolved, or expired. One message so the endpoint cannot be
// used to learn which tokens exist.
const invalidMsg = "This invitation is no longer valid."

// ServeList shows the signed-in user's pending invitations, newest
// first, with expired ones flagged.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	invs, err := invitationstore.New(h.DB).ListPendingForUser(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list invitations failed", err, "Unable to load your invitations.", "/teams")
		return
	}

	now := time.Now().UTC()
	teams := teamstore.New(h.DB)
	data := listData{}
	for _, inv := range invs {
		item := listItem{
			Token:   inv.Token,
			SentOn:  inv.CreatedOn,
			Expired: inv.IsExpired(now),
		}
		if team, err := teams.GetByID(ctx, inv.TeamID); err == nil {
			item.TeamTitle = team.Title
		} else {
			item.TeamTitle = "(deleted team)"
		}
		data.Invitations = append(data.Invitations, item)
	}

	formutil.SetBase(&data.Base, r, "Invitations", "/teams")
	templates.Render(w, r, "invitation_list", data)
}

// ServeView renders a single invitation from its token link, with
// accept and decline buttons.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, ok := h.resolveUsable(ctx, w, r)
	if !ok {
		return
	}

	team, err := teamstore.New(h.DB).GetByID(ctx, inv.TeamID)
	if err != nil {
		uierrors.RenderForbidden(w, r, invalidMsg, "/teams")
		return
	}

	data := viewData{
		Token:     inv.Token,
		TeamTitle: team.Title,
		ExpiresOn: inv.CreatedOn.Add(models.InvitationTTL),
	}
	formutil.SetBase(&data.Base, r, "Team Invitation", "/invitations")
	templates.Render(w, r, "invitation_view", data)
}

// HandleAccept joins the signed-in user to the team as a Member and
// marks the invitation accepted. Accepting while already a member just
// resolves the invitation.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, ok := h.resolveUsable(ctx, w, r)
	if !ok {
		return
	}
	userID, _, _ := authz.UserCtx(r)

	invStore := invitationstore.New(h.DB)
	memberStore := membershipstore.New(h.DB)

	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := memberStore.Add(ctx, inv.TeamID, userID, models.RoleMember); err != nil &&
			!errors.Is(err, membershipstore.ErrDuplicateMembership) {
			return err
		}
		return invStore.SetStatus(ctx, inv.ID, models.InvitationAccepted)
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "accept invitation failed", err, "Database error while accepting the invitation.", "/invitations")
		return
	}

	h.Log.Info("invitation accepted",
		zap.String("invitation_id", inv.ID.Hex()),
		zap.String("team_id", inv.TeamID.Hex()))

	http.Redirect(w, r, "/teams/"+inv.TeamID.Hex()+"/view", http.StatusSeeOther)
}

// HandleDecline marks the invitation declined. When the invitation was
// issued to a known account, only that account may decline it.
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, ok := h.resolveUsable(ctx, w, r)
	if !ok {
		return
	}

	if err := invitationstore.New(h.DB).SetStatus(ctx, inv.ID, models.InvitationDeclined); err != nil {
		h.ErrLog.LogServerError(w, r, "decline invitation failed", err, "Database error while declining the invitation.", "/invitations")
		return
	}

	h.Log.Info("invitation declined", zap.String("invitation_id", inv.ID.Hex()))

	http.Redirect(w, r, "/invitations", http.StatusSeeOther)
}

// resolveUsable loads the {token} invitation and checks the signed-in
// user may act on it. Unknown, resolved, expired, and wrong-account
// tokens all collapse to the same rendered message.
func (h *Handler) resolveUsable(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.TeamInvitation, bool) {
	userID, _, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "/login")
		return models.TeamInvitation{}, false
	}

	token := chi.URLParam(r, "token")
	if token == "" {
		uierrors.RenderForbidden(w, r, invalidMsg, "/teams")
		return models.TeamInvitation{}, false
	}

	inv, err := invitationstore.New(h.DB).GetByToken(ctx, token)
	if err != nil || !inv.Usable(time.Now().UTC()) {
		uierrors.RenderForbidden(w, r, invalidMsg, "/teams")
		return models.TeamInvitation{}, false
	}
	if inv.InviteeID != nil && *inv.InviteeID != userID {
		uierrors.RenderForbidden(w, r, invalidMsg, "/teams")
		return models.TeamInvitation{}, false
	}
	return inv, true
}
