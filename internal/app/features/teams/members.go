// internal/app/features/teams/members.go
package teams

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	teamstore "github.com/dalemusser/trackhub/internal/app/store/teams"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/gates"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/app/system/txn"
	"github.com/dalemusser/trackhub/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// memberOp resolves the {id} team and {userID} target, gates the actor
// as an owner, and hands both to fn inside a transaction. fn reports
// whether it actually changed the membership; the role-name string, when
// non-empty, triggers a role change email to the target on real changes
// only.
func (h *Handler) memberOp(w http.ResponseWriter, r *http.Request, roleName string, fn func(ctx context.Context, ms *membershipstore.Store, teamID, targetID primitive.ObjectID) (bool, error)) {
	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}
	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	res := gates.RequireTeamManage(w, r, h.Resolver, teamID, models.RoleOwner)
	if !res.OK {
		return
	}

	backURL := "/teams/" + teamID.Hex() + "/view"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	memberStore := membershipstore.New(h.DB)
	var changed bool
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		changed, err = fn(ctx, memberStore, teamID, targetID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, membershipstore.ErrLastOwner):
			uierrors.RenderForbidden(w, r, "A team must keep at least one owner, so you cannot step down.", backURL)
		case errors.Is(err, membershipstore.ErrOwnerRemoval):
			uierrors.RenderForbidden(w, r, "Owners cannot be removed from a team. They must step down as owner first.", backURL)
		case errors.Is(err, membershipstore.ErrNotMember):
			uierrors.RenderNotFound(w, r)
		default:
			h.ErrLog.LogServerError(w, r, "membership change failed", err, "Database error while updating the member.", backURL)
		}
		return
	}

	h.Log.Info("membership changed",
		zap.String("team_id", teamID.Hex()),
		zap.String("target", targetID.Hex()),
		zap.String("actor", res.UserID.Hex()))

	if changed && roleName != "" {
		h.notifyRoleChange(ctx, teamID, targetID, roleName)
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// notifyRoleChange sends the role change email. Lookup failures are
// logged and dropped; the membership write has already committed.
func (h *Handler) notifyRoleChange(ctx context.Context, teamID, targetID primitive.ObjectID, roleName string) {
	team, err := teamstore.New(h.DB).GetByID(ctx, teamID)
	if err != nil {
		h.Log.Warn("role notification: load team", zap.Error(err))
		return
	}
	target, err := userstore.New(h.DB).GetByID(ctx, targetID)
	if err != nil {
		h.Log.Warn("role notification: load user", zap.Error(err))
		return
	}
	h.Notify.TeamRoleAssigned(ctx, team, target, roleName)
}

// HandleAddOwner promotes a member or manager to owner.
func (h *Handler) HandleAddOwner(w http.ResponseWriter, r *http.Request) {
	h.memberOp(w, r, "an owner", func(ctx context.Context, ms *membershipstore.Store, teamID, targetID primitive.ObjectID) (bool, error) {
		role, err := ms.RoleOf(ctx, teamID, targetID)
		if err != nil {
			return false, err
		}
		if role == models.RoleNone {
			return false, membershipstore.ErrNotMember
		}
		if role == models.RoleOwner {
			return false, nil
		}
		return true, ms.AddOwner(ctx, teamID, targetID)
	})
}

// HandleRemoveOwner demotes an owner to member. Refused while the team
// has no other owner.
func (h *Handler) HandleRemoveOwner(w http.ResponseWriter, r *http.Request) {
	h.memberOp(w, r, "a member", func(ctx context.Context, ms *membershipstore.Store, teamID, targetID primitive.ObjectID) (bool, error) {
		role, err := ms.RoleOf(ctx, teamID, targetID)
		if err != nil {
			return false, err
		}
		if role == models.RoleNone {
			return false, membershipstore.ErrNotMember
		}
		if role != models.RoleOwner {
			return false, nil
		}
		return true, ms.RemoveOwner(ctx, teamID, targetID)
	})
}

// HandleAddManager promotes a member to manager. Owners keep their
// role; promotion up to manager only applies to plain members.
func (h *Handler) HandleAddManager(w http.ResponseWriter, r *http.Request) {
	h.memberOp(w, r, "a manager", func(ctx context.Context, ms *membershipstore.Store, teamID, targetID primitive.ObjectID) (bool, error) {
		role, err := ms.RoleOf(ctx, teamID, targetID)
		if err != nil {
			return false, err
		}
		if role == models.RoleNone {
			return false, membershipstore.ErrNotMember
		}
		if role != models.RoleMember {
			return false, nil
		}
		return true, ms.AddManager(ctx, teamID, targetID)
	})
}

// HandleRemoveManager demotes a manager to member and clears them as
// manager from this team's projects. Owners and plain members are left
// untouched.
func (h *Handler) HandleRemoveManager(w http.ResponseWriter, r *http.Request) {
	h.memberOp(w, r, "a member", func(ctx context.Context, ms *membershipstore.Store, teamID, targetID primitive.ObjectID) (bool, error) {
		role, err := ms.RoleOf(ctx, teamID, targetID)
		if err != nil {
			return false, err
		}
		if role == models.RoleNone {
			return false, membershipstore.ErrNotMember
		}
		if role != models.RoleManager {
			return false, nil
		}
		return true, ms.RemoveManager(ctx, teamID, targetID)
	})
}

// HandleRemoveMember removes a member from the team entirely.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	h.memberOp(w, r, "no longer a member", func(ctx context.Context, ms *membershipstore.Store, teamID, targetID primitive.ObjectID) (bool, error) {
		return true, ms.RemoveMember(ctx, teamID, targetID)
	})
}

// HandleLeave removes the current user from the team. Owners cannot
// leave regardless of co-owner count; they must step down first.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	res := gates.RequireTeamManage(w, r, h.Resolver, teamID, models.RoleMember)
	if !res.OK {
		return
	}

	backURL := "/teams/" + teamID.Hex() + "/view"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	memberStore := membershipstore.New(h.DB)
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		return memberStore.RemoveMember(ctx, teamID, res.UserID)
	})
	if err != nil {
		if errors.Is(err, membershipstore.ErrOwnerRemoval) {
			uierrors.RenderForbidden(w, r, "Owners cannot leave their team. Step down as owner first.", backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "leave team failed", err, "Database error while leaving the team.", backURL)
		return
	}

	h.Log.Info("member left team",
		zap.String("team_id", teamID.Hex()),
		zap.String("user_id", res.UserID.Hex()))

	h.notifyRoleChange(ctx, teamID, res.UserID, "no longer a member")

	http.Redirect(w, r, "/teams", http.StatusSeeOther)
}
