// internal/app/features/teams/delete.go
package teams

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	teamstore "github.com/dalemusser/trackhub/internal/app/store/teams"
	"github.com/dalemusser/trackhub/internal/app/system/gates"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/app/system/txn"
	"github.com/dalemusser/trackhub/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDelete removes a team. Memberships and invitations go with it;
// projects and tickets survive with their team reference cleared.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	res := gates.RequireTeamManage(w, r, h.Resolver, teamID, models.RoleOwner)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	teamStore := teamstore.New(h.DB)
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		return teamStore.Delete(ctx, teamID)
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete team failed", err, "Database error while deleting the team.", "/teams")
		return
	}

	h.Log.Info("team deleted",
		zap.String("team_id", teamID.Hex()),
		zap.String("deleted_by", res.UserID.Hex()))

	http.Redirect(w, r, "/teams", http.StatusSeeOther)
}
