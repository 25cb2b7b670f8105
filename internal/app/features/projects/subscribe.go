// internal/app/features/projects/subscribe.go
package projects

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	ticketstore "github.com/dalemusser/trackhub/internal/app/store/tickets"
	"github.com/dalemusser/trackhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/app/system/txn"

	"github.com/go-chi/chi/v5"
)

// HandleSubscribe adds the user to the project's subscriber set and to
// every currently-open ticket in it. Closed tickets are untouched.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	h.handleSubscription(w, r, true)
}

// HandleUnsubscribe mirrors HandleSubscribe: the user leaves the project
// subscriber set and the subscriber set of every open ticket.
func (h *Handler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	h.handleSubscription(w, r, false)
}

func (h *Handler) handleSubscription(w http.ResponseWriter, r *http.Request, subscribe bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	pc, ok := h.resolveProject(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if !projectpolicy.CanView(pc.Role, pc.UserID, pc.Project, pc.IsStaff) {
		uierrors.RenderNotFound(w, r)
		return
	}

	backURL := "/projects/" + pc.Project.ID.Hex() + "/view"

	projStore := projectstore.New(h.DB)
	tickStore := ticketstore.New(h.DB)

	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if subscribe {
			if err := projStore.Subscribe(ctx, pc.Project.ID, pc.UserID); err != nil {
				return err
			}
			return tickStore.SubscribeToOpenByProject(ctx, pc.Project.ID, pc.UserID)
		}
		if err := projStore.Unsubscribe(ctx, pc.Project.ID, pc.UserID); err != nil {
			return err
		}
		return tickStore.UnsubscribeFromOpenByProject(ctx, pc.Project.ID, pc.UserID)
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "project subscription change failed", err, "Database error while updating your subscription.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
