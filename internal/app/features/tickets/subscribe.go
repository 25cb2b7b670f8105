// internal/app/features/tickets/subscribe.go
package tickets

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	ticketstore "github.com/dalemusser/trackhub/internal/app/store/tickets"
	"github.com/dalemusser/trackhub/internal/app/policy/ticketpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"

	"github.com/go-chi/chi/v5"
)

// HandleSubscribe adds the user to the ticket's subscriber set.
// Subscribing twice is a no-op.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	h.handleSubscription(w, r, true)
}

// HandleUnsubscribe removes the user from the ticket's subscriber set.
// Unsubscribing while not subscribed is a no-op.
func (h *Handler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	h.handleSubscription(w, r, false)
}

func (h *Handler) handleSubscription(w http.ResponseWriter, r *http.Request, subscribe bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.resolveTicket(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if !ticketpolicy.CanView(tc.Role, tc.UserID, tc.Project, tc.IsStaff) {
		uierrors.RenderNotFound(w, r)
		return
	}

	backURL := tc.backURL()

	store := ticketstore.New(h.DB)
	var err error
	if subscribe {
		err = store.Subscribe(ctx, tc.Ticket.ID, tc.UserID)
	} else {
		err = store.Unsubscribe(ctx, tc.Ticket.ID, tc.UserID)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "ticket subscription change failed", err, "Database error while updating your subscription.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
