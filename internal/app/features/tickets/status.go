// internal/app/features/tickets/status.go
package tickets

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	commentstore "github.com/dalemusser/trackhub/internal/app/store/comments"
	ticketstore "github.com/dalemusser/trackhub/internal/app/store/tickets"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/app/system/txn"
	"github.com/dalemusser/trackhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleClose transitions an open ticket to closed. A non-blank
// resolution in the form overwrites the stored one; a blank resolution
// leaves the prior value in place, and when there is no prior value
// either the unspecified placeholder is recorded. A "Closed." comment
// is appended by the actor and subscribers are notified unless the
// project is archived.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/teams")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.requireUpdate(ctx, w, r)
	if !ok {
		return
	}

	backURL := tc.backURL()
	resolution := strings.TrimSpace(r.FormValue("resolution"))

	tickStore := ticketstore.New(h.DB)
	commStore := commentstore.New(h.DB)

	effective := resolution
	if effective == "" {
		effective = tc.Ticket.Resolution
	}
	effective = ticketstore.NormalizeResolution(effective)

	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if effective != tc.Ticket.Resolution {
			if err := tickStore.SetResolution(ctx, tc.Ticket.ID, effective); err != nil {
				return err
			}
		}
		if err := tickStore.Close(ctx, tc.Ticket.ID); err != nil {
			return err
		}
		_, err := commStore.Create(ctx, tc.Ticket.ID, tc.UserID, models.CommentClosed)
		return err
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Already closed, or gone between the load and the write.
			uierrors.RenderForbidden(w, r, "This ticket is not open.", backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "close ticket failed", err, "Database error while closing the ticket.", backURL)
		return
	}

	h.Log.Info("ticket closed",
		zap.String("ticket_id", tc.Ticket.ID.Hex()),
		zap.String("resolution", effective))

	h.notifyTicketEvent(ctx, tc, func(team models.Team, actor models.User) {
		h.Notify.TicketClosed(ctx, team, tc.Project, tc.Ticket, actor, effective)
	})

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleReopen transitions a closed ticket back to open. The resolution
// is left untouched; a "Reopened." comment is appended and subscribers
// are notified whether or not the project is archived.
func (h *Handler) HandleReopen(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.requireUpdate(ctx, w, r)
	if !ok {
		return
	}

	backURL := tc.backURL()

	tickStore := ticketstore.New(h.DB)
	commStore := commentstore.New(h.DB)

	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := tickStore.Reopen(ctx, tc.Ticket.ID); err != nil {
			return err
		}
		_, err := commStore.Create(ctx, tc.Ticket.ID, tc.UserID, models.CommentReopened)
		return err
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderForbidden(w, r, "This ticket is not closed.", backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "reopen ticket failed", err, "Database error while reopening the ticket.", backURL)
		return
	}

	h.Log.Info("ticket reopened", zap.String("ticket_id", tc.Ticket.ID.Hex()))

	h.notifyTicketEvent(ctx, tc, func(team models.Team, actor models.User) {
		h.Notify.TicketReopened(ctx, team, tc.Project, tc.Ticket, actor)
	})

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
