// internal/app/features/tickets/delete.go
package tickets

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	filestore "github.com/dalemusser/trackhub/internal/app/store/ticketfiles"
	ticketstore "github.com/dalemusser/trackhub/internal/app/store/tickets"
	"github.com/dalemusser/trackhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/app/system/txn"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleDelete removes the ticket together with its comments and file
// records. Team owner or project manager only; assigned developers
// close tickets, they do not delete them.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	tc, ok := h.resolveTicket(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if tc.IsStaff || !projectpolicy.CanManageDevelopers(tc.Role, tc.UserID, tc.Project) {
		uierrors.RenderNotFound(w, r)
		return
	}

	backURL := "/projects/" + tc.Ticket.ProjectID.Hex() + "/view"

	// Snapshot the attachment paths so the blobs can be removed after
	// the records are gone.
	files, err := filestore.New(h.DB).ListByTicket(ctx, tc.Ticket.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list ticket files failed", err, "Database error while deleting the ticket.", tc.backURL())
		return
	}

	tickStore := ticketstore.New(h.DB)
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		return tickStore.Delete(ctx, tc.Ticket.ID)
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete ticket failed", err, "Database error while deleting the ticket.", tc.backURL())
		return
	}

	for _, f := range files {
		if err := h.Storage.Delete(ctx, f.Path); err != nil {
			h.Log.Warn("delete attachment blob",
				zap.String("path", f.Path),
				zap.Error(err))
		}
	}

	h.Log.Info("ticket deleted", zap.String("ticket_id", tc.Ticket.ID.Hex()))

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
