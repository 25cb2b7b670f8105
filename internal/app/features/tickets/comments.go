// internal/app/features/tickets/comments.go
package tickets

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	commentstore "github.com/dalemusser/trackhub/internal/app/store/comments"
	ticketstore "github.com/dalemusser/trackhub/internal/app/store/tickets"
	"github.com/dalemusser/trackhub/internal/app/policy/ticketpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandlePostComment appends a comment to the ticket. Anyone who can
// see the ticket may comment. Subscribers get mail only while the
// ticket is open and the project is not archived.
func (h *Handler) HandlePostComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/teams")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.resolveTicket(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if tc.IsStaff || !ticketpolicy.CanView(tc.Role, tc.UserID, tc.Project, false) {
		uierrors.RenderNotFound(w, r)
		return
	}

	backURL := tc.backURL()

	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		uierrors.RenderForbidden(w, r, "A comment cannot be empty.", backURL)
		return
	}
	if len(text) > 10000 {
		uierrors.RenderForbidden(w, r, "That comment is too long.", backURL)
		return
	}

	if _, err := commentstore.New(h.DB).Create(ctx, tc.Ticket.ID, tc.UserID, text); err != nil {
		h.ErrLog.LogServerError(w, r, "create comment failed", err, "Database error while posting the comment.", backURL)
		return
	}
	if err := ticketstore.New(h.DB).Touch(ctx, tc.Ticket.ID); err != nil {
		h.Log.Warn("touch ticket after comment", zap.Error(err))
	}

	if tc.Ticket.IsOpen() {
		h.notifyTicketEvent(ctx, tc, func(team models.Team, actor models.User) {
			h.Notify.CommentPosted(ctx, team, tc.Project, tc.Ticket, actor, text)
		})
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleDeleteComment removes a comment. Team owners may delete any
// comment on their team's tickets; everyone else only their own.
func (h *Handler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.resolveTicket(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if tc.IsStaff || !ticketpolicy.CanView(tc.Role, tc.UserID, tc.Project, false) {
		uierrors.RenderNotFound(w, r)
		return
	}

	backURL := tc.backURL()

	commentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "commentID"))
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return
	}

	commStore := commentstore.New(h.DB)
	c, err := commStore.GetByID(ctx, commentID)
	if err != nil || c.TicketID != tc.Ticket.ID {
		uierrors.RenderNotFound(w, r)
		return
	}
	if !ticketpolicy.CanDeleteComment(tc.Role, tc.UserID, c) {
		uierrors.RenderNotFound(w, r)
		return
	}

	if err := commStore.Delete(ctx, commentID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r)
			return
		}
		h.ErrLog.LogServerError(w, r, "delete comment failed", err, "Database error while deleting the comment.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
