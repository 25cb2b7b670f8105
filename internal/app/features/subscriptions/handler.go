// internal/app/features/subscriptions/handler.go
package subscriptions

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	ticketstore "github.com/dalemusser/trackhub/internal/app/store/tickets"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for the subscription
// management page.
type Handler struct {
	DB     *mongo.Database
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a Subscriptions handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, ErrLog: errLog, Log: logger}
}

// ticketRow is one subscribed ticket on the listing page.
type ticketRow struct {
	ID           primitive.ObjectID
	TicketTitle  string
	ProjectTitle string
	Priority     string
	UpdatedOn    string
}

// listData is the view model for the subscription listing.
type listData struct {
	formutil.Base

	Tickets []ticketRow
}

// ServeList shows the user's open-ticket subscriptions, skipping
// tickets whose project is archived or gone.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ts, err := ticketstore.New(h.DB).ListOpenSubscribedBy(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list subscriptions failed", err, "Unable to load your subscriptions.", "/teams")
		return
	}

	// One project lookup per distinct project on the page.
	projStore := projectstore.New(h.DB)
	projects := make(map[primitive.ObjectID]*models.Project, len(ts))
	for _, t := range ts {
		if _, seen := projects[t.ProjectID]; seen {
			continue
		}
		p, err := projStore.GetByID(ctx, t.ProjectID)
		if err != nil {
			projects[t.ProjectID] = nil
			continue
		}
		projects[t.ProjectID] = &p
	}

	data := listData{}
	for _, t := range ts {
		p := projects[t.ProjectID]
		if p == nil || p.IsArchived {
			continue
		}
		data.Tickets = append(data.Tickets, ticketRow{
			ID:           t.ID,
			TicketTitle:  t.Title,
			ProjectTitle: p.Title,
			Priority:     t.Priority,
			UpdatedOn:    t.LastUpdatedOn.Format("2006-01-02 15:04"),
		})
	}

	formutil.SetBase(&data.Base, r, "Subscriptions", "/teams")
	templates.Render(w, r, "subscription_list", data)
}

// HandleUnsubscribe removes the user from the subscriber set of every
// ticket checked on the form. Tickets the user does not subscribe to
// are no-ops.
func (h *Handler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/subscriptions")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	store := ticketstore.New(h.DB)
	removed := 0
	for _, raw := range r.Form["ticket"] {
		ticketID, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if err := store.Unsubscribe(ctx, ticketID, userID); err != nil {
			h.ErrLog.LogServerError(w, r, "bulk unsubscribe failed", err, "Database error while updating your subscriptions.", "/subscriptions")
			return
		}
		removed++
	}

	if removed > 0 {
		h.Log.Info("bulk unsubscribe",
			zap.Int("tickets", removed),
			zap.String("user_id", userID.Hex()))
	}

	http.Redirect(w, r, "/subscriptions", http.StatusSeeOther)
}
