// internal/app/features/tickets/handler.go
package tickets

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	teamstore "github.com/dalemusser/trackhub/internal/app/store/teams"
	ticketstore "github.com/dalemusser/trackhub/internal/app/store/tickets"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/notify"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Tickets.
type Handler struct {
	DB       *mongo.Database
	ErrLog   *uierrors.ErrorLogger
	Notify   *notify.Notifier
	Storage  storage.Store
	Resolver *authz.Resolver
	Log      *zap.Logger
}

// NewHandler constructs a Tickets handler bound to a DB, notifier,
// storage backend, and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, notifier *notify.Notifier, store storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		ErrLog:   errLog,
		Notify:   notifier,
		Storage:  store,
		Resolver: &authz.Resolver{Memberships: membershipstore.New(db)},
		Log:      logger,
	}
}

// ticketCtx is the resolved authorization context for one ticket
// request: the ticket, its parent project, and the actor's standing.
type ticketCtx struct {
	Ticket  models.Ticket
	Project models.Project
	TeamID  primitive.ObjectID
	UserID  primitive.ObjectID
	Role    models.Role
	IsStaff bool
}

// backURL links back to the ticket page.
func (tc ticketCtx) backURL() string {
	return "/tickets/" + tc.Ticket.ID.Hex() + "/view"
}

// resolveTicket loads the ticket in the {id} URL parameter, its parent
// project, and the actor's team role. Orphaned tickets (team deleted)
// resolve with RoleNone, so only staff keep read access to them. On any
// failure the not-found page has been rendered and ok is false.
func (h *Handler) resolveTicket(ctx context.Context, w http.ResponseWriter, r *http.Request, idParam string) (ticketCtx, bool) {
	userID, _, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "/login")
		return ticketCtx{}, false
	}

	ticketID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return ticketCtx{}, false
	}

	t, err := ticketstore.New(h.DB).GetByID(ctx, ticketID)
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return ticketCtx{}, false
	}

	p, err := projectstore.New(h.DB).GetByID(ctx, t.ProjectID)
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return ticketCtx{}, false
	}

	tc := ticketCtx{
		Ticket:  t,
		Project: p,
		UserID:  userID,
		IsStaff: authz.IsStaff(r),
	}
	if p.TeamID != nil {
		tc.TeamID = *p.TeamID
		role, err := h.Resolver.TeamRole(ctx, r, tc.TeamID)
		if err != nil {
			uierrors.RenderNotFound(w, r)
			return ticketCtx{}, false
		}
		tc.Role = role
	}
	return tc, true
}

// notifyTicketEvent loads the team and acting user and hands them to
// fn, which calls the notifier. Orphaned tickets never email; lookup
// failures are logged and dropped since a notification must never fail
// the write that triggered it.
func (h *Handler) notifyTicketEvent(ctx context.Context, tc ticketCtx, fn func(team models.Team, actor models.User)) {
	if tc.Project.TeamID == nil {
		return
	}
	team, err := teamstore.New(h.DB).GetByID(ctx, tc.TeamID)
	if err != nil {
		h.Log.Warn("ticket notification: load team", zap.Error(err))
		return
	}
	actor, err := userstore.New(h.DB).GetByID(ctx, tc.UserID)
	if err != nil {
		h.Log.Warn("ticket notification: load actor", zap.Error(err))
		return
	}
	fn(team, actor)
}
