// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/notify"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Projects.
type Handler struct {
	DB       *mongo.Database
	ErrLog   *uierrors.ErrorLogger
	Notify   *notify.Notifier
	Resolver *authz.Resolver
	Log      *zap.Logger
}

// NewHandler constructs a Projects handler bound to a DB, notifier, and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		ErrLog:   errLog,
		Notify:   notifier,
		Resolver: &authz.Resolver{Memberships: membershipstore.New(db)},
		Log:      logger,
	}
}

// projectCtx is the resolved authorization context for one project
// request: the project, its team id, and the actor's standing.
type projectCtx struct {
	Project models.Project
	TeamID  primitive.ObjectID
	UserID  primitive.ObjectID
	Role    models.Role
	IsStaff bool
}

// resolveProject loads the project in the {id} URL parameter and the
// actor's team role. Orphaned projects (team deleted) resolve with
// RoleNone, so only staff keep read access to them. On any failure the
// not-found page has been rendered and ok is false.
func (h *Handler) resolveProject(ctx context.Context, w http.ResponseWriter, r *http.Request, idParam string) (projectCtx, bool) {
	userID, _, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "/login")
		return projectCtx{}, false
	}

	projectID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return projectCtx{}, false
	}

	p, err := projectstore.New(h.DB).GetByID(ctx, projectID)
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return projectCtx{}, false
	}

	pc := projectCtx{
		Project: p,
		UserID:  userID,
		IsStaff: authz.IsStaff(r),
	}
	if p.TeamID != nil {
		pc.TeamID = *p.TeamID
		role, err := h.Resolver.TeamRole(ctx, r, pc.TeamID)
		if err != nil {
			uierrors.RenderNotFound(w, r)
			return projectCtx{}, false
		}
		pc.Role = role
	}
	return pc, true
}
