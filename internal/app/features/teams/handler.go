// internal/app/features/teams/handler.go
package teams

import (
	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Teams.
type Handler struct {
	DB       *mongo.Database
	ErrLog   *uierrors.ErrorLogger
	Notify   *notify.Notifier
	Resolver *authz.Resolver
	Log      *zap.Logger
}

// NewHandler constructs a Teams handler bound to a DB, notifier, and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		ErrLog:   errLog,
		Notify:   notifier,
		Resolver: &authz.Resolver{Memberships: membershipstore.New(db)},
		Log:      logger,
	}
}
