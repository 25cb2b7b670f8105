// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/trackhub/internal/app/resources"
	invitationstore "github.com/dalemusser/trackhub/internal/app/store/invitations"
	"github.com/dalemusser/trackhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// invitationCleanup runs for the life of the process; Shutdown stops it.
var invitationCleanup *workers.InvitationCleanup

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to load shared resources (like templates), warm caches, or perform
// any app-wide setup that depends on config and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	invStore := invitationstore.New(deps.TrackHubMongoDatabase)
	invitationCleanup = workers.NewInvitationCleanup(invStore, logger, appCfg.InvitationSweepInterval)
	invitationCleanup.Start()

	return nil
}
