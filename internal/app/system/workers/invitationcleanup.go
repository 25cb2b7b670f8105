// internal/app/system/workers/invitationcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	invitationstore "github.com/dalemusser/trackhub/internal/app/store/invitations"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.uber.org/zap"
)

// InvitationCleanup is a background worker that purges pending team
// invitations that have outlived their TTL. Accepting an expired token
// is already refused at the handler; the sweep just keeps the
// collection and the pending-invitation badge honest.
type InvitationCleanup struct {
	invitations *invitationstore.Store
	log         *zap.Logger
	interval    time.Duration
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

// NewInvitationCleanup creates a new invitation cleanup worker.
//
// Parameters:
//   - invStore: the invitations store
//   - logger: zap logger for logging
//   - interval: how often to run the sweep (e.g., 1 hour)
func NewInvitationCleanup(invStore *invitationstore.Store, logger *zap.Logger, interval time.Duration) *InvitationCleanup {
	return &InvitationCleanup{
		invitations: invStore,
		log:         logger,
		interval:    interval,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *InvitationCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("invitation cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("ttl", models.InvitationTTL))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *InvitationCleanup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("invitation cleanup worker stopped")
}

func (w *InvitationCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *InvitationCleanup) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-models.InvitationTTL)
	count, err := w.invitations.DeleteExpired(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to purge expired invitations", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("purged expired invitations", zap.Int64("count", count))
	}
}
