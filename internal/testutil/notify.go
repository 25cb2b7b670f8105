// internal/testutil/notify.go
package testutil

import (
	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/mailer"
	"github.com/dalemusser/trackhub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// NewNotifier builds a Notifier wired to the test database and the
// given sender (normally a CaptureSender).
func NewNotifier(db *mongo.Database, sender mailer.Sender, logger *zap.Logger) *notify.Notifier {
	return &notify.Notifier{
		Users:       userstore.New(db),
		Memberships: membershipstore.New(db),
		Sender:      sender,
		Log:         logger,
		SiteName:    "TrackHub Test",
		BaseURL:     "http://localhost:8080",
	}
}
