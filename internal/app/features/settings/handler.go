// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for notification settings.
type Handler struct {
	DB     *mongo.Database
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a Settings handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, ErrLog: errLog, Log: logger}
}

// settingRow is one notification toggle on the settings page.
type settingRow struct {
	Key         string
	SettingName string
	Description string
	Enabled     bool
}

// pageData is the view model for the settings page.
type pageData struct {
	formutil.Base

	Settings []settingRow
}

// ServeSettings renders the notification settings page. Defaults are
// applied on read; the stored map may be partial or absent.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "Unable to load your settings.", "/teams")
		return
	}

	data := pageData{}
	for _, s := range models.NotificationSettingDescriptions {
		data.Settings = append(data.Settings, settingRow{
			Key:         s.Key,
			SettingName: s.Title,
			Description: s.Description,
			Enabled:     u.NotificationEnabled(s.Key),
		})
	}

	formutil.SetBase(&data.Base, r, "Notification Settings", "/teams")
	templates.Render(w, r, "settings", data)
}

// HandleUpdate flips one notification toggle. Unknown keys come back
// as a validation warning rather than writing anything.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/settings")
		return
	}

	key := strings.TrimSpace(r.FormValue("key"))
	if !models.KnownNotificationKey(key) {
		uierrors.RenderForbidden(w, r, "That is not a known notification setting.", "/settings")
		return
	}
	enabled := r.FormValue("enabled") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := userstore.New(h.DB).SetNotificationSetting(ctx, userID, key, enabled); err != nil {
		h.ErrLog.LogServerError(w, r, "update setting failed", err, "Database error while saving your settings.", "/settings")
		return
	}

	h.Log.Info("notification setting changed",
		zap.String("key", key),
		zap.Bool("enabled", enabled))

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}
