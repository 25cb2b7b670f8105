// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	errorsfeature "github.com/dalemusser/trackhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/trackhub/internal/app/features/health"
	homefeature "github.com/dalemusser/trackhub/internal/app/features/home"
	invitationsfeature "github.com/dalemusser/trackhub/internal/app/features/invitations"
	loginfeature "github.com/dalemusser/trackhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/trackhub/internal/app/features/logout"
	projectsfeature "github.com/dalemusser/trackhub/internal/app/features/projects"
	settingsfeature "github.com/dalemusser/trackhub/internal/app/features/settings"
	subscriptionsfeature "github.com/dalemusser/trackhub/internal/app/features/subscriptions"
	teamsfeature "github.com/dalemusser/trackhub/internal/app/features/teams"
	ticketsfeature "github.com/dalemusser/trackhub/internal/app/features/tickets"
	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/app/system/mailer"
	"github.com/dalemusser/trackhub/internal/app/system/notify"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// TrackHub initializes the session store and template engine, builds the
// mailer-backed notifier and the attachment storage backend, and mounts
// feature routers for all application areas: home, login, teams, projects,
// tickets, invitations, subscriptions, and notification settings.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.TrackHubMongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Outbound email: SMTP sender wrapped by the notification fan-out.
	from := appCfg.MailFrom
	if appCfg.MailFromName != "" {
		from = fmt.Sprintf("%s <%s>", appCfg.MailFromName, appCfg.MailFrom)
	}
	sender := mailer.New(appCfg.MailSMTPHost, appCfg.MailSMTPPort, appCfg.MailSMTPUser, appCfg.MailSMTPPass, from, logger)

	notifier := &notify.Notifier{
		Users:       userstore.New(db),
		Memberships: membershipstore.New(db),
		Sender:      sender,
		Log:         logger,
		SiteName:    appCfg.SiteName,
		BaseURL:     appCfg.BaseURL,
	}

	// Ticket attachment storage.
	fileStore, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("storage init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.TrackHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(userstore.New(db), errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/register", loginfeature.RegisterRoutes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Teams and memberships
	teamsHandler := teamsfeature.NewHandler(db, errLog, notifier, logger)
	r.Mount("/teams", teamsfeature.Routes(teamsHandler))

	// Projects
	projectsHandler := projectsfeature.NewHandler(db, errLog, notifier, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler))

	// Tickets, comments, and attachments
	ticketsHandler := ticketsfeature.NewHandler(db, errLog, notifier, fileStore, logger)
	r.Mount("/tickets", ticketsfeature.Routes(ticketsHandler))

	// Team invitations
	invitationsHandler := invitationsfeature.NewHandler(db, errLog, notifier, logger)
	r.Mount("/invitations", invitationsfeature.Routes(invitationsHandler))

	// Subscribed-ticket overview
	subscriptionsHandler := subscriptionsfeature.NewHandler(db, errLog, logger)
	r.Mount("/subscriptions", subscriptionsfeature.Routes(subscriptionsHandler))

	// Notification settings
	settingsHandler := settingsfeature.NewHandler(db, errLog, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler))

	return r, nil
}
