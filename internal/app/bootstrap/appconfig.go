// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where you put everything specific to YOUR application:
//   - Database connection strings (MongoDB URI, Postgres DSN, etc.)
//   - External service API keys and endpoints
//   - Feature flags and application modes
//   - Business logic configuration
//   - Default values for your domain
//
// Add fields here as your application grows. The struct is passed to
// most lifecycle hooks, so any configuration needed during startup,
// request handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections the driver keeps warm

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionDomain string // Cookie domain (blank means current host)

	// Attachment storage configuration
	StorageLocalPath string // Local storage path (e.g., "./uploads/tickets")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files/tickets")

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit, email-smtp.us-east-1.amazonaws.com for SES)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit, SES SMTP credentials for AWS)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@trackhub.dev)
	MailFromName string // From display name (e.g., TrackHub)

	// Base URL for links in notification email (ticket views, invitation accepts)
	BaseURL string // e.g., "https://trackhub.dev" or "http://localhost:3000"

	// SiteName appears in email subjects and bodies.
	SiteName string

	// InvitationSweepInterval is how often the background worker purges
	// expired pending team invitations.
	InvitationSweepInterval time.Duration
}
