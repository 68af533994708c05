// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and CORS. AppConfig is everything specific
// to this application: database connection details, SMTP settings, and
// the knobs that tune the monitoring loops.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit, email-smtp.us-east-1.amazonaws.com for SES)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name
	MailLogOnly  bool   // Log alert emails instead of sending (dev mode)

	// Assignment monitor configuration
	MonitorTimezone    string        // IANA zone the checkpoint schedule runs in ("" means system local)
	MonitorAlertOnce   bool          // Suppress repeat alerts per assignment, checkpoint, and date
	MonitorTickTimeout time.Duration // Bound on one checkpoint tick including email fan-out

	// Repeat-offender sweep configuration
	OffenderSweepInterval time.Duration // How often the detector reconciles and escalates
}
