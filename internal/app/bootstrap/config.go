// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the service.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, mail_smtp_host, etc.
//   - Environment variables: EZZDAY_MONGO_URI, EZZDAY_MAIL_SMTP_HOST, etc.
//   - Command-line flags: --mongo_uri, --mail_smtp_host, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "ezzday", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "alerts@ezzday.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "eZzDay Operations", Desc: "From display name"},
	{Name: "mail_log_only", Default: false, Desc: "Log alert emails instead of sending them"},

	// Assignment monitor
	{Name: "monitor_timezone", Default: "", Desc: "IANA timezone for the checkpoint schedule (blank means system local)"},
	{Name: "monitor_alert_once", Default: true, Desc: "Send at most one alert per assignment, checkpoint, and date"},
	{Name: "monitor_tick_timeout", Default: "2m", Desc: "Timeout for one checkpoint tick including email fan-out"},

	// Repeat-offender sweep
	{Name: "offender_sweep_interval", Default: "1h", Desc: "Interval between repeat-offender detection sweeps"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, EZZDAY_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "EZZDAY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),
		MailLogOnly:  appValues.Bool("mail_log_only"),

		MonitorTimezone:    appValues.String("monitor_timezone"),
		MonitorAlertOnce:   appValues.Bool("monitor_alert_once"),
		MonitorTickTimeout: appValues.Duration("monitor_tick_timeout", 2*time.Minute),

		OffenderSweepInterval: appValues.Duration("offender_sweep_interval", time.Hour),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It validates the MongoDB URI format and the monitor timezone to catch
// configuration errors early, before attempting to connect or start the
// checkpoint loop.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.MonitorTimezone != "" {
		if _, err := time.LoadLocation(appCfg.MonitorTimezone); err != nil {
			return fmt.Errorf("invalid monitor_timezone %q: %w", appCfg.MonitorTimezone, err)
		}
	}

	if appCfg.OffenderSweepInterval < time.Minute {
		return fmt.Errorf("offender_sweep_interval must be at least 1m, got %s", appCfg.OffenderSweepInterval)
	}

	if !appCfg.MailLogOnly && appCfg.MailFrom == "" {
		return fmt.Errorf("mail_from is required unless mail_log_only is set")
	}

	return nil
}
