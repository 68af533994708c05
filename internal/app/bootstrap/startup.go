// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	assignmentstore "github.com/ezzdayhq/ezzday/internal/app/store/assignments"
	clientstore "github.com/ezzdayhq/ezzday/internal/app/store/clients"
	crewstore "github.com/ezzdayhq/ezzday/internal/app/store/crews"
	issuestore "github.com/ezzdayhq/ezzday/internal/app/store/issues"
	reportstore "github.com/ezzdayhq/ezzday/internal/app/store/reports"
	routestore "github.com/ezzdayhq/ezzday/internal/app/store/routes"
	supervisorstore "github.com/ezzdayhq/ezzday/internal/app/store/supervisors"
	zonestore "github.com/ezzdayhq/ezzday/internal/app/store/zones"
	"github.com/ezzdayhq/ezzday/internal/app/system/mailer"
	"github.com/ezzdayhq/ezzday/internal/app/system/monitor"
	"github.com/ezzdayhq/ezzday/internal/app/system/offenders"
	"github.com/ezzdayhq/ezzday/internal/app/system/tasks"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
)

// services bundles the stores and background workers built during
// Startup. BuildHandler mounts routes over it; Shutdown stops the
// workers.
type services struct {
	issues      *issuestore.Store
	assignments *assignmentstore.Store
	supervisors *supervisorstore.Store
	crews       *crewstore.Store
	routes      *routestore.Store
	zones       *zonestore.Store
	clients     *clientstore.Store
	reports     *reportstore.Store

	sender   mailer.Sender
	detector *offenders.Detector
	monitor  *monitor.Monitor
	runner   *tasks.Runner
}

// svc is set once in Startup. The WAFFLE lifecycle guarantees Startup
// runs before BuildHandler and Shutdown.
var svc *services

// Startup builds the stores and long-running workers, then starts the
// assignment monitor and the repeat-offender sweep.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.EzzdayMongoDatabase

	var sender mailer.Sender
	if appCfg.MailLogOnly {
		sender = &mailer.LogSender{Log: logger}
	} else {
		sender = mailer.New(mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			User:     appCfg.MailSMTPUser,
			Pass:     appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		}, logger)
	}

	loc := time.Local
	if appCfg.MonitorTimezone != "" {
		var err error
		if loc, err = time.LoadLocation(appCfg.MonitorTimezone); err != nil {
			return fmt.Errorf("load monitor timezone: %w", err)
		}
	}

	s := &services{
		issues:      issuestore.New(db),
		assignments: assignmentstore.New(db),
		supervisors: supervisorstore.New(db),
		crews:       crewstore.New(db),
		routes:      routestore.New(db),
		zones:       zonestore.New(db),
		clients:     clientstore.New(db),
		reports:     reportstore.New(db),
		sender:      sender,
	}

	s.detector = offenders.NewDetector(s.issues, s.supervisors, sender, logger)

	s.monitor = monitor.New(s.assignments, s.supervisors, sender, logger, monitor.Config{
		Location:    loc,
		AlertOnce:   appCfg.MonitorAlertOnce,
		TickTimeout: appCfg.MonitorTickTimeout,
	})
	s.monitor.Start()

	s.runner = tasks.NewRunner(logger, timeouts.Batch(),
		tasks.OffenderSweepJob(s.detector, appCfg.OffenderSweepInterval))
	s.runner.Start()

	svc = s
	return nil
}
