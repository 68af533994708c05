// internal/app/system/monitor/monitor.go
//
// Package monitor watches the day's assignments and escalates compliance
// gaps to supervisors by email. At 8 AM every assignment must have
// attendance and PPE confirmed; at 11 AM, 1 PM, 3 PM, and end of day a
// status update must exist for the matching checkpoint. The loop sleeps
// until the next scheduled checkpoint rather than polling, so a tick
// fires once per checkpoint regardless of how long the process runs.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ezzdayhq/ezzday/internal/app/system/mailer"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// AssignmentSource yields the assignments for one collection date.
type AssignmentSource interface {
	ForDate(ctx context.Context, t time.Time) ([]models.Assignment, error)
}

// Roster lists the supervisors who receive escalation email.
type Roster interface {
	ListAll(ctx context.Context) ([]models.Supervisor, error)
}

// Config tunes a Monitor. Zero values fall back to sensible defaults in
// New.
type Config struct {
	// Location is the wall-clock zone the checkpoint schedule runs in.
	Location *time.Location
	// AlertOnce suppresses repeat alerts for the same assignment,
	// checkpoint, and date.
	AlertOnce bool
	// TickTimeout bounds one full tick including all email fan-out.
	TickTimeout time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// alertKey identifies one escalation so it fires at most once per day
// when AlertOnce is set. Checkpoint is the status label, or empty for
// the attendance gate.
type alertKey struct {
	assignment string
	checkpoint string
	date       string // YYYY-MM-DD in the monitor's location
}

// Monitor runs the daily checkpoint schedule against the assignment
// store and emails supervisors about gaps.
type Monitor struct {
	assignments AssignmentSource
	roster      Roster
	sender      mailer.Sender
	log         *zap.Logger

	loc         *time.Location
	alertOnce   bool
	tickTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	alerted  map[alertKey]struct{}
	lastTick time.Time

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New builds a Monitor over the given assignment source, supervisor
// roster, and mail sender.
func New(assignments AssignmentSource, roster Roster, sender mailer.Sender, logger *zap.Logger, cfg Config) *Monitor {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.TickTimeout <= 0 {
		cfg.TickTimeout = 2 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Monitor{
		assignments: assignments,
		roster:      roster,
		sender:      sender,
		log:         logger,
		loc:         cfg.Location,
		alertOnce:   cfg.AlertOnce,
		tickTimeout: cfg.TickTimeout,
		now:         cfg.Now,
		alerted:     make(map[alertKey]struct{}),
		stopCh:      make(chan struct{}),
	}
}

// Start launches the checkpoint loop in the background.
func (m *Monitor) Start() {
	m.wg.Add(1)
	go m.run()
	m.log.Info("assignment monitor started",
		zap.String("timezone", m.loc.String()),
		zap.Bool("alert_once", m.alertOnce))
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (m *Monitor) Stop() {
	close(m.stopCh)
	m.wg.Wait()
	m.log.Info("assignment monitor stopped")
}

// LastTick reports when the monitor last ran a tick, zero before the
// first one. Health checks use it to confirm the loop is alive.
func (m *Monitor) LastTick() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTick
}

func (m *Monitor) run() {
	defer m.wg.Done()
	for {
		now := m.now().In(m.loc)
		cp, at := Next(now)
		timer := time.NewTimer(at.Sub(now))
		select {
		case <-m.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			ctx, cancel := context.WithTimeout(context.Background(), m.tickTimeout)
			if err := m.RunTick(ctx, m.now().In(m.loc)); err != nil {
				m.log.Error("checkpoint tick failed",
					zap.Int("hour", cp.Hour),
					zap.Int("minute", cp.Minute),
					zap.Error(err))
			}
			cancel()
		}
	}
}

// RunTick evaluates the checkpoint schedule at now. Outside a scheduled
// minute it does nothing. Inside one it loads the day's assignments,
// finds the ones out of compliance, and fans alert email out to every
// supervisor. One recipient failing does not stop the rest; the first
// error is returned.
func (m *Monitor) RunTick(ctx context.Context, now time.Time) error {
	now = now.In(m.loc)

	m.mu.Lock()
	m.lastTick = now
	m.mu.Unlock()

	cp, ok := At(now)
	if !ok {
		return nil
	}

	assignments, err := m.assignments.ForDate(ctx, now)
	if err != nil {
		return err
	}

	var (
		pending []mailer.Email
		keys    []alertKey
	)
	date := now.Format("2006-01-02")
	for _, a := range assignments {
		id := a.ID.Hex()
		crew := a.CrewID.Hex()

		var msg mailer.Email
		switch cp.Kind {
		case KindAttendance:
			if a.AttendanceConfirmed && a.PPECompliance {
				continue
			}
			msg = mailer.BuildAttendanceMissingEmail(mailer.AttendanceAlertData{
				CrewID:       crew,
				AssignmentID: id,
			})
		case KindStatus:
			if a.StatusUpdates[cp.Label] != nil {
				continue
			}
			msg = mailer.BuildStatusMissingEmail(mailer.StatusAlertData{
				CrewID:       crew,
				AssignmentID: id,
				Checkpoint:   cp.Label,
			})
		}

		if m.alertOnce {
			key := alertKey{assignment: id, checkpoint: cp.Label, date: date}
			m.mu.Lock()
			_, seen := m.alerted[key]
			m.mu.Unlock()
			if seen {
				continue
			}
			keys = append(keys, key)
		}
		pending = append(pending, msg)
	}

	m.pruneAlerted(date)

	if len(pending) == 0 {
		return nil
	}

	sups, err := m.roster.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(sups) == 0 {
		m.log.Warn("checkpoint alerts dropped, no supervisors on roster",
			zap.Int("alerts", len(pending)))
		return nil
	}

	// Keys are consumed only now that the roster is in hand, so a
	// failed roster fetch leaves the alert eligible for a retry. A
	// failed send still consumes its key; the schedule retries the
	// next day, not within it.
	m.mu.Lock()
	for _, key := range keys {
		m.alerted[key] = struct{}{}
	}
	m.mu.Unlock()

	return m.dispatch(ctx, pending, sups)
}

// dispatch fans the pending alerts out to every supervisor concurrently.
func (m *Monitor) dispatch(ctx context.Context, pending []mailer.Email, sups []models.Supervisor) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, msg := range pending {
		for _, sup := range sups {
			wg.Add(1)
			go func(to string, msg mailer.Email) {
				defer wg.Done()
				msg.To = to
				if err := m.sender.Send(ctx, msg); err != nil {
					m.log.Error("alert email failed",
						zap.String("to", to),
						zap.String("subject", msg.Subject),
						zap.Error(err))
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}(sup.Email, msg)
		}
	}
	wg.Wait()
	return firstErr
}

// pruneAlerted drops dedup entries from previous dates so the map does
// not grow without bound.
func (m *Monitor) pruneAlerted(today string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.alerted {
		if key.date != today {
			delete(m.alerted, key)
		}
	}
}
