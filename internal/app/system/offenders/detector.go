// internal/app/system/offenders/detector.go
package offenders

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ezzdayhq/ezzday/internal/app/system/mailer"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// IssueFlags is the slice of the issues store the detector needs.
type IssueFlags interface {
	RepeatAddresses(ctx context.Context) ([]string, error)
	SetRepeatFlag(ctx context.Context, addresses []string, flag bool) (int64, error)
	ClearRepeatFlagExcept(ctx context.Context, addresses []string) (int64, error)
	CountByAddress(ctx context.Context, address string) (int64, error)
	SetRepeatFlagForAddress(ctx context.Context, address string, flag bool) error
}

// Roster lists the supervisors who receive escalation email.
type Roster interface {
	ListAll(ctx context.Context) ([]models.Supervisor, error)
}

// Detector finds addresses with more than one reported issue and keeps
// the repeat_offender flag on every issue in sync with that fact, in
// both directions. An address that drops back to a single issue is
// cleared on the next pass.
type Detector struct {
	issues IssueFlags
	roster Roster
	sender mailer.Sender
	log    *zap.Logger
}

// NewDetector wires a Detector over the issues store and supervisor roster.
func NewDetector(issues IssueFlags, roster Roster, sender mailer.Sender, logger *zap.Logger) *Detector {
	return &Detector{issues: issues, roster: roster, sender: sender, log: logger}
}

// Detect reconciles repeat_offender across the whole collection and
// returns the addresses currently over the threshold. Flag writes are
// grouped per direction so a half-finished pass never leaves a repeat
// address unflagged.
func (d *Detector) Detect(ctx context.Context) ([]string, error) {
	addresses, err := d.issues.RepeatAddresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect repeat addresses: %w", err)
	}

	if len(addresses) > 0 {
		if _, err := d.issues.SetRepeatFlag(ctx, addresses, true); err != nil {
			return nil, fmt.Errorf("flag repeat addresses: %w", err)
		}
	}
	if _, err := d.issues.ClearRepeatFlagExcept(ctx, addresses); err != nil {
		return nil, fmt.Errorf("clear stale repeat flags: %w", err)
	}

	return addresses, nil
}

// Escalate emails every supervisor about each repeat address. Failures
// are logged and do not stop the remaining sends; the first error is
// returned so callers can surface partial delivery.
func (d *Detector) Escalate(ctx context.Context, addresses []string) error {
	if len(addresses) == 0 {
		return nil
	}

	sups, err := d.roster.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("escalate: list supervisors: %w", err)
	}
	if len(sups) == 0 {
		d.log.Warn("repeat offender escalation skipped, no supervisors on roster",
			zap.Int("addresses", len(addresses)))
		return nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, addr := range addresses {
		msg := mailer.BuildRepeatOffenderEmail(addr)
		for _, sup := range sups {
			wg.Add(1)
			go func(to string, msg mailer.Email) {
				defer wg.Done()
				sendCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
				defer cancel()
				msg.To = to
				if err := d.sender.Send(sendCtx, msg); err != nil {
					d.log.Error("repeat offender email failed",
						zap.String("to", to),
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

// SyncAddress recomputes the flag for a single address after an issue at
// that address is created, updated, or deleted. It returns whether the
// address is a repeat offender after the write.
func (d *Detector) SyncAddress(ctx context.Context, address string) (bool, error) {
	n, err := d.issues.CountByAddress(ctx, address)
	if err != nil {
		return false, fmt.Errorf("sync address %q: %w", address, err)
	}
	repeat := n > 1
	if err := d.issues.SetRepeatFlagForAddress(ctx, address, repeat); err != nil {
		return false, fmt.Errorf("sync address %q: %w", address, err)
	}
	return repeat, nil
}
