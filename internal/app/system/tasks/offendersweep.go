// internal/app/system/tasks/offendersweep.go
package tasks

import (
	"context"
	"time"

	"github.com/ezzdayhq/ezzday/internal/app/system/offenders"
)

// OffenderSweepJob runs repeat-offender detection on an interval and
// escalates any flagged addresses to supervisors.
func OffenderSweepJob(det *offenders.Detector, interval time.Duration) Job {
	return Job{
		Name:     "offender_sweep",
		Interval: interval,
		Run: func(ctx context.Context) error {
			addresses, err := det.Detect(ctx)
			if err != nil {
				return err
			}
			return det.Escalate(ctx, addresses)
		},
	}
}
