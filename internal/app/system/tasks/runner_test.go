package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunner_RunsAndStops(t *testing.T) {
	var runs atomic.Int64
	job := Job{
		Name:     "count",
		Interval: 10 * time.Millisecond,
		Run: func(_ context.Context) error {
			runs.Add(1)
			return nil
		},
	}

	r := NewRunner(zap.NewNop(), time.Second, job)
	r.Start()
	time.Sleep(60 * time.Millisecond)
	r.Stop()

	got := runs.Load()
	if got == 0 {
		t.Fatal("job never ran")
	}
	time.Sleep(30 * time.Millisecond)
	if runs.Load() != got {
		t.Error("job kept running after Stop")
	}
}

func TestRunner_JobTimeoutInContext(t *testing.T) {
	deadlineSeen := make(chan bool, 1)
	job := Job{
		Name:     "deadline",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			select {
			case deadlineSeen <- ok:
			default:
			}
			return nil
		},
	}

	r := NewRunner(zap.NewNop(), 50*time.Millisecond, job)
	r.Start()
	defer r.Stop()

	select {
	case ok := <-deadlineSeen:
		if !ok {
			t.Error("job context has no deadline")
		}
	case <-time.After(time.Second):
		t.Fatal("job never ran")
	}
}
