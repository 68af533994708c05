// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one recurring background task.
type Job struct {
	Name     string
	Interval time.Duration
	// Run does one pass of the task. The context carries the runner's
	// per-pass timeout.
	Run func(ctx context.Context) error
}

// Runner drives a set of Jobs, each on its own ticker.
type Runner struct {
	jobs    []Job
	timeout time.Duration
	log     *zap.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewRunner builds a Runner. timeout bounds each individual job pass.
func NewRunner(logger *zap.Logger, timeout time.Duration, jobs ...Job) *Runner {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Runner{
		jobs:    jobs,
		timeout: timeout,
		log:     logger,
		stopCh:  make(chan struct{}),
	}
}

// Start launches every job loop.
func (r *Runner) Start() {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(job)
		r.log.Info("background job started",
			zap.String("job", job.Name),
			zap.Duration("interval", job.Interval))
	}
}

// Stop halts all job loops and waits for in-flight passes to finish.
func (r *Runner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.log.Info("background jobs stopped")
}

func (r *Runner) loop(job Job) {
	defer r.wg.Done()
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			if err := job.Run(ctx); err != nil {
				r.log.Error("background job failed",
					zap.String("job", job.Name),
					zap.Error(err))
			}
			cancel()
		}
	}
}
