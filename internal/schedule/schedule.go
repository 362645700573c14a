// Package schedule re-runs configured conversions on cron triggers.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/robfig/cron/v3"
)

// RunFunc executes one scheduled job.
type RunFunc func(ctx context.Context, job contract.Job) error

// Scheduler manages the cron entries of the configured jobs.
type Scheduler struct {
	Cron *cron.Cron
	Jobs []contract.Job
	Run  RunFunc
	Ctx  context.Context

	entries map[string]cron.EntryID
}

// ValidateSpec parses a standard five-field cron expression or a descriptor such as @daily.
func ValidateSpec(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}

// NewScheduler creates a Scheduler for jobs. Entries are registered by Register.
func NewScheduler(ctx context.Context, jobs []contract.Job, run RunFunc) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(),
		Jobs:    jobs,
		Run:     run,
		Ctx:     ctx,
		entries: make(map[string]cron.EntryID, len(jobs)),
	}
}

// Register adds one cron entry per job. It fails on the first invalid expression.
func (s *Scheduler) Register() error {
	if len(s.Jobs) == 0 {
		return errors.New("no jobs configured")
	}
	for _, job := range s.Jobs {
		id, err := s.Cron.AddFunc(job.Spec, s.task(job))
		if err != nil {
			return fmt.Errorf("register job %s: %w", job.Name, err)
		}
		s.entries[job.Name] = id
	}
	return nil
}

// task returns the cron callback for job. Failures are logged, the schedule keeps running.
func (s *Scheduler) task(job contract.Job) func() {
	return func() {
		if err := s.runJob(job); err != nil {
			contract.LogWarn(fmt.Sprintf("Scheduled job %s failed", job.Name), err)
		}
	}
}

func (s *Scheduler) runJob(job contract.Job) error {
	if err := s.Ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	if err := s.Run(s.Ctx, job); err != nil {
		return err
	}
	contract.LogInfo("[INFO] job %s (%s) finished in %s", job.Name, job.Metric, time.Since(start).Round(time.Millisecond))
	return nil
}

// NextRun returns the next trigger time of the named job once the scheduler has started.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	id, ok := s.entries[name]
	if !ok {
		return time.Time{}, false
	}
	return s.Cron.Entry(id).Next, true
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	contract.LogInfo("[INFO] scheduler started with %d jobs", len(s.entries))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	contract.LogInfo("[INFO] scheduler stopped")
}

// RunAllNow executes every job once in order. All failures are returned together.
func (s *Scheduler) RunAllNow() error {
	var errs []error
	for _, job := range s.Jobs {
		if err := s.runJob(job); err != nil {
			errs = append(errs, fmt.Errorf("job %s: %w", job.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Serve registers the jobs and blocks until ctx is done.
// With once set, every job runs immediately a single time instead.
func (s *Scheduler) Serve(once bool) error {
	for _, job := range s.Jobs {
		if err := ValidateSpec(job.Spec); err != nil {
			return fmt.Errorf("register job %s: %w", job.Name, err)
		}
	}
	if once {
		return s.RunAllNow()
	}
	if err := s.Register(); err != nil {
		return err
	}
	s.Start()
	<-s.Ctx.Done()
	s.Stop()
	return nil
}
