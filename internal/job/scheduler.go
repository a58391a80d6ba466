package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs registered jobs on their cron schedules.
type Scheduler struct {
	log     *slog.Logger
	cron    *cron.Cron
	jobs    []Job
	timeout time.Duration
}

// NewScheduler builds a scheduler. Each scheduled run is bounded by timeout
// when it is positive.
func NewScheduler(log *slog.Logger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		log:     log.With("component", "scheduler"),
		cron:    cron.New(),
		jobs:    make([]Job, 0),
		timeout: timeout,
	}
}

// Register adds a job. Jobs with a schedule are queued on the cron.
func (s *Scheduler) Register(job Job) error {
	s.jobs = append(s.jobs, job)

	schedule := job.Schedule()
	if schedule == "" {
		s.log.Info("job registered for on-demand runs", slog.String("job", job.Name()))
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.run(job) }); err != nil {
		return fmt.Errorf("schedule job %s with %q: %w", job.Name(), schedule, err)
	}
	s.log.Info("job scheduled", slog.String("job", job.Name()), slog.String("schedule", schedule))
	return nil
}

func (s *Scheduler) run(job Job) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job.Execute(ctx); err != nil {
		s.log.Error("job failed", slog.String("job", job.Name()), slog.String("error", err.Error()))
		return
	}
	s.log.Info("job completed", slog.String("job", job.Name()), slog.Duration("took", time.Since(start)))
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", slog.Int("jobs", len(s.jobs)))
}

// Stop halts the cron and waits for running jobs to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunByName executes a registered job immediately.
func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name() == name {
			return job.Execute(ctx)
		}
	}
	return fmt.Errorf("job %q is not registered", name)
}

func (s *Scheduler) Registered() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name()
	}
	return names
}
