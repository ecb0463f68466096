// Package scheduler fires harvesting runs on the weekly calendar: a Monday
// catch-up over the weekend and a daily run Tuesday to Friday.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one recurring run. Window is how far back the boards are searched.
type Job struct {
	Name   string
	Spec   string
	Window time.Duration
}

var (
	Monday = Job{Name: "monday", Spec: "0 9 * * 1", Window: 72 * time.Hour}
	Daily  = Job{Name: "daily", Spec: "0 9 * * 2-5", Window: 24 * time.Hour}
)

// Jobs is the default calendar.
func Jobs() []Job {
	return []Job{Monday, Daily}
}

// RunFunc performs one harvesting run.
type RunFunc func(ctx context.Context, kind string, window time.Duration)

// Scheduler wraps robfig/cron. At most one run executes at a time; a tick
// that arrives while a run is in progress is skipped.
type Scheduler struct {
	cron *cron.Cron
	jobs []Job
	run  RunFunc
	busy sync.Mutex
}

// New builds a scheduler for jobs in loc. A nil loc means local time.
func New(run RunFunc, jobs []Job, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	logger := cron.VerbosePrintfLogger(log.New(os.Stderr, "[scheduler] ", log.LstdFlags))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger)),
		),
		jobs: jobs,
		run:  run,
	}
}

// Start registers every job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, job := range s.jobs {
		job := job
		if _, err := s.cron.AddFunc(job.Spec, func() { s.fire(ctx, job) }); err != nil {
			return fmt.Errorf("cron.AddFunc %s: %w", job.Name, err)
		}
	}
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		log.Printf("⏰ Next scheduled run: %s", e.Next.Format(time.RFC1123))
	}
	return nil
}

// Stop halts the loop and returns a context done when the running job ends.
func (s *Scheduler) Stop() context.Context {
	log.Println("🛑 Scheduler stopping")
	return s.cron.Stop()
}

// fire runs job unless another run still holds the lock. It reports
// whether the run happened.
func (s *Scheduler) fire(ctx context.Context, job Job) bool {
	if !s.busy.TryLock() {
		log.Printf("⏭️ Skipping %s run: previous run still in progress", job.Name)
		return false
	}
	defer s.busy.Unlock()

	log.Printf("🚀 Starting %s scraping (%d-hour window)", job.Name, int(job.Window.Hours()))
	s.run(ctx, job.Name, job.Window)
	return true
}

// NextRun returns the first job due after from, and when.
func NextRun(jobs []Job, from time.Time) (Job, time.Time, error) {
	var (
		best Job
		at   time.Time
	)
	for _, job := range jobs {
		sched, err := cron.ParseStandard(job.Spec)
		if err != nil {
			return Job{}, time.Time{}, fmt.Errorf("parse %s: %w", job.Name, err)
		}
		next := sched.Next(from)
		if at.IsZero() || next.Before(at) {
			best, at = job, next
		}
	}
	return best, at, nil
}
