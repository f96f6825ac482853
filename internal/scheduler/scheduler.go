package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/global-weather-forecast/internal/metrics"
)

// Scheduler periodically logs a summary of the request counters so operators
// can follow serving volume without an external metrics stack.
type Scheduler struct {
	scheduler *gocron.Scheduler
	counters  *metrics.Counters
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, counters *metrics.Counters) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		counters:  counters,
		interval:  interval,
	}
}

// Start schedules the periodic heartbeat and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = 60
	}

	_, err := s.scheduler.Every(seconds).Seconds().Do(func() {
		snap := s.counters.Snapshot()
		log.Printf("INFO: stats uptime=%s predictions=%d validation_failures=%d inference_failures=%d",
			snap.Uptime.Round(time.Second), snap.Predictions, snap.ValidationFailures, snap.InferenceFailures)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
