package scheduler

import (
	"context"
	"time"

	"pet_care_notifier/internal/app" // For ReminderRunner interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	checkJobTimeout = 1 * time.Minute
	sweepJobTimeout = 5 * time.Minute
)

// ReminderScheduler drives the reminder service: a recurring evaluation tick
// plus a daily marker sweep. Ticks are serialized by construction, the cron
// engine is the sole caller of RunCheck after the startup check completes.
type ReminderScheduler struct {
	cronEngine    *cron.Cron
	runner        app.ReminderRunner
	log           *logrus.Entry
	cronSpecCheck string
	cronSpecSweep string
}

func NewReminderScheduler(
	runner app.ReminderRunner,
	log *logrus.Entry,
	cronSpecCheck string, // e.g., "* * * * *" (every minute)
	cronSpecSweep string, // e.g., "0 3 * * *" (03:00 daily)
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:    cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		runner:        runner,
		log:           log,
		cronSpecCheck: cronSpecCheck,
		cronSpecSweep: cronSpecSweep,
	}
}

// Start registers the cron jobs and fires one immediate evaluation so the
// first reminders are not delayed by a full tick interval.
func (s *ReminderScheduler) Start() error {
	s.log.Info("starting reminder scheduler")

	if _, err := s.cronEngine.AddFunc(s.cronSpecCheck, s.runCheck); err != nil {
		return err
	}
	if _, err := s.cronEngine.AddFunc(s.cronSpecSweep, s.runSweep); err != nil {
		return err
	}

	s.runCheck() // Initial check at startup

	s.cronEngine.Start()
	s.log.Info("reminder scheduler started")
	return nil
}

func (s *ReminderScheduler) runCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), checkJobTimeout)
	defer cancel()
	if err := s.runner.RunCheck(ctx); err != nil {
		s.log.WithError(err).Error("reminder check failed")
	}
}

func (s *ReminderScheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepJobTimeout)
	defer cancel()
	if _, err := s.runner.SweepMarkers(ctx); err != nil {
		s.log.WithError(err).Error("marker sweep failed")
	}
}

// Stop halts scheduling and waits for any running job to finish.
func (s *ReminderScheduler) Stop() {
	s.log.Info("stopping reminder scheduler")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.log.Info("reminder scheduler stopped")
}
