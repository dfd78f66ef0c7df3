// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"pet_care_notifier/internal/domain/account"
	"pet_care_notifier/internal/domain/notification"
	"pet_care_notifier/internal/domain/pet"
	"pet_care_notifier/internal/domain/reminder"

	"github.com/sirupsen/logrus"
)

// Firing windows. The evaluator is polled once a minute, so each trigger
// tolerates a band of minutes rather than matching a single instant: the
// active reminder fires within the first activeWindowMinutes of the task's
// start hour, the upcoming reminder from upcomingFromMinute of the preceding
// hour onward.
const (
	activeWindowMinutes = 5
	upcomingFromMinute  = 30
	vaccineAlertDays    = 7
)

// ReminderRunner is the scheduler-facing surface of the reminder service.
type ReminderRunner interface {
	RunCheck(ctx context.Context) error
	SweepMarkers(ctx context.Context) (int64, error)
}

var _ ReminderRunner = (*ReminderService)(nil)

// ReminderService evaluates the routine table and vaccination records for
// every active account and emits due reminders, at most once per event per
// calendar day.
type ReminderService struct {
	accountRepo account.Repository
	petRepo     pet.Repository
	markers     reminder.MarkerStore
	notifier    NotificationService
	routine     []reminder.RoutineTask

	markerRetention time.Duration
	log             *logrus.Entry
	now             func() time.Time
}

func NewReminderService(
	ar account.Repository,
	pr pet.Repository,
	ms reminder.MarkerStore,
	ns NotificationService,
	routine []reminder.RoutineTask,
	markerRetentionDays int,
	log *logrus.Entry,
) *ReminderService {
	return &ReminderService{
		accountRepo:     ar,
		petRepo:         pr,
		markers:         ms,
		notifier:        ns,
		routine:         routine,
		markerRetention: time.Duration(markerRetentionDays) * 24 * time.Hour,
		log:             log,
		now:             time.Now,
	}
}

// RunCheck performs one evaluation tick for all active accounts. A failure for
// one account or one pet never aborts the rest of the tick.
func (s *ReminderService) RunCheck(ctx context.Context) error {
	now := s.now()

	accounts, err := s.accountRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active accounts: %w", err)
	}

	for _, acct := range accounts {
		pets, err := s.petRepo.ListByOwner(ctx, acct.ID)
		if err != nil {
			s.log.WithError(err).WithField("owner_id", acct.ID).Error("skipping owner: could not list pets")
			continue
		}
		for _, p := range pets {
			s.evaluatePet(ctx, acct, p, now)
		}
	}
	return nil
}

// evaluatePet runs the three reminder checks for one pet. Tasks are evaluated
// in routine-table order; every due reminder in the tick is emitted.
func (s *ReminderService) evaluatePet(ctx context.Context, acct *account.Account, p *pet.Pet, now time.Time) {
	for _, task := range s.routine {
		if acct.Prefs.RoutineEnabled && now.Hour() == task.StartHour && now.Minute() < activeWindowMinutes {
			s.fireOnce(ctx, acct.ID, reminder.MarkerKey(reminder.MarkerKindActive, task.ID, now, p.ID),
				fmt.Sprintf("Time for %s", task.Label),
				fmt.Sprintf("It's %s. Time to take care of %s.", task.TimeLabel, p.Name),
				notification.SeverityInfo)
		}

		// Tasks starting at midnight have no preceding hour on the same
		// calendar day and never get an upcoming reminder.
		if acct.Prefs.UpcomingEnabled && task.StartHour > 0 &&
			now.Hour() == task.StartHour-1 && now.Minute() >= upcomingFromMinute {
			s.fireOnce(ctx, acct.ID, reminder.MarkerKey(reminder.MarkerKindUpcoming, task.ID, now, p.ID),
				fmt.Sprintf("Upcoming: %s", task.Label),
				fmt.Sprintf("%s for %s starts in about 30 minutes.", task.Label, p.Name),
				notification.SeverityInfo)
		}
	}

	if !acct.Prefs.VaccineEnabled {
		return
	}
	for _, v := range p.Vaccinations {
		if v.NextDueAt == nil {
			continue
		}
		diffDays := daysUntil(now, *v.NextDueAt)
		if diffDays <= 0 || diffDays > vaccineAlertDays {
			continue
		}
		s.fireOnce(ctx, acct.ID, reminder.MarkerKey(reminder.MarkerKindVaccine, v.ID, now, p.ID),
			"Action Required: Vaccine",
			fmt.Sprintf("%s's %s booster is due in %d days!", p.Name, v.Name, diffDays),
			notification.SeverityWarning)
	}
}

// fireOnce claims the dedup marker and emits the notification only when this
// tick is the first to claim it. A marker store failure fails open: the
// reminder is emitted anyway, a duplicate being preferable to a lost one.
func (s *ReminderService) fireOnce(ctx context.Context, ownerID, key, title, message string, severity notification.Severity) {
	first, err := s.markers.MarkFired(ctx, ownerID, key)
	if err != nil {
		s.log.WithError(err).WithField("marker_key", key).Warn("marker store failed, emitting anyway")
		first = true
	}
	if !first {
		return
	}
	if _, err := s.notifier.Emit(ctx, ownerID, title, message, severity); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"owner_id": ownerID, "marker_key": key}).Error("failed to emit reminder")
	}
}

// daysUntil is the whole number of days from now until due, rounded up.
func daysUntil(now, due time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// SweepMarkers prunes dedup markers older than the retention window. Stale
// markers are inert either way; the sweep only bounds storage growth.
func (s *ReminderService) SweepMarkers(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.markerRetention)
	removed, err := s.markers.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep dedup markers: %w", err)
	}
	if removed > 0 {
		s.log.WithField("removed", removed).Info("pruned stale dedup markers")
	}
	return removed, nil
}
