package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"pet_care_notifier/internal/domain/account"
	"pet_care_notifier/internal/domain/notification"
	"pet_care_notifier/internal/domain/pet"
	"pet_care_notifier/internal/domain/reminder"
	"pet_care_notifier/internal/infra/memory"

	"github.com/sirupsen/logrus"
)

const testOwner = "owner-1"

var testRoutine = []reminder.RoutineTask{
	{ID: "walk", Label: "Morning Walk", StartHour: 7, EndHour: 8, TimeLabel: "07:00 - 08:00"},
	{ID: "dinner", Label: "Dinner Time", StartHour: 18, EndHour: 19, TimeLabel: "18:00 - 19:00"},
}

type fixture struct {
	svc      *ReminderService
	notif    *NotificationServiceImpl
	accounts *memory.AccountRepo
	pets     *memory.PetRepo
	markers  *memory.MarkerStore
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l.WithField("component", "test")
}

func newFixture(t *testing.T, routine []reminder.RoutineTask) *fixture {
	t.Helper()

	accounts := memory.NewAccountRepo()
	pets := memory.NewPetRepo()
	markers := memory.NewMarkerStore()
	notifRepo := memory.NewNotificationRepo()

	notif := NewNotificationService(notifRepo, accounts, nil, testLog())
	svc := NewReminderService(accounts, pets, markers, notif, routine, 14, testLog())

	acct := &account.Account{
		ID:          testOwner,
		DisplayName: "Owner One",
		IsActive:    true,
		Prefs:       account.DefaultPrefs(),
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := accounts.Create(context.Background(), acct); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	return &fixture{svc: svc, notif: notif, accounts: accounts, pets: pets, markers: markers}
}

func (f *fixture) addPet(t *testing.T, id, name string, vaccinations ...pet.Vaccination) {
	t.Helper()
	p := &pet.Pet{
		ID:           id,
		OwnerID:      testOwner,
		Name:         name,
		Species:      "dog",
		Vaccinations: vaccinations,
		CreatedAt:    time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC).Add(time.Duration(len(id)) * time.Second),
	}
	if err := f.pets.Create(context.Background(), p); err != nil {
		t.Fatalf("seed pet %s: %v", id, err)
	}
}

func (f *fixture) runAt(t *testing.T, now time.Time) {
	t.Helper()
	f.svc.now = func() time.Time { return now }
	if err := f.svc.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck at %s: %v", now, err)
	}
}

func (f *fixture) emitted(t *testing.T) []*notification.Notification {
	t.Helper()
	list, err := f.notif.ListRecent(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	return list
}

func at(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, time.UTC)
}

func TestActiveReminder_AtMostOncePerDay(t *testing.T) {
	f := newFixture(t, testRoutine)
	f.addPet(t, "pet-1", "Milo")

	for i := 0; i < 3; i++ {
		f.runAt(t, at(14, 7, 0))
	}

	got := f.emitted(t)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 notification after repeated ticks, got %d", len(got))
	}
	if got[0].Title != "Time for Morning Walk" {
		t.Errorf("unexpected title %q", got[0].Title)
	}
	if got[0].Severity != notification.SeverityInfo {
		t.Errorf("expected info severity, got %s", got[0].Severity)
	}
}

func TestActiveReminder_WindowBoundaries(t *testing.T) {
	cases := []struct {
		minute   int
		expected int
	}{
		{0, 1},
		{4, 1},
		{5, 0},
		{59, 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("minute_%d", tc.minute), func(t *testing.T) {
			f := newFixture(t, testRoutine[:1])
			f.addPet(t, "pet-1", "Milo")

			f.runAt(t, at(14, 7, tc.minute))

			if got := len(f.emitted(t)); got != tc.expected {
				t.Fatalf("minute %d: expected %d emissions, got %d", tc.minute, tc.expected, got)
			}
		})
	}
}

func TestActiveReminder_NotBeforeWindow(t *testing.T) {
	f := newFixture(t, testRoutine[:1])
	f.addPet(t, "pet-1", "Milo")

	f.runAt(t, at(14, 6, 59))

	if got := len(f.emitted(t)); got != 0 {
		t.Fatalf("expected no emission at 06:59, got %d", got)
	}
}

func TestUpcomingReminder_WindowBoundaries(t *testing.T) {
	routine := []reminder.RoutineTask{
		{ID: "breakfast", Label: "Breakfast", StartHour: 8, EndHour: 9, TimeLabel: "08:30 - 09:00"},
	}
	cases := []struct {
		minute   int
		expected int
	}{
		{29, 0},
		{30, 1},
		{59, 1},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("minute_%d", tc.minute), func(t *testing.T) {
			f := newFixture(t, routine)
			f.addPet(t, "pet-1", "Milo")

			f.runAt(t, at(14, 7, tc.minute))

			got := f.emitted(t)
			if len(got) != tc.expected {
				t.Fatalf("minute %d: expected %d emissions, got %d", tc.minute, tc.expected, len(got))
			}
			if tc.expected == 1 && got[0].Title != "Upcoming: Breakfast" {
				t.Errorf("unexpected title %q", got[0].Title)
			}
		})
	}
}

func TestUpcomingReminder_MidnightTaskNeverFires(t *testing.T) {
	routine := []reminder.RoutineTask{
		{ID: "midnight_check", Label: "Midnight Check", StartHour: 0, EndHour: 1, TimeLabel: "00:00 - 01:00"},
	}
	f := newFixture(t, routine)
	f.addPet(t, "pet-1", "Milo")

	f.runAt(t, at(14, 23, 30))
	f.runAt(t, at(14, 23, 59))

	if got := len(f.emitted(t)); got != 0 {
		t.Fatalf("midnight task must not produce an upcoming reminder, got %d", got)
	}
}

func TestVaccineReminder_DueWindow(t *testing.T) {
	now := at(14, 10, 0)
	cases := []struct {
		days     int
		expected int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{3, 1},
		{7, 1},
		{8, 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("days_%d", tc.days), func(t *testing.T) {
			f := newFixture(t, nil)
			due := now.Add(time.Duration(tc.days) * 24 * time.Hour)
			f.addPet(t, "pet-1", "Milo", pet.Vaccination{
				ID:             "vac-rabies",
				Name:           "Rabies",
				AdministeredAt: now.AddDate(-1, 0, 0),
				NextDueAt:      &due,
			})

			f.runAt(t, now)

			got := f.emitted(t)
			if len(got) != tc.expected {
				t.Fatalf("days %d: expected %d emissions, got %d", tc.days, tc.expected, len(got))
			}
			if tc.expected == 1 {
				want := fmt.Sprintf("Milo's Rabies booster is due in %d days!", tc.days)
				if got[0].Message != want {
					t.Errorf("message = %q, want %q", got[0].Message, want)
				}
				if got[0].Severity != notification.SeverityWarning {
					t.Errorf("expected warning severity, got %s", got[0].Severity)
				}
			}
		})
	}
}

func TestVaccineReminder_NoTrackedDueDate(t *testing.T) {
	f := newFixture(t, nil)
	f.addPet(t, "pet-1", "Milo", pet.Vaccination{
		ID:             "vac-parvo",
		Name:           "Parvo",
		AdministeredAt: at(1, 9, 0),
	})

	f.runAt(t, at(14, 10, 0))

	if got := len(f.emitted(t)); got != 0 {
		t.Fatalf("vaccination without next due date must not fire, got %d", got)
	}
}

func TestCrossDayReset(t *testing.T) {
	f := newFixture(t, testRoutine[:1])
	f.addPet(t, "pet-1", "Milo")

	f.runAt(t, at(14, 7, 0))
	f.runAt(t, at(15, 7, 0)) // next calendar day, same window

	if got := len(f.emitted(t)); got != 2 {
		t.Fatalf("marker from day D must not suppress day D+1, expected 2 emissions, got %d", got)
	}
}

func TestMultiPetIndependence(t *testing.T) {
	f := newFixture(t, testRoutine[:1])
	f.addPet(t, "pet-1", "Milo")
	f.addPet(t, "pet-2", "Luna")

	f.runAt(t, at(14, 7, 0))

	got := f.emitted(t)
	if len(got) != 2 {
		t.Fatalf("expected one emission per pet, got %d", len(got))
	}
	messages := map[string]bool{}
	for _, n := range got {
		messages[n.Message] = true
	}
	if !messages["It's 07:00 - 08:00. Time to take care of Milo."] ||
		!messages["It's 07:00 - 08:00. Time to take care of Luna."] {
		t.Errorf("expected distinct per-pet messages, got %v", messages)
	}
}

func TestStartupCheckPlusFirstTick_NoDoubleFire(t *testing.T) {
	f := newFixture(t, testRoutine[:1])
	f.addPet(t, "pet-1", "Milo")

	// Immediate startup check and the first scheduled tick land in the same
	// simulated minute.
	f.runAt(t, at(14, 7, 2))
	f.runAt(t, at(14, 7, 2).Add(30*time.Second))

	if got := len(f.emitted(t)); got != 1 {
		t.Fatalf("startup check plus first tick must fire once, got %d", got)
	}
}

func TestPreferences_GateEachCategory(t *testing.T) {
	now := at(14, 7, 0)
	due := now.Add(3 * 24 * time.Hour)

	f := newFixture(t, testRoutine[:1])
	acct, err := f.accounts.GetByID(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	acct.Prefs = account.ReminderPrefs{RoutineEnabled: false, UpcomingEnabled: true, VaccineEnabled: true}
	if err := f.accounts.Update(context.Background(), acct); err != nil {
		t.Fatalf("update account: %v", err)
	}
	f.addPet(t, "pet-1", "Milo", pet.Vaccination{ID: "vac-rabies", Name: "Rabies", AdministeredAt: now.AddDate(-1, 0, 0), NextDueAt: &due})

	f.runAt(t, now)

	got := f.emitted(t)
	if len(got) != 1 {
		t.Fatalf("expected only the vaccine reminder with routine disabled, got %d", len(got))
	}
	if got[0].Title != "Action Required: Vaccine" {
		t.Errorf("unexpected title %q", got[0].Title)
	}
}

func TestInactiveAccountSkipped(t *testing.T) {
	f := newFixture(t, testRoutine[:1])
	acct, err := f.accounts.GetByID(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	acct.IsActive = false
	if err := f.accounts.Update(context.Background(), acct); err != nil {
		t.Fatalf("update account: %v", err)
	}
	f.addPet(t, "pet-1", "Milo")

	f.runAt(t, at(14, 7, 0))

	if got := len(f.emitted(t)); got != 0 {
		t.Fatalf("inactive account must not receive reminders, got %d", got)
	}
}

// failingMarkerStore always errors; the evaluator must fail open and emit.
type failingMarkerStore struct{}

func (failingMarkerStore) Fired(ctx context.Context, ownerID, key string) (bool, error) {
	return false, errors.New("store unavailable")
}
func (failingMarkerStore) MarkFired(ctx context.Context, ownerID, key string) (bool, error) {
	return false, errors.New("store unavailable")
}
func (failingMarkerStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, errors.New("store unavailable")
}

func TestMarkerStoreFailure_FailsOpen(t *testing.T) {
	f := newFixture(t, testRoutine[:1])
	f.addPet(t, "pet-1", "Milo")
	f.svc.markers = failingMarkerStore{}

	f.runAt(t, at(14, 7, 0))

	if got := len(f.emitted(t)); got != 1 {
		t.Fatalf("marker store failure must not lose the reminder, got %d emissions", got)
	}
}

// flakySink fails the first emission and records the rest.
type flakySink struct {
	failures int
	titles   []string
}

func (s *flakySink) Emit(ctx context.Context, ownerID, title, message string, severity notification.Severity) (*notification.Notification, error) {
	if s.failures > 0 {
		s.failures--
		return nil, errors.New("sink unavailable")
	}
	s.titles = append(s.titles, title)
	return &notification.Notification{ID: title, OwnerID: ownerID, Title: title}, nil
}
func (s *flakySink) ListRecent(ctx context.Context, ownerID string) ([]*notification.Notification, error) {
	return nil, nil
}
func (s *flakySink) UnreadCount(ctx context.Context, ownerID string) (int, error) { return 0, nil }
func (s *flakySink) MarkRead(ctx context.Context, ownerID, id string) error       { return nil }
func (s *flakySink) ClearAll(ctx context.Context, ownerID string) error           { return nil }

func TestEmitFailure_DoesNotBlockRemainingReminders(t *testing.T) {
	f := newFixture(t, testRoutine[:1])
	f.addPet(t, "pet-1", "Milo")
	f.addPet(t, "pet-2", "Luna")

	sink := &flakySink{failures: 1}
	f.svc.notifier = sink

	f.runAt(t, at(14, 7, 0))

	if len(sink.titles) != 1 {
		t.Fatalf("second pet's reminder must still be emitted after a sink failure, got %d", len(sink.titles))
	}
}

// recordingMarkerStore captures the cutoff passed to DeleteOlderThan.
type recordingMarkerStore struct {
	*memory.MarkerStore
	cutoff time.Time
}

func (s *recordingMarkerStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return 3, nil
}

func TestSweepMarkers_UsesRetentionWindow(t *testing.T) {
	f := newFixture(t, testRoutine[:1])
	store := &recordingMarkerStore{MarkerStore: memory.NewMarkerStore()}
	f.svc.markers = store

	now := at(14, 3, 0)
	f.svc.now = func() time.Time { return now }

	removed, err := f.svc.SweepMarkers(context.Background())
	if err != nil {
		t.Fatalf("SweepMarkers: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected the store's removal count to be returned, got %d", removed)
	}
	if want := now.AddDate(0, 0, -14); !store.cutoff.Equal(want) {
		t.Errorf("cutoff = %s, want %s (14-day retention)", store.cutoff, want)
	}
}
