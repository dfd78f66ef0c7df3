package reminder

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 0, 0, time.UTC)
}

func TestDefaultRoutine_WindowsAreValid(t *testing.T) {
	if len(DefaultRoutine) == 0 {
		t.Fatal("routine table must not be empty")
	}
	seen := map[string]bool{}
	prevStart := -1
	for _, task := range DefaultRoutine {
		if task.StartHour < 0 || task.StartHour > 23 || task.EndHour < 0 || task.EndHour > 23 {
			t.Errorf("task %s: hours out of range", task.ID)
		}
		if task.StartHour >= task.EndHour {
			t.Errorf("task %s: start hour %d not before end hour %d", task.ID, task.StartHour, task.EndHour)
		}
		if seen[task.ID] {
			t.Errorf("duplicate task id %s", task.ID)
		}
		seen[task.ID] = true
		if task.StartHour <= prevStart {
			t.Errorf("task %s: routine table must be ordered by start hour", task.ID)
		}
		prevStart = task.StartHour
	}
}

func TestTaskStatusAt(t *testing.T) {
	task := RoutineTask{ID: "walk", StartHour: 7, EndHour: 8}

	cases := []struct {
		hour, min int
		want      TaskStatus
	}{
		{6, 59, TaskStatusPending},
		{7, 0, TaskStatusActive},
		{7, 59, TaskStatusActive},
		{8, 0, TaskStatusDone},
		{23, 0, TaskStatusDone},
	}
	for _, tc := range cases {
		if got := task.StatusAt(at(tc.hour, tc.min)); got != tc.want {
			t.Errorf("StatusAt(%02d:%02d) = %s, want %s", tc.hour, tc.min, got, tc.want)
		}
	}
}

func TestDayComplete(t *testing.T) {
	if DayComplete(DefaultRoutine, at(21, 59)) {
		t.Error("day must not be complete while the last task is active")
	}
	if !DayComplete(DefaultRoutine, at(22, 0)) {
		t.Error("day must be complete at the last task's end hour")
	}
	if DayComplete(nil, at(23, 0)) {
		t.Error("empty routine is never complete")
	}
}

func TestMarkerKey_DateScopedAndDeterministic(t *testing.T) {
	morning := time.Date(2026, 3, 14, 7, 2, 11, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 21, 30, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 15, 7, 2, 11, 0, time.UTC)

	key := MarkerKey(MarkerKindActive, "walk", morning, "pet-1")
	if key != "active:walk:2026-03-14:pet-1" {
		t.Errorf("unexpected key %q", key)
	}
	if MarkerKey(MarkerKindActive, "walk", evening, "pet-1") != key {
		t.Error("key must match all ticks within one day")
	}
	if MarkerKey(MarkerKindActive, "walk", nextDay, "pet-1") == key {
		t.Error("key must differ across calendar days")
	}
	if MarkerKey(MarkerKindUpcoming, "walk", morning, "pet-1") == key {
		t.Error("key must differ across marker kinds")
	}
	if MarkerKey(MarkerKindActive, "walk", morning, "pet-2") == key {
		t.Error("key must differ across pets")
	}
}
