package reminder

import "time"

// RoutineTask is a recurring daily care activity with a fixed hour-of-day window.
// StartHour and EndHour are in [0,23] with StartHour < EndHour.
type RoutineTask struct {
	ID        string
	Label     string
	StartHour int
	EndHour   int
	TimeLabel string
}

// DefaultRoutine is the standard daily care schedule. It is defined once and
// shared read-only across all evaluations.
var DefaultRoutine = []RoutineTask{
	{ID: "morning_walk", Label: "Morning Walk", StartHour: 7, EndHour: 8, TimeLabel: "07:00 - 08:00"},
	{ID: "breakfast", Label: "Breakfast", StartHour: 8, EndHour: 9, TimeLabel: "08:30 - 09:00"},
	{ID: "midday_play", Label: "Mid-day Play", StartHour: 12, EndHour: 13, TimeLabel: "12:00 - 13:00"},
	{ID: "dinner", Label: "Dinner Time", StartHour: 18, EndHour: 19, TimeLabel: "18:00 - 19:00"},
	{ID: "night_walk", Label: "Night Walk", StartHour: 21, EndHour: 22, TimeLabel: "21:00 - 22:00"},
}

// TaskStatus is the state of a routine task relative to the current time,
// used by the presentation layer's checklist view.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusActive  TaskStatus = "active"
	TaskStatusDone    TaskStatus = "done"
)

// StatusAt reports the task's checklist status at the given time.
func (t RoutineTask) StatusAt(now time.Time) TaskStatus {
	hour := now.Hour()
	switch {
	case hour >= t.EndHour:
		return TaskStatusDone
	case hour >= t.StartHour:
		return TaskStatusActive
	default:
		return TaskStatusPending
	}
}

// DayComplete reports whether every task in the routine has passed its window,
// i.e. the current hour is at or past the last task's end hour.
func DayComplete(routine []RoutineTask, now time.Time) bool {
	if len(routine) == 0 {
		return false
	}
	last := routine[len(routine)-1]
	return now.Hour() >= last.EndHour
}
