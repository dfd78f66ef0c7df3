package account

import (
	"database/sql"
	"time"
)

// ReminderPrefs are the per-category notification toggles an owner can set.
// A disabled category suppresses emission for that category only.
type ReminderPrefs struct {
	RoutineEnabled  bool
	UpcomingEnabled bool
	VaccineEnabled  bool
}

// DefaultPrefs returns the preferences applied to new accounts.
func DefaultPrefs() ReminderPrefs {
	return ReminderPrefs{RoutineEnabled: true, UpcomingEnabled: true, VaccineEnabled: true}
}

// Account represents a signed-up pet owner.
type Account struct {
	ID          string
	DisplayName string
	Email       string
	IsActive    bool

	// TelegramChatID, when set, enables push delivery for this owner.
	TelegramChatID sql.NullInt64

	Prefs ReminderPrefs

	CreatedAt time.Time
	UpdatedAt time.Time
}
