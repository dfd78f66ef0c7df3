package notification

import "time"

// Severity classifies a notification for presentation styling, not routing.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// RecentLimit is the number of notifications retained per owner. Older entries
// are trimmed on insert.
const RecentLimit = 20

// Notification is a single entry in an owner's in-app notification list.
type Notification struct {
	ID        string
	OwnerID   string
	Title     string
	Message   string
	Severity  Severity
	Read      bool
	CreatedAt time.Time
}
