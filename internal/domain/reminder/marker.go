package reminder

import (
	"fmt"
	"time"
)

// MarkerKind distinguishes the three reminder categories that are deduplicated
// independently per calendar day.
type MarkerKind string

const (
	MarkerKindActive   MarkerKind = "active"
	MarkerKindUpcoming MarkerKind = "upcoming"
	MarkerKindVaccine  MarkerKind = "vaccine"
)

// DayFormat is the calendar-date component of a marker key. The same key must
// match every evaluation tick within one day, so the key carries a date, never
// a timestamp.
const DayFormat = "2006-01-02"

// MarkerKey builds the deterministic dedup key for one reminder event:
// kind, task or vaccination record id, calendar date, pet id.
func MarkerKey(kind MarkerKind, id string, day time.Time, petID string) string {
	return fmt.Sprintf("%s:%s:%s:%s", kind, id, day.Format(DayFormat), petID)
}
