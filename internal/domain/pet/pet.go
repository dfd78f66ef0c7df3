package pet

import "time"

// Vaccination is a single entry in a pet's vaccination record.
// NextDueAt is nil when no booster is tracked for this vaccine.
type Vaccination struct {
	ID             string
	Name           string
	AdministeredAt time.Time
	NextDueAt      *time.Time
}

// WeightRecord is a dated weight measurement in kilograms.
type WeightRecord struct {
	Date     time.Time
	WeightKg float64
}

// Pet represents a registered pet profile.
type Pet struct {
	ID      string
	OwnerID string

	Name    string
	Species string
	Breed   string

	Vaccinations  []Vaccination
	WeightHistory []WeightRecord

	CreatedAt time.Time
	UpdatedAt time.Time
}
