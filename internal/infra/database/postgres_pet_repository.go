// internal/infra/database/postgres_pet_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"pet_care_notifier/internal/domain/pet"
)

var ErrPetNotFound = fmt.Errorf("pet not found")

var _ pet.Repository = (*PostgresPetRepository)(nil)

type PostgresPetRepository struct {
	db *sql.DB
}

func NewPostgresPetRepository(db *sql.DB) *PostgresPetRepository {
	return &PostgresPetRepository{db: db}
}

func (r *PostgresPetRepository) Create(ctx context.Context, p *pet.Pet) error {
	query := `INSERT INTO pets (id, owner_id, name, species, breed)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.OwnerID, p.Name, p.Species, p.Breed).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating pet: %w", err)
	}
	for i := range p.Vaccinations {
		if err := r.insertVaccination(ctx, p.ID, &p.Vaccinations[i]); err != nil {
			return err
		}
	}
	for _, w := range p.WeightHistory {
		if err := r.insertWeightRecord(ctx, p.ID, w); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresPetRepository) insertVaccination(ctx context.Context, petID string, v *pet.Vaccination) error {
	query := `INSERT INTO pet_vaccinations (id, pet_id, name, administered_at, next_due_at)
               VALUES ($1, $2, $3, $4, $5)`
	var nextDue sql.NullTime
	if v.NextDueAt != nil {
		nextDue = sql.NullTime{Time: *v.NextDueAt, Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, query, v.ID, petID, v.Name, v.AdministeredAt, nextDue); err != nil {
		return fmt.Errorf("error creating vaccination for pet %s: %w", petID, err)
	}
	return nil
}

func (r *PostgresPetRepository) insertWeightRecord(ctx context.Context, petID string, w pet.WeightRecord) error {
	query := `INSERT INTO pet_weight_records (pet_id, recorded_at, weight_kg) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, petID, w.Date, w.WeightKg); err != nil {
		return fmt.Errorf("error creating weight record for pet %s: %w", petID, err)
	}
	return nil
}

func (r *PostgresPetRepository) GetByID(ctx context.Context, id string) (*pet.Pet, error) {
	query := `SELECT id, owner_id, name, species, breed, created_at, updated_at FROM pets WHERE id = $1`
	p := pet.Pet{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("error getting pet by ID: %w", err)
	}
	if err := r.loadRecords(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPetRepository) Update(ctx context.Context, p *pet.Pet) error {
	query := `UPDATE pets SET name = $1, species = $2, breed = $3, updated_at = NOW()
               WHERE id = $4
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Species, p.Breed, p.ID).Scan(&p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrPetNotFound
		}
		return fmt.Errorf("error updating pet: %w", err)
	}
	return nil
}

func (r *PostgresPetRepository) ListByOwner(ctx context.Context, ownerID string) ([]*pet.Pet, error) {
	query := `SELECT id, owner_id, name, species, breed, created_at, updated_at
               FROM pets WHERE owner_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying pets by owner: %w", err)
	}
	defer rows.Close()

	pets := make([]*pet.Pet, 0)
	for rows.Next() {
		p := pet.Pet{}
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning pet row: %w", err)
		}
		pets = append(pets, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pet rows: %w", err)
	}

	for _, p := range pets {
		if err := r.loadRecords(ctx, p); err != nil {
			return nil, err
		}
	}
	return pets, nil
}

// loadRecords fills in the pet's vaccination and weight histories, oldest first.
func (r *PostgresPetRepository) loadRecords(ctx context.Context, p *pet.Pet) error {
	vacQuery := `SELECT id, name, administered_at, next_due_at
                  FROM pet_vaccinations WHERE pet_id = $1 ORDER BY administered_at ASC`
	rows, err := r.db.QueryContext(ctx, vacQuery, p.ID)
	if err != nil {
		return fmt.Errorf("error querying vaccinations for pet %s: %w", p.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		v := pet.Vaccination{}
		var nextDue sql.NullTime
		if err := rows.Scan(&v.ID, &v.Name, &v.AdministeredAt, &nextDue); err != nil {
			return fmt.Errorf("error scanning vaccination row: %w", err)
		}
		if nextDue.Valid {
			due := nextDue.Time
			v.NextDueAt = &due
		}
		p.Vaccinations = append(p.Vaccinations, v)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating vaccination rows: %w", err)
	}

	weightQuery := `SELECT recorded_at, weight_kg
                     FROM pet_weight_records WHERE pet_id = $1 ORDER BY recorded_at ASC`
	wRows, err := r.db.QueryContext(ctx, weightQuery, p.ID)
	if err != nil {
		return fmt.Errorf("error querying weight records for pet %s: %w", p.ID, err)
	}
	defer wRows.Close()
	for wRows.Next() {
		w := pet.WeightRecord{}
		if err := wRows.Scan(&w.Date, &w.WeightKg); err != nil {
			return fmt.Errorf("error scanning weight record row: %w", err)
		}
		p.WeightHistory = append(p.WeightHistory, w)
	}
	if err := wRows.Err(); err != nil {
		return fmt.Errorf("error iterating weight record rows: %w", err)
	}
	return nil
}
