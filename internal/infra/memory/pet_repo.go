// Package memory provides in-memory adapters for every repository. They are
// used in development mode (no DATABASE_URL) and in tests. Losing this state
// on restart only risks a duplicate reminder, never data corruption.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet_care_notifier/internal/domain/pet"
)

var ErrNotFound = errors.New("not found")

var _ pet.Repository = (*PetRepo)(nil)

type PetRepo struct {
	mu   sync.RWMutex
	byID map[string]*pet.Pet
}

func NewPetRepo() *PetRepo {
	return &PetRepo{byID: make(map[string]*pet.Pet)}
}

func (r *PetRepo) Create(ctx context.Context, p *pet.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *PetRepo) GetByID(ctx context.Context, id string) (*pet.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PetRepo) Update(ctx context.Context, p *pet.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; !exists {
		return ErrNotFound
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *PetRepo) ListByOwner(ctx context.Context, ownerID string) ([]*pet.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*pet.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}

	// Registration order: created_at asc.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
