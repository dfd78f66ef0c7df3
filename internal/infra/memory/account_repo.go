package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet_care_notifier/internal/domain/account"
)

var _ account.Repository = (*AccountRepo)(nil)

type AccountRepo struct {
	mu   sync.RWMutex
	byID map[string]*account.Account
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{byID: make(map[string]*account.Account)}
}

func (r *AccountRepo) Create(ctx context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("account id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("account already exists")
	}
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *AccountRepo) Update(ctx context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("account id required")
	}
	if _, exists := r.byID[a.ID]; !exists {
		return ErrNotFound
	}
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *AccountRepo) ListActive(ctx context.Context) ([]*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*account.Account, 0)
	for _, a := range r.byID {
		if a.IsActive {
			cp := *a
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
