package memory

import (
	"context"
	"sync"
	"time"

	"pet_care_notifier/internal/domain/reminder"
)

var _ reminder.MarkerStore = (*MarkerStore)(nil)

// MarkerStore is the in-memory dedup marker store. The mutex makes MarkFired
// an atomic check-and-set: with concurrent callers exactly one wins.
type MarkerStore struct {
	mu   sync.Mutex
	keys map[string]time.Time // namespaced key -> creation time
	now  func() time.Time
}

func NewMarkerStore() *MarkerStore {
	return &MarkerStore{
		keys: make(map[string]time.Time),
		now:  time.Now,
	}
}

func namespaced(ownerID, key string) string {
	return ownerID + "/" + key
}

func (s *MarkerStore) Fired(ctx context.Context, ownerID, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.keys[namespaced(ownerID, key)]
	return ok, nil
}

func (s *MarkerStore) MarkFired(ctx context.Context, ownerID, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := namespaced(ownerID, key)
	if _, ok := s.keys[k]; ok {
		return false, nil
	}
	s.keys[k] = s.now()
	return true, nil
}

func (s *MarkerStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for k, created := range s.keys {
		if created.Before(cutoff) {
			delete(s.keys, k)
			removed++
		}
	}
	return removed, nil
}
