package memory

import (
	"context"
	"sort"
	"sync"

	"pet_care_notifier/internal/domain/notification"
)

var _ notification.Repository = (*NotificationRepo)(nil)

type NotificationRepo struct {
	mu      sync.RWMutex
	byOwner map[string][]*notification.Notification // newest first
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{byOwner: make(map[string][]*notification.Notification)}
}

func (r *NotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *n
	list := append([]*notification.Notification{&cp}, r.byOwner[n.OwnerID]...)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if len(list) > notification.RecentLimit {
		list = list[:notification.RecentLimit]
	}
	r.byOwner[n.OwnerID] = list
	return nil
}

func (r *NotificationRepo) ListRecent(ctx context.Context, ownerID string, limit int) ([]*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byOwner[ownerID]
	if limit > len(list) {
		limit = len(list)
	}
	out := make([]*notification.Notification, 0, limit)
	for _, n := range list[:limit] {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (r *NotificationRepo) UnreadCount(ctx context.Context, ownerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.byOwner[ownerID] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.byOwner[ownerID] {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *NotificationRepo) ClearAll(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byOwner, ownerID)
	return nil
}
