package notification

import "context"

// Repository defines persistence for the per-owner notification list.
type Repository interface {
	// Create persists a notification and trims the owner's list down to
	// RecentLimit entries, dropping the oldest.
	Create(ctx context.Context, n *Notification) error
	// ListRecent returns up to limit notifications for the owner, newest first.
	ListRecent(ctx context.Context, ownerID string, limit int) ([]*Notification, error)
	UnreadCount(ctx context.Context, ownerID string) (int, error)
	MarkRead(ctx context.Context, ownerID, id string) error
	ClearAll(ctx context.Context, ownerID string) error
}
