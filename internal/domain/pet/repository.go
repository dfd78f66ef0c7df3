package pet

import "context"

// Repository defines the operations for persisting and retrieving Pet profiles.
type Repository interface {
	Create(ctx context.Context, p *Pet) error
	GetByID(ctx context.Context, id string) (*Pet, error)
	Update(ctx context.Context, p *Pet) error
	// ListByOwner returns the owner's pets in registration order (oldest first).
	ListByOwner(ctx context.Context, ownerID string) ([]*Pet, error)
}
