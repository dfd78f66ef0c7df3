package account

import "context"

// Repository defines the operations for persisting and retrieving Account entities.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	Update(ctx context.Context, a *Account) error
	ListActive(ctx context.Context) ([]*Account, error)
}
