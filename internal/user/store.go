package user

import "context"

// Store is the persistence boundary for users.
type Store interface {
	// Create inserts a new user. Returns a conflict error when the email
	// is already registered.
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// Update applies the non-nil fields of upd and returns the result.
	Update(ctx context.Context, id string, upd ProfileUpdate) (User, error)
	// ListProviders returns verified providers ordered by average rating,
	// plus the total count matching the filter before pagination.
	ListProviders(ctx context.Context, f ProviderFilter) ([]User, int, error)
}
