package mission

import (
	"context"
	"time"
)

// Store is the persistence boundary for missions. Accept and Complete
// are conditional writes: the store applies the transition only when the
// expected current state still holds, closing the read-check-write race
// between concurrent callers.
type Store interface {
	Create(ctx context.Context, m Mission) error
	GetByID(ctx context.Context, id string) (Mission, error)
	List(ctx context.Context, f Filter) ([]Mission, int, error)

	// Accept moves a PENDING mission to ACCEPTED and assigns providerID.
	// applied is false when the mission was no longer PENDING.
	Accept(ctx context.Context, id, providerID string) (m Mission, applied bool, err error)

	// Complete moves a mission owned by providerID to COMPLETED.
	// applied is false when the mission was already COMPLETED or is not
	// assigned to providerID.
	Complete(ctx context.Context, id, providerID string, at time.Time) (m Mission, applied bool, err error)
}
