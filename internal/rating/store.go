package rating

import "context"

// Store is the persistence boundary for ratings. Upsert and the
// aggregate recompute on the subject's user row form one atomic unit, so
// averageRating and reviewCount can never drift from the rating rows.
type Store interface {
	// Upsert inserts or overwrites the (userID, ratedBy) row, then
	// recomputes the subject's average rating and review count from all
	// current rows.
	Upsert(ctx context.Context, r Rating) (Rating, error)
}
