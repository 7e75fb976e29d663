package rating

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/missio-app/missio/internal/apperr"
	"github.com/missio-app/missio/internal/user"
)

// Service validates and records ratings.
type Service struct {
	store Store
	users user.Store
	now   func() time.Time
}

func NewService(store Store, users user.Store) *Service {
	return &Service{store: store, users: users, now: time.Now}
}

// Rate upserts raterID's rating of subjectID and refreshes the subject's
// aggregates.
func (s *Service) Rate(ctx context.Context, subjectID, raterID string, value int, review string) (Rating, error) {
	if value < 1 || value > 5 {
		return Rating{}, apperr.Validation("Rating must be between 1 and 5")
	}
	if subjectID == raterID {
		return Rating{}, apperr.Validation("You cannot rate yourself")
	}
	if _, err := s.users.GetByID(ctx, subjectID); err != nil {
		return Rating{}, err
	}

	return s.store.Upsert(ctx, Rating{
		ID:        uuid.New().String(),
		UserID:    subjectID,
		RatedBy:   raterID,
		Rating:    value,
		Review:    review,
		UpdatedAt: s.now(),
	})
}
