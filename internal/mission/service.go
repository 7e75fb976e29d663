package mission

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/missio-app/missio/internal/apperr"
	"github.com/missio-app/missio/internal/user"
)

// Service owns the mission state machine.
type Service struct {
	store Store
	users user.Store
	now   func() time.Time
}

func NewService(store Store, users user.Store) *Service {
	return &Service{store: store, users: users, now: time.Now}
}

// Create opens a new PENDING mission for the client. Commission is fixed
// here and never recomputed.
func (s *Service) Create(ctx context.Context, in CreateInput) (Mission, error) {
	if in.ServiceType == "" || in.Title == "" || in.Description == "" ||
		in.ScheduledDate.IsZero() || in.DurationMinutes <= 0 {
		return Mission{}, apperr.Validation("Missing required fields")
	}
	if in.Price < 0 {
		return Mission{}, apperr.Validation("Price must not be negative")
	}

	m := Mission{
		ID:              uuid.New().String(),
		ClientID:        in.ClientID,
		ServiceType:     in.ServiceType,
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		Level:           in.Level,
		ScheduledDate:   in.ScheduledDate,
		DurationMinutes: in.DurationMinutes,
		Price:           in.Price,
		Commission:      Commission(in.Price),
		Status:          StatusPending,
		PaymentStatus:   PaymentStatusNone,
		CreatedAt:       s.now(),
	}
	if err := s.store.Create(ctx, m); err != nil {
		return Mission{}, err
	}
	return m, nil
}

// Get returns the mission with its party summaries embedded.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	d := Detail{Mission: m}
	if client, err := s.users.GetByID(ctx, m.ClientID); err == nil {
		sum := client.Summary()
		d.Client = &sum
	}
	if m.ProviderID != "" {
		if provider, err := s.users.GetByID(ctx, m.ProviderID); err == nil {
			sum := provider.Summary()
			d.Provider = &sum
		}
	}
	return d, nil
}

// List returns missions matching the filter, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Mission, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return s.store.List(ctx, f)
}

// Accept assigns the mission to providerID. Never idempotent: once a
// mission leaves PENDING nobody else can claim it, and a repeated accept
// from the same provider fails the same way.
func (s *Service) Accept(ctx context.Context, missionID, providerID string) (Mission, error) {
	m, err := s.store.GetByID(ctx, missionID)
	if err != nil {
		return Mission{}, err
	}
	if m.Status != StatusPending {
		return Mission{}, apperr.InvalidState("Mission is not available")
	}

	updated, applied, err := s.store.Accept(ctx, missionID, providerID)
	if err != nil {
		return Mission{}, err
	}
	if !applied {
		// Lost the race to another provider between the read and the
		// conditional update.
		return Mission{}, apperr.InvalidState("Mission is not available")
	}
	return updated, nil
}

// Complete marks the mission done. Only the assigned provider may call
// it; COMPLETED is terminal.
func (s *Service) Complete(ctx context.Context, missionID, callerID string) (Mission, error) {
	m, err := s.store.GetByID(ctx, missionID)
	if err != nil {
		return Mission{}, err
	}
	if m.ProviderID == "" || m.ProviderID != callerID {
		return Mission{}, apperr.Forbidden("Not authorized")
	}
	if m.Status == StatusCompleted {
		return Mission{}, apperr.InvalidState("Mission already completed")
	}

	updated, applied, err := s.store.Complete(ctx, missionID, callerID, s.now())
	if err != nil {
		return Mission{}, err
	}
	if !applied {
		return Mission{}, apperr.InvalidState("Mission already completed")
	}
	return updated, nil
}
