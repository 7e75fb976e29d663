// Package memstore provides an in-memory implementation of every domain
// store, backed by one mutex. It serves unit tests and local development
// when no DATABASE_URL is configured; all stores share the same data, so
// compound operations stay atomic exactly like their SQL counterparts.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/missio-app/missio/internal/apperr"
	"github.com/missio-app/missio/internal/mission"
	"github.com/missio-app/missio/internal/payment"
	"github.com/missio-app/missio/internal/rating"
	"github.com/missio-app/missio/internal/user"
	"github.com/missio-app/missio/internal/wallet"
)

// Store holds all tables behind a single lock.
type Store struct {
	mu       sync.Mutex
	users    map[string]user.User
	byEmail  map[string]string
	missions map[string]mission.Mission
	payments map[string]payment.Payment
	ledger   []wallet.Transaction
	ratings  map[string]rating.Rating // key: userID + "|" + ratedBy
}

func New() *Store {
	return &Store{
		users:    map[string]user.User{},
		byEmail:  map[string]string{},
		missions: map[string]mission.Mission{},
		payments: map[string]payment.Payment{},
		ratings:  map[string]rating.Rating{},
	}
}

func (s *Store) Users() user.Store       { return (*userStore)(s) }
func (s *Store) Missions() mission.Store { return (*missionStore)(s) }
func (s *Store) Payments() payment.Store { return (*paymentStore)(s) }
func (s *Store) Wallets() wallet.Store   { return (*walletStore)(s) }
func (s *Store) Ratings() rating.Store   { return (*ratingStore)(s) }

// ---- users ----

type userStore Store

func (s *userStore) Create(_ context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return apperr.Conflict("Email already registered")
	}
	s.users[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *userStore) GetByID(_ context.Context, id string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.User{}, apperr.NotFound("User not found")
	}
	return u, nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return user.User{}, apperr.NotFound("User not found")
	}
	return s.users[id], nil
}

func (s *userStore) Update(_ context.Context, id string, upd user.ProfileUpdate) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.User{}, apperr.NotFound("User not found")
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = *upd.ProfileImage
	}
	if upd.Specialties != nil {
		u.Specialties = *upd.Specialties
	}
	if upd.HourlyRate != nil {
		u.HourlyRate = *upd.HourlyRate
	}
	if upd.Location != nil {
		u.Location = *upd.Location
	}
	s.users[id] = u
	return u, nil
}

func (s *userStore) ListProviders(_ context.Context, f user.ProviderFilter) ([]user.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []user.User
	for _, u := range s.users {
		if u.Role != user.RoleProvider || !u.IsVerified || u.AverageRating < f.MinRating {
			continue
		}
		if f.Specialty != "" && !contains(u.Specialties, f.Specialty) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].AverageRating > matched[j].AverageRating
	})
	total := len(matched)
	return paginate(matched, f.Offset, f.Limit), total, nil
}

// ---- missions ----

type missionStore Store

func (s *missionStore) Create(_ context.Context, m mission.Mission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missions[m.ID] = m
	return nil
}

func (s *missionStore) GetByID(_ context.Context, id string) (mission.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMission(id)
}

func (s *missionStore) getMission(id string) (mission.Mission, error) {
	m, ok := s.missions[id]
	if !ok {
		return mission.Mission{}, apperr.NotFound("Mission not found")
	}
	return m, nil
}

func (s *missionStore) List(_ context.Context, f mission.Filter) ([]mission.Mission, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []mission.Mission
	for _, m := range s.missions {
		if f.ServiceType != "" && m.ServiceType != f.ServiceType {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.ClientID != "" && m.ClientID != f.ClientID {
			continue
		}
		if f.ProviderID != "" && m.ProviderID != f.ProviderID {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	return paginate(matched, f.Offset, f.Limit), total, nil
}

func (s *missionStore) Accept(_ context.Context, id, providerID string) (mission.Mission, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.getMission(id)
	if err != nil {
		return mission.Mission{}, false, err
	}
	if m.Status != mission.StatusPending {
		return mission.Mission{}, false, nil
	}
	m.Status = mission.StatusAccepted
	m.ProviderID = providerID
	s.missions[id] = m
	return m, true, nil
}

func (s *missionStore) Complete(_ context.Context, id, providerID string, at time.Time) (mission.Mission, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.getMission(id)
	if err != nil {
		return mission.Mission{}, false, err
	}
	if m.ProviderID != providerID || m.Status == mission.StatusCompleted {
		return mission.Mission{}, false, nil
	}
	m.Status = mission.StatusCompleted
	m.CompletedAt = &at
	s.missions[id] = m
	return m, true, nil
}

// ---- payments ----

type paymentStore Store

func (s *paymentStore) Create(_ context.Context, p payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
	if m, ok := s.missions[p.MissionID]; ok {
		m.PaymentStatus = mission.PaymentStatusProcessing
		s.missions[p.MissionID] = m
	}
	return nil
}

func (s *paymentStore) GetByID(_ context.Context, id string) (payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return payment.Payment{}, apperr.NotFound("Payment not found")
	}
	return p, nil
}

func (s *paymentStore) Release(_ context.Context, id string, at time.Time, credit wallet.Transaction) (payment.Payment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok || p.EscrowStatus != payment.EscrowHeld {
		return payment.Payment{}, false, nil
	}
	p.EscrowStatus = payment.EscrowReleased
	p.Status = payment.EscrowReleased
	p.CompletedAt = &at
	s.payments[id] = p
	s.ledger = append(s.ledger, credit)
	return p, true, nil
}

// ---- wallet ledger ----

type walletStore Store

func (s *walletStore) Append(_ context.Context, t wallet.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append(s.ledger, t)
	return nil
}

func (s *walletStore) Withdraw(_ context.Context, t wallet.Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var balance int64
	for _, e := range s.ledger {
		if e.UserID != t.UserID {
			continue
		}
		if e.Type == wallet.TypeCredit {
			balance += e.Amount
		} else {
			balance -= e.Amount
		}
	}
	if balance < t.Amount {
		return false, nil
	}
	s.ledger = append(s.ledger, t)
	return true, nil
}

func (s *walletStore) ListByUser(_ context.Context, userID string) ([]wallet.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []wallet.Transaction
	// Newest first: walk the append-only log backwards.
	for i := len(s.ledger) - 1; i >= 0; i-- {
		if s.ledger[i].UserID == userID {
			out = append(out, s.ledger[i])
		}
	}
	return out, nil
}

// ---- ratings ----

type ratingStore Store

func (s *ratingStore) Upsert(_ context.Context, r rating.Rating) (rating.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.UserID + "|" + r.RatedBy
	if existing, ok := s.ratings[key]; ok {
		existing.Rating = r.Rating
		existing.Review = r.Review
		existing.UpdatedAt = r.UpdatedAt
		r = existing
	} else {
		r.CreatedAt = r.UpdatedAt
	}
	s.ratings[key] = r

	// Recompute the subject's aggregates in the same critical section.
	var sum, count int
	for _, row := range s.ratings {
		if row.UserID == r.UserID {
			sum += row.Rating
			count++
		}
	}
	if u, ok := s.users[r.UserID]; ok {
		u.AverageRating = float64(sum) / float64(count)
		u.ReviewCount = count
		s.users[r.UserID] = u
	}
	return r, nil
}

// ---- helpers ----

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
