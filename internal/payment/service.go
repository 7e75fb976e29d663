package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/missio-app/missio/internal/apperr"
	"github.com/missio-app/missio/internal/mission"
	"github.com/missio-app/missio/internal/user"
	"github.com/missio-app/missio/internal/wallet"
)

// Service owns the escrow state machine. Funds enter HELD when the
// client pays and leave exactly once, to the provider's ledger, when the
// client releases after completion.
type Service struct {
	payments Store
	missions mission.Store
	users    user.Store
	now      func() time.Time
}

func NewService(payments Store, missions mission.Store, users user.Store) *Service {
	return &Service{payments: payments, missions: missions, users: users, now: time.Now}
}

// Create funds escrow for an accepted mission. The split is computed
// from the funded amount, not the mission's quoted price: a client may
// fund a different amount, and the two commissions are deliberately
// independent.
func (s *Service) Create(ctx context.Context, in CreateInput) (Payment, error) {
	if in.MissionID == "" || in.PaymentMethod == "" {
		return Payment{}, apperr.Validation("Missing required fields")
	}
	if in.Amount <= 0 {
		return Payment{}, apperr.Validation("Amount must be greater than 0")
	}

	m, err := s.missions.GetByID(ctx, in.MissionID)
	if err != nil {
		return Payment{}, err
	}
	if m.ClientID != in.CallerID {
		return Payment{}, apperr.Forbidden("Not authorized")
	}
	if m.ProviderID == "" {
		return Payment{}, apperr.Precondition("Mission must be accepted first")
	}

	commission := mission.Commission(in.Amount)
	p := Payment{
		ID:               uuid.New().String(),
		MissionID:        m.ID,
		ClientID:         m.ClientID,
		ProviderID:       m.ProviderID,
		Amount:           in.Amount,
		Commission:       commission,
		ProviderEarnings: in.Amount - commission,
		PaymentMethod:    in.PaymentMethod,
		EscrowStatus:     EscrowHeld,
		Status:           EscrowHeld,
		CreatedAt:        s.now(),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return Payment{}, err
	}
	return p, nil
}

// Get returns the payment with its mission and party summaries embedded.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	d := Detail{Payment: p}
	if m, err := s.missions.GetByID(ctx, p.MissionID); err == nil {
		d.Mission = &m
	}
	if client, err := s.users.GetByID(ctx, p.ClientID); err == nil {
		sum := client.Summary()
		d.Client = &sum
	}
	if provider, err := s.users.GetByID(ctx, p.ProviderID); err == nil {
		sum := provider.Summary()
		d.Provider = &sum
	}
	return d, nil
}

// Release pays the provider their earnings. Only the funding client may
// release, only after the mission completed, and only once: the payment
// update and the ledger credit commit together or not at all.
func (s *Service) Release(ctx context.Context, paymentID, callerID string) (Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return Payment{}, err
	}
	if p.ClientID != callerID {
		return Payment{}, apperr.Forbidden("Only client can release escrow")
	}
	if p.EscrowStatus != EscrowHeld {
		return Payment{}, apperr.InvalidState("Escrow already processed")
	}

	m, err := s.missions.GetByID(ctx, p.MissionID)
	if err != nil {
		return Payment{}, err
	}
	if m.Status != mission.StatusCompleted {
		return Payment{}, apperr.Precondition("Mission must be completed first")
	}

	now := s.now()
	credit := wallet.Transaction{
		ID:          uuid.New().String(),
		UserID:      p.ProviderID,
		Type:        wallet.TypeCredit,
		Amount:      p.ProviderEarnings,
		PaymentID:   p.ID,
		MissionID:   p.MissionID,
		Description: "Payment for mission: " + m.Title,
		CreatedAt:   now,
	}
	released, applied, err := s.payments.Release(ctx, paymentID, now, credit)
	if err != nil {
		return Payment{}, err
	}
	if !applied {
		// A concurrent release won between our read and the conditional
		// update. Exactly one credit was written either way.
		return Payment{}, apperr.InvalidState("Escrow already processed")
	}
	return released, nil
}
