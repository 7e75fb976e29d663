package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/missio-app/missio/internal/apperr"
	"github.com/missio-app/missio/internal/memstore"
	"github.com/missio-app/missio/internal/mission"
	"github.com/missio-app/missio/internal/payment"
	"github.com/missio-app/missio/internal/user"
	"github.com/missio-app/missio/internal/wallet"
)

type fixture struct {
	mem      *memstore.Store
	payments *payment.Service
	missions *mission.Service
	wallets  *wallet.Service
	client   user.User
	provider user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memstore.New()
	f := &fixture{
		mem:      mem,
		payments: payment.NewService(mem.Payments(), mem.Missions(), mem.Users()),
		missions: mission.NewService(mem.Missions(), mem.Users()),
		wallets:  wallet.NewService(mem.Wallets()),
	}
	f.client = f.addUser(t, user.RoleClient)
	f.provider = f.addUser(t, user.RoleProvider)
	return f
}

func (f *fixture) addUser(t *testing.T, role string) user.User {
	t.Helper()
	u := user.User{
		ID:    uuid.New().String(),
		Email: uuid.New().String() + "@test.local",
		Name:  "Test " + role,
		Role:  role,
	}
	if err := f.mem.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// newMission creates a mission and advances it to the given status.
func (f *fixture) newMission(t *testing.T, status string) mission.Mission {
	t.Helper()
	ctx := context.Background()
	m, err := f.missions.Create(ctx, mission.CreateInput{
		ClientID:        f.client.ID,
		ServiceType:     "CLEANING",
		Title:           "Deep clean apartment",
		Description:     "Two bedrooms, one bathroom",
		ScheduledDate:   time.Now().Add(24 * time.Hour),
		DurationMinutes: 120,
		Price:           10000,
	})
	if err != nil {
		t.Fatalf("create mission: %v", err)
	}
	if status == mission.StatusPending {
		return m
	}
	if m, err = f.missions.Accept(ctx, m.ID, f.provider.ID); err != nil {
		t.Fatalf("accept mission: %v", err)
	}
	if status == mission.StatusAccepted {
		return m
	}
	if m, err = f.missions.Complete(ctx, m.ID, f.provider.ID); err != nil {
		t.Fatalf("complete mission: %v", err)
	}
	return m
}

func (f *fixture) fund(t *testing.T, missionID string, amount int64) payment.Payment {
	t.Helper()
	p, err := f.payments.Create(context.Background(), payment.CreateInput{
		MissionID:     missionID,
		CallerID:      f.client.ID,
		Amount:        amount,
		PaymentMethod: "CARD",
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return p
}

func TestCreateHoldsEscrowAndSplits(t *testing.T) {
	f := newFixture(t)
	m := f.newMission(t, mission.StatusAccepted)

	p := f.fund(t, m.ID, 10000)
	if p.EscrowStatus != payment.EscrowHeld {
		t.Errorf("escrowStatus = %q, want %q", p.EscrowStatus, payment.EscrowHeld)
	}
	if p.Commission != 1000 || p.ProviderEarnings != 9000 {
		t.Errorf("split = %d/%d, want 1000/9000", p.Commission, p.ProviderEarnings)
	}
	if p.Commission+p.ProviderEarnings != p.Amount {
		t.Errorf("split does not reconstruct amount %d", p.Amount)
	}

	got, err := f.missions.Get(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("get mission: %v", err)
	}
	if got.PaymentStatus != mission.PaymentStatusProcessing {
		t.Errorf("mission paymentStatus = %q, want %q", got.PaymentStatus, mission.PaymentStatusProcessing)
	}

	// No funds move while escrow is HELD.
	balance, _, err := f.wallets.GetBalance(context.Background(), f.provider.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("provider balance = %d before release, want 0", balance)
	}
}

func TestCreateRequiresAcceptedMission(t *testing.T) {
	f := newFixture(t)
	m := f.newMission(t, mission.StatusPending)

	_, err := f.payments.Create(context.Background(), payment.CreateInput{
		MissionID:     m.ID,
		CallerID:      f.client.ID,
		Amount:        10000,
		PaymentMethod: "CARD",
	})
	if !apperr.IsKind(err, apperr.KindPrecondition) {
		t.Fatalf("err = %v, want precondition failure", err)
	}
}

func TestCreateOnlyByMissionClient(t *testing.T) {
	f := newFixture(t)
	m := f.newMission(t, mission.StatusAccepted)
	stranger := f.addUser(t, user.RoleClient)

	_, err := f.payments.Create(context.Background(), payment.CreateInput{
		MissionID:     m.ID,
		CallerID:      stranger.ID,
		Amount:        10000,
		PaymentMethod: "CARD",
	})
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestReleaseCreditsProviderOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.newMission(t, mission.StatusCompleted)
	p := f.fund(t, m.ID, 10000)

	released, err := f.payments.Release(ctx, p.ID, f.client.ID)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released.EscrowStatus != payment.EscrowReleased {
		t.Errorf("escrowStatus = %q, want %q", released.EscrowStatus, payment.EscrowReleased)
	}
	if released.CompletedAt == nil {
		t.Error("completedAt not set on release")
	}

	balance, txs, err := f.wallets.GetBalance(ctx, f.provider.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 9000 {
		t.Errorf("provider balance = %d, want 9000", balance)
	}
	if len(txs) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(txs))
	}
	tx := txs[0]
	if tx.Type != wallet.TypeCredit || tx.Amount != 9000 {
		t.Errorf("credit = %s %d, want CREDIT 9000", tx.Type, tx.Amount)
	}
	if tx.PaymentID != p.ID || tx.MissionID != m.ID {
		t.Errorf("credit references %q/%q, want %q/%q", tx.PaymentID, tx.MissionID, p.ID, m.ID)
	}
	if tx.Description != "Payment for mission: Deep clean apartment" {
		t.Errorf("description = %q", tx.Description)
	}

	// Double release is rejected with no second credit.
	if _, err := f.payments.Release(ctx, p.ID, f.client.ID); !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Fatalf("second release: err = %v, want invalid state", err)
	}
	balance, txs, _ = f.wallets.GetBalance(ctx, f.provider.ID)
	if balance != 9000 || len(txs) != 1 {
		t.Errorf("after double release: balance %d, entries %d, want 9000/1", balance, len(txs))
	}
}

func TestReleaseRequiresCompletedMission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.newMission(t, mission.StatusAccepted)
	p := f.fund(t, m.ID, 10000)

	if _, err := f.payments.Release(ctx, p.ID, f.client.ID); !apperr.IsKind(err, apperr.KindPrecondition) {
		t.Fatalf("err = %v, want precondition failure", err)
	}

	// The failed release must not touch the ledger.
	balance, txs, err := f.wallets.GetBalance(ctx, f.provider.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 || len(txs) != 0 {
		t.Errorf("ledger after failed release: balance %d, entries %d, want 0/0", balance, len(txs))
	}
}

func TestReleaseOnlyByClient(t *testing.T) {
	f := newFixture(t)
	m := f.newMission(t, mission.StatusCompleted)
	p := f.fund(t, m.ID, 10000)

	if _, err := f.payments.Release(context.Background(), p.ID, f.provider.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("release by provider: err = %v, want forbidden", err)
	}
}

func TestCreateRejectsBadAmount(t *testing.T) {
	f := newFixture(t)
	m := f.newMission(t, mission.StatusAccepted)

	for _, amount := range []int64{0, -100} {
		_, err := f.payments.Create(context.Background(), payment.CreateInput{
			MissionID:     m.ID,
			CallerID:      f.client.ID,
			Amount:        amount,
			PaymentMethod: "CARD",
		})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("amount %d: err = %v, want validation error", amount, err)
		}
	}
}

func TestSplitComputedFromFundedAmount(t *testing.T) {
	f := newFixture(t)
	m := f.newMission(t, mission.StatusAccepted)

	// Client funds a different amount than the quoted price; the payment
	// split follows the funded amount.
	p := f.fund(t, m.ID, 12345)
	if p.Commission != 1234 || p.ProviderEarnings != 11111 {
		t.Errorf("split = %d/%d, want 1234/11111", p.Commission, p.ProviderEarnings)
	}
}
