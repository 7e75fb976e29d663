package memstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/missio-app/missio/internal/memstore"
	"github.com/missio-app/missio/internal/mission"
	"github.com/missio-app/missio/internal/payment"
	"github.com/missio-app/missio/internal/wallet"
)

func TestConcurrentAcceptSingleWinner(t *testing.T) {
	mem := memstore.New()
	ctx := context.Background()

	m := mission.Mission{
		ID:       uuid.New().String(),
		ClientID: uuid.New().String(),
		Status:   mission.StatusPending,
	}
	if err := mem.Missions().Create(ctx, m); err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 32
	var wg sync.WaitGroup
	wins := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			providerID := uuid.New().String()
			if _, applied, err := mem.Missions().Accept(ctx, m.ID, providerID); err == nil && applied {
				wins <- providerID
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("winners = %d, want exactly 1", len(winners))
	}

	got, err := mem.Missions().GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != mission.StatusAccepted || got.ProviderID != winners[0] {
		t.Errorf("mission = %s/%s, want ACCEPTED/%s", got.Status, got.ProviderID, winners[0])
	}
}

func TestConcurrentReleaseSingleCredit(t *testing.T) {
	mem := memstore.New()
	ctx := context.Background()
	providerID := uuid.New().String()

	p := payment.Payment{
		ID:               uuid.New().String(),
		MissionID:        uuid.New().String(),
		ClientID:         uuid.New().String(),
		ProviderID:       providerID,
		Amount:           10000,
		Commission:       1000,
		ProviderEarnings: 9000,
		EscrowStatus:     payment.EscrowHeld,
		Status:           payment.EscrowHeld,
	}
	if err := mem.Payments().Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 32
	var wg sync.WaitGroup
	var applied int64
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			credit := wallet.Transaction{
				ID:     uuid.New().String(),
				UserID: providerID,
				Type:   wallet.TypeCredit,
				Amount: p.ProviderEarnings,
			}
			_, ok, err := mem.Payments().Release(ctx, p.ID, time.Now(), credit)
			if err == nil && ok {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if applied != 1 {
		t.Fatalf("applied releases = %d, want exactly 1", applied)
	}
	txs, err := mem.Wallets().ListByUser(ctx, providerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || wallet.Balance(txs) != 9000 {
		t.Errorf("ledger = %d entries, balance %d, want 1/9000", len(txs), wallet.Balance(txs))
	}
}

func TestConcurrentWithdrawNeverOverdraws(t *testing.T) {
	mem := memstore.New()
	ctx := context.Background()
	userID := uuid.New().String()

	if err := mem.Wallets().Append(ctx, wallet.Transaction{
		ID:     uuid.New().String(),
		UserID: userID,
		Type:   wallet.TypeCredit,
		Amount: 1000,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = mem.Wallets().Withdraw(ctx, wallet.Transaction{
				ID:     uuid.New().String(),
				UserID: userID,
				Type:   wallet.TypeDebit,
				Amount: 600,
			})
		}()
	}
	wg.Wait()

	txs, err := mem.Wallets().ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if balance := wallet.Balance(txs); balance < 0 {
		t.Errorf("balance = %d, overdrawn", balance)
	}
	// 1000 covers exactly one 600 withdrawal.
	if len(txs) != 2 {
		t.Errorf("ledger entries = %d, want 2", len(txs))
	}
}
