package wallet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/missio-app/missio/internal/apperr"
)

// Service reads balances and records withdrawals.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// GetBalance recomputes the balance from the full history on every call,
// so the scalar can never drift from the ledger.
func (s *Service) GetBalance(ctx context.Context, userID string) (int64, []Transaction, error) {
	txs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return 0, nil, err
	}
	return Balance(txs), txs, nil
}

// Withdraw records a DEBIT against the user's balance. The method label
// is opaque; no payout gateway is involved here.
func (s *Service) Withdraw(ctx context.Context, userID string, amount int64, method string) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, apperr.Validation("Amount must be greater than 0")
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return Transaction{}, apperr.Validation("Missing required fields")
	}

	t := Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        TypeDebit,
		Amount:      amount,
		Description: fmt.Sprintf("Withdrawal via %s", method),
		CreatedAt:   s.now(),
	}
	ok, err := s.store.Withdraw(ctx, t)
	if err != nil {
		return Transaction{}, err
	}
	if !ok {
		return Transaction{}, apperr.Precondition("Insufficient balance")
	}
	return t, nil
}
