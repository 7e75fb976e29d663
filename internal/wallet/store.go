package wallet

import "context"

// Store is the persistence boundary for the wallet ledger.
type Store interface {
	// Append adds one ledger entry unconditionally.
	Append(ctx context.Context, t Transaction) error

	// Withdraw appends a DEBIT only if the user's current balance covers
	// it. The check and the insert are one atomic unit; ok is false when
	// funds were insufficient.
	Withdraw(ctx context.Context, t Transaction) (ok bool, err error)

	// ListByUser returns the user's full history, newest first.
	ListByUser(ctx context.Context, userID string) ([]Transaction, error)
}
