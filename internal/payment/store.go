package payment

import (
	"context"
	"time"

	"github.com/missio-app/missio/internal/wallet"
)

// Store is the persistence boundary for payments. Create and Release are
// compound writes: each commits or rolls back as a single unit, so a
// crash can never leave a released payment without its ledger credit or
// the other way round.
type Store interface {
	// Create inserts the payment and flips the mission's payment status
	// to PROCESSING in the same transaction.
	Create(ctx context.Context, p Payment) error

	GetByID(ctx context.Context, id string) (Payment, error)

	// Release flips HELD to RELEASED and appends the provider's CREDIT in
	// one transaction. The update is conditional on the current escrow
	// status; applied is false when the payment was already released, in
	// which case no ledger entry is written.
	Release(ctx context.Context, id string, at time.Time, credit wallet.Transaction) (p Payment, applied bool, err error)
}
