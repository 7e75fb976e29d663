package wallet

import "time"

// Transaction types. The balance is a fold over the ledger: CREDIT adds,
// DEBIT subtracts.
const (
	TypeCredit = "CREDIT"
	TypeDebit  = "DEBIT"
)

// Transaction is an immutable ledger entry. Rows are only ever appended;
// the wallet balance is derived by summation, never stored.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	PaymentID   string    `json:"paymentId,omitempty"`
	MissionID   string    `json:"missionId,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Balance folds a transaction history into a scalar. The fold is
// commutative, so the ordering of concurrent inserts does not matter.
func Balance(txs []Transaction) int64 {
	var sum int64
	for _, t := range txs {
		if t.Type == TypeCredit {
			sum += t.Amount
		} else {
			sum -= t.Amount
		}
	}
	return sum
}
