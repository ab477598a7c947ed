package domain

import "time"

// Direction tells whether money entered or left the account.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// Transaction is a single immutable ledger line on one account.
type Transaction struct {
	CreatedAt      time.Time
	ID             string
	AccountID      string
	OpponentName   string
	CategoryID     string
	Direction      Direction
	Amount         int64
	UpdatedBalance int64
}

// SignedAmount returns the amount with the sign of its direction.
func (t *Transaction) SignedAmount() int64 {
	if t.Direction == DirectionDebit {
		return -t.Amount
	}
	return t.Amount
}

// Category tags transactions for spending reports.
type Category struct {
	ID   string
	Name string
}
