package domain

import "time"

// AutoTransferStatus is the lifecycle state of a recurring transfer.
type AutoTransferStatus string

const (
	AutoTransferActive   AutoTransferStatus = "ACTIVE"
	AutoTransferInactive AutoTransferStatus = "INACTIVE"
	AutoTransferFailed   AutoTransferStatus = "FAILED"
)

const (
	MinTransferDay = 1
	MaxTransferDay = 31
)

// AutoTransfer is a recurring transfer executed on a fixed day of every month.
// The destination is stored by bank name and account number, not by account id.
type AutoTransfer struct {
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ID                  string
	AccountID           string
	MemberID            string
	SourceAccountNumber string
	TargetBankName      string
	TargetAccountNumber string
	Status              AutoTransferStatus
	Amount              int64
	TransferDay         int
}

// NewAutoTransfer builds an ACTIVE auto-transfer.
func NewAutoTransfer(id string, source *Account, bankName, accountNumber string, amount int64, day int, now time.Time) (*AutoTransfer, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	if err := ValidateTransferDay(day); err != nil {
		return nil, err
	}

	return &AutoTransfer{
		ID:                  id,
		AccountID:           source.ID,
		MemberID:            source.MemberID,
		SourceAccountNumber: source.Number,
		TargetBankName:      bankName,
		TargetAccountNumber: accountNumber,
		Amount:              amount,
		TransferDay:         day,
		Status:              AutoTransferActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// ValidateTransferDay checks the day-of-month range.
func ValidateTransferDay(day int) error {
	if day < MinTransferDay || day > MaxTransferDay {
		return ErrInvalidTransferDay
	}
	return nil
}

// Update changes amount and day and reactivates the transfer.
func (t *AutoTransfer) Update(amount int64, day int, now time.Time) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if err := ValidateTransferDay(day); err != nil {
		return err
	}

	t.Amount = amount
	t.TransferDay = day
	t.Status = AutoTransferActive
	t.UpdatedAt = now

	return nil
}

// Toggle flips ACTIVE and INACTIVE. A FAILED transfer becomes ACTIVE.
func (t *AutoTransfer) Toggle(now time.Time) {
	switch t.Status {
	case AutoTransferActive:
		t.Status = AutoTransferInactive
	case AutoTransferInactive, AutoTransferFailed:
		t.Status = AutoTransferActive
	}
	t.UpdatedAt = now
}

// MarkFailed records an execution failure.
func (t *AutoTransfer) MarkFailed(now time.Time) {
	t.Status = AutoTransferFailed
	t.UpdatedAt = now
}

// MarkActive records a successful execution.
func (t *AutoTransfer) MarkActive(now time.Time) {
	t.Status = AutoTransferActive
	t.UpdatedAt = now
}
