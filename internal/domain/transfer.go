package domain

// TransferKind distinguishes interactive transfers from scheduled ones.
type TransferKind string

const (
	TransferKindInteractive TransferKind = "interactive"
	TransferKindAuto        TransferKind = "auto"
)

// TransferInput is a request to move Amount from one account to another.
// The destination is addressed by bank name and account number.
type TransferInput struct {
	MemberID            string
	FromAccountID       string
	ToBankName          string
	ToAccountNumber     string
	Credential          string
	SenderDisplayName   string
	ReceiverDisplayName string
	Kind                TransferKind
	Amount              int64
}

// Validate checks the parts of the input that need no storage access.
func (in *TransferInput) Validate() error {
	if err := ValidateAmount(in.Amount); err != nil {
		return err
	}
	if err := ValidateAccountRef(in.ToBankName, in.ToAccountNumber); err != nil {
		return err
	}
	if err := ValidateDisplayName(in.SenderDisplayName); err != nil {
		return err
	}
	if err := ValidateDisplayName(in.ReceiverDisplayName); err != nil {
		return err
	}
	return nil
}

// TransferResult holds the two ledger lines a successful transfer produced.
type TransferResult struct {
	Debit  *Transaction
	Credit *Transaction
}
