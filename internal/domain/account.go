package domain

import (
	"math"
	"time"
)

// AccountType is the product family of an account.
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeDeposit  AccountType = "DEPOSIT"
	AccountTypeSaving   AccountType = "SAVING"
)

// Account is a member-owned balance holder. Balance is kept in minor currency units.
type Account struct {
	CreatedAt      time.Time
	MaturedAt      *time.Time
	ID             string
	MemberID       string
	BankID         string
	BankName       string
	Name           string
	Number         string
	Type           AccountType
	CredentialHash string
	Balance        int64
}

// OwnedBy reports whether the account belongs to the member.
func (a *Account) OwnedBy(memberID string) bool {
	return a.MemberID == memberID
}

// SameAs reports whether both values refer to the same bank account.
func (a *Account) SameAs(bankName, number string) bool {
	return a.BankName == bankName && a.Number == number
}

// ValidateDebit checks that the account can pay amount without going negative.
func (a *Account) ValidateDebit(amount int64) error {
	if amount > a.Balance {
		return ErrInsufficientBalance
	}
	return nil
}

// ValidateCredit checks that the balance can take amount without overflowing.
func (a *Account) ValidateCredit(amount int64) error {
	if amount > math.MaxInt64-a.Balance {
		return ErrBalanceOverflow
	}
	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount int64) int64 {
	return a.Balance - amount
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount int64) int64 {
	return a.Balance + amount
}

// Member is the owner of accounts.
type Member struct {
	ID   string
	Name string
}

// Bank is a financial institution accounts are held at.
type Bank struct {
	ID   string
	Name string
}
