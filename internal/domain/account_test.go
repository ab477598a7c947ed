package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateDebit(t *testing.T) {
	acc := &Account{ID: "a", Balance: 100}

	if err := acc.ValidateDebit(100); err != nil {
		t.Fatalf("full balance debit should pass, got %v", err)
	}
	if err := acc.ValidateDebit(101); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := acc.ApplyDebit(40); got != 60 {
		t.Errorf("ApplyDebit = %d, want 60", got)
	}
	if got := acc.ApplyCredit(40); got != 140 {
		t.Errorf("ApplyCredit = %d, want 140", got)
	}
}

func TestAccount_Identity(t *testing.T) {
	acc := &Account{MemberID: "m1", BankName: "KB", Number: "111-222"}

	if !acc.OwnedBy("m1") || acc.OwnedBy("m2") {
		t.Error("OwnedBy mismatch")
	}
	if !acc.SameAs("KB", "111-222") {
		t.Error("expected same account")
	}
	if acc.SameAs("NH", "111-222") {
		t.Error("different bank must not match")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      decimal.Decimal
		want    int64
		wantErr bool
	}{
		{name: "whole", in: decimal.NewFromInt(4000), want: 4000},
		{name: "zero", in: decimal.Zero, wantErr: true},
		{name: "negative", in: decimal.NewFromInt(-5), wantErr: true},
		{name: "fraction", in: decimal.RequireFromString("10.5"), wantErr: true},
		{name: "overflow", in: decimal.RequireFromString("9223372036854775808"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSentinelHierarchy(t *testing.T) {
	for _, err := range []error{ErrSameAccount, ErrCredentialMismatch, ErrInvalidAmount, ErrInvalidTransferDay, ErrInvalidDisplayName, ErrBalanceOverflow} {
		if !errors.Is(err, ErrInvalidTransaction) {
			t.Errorf("%v should wrap ErrInvalidTransaction", err)
		}
	}
}

func TestAccount_ValidateCredit(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		amount  int64
		wantErr bool
	}{
		{"small credit", 100, 50, false},
		{"exactly max", math.MaxInt64 - 10, 10, false},
		{"one past max", math.MaxInt64 - 10, 11, true},
		{"wraps to negative", 8070450532247928832, 4611686018427387904, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Account{Balance: tt.balance}
			err := a.ValidateCredit(tt.amount)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransaction) {
					t.Fatalf("expected ErrInvalidTransaction, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := a.ApplyCredit(tt.amount); got < a.Balance {
				t.Errorf("balance went down: %d", got)
			}
		})
	}
}
