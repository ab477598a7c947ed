package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
)

func TestAccountUseCase(t *testing.T) {
	w := newWorld(t, time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 10)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 0)
	if err := w.store.AddAccount(domain.Account{ID: "acc-s", MemberID: "m1", BankName: "KB", Number: "100-9", Type: domain.AccountTypeSaving}); err != nil {
		t.Fatal(err)
	}

	uc := usecase.NewAccountUseCase(w.accounts, w.members)

	checking, err := uc.ListCheckingAccounts(t.Context(), "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(checking) != 1 || checking[0].ID != "acc-a" {
		t.Errorf("unexpected checking accounts: %+v", checking)
	}

	recv, err := uc.LookupReceivingAccount(t.Context(), "NH", "200-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recv.OwnerName != "Bob" || recv.Number != "200-1" {
		t.Errorf("unexpected receiving account: %+v", recv)
	}

	if _, err := uc.LookupReceivingAccount(t.Context(), "NH", "404"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}

	if _, err := uc.GetAccount(t.Context(), "acc-b", "m1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
