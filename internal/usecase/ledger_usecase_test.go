package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
)

func TestLedgerUseCase_VerifyAfterTransfers(t *testing.T) {
	w := newWorld(t, time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 10000)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 500)

	for _, amount := range []int64{4000, 1, 999} {
		if _, err := w.transfers.ExecuteInteractiveTransfer(t.Context(), interactive("acc-a", "NH", "200-1", amount)); err != nil {
			t.Fatalf("transfer %d: %v", amount, err)
		}
	}

	uc := usecase.NewLedgerUseCase(w.accounts, w.ledger)

	result, err := uc.VerifyAccount(t.Context(), "acc-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsReconciled || result.ReplayedBalance != 5000 || result.Transactions != 4 {
		t.Errorf("unexpected result: %+v", result)
	}

	broken, err := uc.VerifyAll(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(broken) != 0 {
		t.Errorf("expected every account to reconcile, got %+v", broken)
	}
}

func TestLedgerUseCase_DetectsDrift(t *testing.T) {
	w := newWorld(t, time.Second)
	// funded without an opening line
	if err := w.store.AddAccount(domain.Account{ID: "acc-x", MemberID: "m1", BankName: "KB", Number: "1"}); err != nil {
		t.Fatal(err)
	}

	tx, _ := w.store.Begin(t.Context())
	if _, err := w.accounts.GetByIDsForUpdate(t.Context(), tx, []string{"acc-x"}); err != nil {
		t.Fatal(err)
	}
	_ = w.accounts.UpdateBalance(t.Context(), tx, "acc-x", 42)
	if err := tx.Commit(t.Context()); err != nil {
		t.Fatal(err)
	}

	uc := usecase.NewLedgerUseCase(w.accounts, w.ledger)

	result, err := uc.VerifyAccount(t.Context(), "acc-x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsReconciled {
		t.Errorf("expected drift to be reported: %+v", result)
	}

	broken, _ := uc.VerifyAll(t.Context())
	if len(broken) != 1 || broken[0].AccountID != "acc-x" {
		t.Errorf("unexpected broken set: %+v", broken)
	}
}

func TestLedgerUseCase_ListTransactions(t *testing.T) {
	w := newWorld(t, time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 1000)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 0)

	if _, err := w.transfers.ExecuteInteractiveTransfer(t.Context(), interactive("acc-a", "NH", "200-1", 300)); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	uc := usecase.NewLedgerUseCase(w.accounts, w.ledger)

	lines, err := uc.ListTransactions(t.Context(), "acc-b", "m2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].Direction != domain.DirectionCredit || lines[0].UpdatedBalance != 300 {
		t.Errorf("unexpected lines: %+v", lines)
	}

	if _, err := uc.ListTransactions(t.Context(), "acc-b", "m1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
