package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/iho/autotransfer/internal/adapter/repository/memory"
	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
	"github.com/iho/autotransfer/internal/usecase/mocks"
)

func interactive(from, bank, number string, amount int64) domain.TransferInput {
	return domain.TransferInput{
		MemberID:        "m1",
		FromAccountID:   from,
		ToBankName:      bank,
		ToAccountNumber: number,
		Amount:          amount,
		Credential:      testCredential,
	}
}

func withCredential(in domain.TransferInput, credential string) domain.TransferInput {
	in.Credential = credential
	return in
}

func TestTransferUseCase_Scenario(t *testing.T) {
	w := newWorld(t, time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 10000)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 500)

	result, err := w.transfers.ExecuteInteractiveTransfer(t.Context(), interactive("acc-a", "NH", "200-1", 4000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := w.balance(t, "acc-a"); got != 6000 {
		t.Errorf("A balance = %d, want 6000", got)
	}
	if got := w.balance(t, "acc-b"); got != 4500 {
		t.Errorf("B balance = %d, want 4500", got)
	}

	if result.Debit.Direction != domain.DirectionDebit || result.Debit.UpdatedBalance != 6000 || result.Debit.AccountID != "acc-a" {
		t.Errorf("unexpected debit line: %+v", result.Debit)
	}
	if result.Credit.Direction != domain.DirectionCredit || result.Credit.UpdatedBalance != 4500 || result.Credit.AccountID != "acc-b" {
		t.Errorf("unexpected credit line: %+v", result.Credit)
	}

	// display names default to the owners
	if result.Debit.OpponentName != "Bob" || result.Credit.OpponentName != "Alice" {
		t.Errorf("opponent names = %q/%q", result.Debit.OpponentName, result.Credit.OpponentName)
	}
	if result.Debit.CategoryID != "cat-transfer" {
		t.Errorf("category = %q", result.Debit.CategoryID)
	}

	// opening line plus the transfer line
	if n := len(w.lines(t, "acc-a")); n != 2 {
		t.Errorf("A has %d lines, want 2", n)
	}
	if n := len(w.lines(t, "acc-b")); n != 2 {
		t.Errorf("B has %d lines, want 2", n)
	}
}

func TestTransferUseCase_Failures(t *testing.T) {
	tests := []struct {
		name        string
		input       domain.TransferInput
		expectError error
	}{
		{
			name:        "insufficient balance",
			input:       interactive("acc-a", "NH", "200-1", 500),
			expectError: domain.ErrInsufficientBalance,
		},
		{
			name:        "same account",
			input:       interactive("acc-a", "KB", "100-1", 10),
			expectError: domain.ErrSameAccount,
		},
		{
			name:        "source not found",
			input:       interactive("missing", "NH", "200-1", 10),
			expectError: domain.ErrAccountNotFound,
		},
		{
			name:        "destination not found",
			input:       interactive("acc-a", "NH", "999", 10),
			expectError: domain.ErrAccountNotFound,
		},
		{
			name: "source owned by someone else",
			input: func() domain.TransferInput {
				in := interactive("acc-a", "NH", "200-1", 10)
				in.MemberID = "m2"
				return in
			}(),
			expectError: domain.ErrUnauthorized,
		},
		{
			name: "wrong credential",
			input: func() domain.TransferInput {
				in := interactive("acc-a", "NH", "200-1", 10)
				in.Credential = "0000"
				return in
			}(),
			expectError: domain.ErrCredentialMismatch,
		},
		{
			name:        "zero amount",
			input:       interactive("acc-a", "NH", "200-1", 0),
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "empty credential",
			input:       withCredential(interactive("acc-a", "NH", "200-1", 10), "  "),
			expectError: domain.ErrCredentialMismatch,
		},
		{
			name: "empty credential on someone else's account",
			input: func() domain.TransferInput {
				in := withCredential(interactive("acc-a", "NH", "200-1", 10), "")
				in.MemberID = "m2"
				return in
			}(),
			expectError: domain.ErrUnauthorized,
		},
		{
			name:        "empty credential to a missing destination",
			input:       withCredential(interactive("acc-a", "NH", "999", 10), ""),
			expectError: domain.ErrAccountNotFound,
		},
		{
			name:        "empty credential to the same account",
			input:       withCredential(interactive("acc-a", "KB", "100-1", 10), ""),
			expectError: domain.ErrSameAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t, time.Second)
			w.addAccount(t, "acc-a", "m1", "KB", "100-1", 100)
			w.addAccount(t, "acc-b", "m2", "NH", "200-1", 0)

			_, err := w.transfers.ExecuteInteractiveTransfer(t.Context(), tt.input)
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}

			if got := w.balance(t, "acc-a"); got != 100 {
				t.Errorf("A balance changed to %d", got)
			}
			if got := w.balance(t, "acc-b"); got != 0 {
				t.Errorf("B balance changed to %d", got)
			}
			if n := len(w.lines(t, "acc-a")); n != 1 {
				t.Errorf("A has %d lines, want only the opening line", n)
			}
			if n := len(w.lines(t, "acc-b")); n != 0 {
				t.Errorf("B has %d lines, want 0", n)
			}
		})
	}
}

func TestTransferUseCase_RejectsBalanceOverflow(t *testing.T) {
	w := newWorld(t, time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 4611686018427387904)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 8070450532247928832)

	_, err := w.transfers.ExecuteInteractiveTransfer(t.Context(), interactive("acc-a", "NH", "200-1", 4611686018427387904))
	if !errors.Is(err, domain.ErrInvalidTransaction) {
		t.Fatalf("expected ErrInvalidTransaction, got %v", err)
	}

	if got := w.balance(t, "acc-a"); got != 4611686018427387904 {
		t.Errorf("A balance changed to %d", got)
	}
	if got := w.balance(t, "acc-b"); got != 8070450532247928832 {
		t.Errorf("B balance changed to %d", got)
	}
}

func TestTransferUseCase_AutoSkipsCredential(t *testing.T) {
	w := newWorld(t, time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 100)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 0)

	_, err := w.transfers.ExecuteAutoTransfer(t.Context(), domain.TransferInput{
		MemberID:        "m1",
		FromAccountID:   "acc-a",
		ToBankName:      "NH",
		ToAccountNumber: "200-1",
		Amount:          40,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := w.balance(t, "acc-b"); got != 40 {
		t.Errorf("B balance = %d, want 40", got)
	}
}

func TestTransferUseCase_CategoryMissing(t *testing.T) {
	w := newWorld(t, time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 100)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 0)
	w.transfers.WithCategory("does-not-exist")

	_, err := w.transfers.ExecuteInteractiveTransfer(t.Context(), interactive("acc-a", "NH", "200-1", 10))
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if got := w.balance(t, "acc-a"); got != 100 {
		t.Errorf("A balance changed to %d", got)
	}
}

func TestTransferUseCase_Conservation(t *testing.T) {
	w := newWorld(t, time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 1000)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 1000)
	w.addAccount(t, "acc-c", "m3", "NH", "300-1", 1000)

	for i := 0; i < 5; i++ {
		if _, err := w.transfers.ExecuteInteractiveTransfer(t.Context(), interactive("acc-a", "NH", "200-1", 30)); err != nil {
			t.Fatalf("transfer %d: %v", i, err)
		}
	}

	if got := w.balance(t, "acc-a"); got != 850 {
		t.Errorf("A = %d, want 850", got)
	}
	if got := w.balance(t, "acc-b"); got != 1150 {
		t.Errorf("B = %d, want 1150", got)
	}
	if got := w.balance(t, "acc-c"); got != 1000 {
		t.Errorf("third account touched: %d", got)
	}
}

func TestTransferUseCase_NoDoubleSpend(t *testing.T) {
	w := newWorld(t, 5*time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 1000)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 0)

	const workers = 25

	var (
		wg           sync.WaitGroup
		successCount atomic.Int32
		rejected     atomic.Int32
		unexpected   atomic.Int32
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := w.transfers.ExecuteInteractiveTransfer(context.Background(), interactive("acc-a", "NH", "200-1", 100))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientBalance):
				rejected.Add(1)
			default:
				unexpected.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 10 || rejected.Load() != workers-10 || unexpected.Load() != 0 {
		t.Fatalf("success=%d rejected=%d unexpected=%d", successCount.Load(), rejected.Load(), unexpected.Load())
	}

	if got := w.balance(t, "acc-a"); got != 0 {
		t.Errorf("A = %d, want 0", got)
	}
	if got := w.balance(t, "acc-b"); got != 1000 {
		t.Errorf("B = %d, want 1000", got)
	}

	for _, id := range []string{"acc-a", "acc-b"} {
		balance, mismatches := domain.ReplayLedger(w.lines(t, id))
		if len(mismatches) != 0 || balance != w.balance(t, id) {
			t.Errorf("%s ledger does not replay: balance=%d mismatches=%v", id, balance, mismatches)
		}
	}
}

func TestTransferUseCase_OppositeDirectionsDoNotDeadlock(t *testing.T) {
	w := newWorld(t, 2*time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 10000)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 10000)

	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			if _, err := w.transfers.ExecuteInteractiveTransfer(context.Background(), interactive("acc-a", "NH", "200-1", 7)); err != nil {
				failed.Add(1)
			}
		}()

		go func() {
			defer wg.Done()
			in := interactive("acc-b", "KB", "100-1", 3)
			in.MemberID = "m2"
			if _, err := w.transfers.ExecuteInteractiveTransfer(context.Background(), in); err != nil {
				failed.Add(1)
			}
		}()
	}

	wg.Wait()

	if failed.Load() != 0 {
		t.Fatalf("%d transfers failed", failed.Load())
	}

	if got := w.balance(t, "acc-a"); got != 10000-50*7+50*3 {
		t.Errorf("A = %d", got)
	}
	if got := w.balance(t, "acc-b"); got != 10000+50*7-50*3 {
		t.Errorf("B = %d", got)
	}
}

func TestTransferUseCase_LockTimeout(t *testing.T) {
	w := newWorld(t, 50*time.Millisecond)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 100)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 0)

	tx, err := w.store.Begin(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.accounts.GetByIDsForUpdate(t.Context(), tx, []string{"acc-b"}); err != nil {
		t.Fatal(err)
	}

	_, err = w.transfers.ExecuteInteractiveTransfer(t.Context(), interactive("acc-a", "NH", "200-1", 10))
	if !errors.Is(err, domain.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}

	_ = tx.Rollback(t.Context())

	// source lock was released on the failed attempt
	if _, err := w.transfers.ExecuteInteractiveTransfer(t.Context(), interactive("acc-a", "NH", "200-1", 10)); err != nil {
		t.Fatalf("transfer after release: %v", err)
	}
}

func TestTransferUseCase_LocksInIDOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository(ctrl)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	categoryRepo := mocks.NewMockCategoryRepository(ctrl)
	txMgr := mocks.NewStubTransactionManager()
	tx := &mocks.StubTransaction{}
	txMgr.BeginFunc = func(context.Context) (usecase.Transaction, error) { return tx, nil }

	source := &domain.Account{ID: "z-src", MemberID: "m1", BankName: "KB", Number: "1", Balance: 50, CredentialHash: testCredential}
	dest := &domain.Account{ID: "a-dst", MemberID: "m2", BankName: "NH", Number: "2", Balance: 0}

	gomock.InOrder(
		accountRepo.EXPECT().GetByID(gomock.Any(), "z-src").Return(source, nil),
		accountRepo.EXPECT().GetByBankAndNumber(gomock.Any(), "NH", "2").Return(dest, nil),
		accountRepo.EXPECT().GetByIDsForUpdate(gomock.Any(), tx, []string{"a-dst", "z-src"}).
			Return([]*domain.Account{dest, source}, nil),
	)
	categoryRepo.EXPECT().GetByName(gomock.Any(), usecase.DefaultTransferCategory).Return(&domain.Category{ID: "c1"}, nil)
	accountRepo.EXPECT().UpdateBalance(gomock.Any(), tx, "z-src", int64(20)).Return(nil)
	accountRepo.EXPECT().UpdateBalance(gomock.Any(), tx, "a-dst", int64(30)).Return(nil)
	ledgerRepo.EXPECT().Append(gomock.Any(), tx, gomock.Any()).Return(nil).Times(2)

	uc := usecase.NewTransferUseCase(txMgr, accountRepo, ledgerRepo, nil, categoryRepo, &mocks.StubCredentialVerifier{}, mocks.NewStubIDGenerator())

	_, err := uc.ExecuteInteractiveTransfer(t.Context(), domain.TransferInput{
		MemberID:            "m1",
		FromAccountID:       "z-src",
		ToBankName:          "NH",
		ToAccountNumber:     "2",
		Amount:              30,
		Credential:          testCredential,
		SenderDisplayName:   "me",
		ReceiverDisplayName: "you",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !tx.Committed {
		t.Error("transaction was not committed")
	}
}

func TestTransferUseCase_RollsBackOnWriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository(ctrl)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	categoryRepo := mocks.NewMockCategoryRepository(ctrl)
	txMgr := mocks.NewStubTransactionManager()
	tx := &mocks.StubTransaction{}
	txMgr.BeginFunc = func(context.Context) (usecase.Transaction, error) { return tx, nil }

	source := &domain.Account{ID: "a", MemberID: "m1", BankName: "KB", Number: "1", Balance: 50}
	dest := &domain.Account{ID: "b", MemberID: "m2", BankName: "NH", Number: "2"}
	writeErr := errors.New("disk full")

	accountRepo.EXPECT().GetByID(gomock.Any(), "a").Return(source, nil)
	accountRepo.EXPECT().GetByBankAndNumber(gomock.Any(), "NH", "2").Return(dest, nil)
	accountRepo.EXPECT().GetByIDsForUpdate(gomock.Any(), tx, []string{"a", "b"}).Return([]*domain.Account{source, dest}, nil)
	categoryRepo.EXPECT().GetByName(gomock.Any(), gomock.Any()).Return(&domain.Category{ID: "c1"}, nil)
	accountRepo.EXPECT().UpdateBalance(gomock.Any(), tx, "a", int64(40)).Return(nil)
	ledgerRepo.EXPECT().Append(gomock.Any(), tx, gomock.Any()).Return(writeErr)

	uc := usecase.NewTransferUseCase(txMgr, accountRepo, ledgerRepo, nil, categoryRepo, nil, mocks.NewStubIDGenerator())

	_, err := uc.ExecuteAutoTransfer(t.Context(), domain.TransferInput{
		MemberID:            "m1",
		FromAccountID:       "a",
		ToBankName:          "NH",
		ToAccountNumber:     "2",
		Amount:              10,
		SenderDisplayName:   "me",
		ReceiverDisplayName: "you",
	})
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}

	if tx.Committed || !tx.RolledBack {
		t.Errorf("committed=%v rolledBack=%v", tx.Committed, tx.RolledBack)
	}
}

func TestTransferUseCase_RetriesTransientErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)
	transient := errors.New("deadlock detected")

	accountRepo.EXPECT().GetByID(gomock.Any(), "a").Return(nil, transient).Times(2)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, op func() error) error {
		if err := op(); err == nil {
			return nil
		}
		return op()
	})

	uc := usecase.NewTransferUseCase(nil, accountRepo, nil, nil, nil, nil, nil).WithRetrier(retrier)

	_, err := uc.ExecuteAutoTransfer(t.Context(), domain.TransferInput{
		MemberID:        "m1",
		FromAccountID:   "a",
		ToBankName:      "NH",
		ToAccountNumber: "2",
		Amount:          10,
	})
	if !errors.Is(err, transient) {
		t.Fatalf("expected transient error after retries, got %v", err)
	}
}

func TestTransferUseCase_WritesOutboxEventWithTransfer(t *testing.T) {
	w := newWorld(t, time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 100)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 0)

	outbox := memory.NewOutboxRepository(w.store)
	w.transfers.WithOutbox(outbox)

	result, err := w.transfers.ExecuteInteractiveTransfer(t.Context(), interactive("acc-a", "NH", "200-1", 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Rejected transfers leave nothing behind.
	if _, err := w.transfers.ExecuteInteractiveTransfer(t.Context(), interactive("acc-a", "NH", "200-1", 500)); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	events, err := outbox.GetUnpublished(t.Context(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(events))
	}

	e := events[0]
	if e.Type != domain.EventTypeTransferCompleted || e.ID != result.Debit.ID || e.Payload["to_account_id"] != "acc-b" {
		t.Errorf("unexpected event: %+v", e)
	}
}

func TestTransferUseCase_OutboxFailureRollsBackTransfer(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := mocks.NewMockOutboxRepository(ctrl)

	w := newWorld(t, time.Second)
	w.addAccount(t, "acc-a", "m1", "KB", "100-1", 100)
	w.addAccount(t, "acc-b", "m2", "NH", "200-1", 0)
	w.transfers.WithOutbox(outbox)

	outbox.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	if _, err := w.transfers.ExecuteInteractiveTransfer(t.Context(), interactive("acc-a", "NH", "200-1", 30)); err == nil {
		t.Fatalf("expected outbox failure to fail the transfer")
	}

	if got := w.balance(t, "acc-a"); got != 100 {
		t.Errorf("source balance changed to %d", got)
	}
	if got := w.balance(t, "acc-b"); got != 0 {
		t.Errorf("destination balance changed to %d", got)
	}

	lines, err := w.ledger.ListByAccount(t.Context(), "acc-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no ledger lines, got %d", len(lines))
	}
}
