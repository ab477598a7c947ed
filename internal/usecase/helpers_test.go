package usecase_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/autotransfer/internal/adapter/repository/memory"
	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
	"github.com/iho/autotransfer/internal/usecase/mocks"
)

const testCredential = "1234"

// world wires the use cases against the in-memory store.
type world struct {
	store         *memory.Store
	accounts      *memory.AccountRepository
	ledger        *memory.LedgerRepository
	members       *memory.MemberRepository
	autoTransfers *memory.AutoTransferRepository
	idGen         *mocks.StubIDGenerator
	notifier      *mocks.RecordingNotifier
	transfers     *usecase.TransferUseCase
	registry      *usecase.AutoTransferUseCase
}

func newWorld(t *testing.T, lockTimeout time.Duration) *world {
	t.Helper()

	store := memory.NewStore(lockTimeout)
	store.AddMember(domain.Member{ID: "m1", Name: "Alice"})
	store.AddMember(domain.Member{ID: "m2", Name: "Bob"})
	store.AddMember(domain.Member{ID: "m3", Name: "Carol"})
	store.AddCategory(domain.Category{ID: "cat-transfer", Name: usecase.DefaultTransferCategory})

	w := &world{
		store:         store,
		accounts:      memory.NewAccountRepository(store),
		ledger:        memory.NewLedgerRepository(store),
		members:       memory.NewMemberRepository(store),
		autoTransfers: memory.NewAutoTransferRepository(store),
		idGen:         mocks.NewStubIDGenerator(),
		notifier:      &mocks.RecordingNotifier{},
	}

	w.transfers = usecase.NewTransferUseCase(
		store,
		w.accounts,
		w.ledger,
		w.members,
		memory.NewCategoryRepository(store),
		&mocks.StubCredentialVerifier{},
		w.idGen,
	)
	w.registry = usecase.NewAutoTransferUseCase(w.autoTransfers, w.accounts, w.idGen)

	return w
}

func (w *world) addAccount(t *testing.T, id, memberID, bank, number string, balance int64) {
	t.Helper()

	err := w.store.AddAccount(domain.Account{
		ID:             id,
		MemberID:       memberID,
		BankName:       bank,
		Number:         number,
		Type:           domain.AccountTypeChecking,
		CredentialHash: testCredential,
		Balance:        balance,
	})
	if err != nil {
		t.Fatalf("add account: %v", err)
	}
}

func (w *world) balance(t *testing.T, id string) int64 {
	t.Helper()

	acc, err := w.accounts.GetByID(t.Context(), id)
	if err != nil {
		t.Fatalf("get account %s: %v", id, err)
	}

	return acc.Balance
}

func (w *world) lines(t *testing.T, id string) []*domain.Transaction {
	t.Helper()

	lines, err := w.ledger.ListByAccount(t.Context(), id)
	if err != nil {
		t.Fatalf("list lines %s: %v", id, err)
	}

	return lines
}

func (w *world) runner(now time.Time) *usecase.AutoTransferRunner {
	return usecase.NewAutoTransferRunner(w.autoTransfers, w.registry, w.transfers, w.notifier, zerolog.Nop()).
		WithClock(func() time.Time { return now })
}
