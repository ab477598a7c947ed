package memory

import (
	"context"
	"sort"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// GetByID returns a snapshot of the committed account.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	acc := *a
	return &acc, nil
}

// GetByBankAndNumber resolves an account by bank name and account number.
func (r *AccountRepository) GetByBankAndNumber(ctx context.Context, bankName, number string) (*domain.Account, error) {
	r.store.mu.RLock()
	id, ok := r.store.accountRefs[refKey(bankName, number)]
	r.store.mu.RUnlock()

	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return r.GetByID(ctx, id)
}

// GetByIDsForUpdate locks the accounts in ascending id order and returns their
// current state as seen by tx.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	ids = sortedUnique(ids)

	for _, id := range ids {
		if t.holds(id) {
			continue
		}

		if err := r.store.locks.acquire(ctx, id, r.store.lockTimeout); err != nil {
			return nil, err
		}

		t.held = append(t.held, id)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		a, ok := r.store.accounts[id]
		if !ok {
			continue
		}

		acc := *a
		if staged, ok := t.balances[id]; ok {
			acc.Balance = staged
		}

		accounts = append(accounts, &acc)
	}

	return accounts, nil
}

// UpdateBalance stages a balance write. The account must be locked by tx.
func (r *AccountRepository) UpdateBalance(_ context.Context, tx usecase.Transaction, id string, balance int64) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	if !t.holds(id) {
		return domain.ErrLockTimeout
	}

	t.balances[id] = balance

	return nil
}

// ListCheckingByMember returns the member's checking accounts ordered by number.
func (r *AccountRepository) ListCheckingByMember(_ context.Context, memberID string) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.Account
	for _, a := range r.store.accounts {
		if a.MemberID == memberID && a.Type == domain.AccountTypeChecking {
			acc := *a
			out = append(out, &acc)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	return out, nil
}

// List returns accounts ordered by id.
func (r *AccountRepository) List(_ context.Context, limit, offset int) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := make([]string, 0, len(r.store.accounts))
	for id := range r.store.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if offset >= len(ids) {
		return nil, nil
	}

	ids = ids[offset:]
	if len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		acc := *r.store.accounts[id]
		out = append(out, &acc)
	}

	return out, nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// Append stages a transaction line. It becomes visible on commit.
func (r *LedgerRepository) Append(_ context.Context, tx usecase.Transaction, line *domain.Transaction) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	l := *line
	t.lines = append(t.lines, &l)

	return nil
}

// ListByAccount returns committed lines in insertion order.
func (r *LedgerRepository) ListByAccount(_ context.Context, accountID string) ([]*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	src := r.store.lines[accountID]
	out := make([]*domain.Transaction, 0, len(src))
	for _, l := range src {
		line := *l
		out = append(out, &line)
	}

	return out, nil
}

// MemberRepository implements usecase.MemberRepository.
type MemberRepository struct {
	store *Store
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(store *Store) *MemberRepository {
	return &MemberRepository{store: store}
}

// GetByID returns a member.
func (r *MemberRepository) GetByID(_ context.Context, id string) (*domain.Member, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}

	member := *m
	return &member, nil
}

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// GetByName returns a category by its unique name.
func (r *CategoryRepository) GetByName(_ context.Context, name string) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.categories[name]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}

	category := *c
	return &category, nil
}
