package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/metrics"
)

// TransferUseCase moves money between two accounts under exclusive row locks.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	ledgerRepo   LedgerRepository
	memberRepo   MemberRepository
	categoryRepo CategoryRepository
	verifier     CredentialVerifier
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
	outbox       OutboxRepository
	category     string
	timeout      time.Duration
	now          func() time.Time
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	memberRepo MemberRepository,
	categoryRepo CategoryRepository,
	verifier CredentialVerifier,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		ledgerRepo:   ledgerRepo,
		memberRepo:   memberRepo,
		categoryRepo: categoryRepo,
		verifier:     verifier,
		idGen:        idGen,
		category:     DefaultTransferCategory,
		timeout:      DefaultTransactionTimeout,
		now:          time.Now,
	}
}

// WithRetrier retries the whole transfer on transient storage errors.
func (uc *TransferUseCase) WithRetrier(r Retrier) *TransferUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics records every transfer attempt.
func (uc *TransferUseCase) WithMetrics(m *metrics.Metrics) *TransferUseCase {
	uc.metrics = m
	return uc
}

// WithOutbox records a transfer.completed event in the same transaction as
// the balance writes.
func (uc *TransferUseCase) WithOutbox(o OutboxRepository) *TransferUseCase {
	uc.outbox = o
	return uc
}

// WithCategory sets the category name transfer lines are tagged with.
func (uc *TransferUseCase) WithCategory(name string) *TransferUseCase {
	if name != "" {
		uc.category = name
	}
	return uc
}

// WithClock replaces the time source.
func (uc *TransferUseCase) WithClock(now func() time.Time) *TransferUseCase {
	uc.now = now
	return uc
}

// ExecuteInteractiveTransfer runs a member initiated transfer. The credential is required.
func (uc *TransferUseCase) ExecuteInteractiveTransfer(ctx context.Context, input domain.TransferInput) (*domain.TransferResult, error) {
	input.Kind = domain.TransferKindInteractive
	return uc.Execute(ctx, input)
}

// ExecuteAutoTransfer runs a scheduled transfer. The credential check is skipped.
func (uc *TransferUseCase) ExecuteAutoTransfer(ctx context.Context, input domain.TransferInput) (*domain.TransferResult, error) {
	input.Kind = domain.TransferKindAuto
	return uc.Execute(ctx, input)
}

// Execute runs a transfer of the kind set on input.
func (uc *TransferUseCase) Execute(ctx context.Context, input domain.TransferInput) (*domain.TransferResult, error) {
	if input.Kind == "" {
		input.Kind = domain.TransferKindInteractive
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	var result *domain.TransferResult

	op := func() error {
		r, err := uc.execute(ctx, input)
		if err != nil {
			return err
		}

		result = r

		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}

	uc.metrics.ObserveTransfer(input.Kind, input.Amount, time.Since(start), err)

	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *TransferUseCase) execute(ctx context.Context, input domain.TransferInput) (*domain.TransferResult, error) {
	// 1. Resolve both sides without locks so lookup errors keep their precedence
	source, err := uc.accountRepo.GetByID(ctx, input.FromAccountID)
	if err != nil {
		return nil, err
	}

	if !source.OwnedBy(input.MemberID) {
		return nil, domain.ErrUnauthorized
	}

	dest, err := uc.accountRepo.GetByBankAndNumber(ctx, input.ToBankName, input.ToAccountNumber)
	if err != nil {
		return nil, err
	}

	if source.ID == dest.ID || source.SameAs(dest.BankName, dest.Number) {
		return nil, domain.ErrSameAccount
	}

	senderName, receiverName, err := uc.displayNames(ctx, input, source, dest)
	if err != nil {
		return nil, err
	}

	// 2. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 3. Lock both rows in id order (DEADLOCK PREVENTION)
	ids := []string{source.ID, dest.ID}
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	locked := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		locked[a.ID] = a
	}

	source, dest = locked[source.ID], locked[dest.ID]
	if source == nil || dest == nil {
		return nil, domain.ErrAccountNotFound
	}

	// 4. Checks against the locked rows
	if input.Kind == domain.TransferKindInteractive {
		if strings.TrimSpace(input.Credential) == "" || !uc.verifier.Verify(input.Credential, source.CredentialHash) {
			return nil, domain.ErrCredentialMismatch
		}
	}

	if err := source.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	if err := dest.ValidateCredit(input.Amount); err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.GetByName(ctx, uc.category)
	if err != nil {
		return nil, err
	}

	// 5. Apply both sides
	now := uc.now().UTC()

	debit := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		AccountID:      source.ID,
		OpponentName:   receiverName,
		CategoryID:     category.ID,
		Direction:      domain.DirectionDebit,
		Amount:         input.Amount,
		UpdatedBalance: source.ApplyDebit(input.Amount),
		CreatedAt:      now,
	}

	credit := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		AccountID:      dest.ID,
		OpponentName:   senderName,
		CategoryID:     category.ID,
		Direction:      domain.DirectionCredit,
		Amount:         input.Amount,
		UpdatedBalance: dest.ApplyCredit(input.Amount),
		CreatedAt:      now,
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, source.ID, debit.UpdatedBalance); err != nil {
		return nil, err
	}

	if err := uc.ledgerRepo.Append(ctx, tx, debit); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, dest.ID, credit.UpdatedBalance); err != nil {
		return nil, err
	}

	if err := uc.ledgerRepo.Append(ctx, tx, credit); err != nil {
		return nil, err
	}

	result := &domain.TransferResult{Debit: debit, Credit: credit}

	if uc.outbox != nil {
		if err := uc.outbox.Create(ctx, tx, domain.NewTransferCompletedEvent(input.Kind, result)); err != nil {
			return nil, err
		}
	}

	// 6. Commit releases both locks
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *TransferUseCase) displayNames(ctx context.Context, input domain.TransferInput, source, dest *domain.Account) (string, string, error) {
	sender, receiver := input.SenderDisplayName, input.ReceiverDisplayName

	if sender == "" {
		m, err := uc.memberRepo.GetByID(ctx, source.MemberID)
		if err != nil {
			return "", "", err
		}
		sender = m.Name
	}

	if receiver == "" {
		m, err := uc.memberRepo.GetByID(ctx, dest.MemberID)
		if err != nil {
			return "", "", err
		}
		receiver = m.Name
	}

	return sender, receiver, nil
}
