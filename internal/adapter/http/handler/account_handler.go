package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/autotransfer/internal/adapter/http/dto"
	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	ListCheckingAccounts(ctx context.Context, memberID string) ([]*domain.Account, error)
	GetAccount(ctx context.Context, id, memberID string) (*domain.Account, error)
	LookupReceivingAccount(ctx context.Context, bankName, number string) (*usecase.ReceivingAccount, error)
}

// TransactionService lists an account's ledger lines.
type TransactionService interface {
	ListTransactions(ctx context.Context, accountID, memberID string) ([]*domain.Transaction, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	ledgerUC  TransactionService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, ledgerUC TransactionService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, ledgerUC: ledgerUC}
}

// ListChecking lists the caller's checking accounts.
func (h *AccountHandler) ListChecking(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListCheckingAccounts(r.Context(), memberID(r))
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Get retrieves one of the caller's accounts.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id, memberID(r))
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Transactions lists the ledger lines of one of the caller's accounts.
func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	lines, err := h.ledgerUC.ListTransactions(r.Context(), chi.URLParam(r, "id"), memberID(r))
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(lines))
}

// Lookup resolves a receiving account by ?bank=&number= so the sender can confirm the owner.
func (h *AccountHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	account, err := h.accountUC.LookupReceivingAccount(r.Context(), q.Get("bank"), q.Get("number"))
	if err != nil {
		writeDomainError(w, "failed to look up account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReceivingAccountFromUseCase(account))
}
