package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/autotransfer/internal/usecase"
)

// LedgerVerifier replays account ledgers.
type LedgerVerifier interface {
	VerifyAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	VerifyAll(ctx context.Context) ([]*usecase.ReconciliationResult, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerVerifier
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerVerifier) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// VerifyAll replays every account. It answers 409 when any account does not reconcile.
func (h *LedgerHandler) VerifyAll(w http.ResponseWriter, r *http.Request) {
	broken, err := h.ledgerUC.VerifyAll(r.Context())
	if err != nil {
		writeDomainError(w, "failed to verify ledger", err)
		return
	}

	if len(broken) > 0 {
		writeJSON(w, http.StatusConflict, map[string]any{
			"status":     "inconsistent",
			"consistent": false,
			"accounts":   broken,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "consistent",
		"consistent": true,
	})
}

// VerifyAccount replays a single account.
func (h *LedgerHandler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledgerUC.VerifyAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to verify account", err)
		return
	}

	status := http.StatusOK
	if !result.IsReconciled {
		status = http.StatusConflict
	}

	writeJSON(w, status, result)
}
