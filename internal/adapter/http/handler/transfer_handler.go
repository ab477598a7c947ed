package handler

import (
	"context"
	"net/http"

	"github.com/iho/autotransfer/internal/adapter/http/dto"
	"github.com/iho/autotransfer/internal/domain"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	ExecuteInteractiveTransfer(ctx context.Context, input domain.TransferInput) (*domain.TransferResult, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create executes a member initiated transfer.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToTransferInput(memberID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	result, err := h.transferUC.ExecuteInteractiveTransfer(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(result))
}
