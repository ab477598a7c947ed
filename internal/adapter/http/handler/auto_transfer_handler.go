package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/autotransfer/internal/adapter/http/dto"
	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
)

// AutoTransferService defines the behavior needed by AutoTransferHandler.
type AutoTransferService interface {
	Create(ctx context.Context, input usecase.CreateAutoTransferInput) (*domain.AutoTransfer, error)
	List(ctx context.Context, memberID string) ([]*domain.AutoTransfer, error)
	Get(ctx context.Context, id, memberID string) (*domain.AutoTransfer, error)
	Update(ctx context.Context, input usecase.UpdateAutoTransferInput) (*domain.AutoTransfer, error)
	Toggle(ctx context.Context, id, memberID string) (*domain.AutoTransfer, error)
	Delete(ctx context.Context, id, memberID string) error
}

// AutoTransferHandler handles recurring transfer registration.
type AutoTransferHandler struct {
	autoTransferUC AutoTransferService
}

// NewAutoTransferHandler creates a new AutoTransferHandler.
func NewAutoTransferHandler(autoTransferUC AutoTransferService) *AutoTransferHandler {
	return &AutoTransferHandler{autoTransferUC: autoTransferUC}
}

// Create registers a recurring transfer.
func (h *AutoTransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAutoTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(memberID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	at, err := h.autoTransferUC.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create auto-transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AutoTransferFromDomain(at))
}

// List lists the caller's recurring transfers.
func (h *AutoTransferHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.autoTransferUC.List(r.Context(), memberID(r))
	if err != nil {
		writeDomainError(w, "failed to list auto-transfers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AutoTransfersFromDomain(list))
}

// Get retrieves one recurring transfer.
func (h *AutoTransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	at, err := h.autoTransferUC.Get(r.Context(), chi.URLParam(r, "id"), memberID(r))
	if err != nil {
		writeDomainError(w, "failed to get auto-transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AutoTransferFromDomain(at))
}

// Update changes amount and day and reactivates the transfer.
func (h *AutoTransferHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAutoTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), memberID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	at, err := h.autoTransferUC.Update(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to update auto-transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AutoTransferFromDomain(at))
}

// Toggle switches a transfer between ACTIVE and INACTIVE.
func (h *AutoTransferHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	at, err := h.autoTransferUC.Toggle(r.Context(), chi.URLParam(r, "id"), memberID(r))
	if err != nil {
		writeDomainError(w, "failed to toggle auto-transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AutoTransferFromDomain(at))
}

// Delete removes a recurring transfer.
func (h *AutoTransferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.autoTransferUC.Delete(r.Context(), chi.URLParam(r, "id"), memberID(r)); err != nil {
		writeDomainError(w, "failed to delete auto-transfer", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
