package handler

import (
	"context"
	"net/http"

	"github.com/iho/autotransfer/internal/usecase"
)

// BatchRunner triggers auto-transfer runs.
type BatchRunner interface {
	RunDue(ctx context.Context) (*usecase.RunReport, error)
	RunRetry(ctx context.Context) (*usecase.RunReport, error)
}

// BatchHandler exposes on-demand batch runs to operators.
type BatchHandler struct {
	runner BatchRunner
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(runner BatchRunner) *BatchHandler {
	return &BatchHandler{runner: runner}
}

// RunDue executes today's due auto-transfers.
func (h *BatchHandler) RunDue(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.runner.RunDue)
}

// RunRetry re-executes FAILED auto-transfers.
func (h *BatchHandler) RunRetry(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.runner.RunRetry)
}

func (h *BatchHandler) run(w http.ResponseWriter, r *http.Request, fn func(context.Context) (*usecase.RunReport, error)) {
	report, err := fn(r.Context())
	if err != nil {
		writeDomainError(w, "batch run failed", err)
		return
	}

	status := http.StatusOK
	if report.Skipped != "" {
		status = http.StatusAccepted
	}

	writeJSON(w, status, report)
}
