package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/metrics"
)

// Reasons a run did nothing.
const (
	SkipWeekend         = "weekend"
	SkipOutsideWindow   = "outside retry window"
	SkipLockedElsewhere = "another instance holds the run lock"
)

// RunFailure is one auto-transfer that could not be executed.
type RunFailure struct {
	AutoTransferID string `json:"auto_transfer_id"`
	Error          string `json:"error"`
}

// RunReport summarises a due or retry run.
type RunReport struct {
	StartedAt  time.Time    `json:"started_at"`
	Run        string       `json:"run"`
	Skipped    string       `json:"skipped,omitempty"`
	TargetDays []int        `json:"target_days,omitempty"`
	Failures   []RunFailure `json:"failures,omitempty"`
	Selected   int          `json:"selected"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
}

// AutoTransferRunner executes due and failed auto-transfers through the transfer engine.
// Each item is processed on its own; one failure never stops the batch.
type AutoTransferRunner struct {
	repo       AutoTransferRepository
	marker     AutoTransferStatusMarker
	executor   TransferExecutor
	notifier   Notifier
	locker     RunLocker
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	now        func() time.Time
	retryStart int
	retryEnd   int
}

// NewAutoTransferRunner creates a new AutoTransferRunner.
func NewAutoTransferRunner(
	repo AutoTransferRepository,
	marker AutoTransferStatusMarker,
	executor TransferExecutor,
	notifier Notifier,
	logger zerolog.Logger,
) *AutoTransferRunner {
	return &AutoTransferRunner{
		repo:       repo,
		marker:     marker,
		executor:   executor,
		notifier:   notifier,
		locker:     NewLocalRunLocker(),
		logger:     logger.With().Str("component", "auto_transfer_runner").Logger(),
		now:        time.Now,
		retryStart: 9,
		retryEnd:   18,
	}
}

// WithLocker replaces the process-local run lock.
func (r *AutoTransferRunner) WithLocker(l RunLocker) *AutoTransferRunner {
	if l != nil {
		r.locker = l
	}
	return r
}

// WithMetrics records run and item outcomes.
func (r *AutoTransferRunner) WithMetrics(m *metrics.Metrics) *AutoTransferRunner {
	r.metrics = m
	return r
}

// WithClock replaces the time source. The returned time must be in the scheduling time zone.
func (r *AutoTransferRunner) WithClock(now func() time.Time) *AutoTransferRunner {
	r.now = now
	return r
}

// WithRetryWindow sets the inclusive hour window retry runs are allowed in.
func (r *AutoTransferRunner) WithRetryWindow(startHour, endHour int) *AutoTransferRunner {
	r.retryStart, r.retryEnd = startHour, endHour
	return r
}

// RunDue executes every ACTIVE auto-transfer scheduled for today's target days.
func (r *AutoTransferRunner) RunDue(ctx context.Context) (*RunReport, error) {
	now := r.now()
	report := &RunReport{Run: RunDue, StartedAt: now}

	days := domain.DueTransferDays(now)
	if len(days) == 0 {
		report.Skipped = SkipWeekend
		r.logReport(report)
		return report, nil
	}
	report.TargetDays = days

	unlock, ok, err := r.locker.TryLock(ctx, RunDue)
	if err != nil {
		return nil, err
	}
	if !ok {
		report.Skipped = SkipLockedElsewhere
		r.logReport(report)
		return report, nil
	}
	defer unlock()

	due, err := r.repo.ListActiveByDays(ctx, days)
	if err != nil {
		return nil, err
	}
	report.Selected = len(due)

	for _, at := range due {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := r.execute(ctx, at); err != nil {
			r.recordFailure(report, at, err)

			if markErr := r.marker.MarkFailed(ctx, at.ID); markErr != nil {
				r.logger.Error().Err(markErr).Str("auto_transfer_id", at.ID).Msg("failed to mark auto-transfer failed")
			}

			r.notifier.Notify(ctx, at.MemberID, domain.NotificationAutoTransferFail, domain.AutoTransferFailMessage(at))
			continue
		}

		report.Succeeded++
		r.markActive(ctx, at)
		r.notifier.Notify(ctx, at.MemberID, domain.NotificationAutoTransferSuccess, domain.AutoTransferSuccessMessage(at))
	}

	r.logReport(report)

	return report, nil
}

// RunRetry re-attempts FAILED auto-transfers inside the retry window.
// Repeat failures are logged only.
func (r *AutoTransferRunner) RunRetry(ctx context.Context) (*RunReport, error) {
	now := r.now()
	report := &RunReport{Run: RunRetry, StartedAt: now}

	if !domain.InRetryWindow(now, r.retryStart, r.retryEnd) {
		report.Skipped = SkipOutsideWindow
		r.logReport(report)
		return report, nil
	}

	unlock, ok, err := r.locker.TryLock(ctx, RunRetry)
	if err != nil {
		return nil, err
	}
	if !ok {
		report.Skipped = SkipLockedElsewhere
		r.logReport(report)
		return report, nil
	}
	defer unlock()

	failed, err := r.repo.ListByStatus(ctx, domain.AutoTransferFailed)
	if err != nil {
		return nil, err
	}
	report.Selected = len(failed)

	for _, at := range failed {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := r.execute(ctx, at); err != nil {
			r.recordFailure(report, at, err)
			continue
		}

		report.Succeeded++
		r.markActive(ctx, at)
		r.notifier.Notify(ctx, at.MemberID, domain.NotificationAutoTransferSuccess, domain.AutoTransferSuccessMessage(at))
	}

	r.logReport(report)

	return report, nil
}

func (r *AutoTransferRunner) execute(ctx context.Context, at *domain.AutoTransfer) error {
	_, err := r.executor.Execute(ctx, domain.TransferInput{
		MemberID:        at.MemberID,
		FromAccountID:   at.AccountID,
		ToBankName:      at.TargetBankName,
		ToAccountNumber: at.TargetAccountNumber,
		Amount:          at.Amount,
		Kind:            domain.TransferKindAuto,
	})
	return err
}

func (r *AutoTransferRunner) markActive(ctx context.Context, at *domain.AutoTransfer) {
	if err := r.marker.MarkActive(ctx, at.ID); err != nil {
		r.logger.Error().Err(err).Str("auto_transfer_id", at.ID).Msg("failed to mark auto-transfer active")
	}
}

func (r *AutoTransferRunner) recordFailure(report *RunReport, at *domain.AutoTransfer, err error) {
	report.Failed++
	report.Failures = append(report.Failures, RunFailure{AutoTransferID: at.ID, Error: err.Error()})

	r.logger.Warn().
		Err(err).
		Str("run", report.Run).
		Str("auto_transfer_id", at.ID).
		Str("account_id", at.AccountID).
		Int64("amount", at.Amount).
		Msg("auto-transfer failed")
}

func (r *AutoTransferRunner) logReport(report *RunReport) {
	r.metrics.ObserveRun(report.Run, report.Skipped, report.Succeeded, report.Failed)

	if report.Skipped != "" {
		r.logger.Info().Str("run", report.Run).Str("skipped", report.Skipped).Msg("auto-transfer run skipped")
		return
	}

	r.logger.Info().
		Str("run", report.Run).
		Ints("target_days", report.TargetDays).
		Int("selected", report.Selected).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("auto-transfer run finished")
}
