package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/autotransfer/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	Transfers        *prometheus.CounterVec
	TransferDuration *prometheus.HistogramVec
	TransferAmount   prometheus.Histogram

	// Auto-transfer run metrics
	AutoTransferRuns     *prometheus.CounterVec
	AutoTransferOutcomes *prometheus.CounterVec

	// Notification metrics
	Notifications      *prometheus.CounterVec
	NotificationErrors *prometheus.CounterVec

	// Outbox relay metrics
	OutboxEvents *prometheus.CounterVec

	// API metrics
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	HTTPInFlight  prometheus.Gauge
	RateLimitHits prometheus.Counter
	AuthFailures  *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Transfers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autotransfer_transfers_total",
				Help: "Transfers by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		TransferDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "autotransfer_transfer_duration_seconds",
				Help:    "Duration of transfer operations, lock waits included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "autotransfer_transfer_amount",
			Help:    "Amounts of successful transfers",
			Buckets: []float64{1000, 10000, 100000, 1000000, 10000000, 100000000},
		}),

		AutoTransferRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autotransfer_runs_total",
				Help: "Batch runs by run type and result",
			},
			[]string{"run", "result"},
		),
		AutoTransferOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autotransfer_run_items_total",
				Help: "Auto-transfers executed by batch runs, by outcome",
			},
			[]string{"run", "outcome"},
		),

		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autotransfer_notifications_total",
				Help: "Notifications persisted by kind",
			},
			[]string{"kind"},
		),
		NotificationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autotransfer_notification_errors_total",
				Help: "Notification delivery errors by stage",
			},
			[]string{"stage"},
		),

		OutboxEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autotransfer_outbox_events_total",
				Help: "Outbox events handled by the relay, by type and result",
			},
			[]string{"event_type", "result"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autotransfer_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "autotransfer_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "autotransfer_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "autotransfer_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		}),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autotransfer_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),
	}
}

// ObserveTransfer records one transfer attempt. A nil receiver is a no-op.
func (m *Metrics) ObserveTransfer(kind domain.TransferKind, amount int64, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	m.Transfers.WithLabelValues(string(kind), TransferOutcome(err)).Inc()
	m.TransferDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	if err == nil {
		m.TransferAmount.Observe(float64(amount))
	}
}

// ObserveRun records a finished or skipped batch run.
func (m *Metrics) ObserveRun(run, skipped string, succeeded, failed int) {
	if m == nil {
		return
	}

	if skipped != "" {
		m.AutoTransferRuns.WithLabelValues(run, "skipped_"+skipped).Inc()
		return
	}

	m.AutoTransferRuns.WithLabelValues(run, "completed").Inc()
	m.AutoTransferOutcomes.WithLabelValues(run, "succeeded").Add(float64(succeeded))
	m.AutoTransferOutcomes.WithLabelValues(run, "failed").Add(float64(failed))
}

// ObserveNotification records a persisted notification or a failed stage.
func (m *Metrics) ObserveNotification(kind domain.NotificationKind, stage string, err error) {
	if m == nil {
		return
	}

	if err != nil {
		m.NotificationErrors.WithLabelValues(stage).Inc()
		return
	}
	if stage == StagePersist {
		m.Notifications.WithLabelValues(string(kind)).Inc()
	}
}

// Notification delivery stages.
const (
	StagePersist = "persist"
	StageCache   = "cache"
	StagePublish = "publish"
)

// TransferOutcome maps a transfer error to a low-cardinality label.
func TransferOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, domain.ErrInvalidTransaction):
		return "invalid"
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrUnauthorized):
		return "rejected"
	default:
		return "error"
	}
}

// ObserveOutboxEvent counts one relay attempt for an outbox event.
func (m *Metrics) ObserveOutboxEvent(eventType string, err error) {
	if m == nil {
		return
	}

	result := "published"
	if err != nil {
		result = "failed"
	}
	m.OutboxEvents.WithLabelValues(eventType, result).Inc()
}
