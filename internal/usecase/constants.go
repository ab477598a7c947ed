package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a single transfer including lock waits.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultTransferCategory is the category every transfer line is tagged with.
	DefaultTransferCategory = "transfer"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// Batch run names, also used as distributed lock names.
	RunDue   = "due"
	RunRetry = "retry"
)
