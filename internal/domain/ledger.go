package domain

import (
	"fmt"
	"sort"
)

// LedgerMismatch describes the first transaction whose snapshot disagrees with the replay.
type LedgerMismatch struct {
	TransactionID string
	Expected      int64
	Recorded      int64
}

func (m LedgerMismatch) String() string {
	return fmt.Sprintf("transaction %s: replay=%d recorded=%d", m.TransactionID, m.Expected, m.Recorded)
}

// ReplayLedger sums signed amounts from zero in timestamp order and compares every
// prefix with the recorded updated balance. It returns the replayed balance and the
// mismatches found. Transactions are sorted in place by (CreatedAt, ID).
func ReplayLedger(txs []*Transaction) (int64, []LedgerMismatch) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].ID < txs[j].ID
		}
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})

	var (
		running    int64
		mismatches []LedgerMismatch
	)

	for _, tx := range txs {
		running += tx.SignedAmount()
		if running != tx.UpdatedBalance {
			mismatches = append(mismatches, LedgerMismatch{
				TransactionID: tx.ID,
				Expected:      running,
				Recorded:      tx.UpdatedBalance,
			})
		}
	}

	return running, mismatches
}
