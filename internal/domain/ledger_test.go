package domain

import (
	"testing"
	"time"
)

func TestReplayLedger(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	txs := []*Transaction{
		{ID: "03", CreatedAt: base.Add(2 * time.Minute), Direction: DirectionDebit, Amount: 4000, UpdatedBalance: 6000},
		{ID: "01", CreatedAt: base, Direction: DirectionCredit, Amount: 10000, UpdatedBalance: 10000},
	}

	balance, mismatches := ReplayLedger(txs)
	if balance != 6000 {
		t.Errorf("balance = %d, want 6000", balance)
	}
	if len(mismatches) != 0 {
		t.Errorf("unexpected mismatches: %v", mismatches)
	}
	if txs[0].ID != "01" {
		t.Error("transactions not sorted by time")
	}

	txs = append(txs, &Transaction{ID: "04", CreatedAt: base.Add(3 * time.Minute), Direction: DirectionCredit, Amount: 1, UpdatedBalance: 9})
	_, mismatches = ReplayLedger(txs)
	if len(mismatches) != 1 || mismatches[0].TransactionID != "04" || mismatches[0].Expected != 6001 {
		t.Errorf("unexpected mismatches: %v", mismatches)
	}
}
