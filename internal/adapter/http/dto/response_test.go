package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iho/autotransfer/internal/domain"
)

func TestAccountFromDomain(t *testing.T) {
	account := &domain.Account{
		ID:             "acc-1",
		BankName:       "KB",
		Number:         "100-1",
		Type:           domain.AccountTypeChecking,
		CredentialHash: "secret-hash",
		Balance:        12345,
	}

	resp := AccountFromDomain(account)
	if resp.ID != account.ID || resp.Balance.String() != "12345" || resp.Type != "CHECKING" {
		t.Fatalf("unexpected account response: %+v", resp)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, leaked := raw["credential_hash"]; leaked {
		t.Fatalf("credential hash must not be serialised: %s", body)
	}
	if raw["balance"] != "12345" {
		t.Fatalf("expected balance as decimal string, got %v", raw["balance"])
	}
}

func TestTransferFromDomain(t *testing.T) {
	now := time.Now()
	result := &domain.TransferResult{
		Debit:  &domain.Transaction{ID: "d", AccountID: "a", Direction: domain.DirectionDebit, Amount: 4000, UpdatedBalance: 6000, CreatedAt: now},
		Credit: &domain.Transaction{ID: "c", AccountID: "b", Direction: domain.DirectionCredit, Amount: 4000, UpdatedBalance: 4500, CreatedAt: now},
	}

	resp := TransferFromDomain(result)
	if resp.Debit.ID != "d" || resp.Debit.UpdatedBalance.IntPart() != 6000 {
		t.Fatalf("unexpected debit: %+v", resp.Debit)
	}
	if resp.Credit.Direction != "CREDIT" || resp.Credit.Amount.IntPart() != 4000 {
		t.Fatalf("unexpected credit: %+v", resp.Credit)
	}
}

func TestAutoTransferAndNotificationFromDomain(t *testing.T) {
	at := &domain.AutoTransfer{ID: "at-1", Status: domain.AutoTransferFailed, Amount: 500, TransferDay: 31}
	list := AutoTransfersFromDomain([]*domain.AutoTransfer{at})
	if len(list) != 1 || list[0].Status != "FAILED" || list[0].TransferDay != 31 {
		t.Fatalf("unexpected auto-transfer responses: %+v", list)
	}

	n := &domain.Notification{ID: "n-1", Kind: domain.NotificationAutoTransferFail, Message: "failed"}
	ns := NotificationsFromDomain([]*domain.Notification{n})
	if len(ns) != 1 || ns[0].Kind != "AUTO_TRANSFER_FAIL" || ns[0].Read {
		t.Fatalf("unexpected notification responses: %+v", ns)
	}
}
