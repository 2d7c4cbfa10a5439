package earnings

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/APPLEMALL-KENYA/agents/models"
)

func TestRedeemTypeFor(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0.01", models.RedeemStoreCredit},
		{"499.99", models.RedeemStoreCredit},
		{"500.00", models.RedeemCash},
		{"1000.00", models.RedeemCash},
	}
	for _, c := range cases {
		if got := RedeemTypeFor(decimal.RequireFromString(c.amount)); got != c.want {
			t.Errorf("RedeemTypeFor(%s) = %s, want %s", c.amount, got, c.want)
		}
	}
}

func TestWithdrawalChannelMismatchPersistsNothing(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "wambui", nil)
	mustCredit(t, db, agent.ID, "1000.00")

	cases := []struct {
		amount     string
		redeemType string
	}{
		{"499.99", models.RedeemCash},        // below threshold, cash not allowed
		{"500.00", models.RedeemStoreCredit}, // at threshold, must be cash
		{"100.00", "mpesa"},                  // unknown channel
	}
	for _, c := range cases {
		_, err := RequestWithdrawal(db, agent.ID, decimal.RequireFromString(c.amount), c.redeemType, false)
		if !errors.Is(err, ErrChannelMismatch) {
			t.Errorf("%s via %s: expected ErrChannelMismatch, got %v", c.amount, c.redeemType, err)
		}
	}

	var requests int64
	db.Model(&models.WithdrawalRequest{}).Count(&requests)
	if requests != 0 {
		t.Fatalf("channel mismatches must not be persisted, found %d rows", requests)
	}
	if got := balanceOf(t, db, agent.ID); !got.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("balance changed: %s", got)
	}
}

func TestWithdrawalApproved(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "kioko", nil)
	mustCredit(t, db, agent.ID, "1000.00")

	req, err := RequestWithdrawal(db, agent.ID, decimal.RequireFromString("500.00"), models.RedeemCash, false)
	if err != nil {
		t.Fatalf("withdrawal: %v", err)
	}
	if req.Status != models.WithdrawalApproved {
		t.Fatalf("status %s, want approved", req.Status)
	}
	if got := balanceOf(t, db, agent.ID); !got.Equal(decimal.RequireFromString("500.00")) {
		t.Fatalf("balance %s, want 500.00", got)
	}

	var entry models.WalletTransaction
	if err := db.Where("owner_id = ? AND flow = ?", agent.ID, models.FlowDebit).First(&entry).Error; err != nil {
		t.Fatalf("load debit entry: %v", err)
	}
	if entry.Kind != models.KindWithdrawal {
		t.Fatalf("entry kind %s, want %s", entry.Kind, models.KindWithdrawal)
	}
}

func TestWithdrawalStoreCreditBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "auma", nil)
	mustCredit(t, db, agent.ID, "600.00")

	req, err := RequestWithdrawal(db, agent.ID, decimal.RequireFromString("499.99"), models.RedeemStoreCredit, false)
	if err != nil {
		t.Fatalf("withdrawal: %v", err)
	}
	if req.Status != models.WithdrawalApproved {
		t.Fatalf("status %s, want approved", req.Status)
	}
}

func TestWithdrawalInsufficientBalanceRejected(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "maina", nil)
	mustCredit(t, db, agent.ID, "100.00")

	req, err := RequestWithdrawal(db, agent.ID, decimal.RequireFromString("600.00"), models.RedeemCash, false)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if req == nil || req.Status != models.WithdrawalRejected {
		t.Fatalf("expected a rejected request, got %+v", req)
	}
	if req.Reason == nil || *req.Reason == "" {
		t.Fatal("rejected request should carry a reason")
	}

	// The rejected request is persisted; the balance is untouched.
	var stored models.WithdrawalRequest
	if err := db.Where("reference = ?", req.Reference).First(&stored).Error; err != nil {
		t.Fatalf("load request: %v", err)
	}
	if stored.Status != models.WithdrawalRejected {
		t.Fatalf("stored status %s, want rejected", stored.Status)
	}
	if got := balanceOf(t, db, agent.ID); !got.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("balance %s, want 100.00", got)
	}
}

func TestWithdrawalAdminOverrideSkipsChannelCheck(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "said", nil)
	mustCredit(t, db, agent.ID, "1000.00")

	// Cash below the threshold: rejected for agents, allowed for superadmins.
	req, err := RequestWithdrawal(db, agent.ID, decimal.RequireFromString("100.00"), models.RedeemCash, true)
	if err != nil {
		t.Fatalf("override withdrawal: %v", err)
	}
	if req.Status != models.WithdrawalApproved {
		t.Fatalf("status %s, want approved", req.Status)
	}

	// Empty channel defaults to what the amount calls for.
	req, err = RequestWithdrawal(db, agent.ID, decimal.RequireFromString("600.00"), "", true)
	if err != nil {
		t.Fatalf("override withdrawal: %v", err)
	}
	if req.RedeemType != models.RedeemCash {
		t.Fatalf("redeem type %s, want cash", req.RedeemType)
	}

	// The override never bypasses the balance invariant.
	_, err = RequestWithdrawal(db, agent.ID, decimal.RequireFromString("5000.00"), "", true)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}
