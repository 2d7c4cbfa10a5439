package earnings

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/APPLEMALL-KENYA/agents/models"
)

func TestRecordEarningWithCommission(t *testing.T) {
	db := newTestDB(t)
	createRule(t, db, "express", "10.00")
	agent := createAgent(t, db, "baraka", nil)

	earning, err := RecordEarning(db, agent.ID, 1, "express", decimal.Zero)
	if err != nil {
		t.Fatalf("record earning: %v", err)
	}

	if !earning.BaseAmount.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("base amount %s, want 50.00", earning.BaseAmount)
	}
	if !earning.CommissionAmount.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("commission %s, want 5.00", earning.CommissionAmount)
	}
	if !earning.TotalAmount.Equal(decimal.RequireFromString("55.00")) {
		t.Fatalf("total %s, want 55.00", earning.TotalAmount)
	}

	if got := balanceOf(t, db, agent.ID); !got.Equal(decimal.RequireFromString("55.00")) {
		t.Fatalf("agent balance %s, want 55.00", got)
	}
}

func TestRecordEarningUnknownCategoryPaysBaseOnly(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "zawadi", nil)

	earning, err := RecordEarning(db, agent.ID, 2, "no-such-category", decimal.Zero)
	if err != nil {
		t.Fatalf("record earning: %v", err)
	}
	if !earning.CommissionAmount.IsZero() {
		t.Fatalf("commission %s, want 0", earning.CommissionAmount)
	}
	if !earning.TotalAmount.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("total %s, want 50.00", earning.TotalAmount)
	}
}

func TestRecordEarningPaysParentBonus(t *testing.T) {
	db := newTestDB(t)
	createRule(t, db, "express", "10.00")
	parent := createAgent(t, db, "wafula", nil)
	sub := createAgent(t, db, "chebet", &parent.ID)

	earning, err := RecordEarning(db, sub.ID, 3, "express", decimal.Zero)
	if err != nil {
		t.Fatalf("record earning: %v", err)
	}
	if !earning.TotalAmount.Equal(decimal.RequireFromString("55.00")) {
		t.Fatalf("total %s, want 55.00", earning.TotalAmount)
	}

	// 5% of 55.00 exactly.
	var bonus models.SubAgentCommission
	if err := db.Where("parent_agent_id = ? AND subagent_id = ?", parent.ID, sub.ID).First(&bonus).Error; err != nil {
		t.Fatalf("load bonus: %v", err)
	}
	if !bonus.BonusAmount.Equal(decimal.RequireFromString("2.75")) {
		t.Fatalf("bonus %s, want 2.75", bonus.BonusAmount)
	}

	if got := balanceOf(t, db, sub.ID); !got.Equal(decimal.RequireFromString("55.00")) {
		t.Fatalf("sub-agent balance %s, want 55.00", got)
	}
	if got := balanceOf(t, db, parent.ID); !got.Equal(decimal.RequireFromString("2.75")) {
		t.Fatalf("parent balance %s, want 2.75", got)
	}
}

func TestRecordEarningNoParentNoBonus(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "kiprop", nil)

	if _, err := RecordEarning(db, agent.ID, 4, "", decimal.Zero); err != nil {
		t.Fatalf("record earning: %v", err)
	}
	var bonuses int64
	db.Model(&models.SubAgentCommission{}).Count(&bonuses)
	if bonuses != 0 {
		t.Fatalf("expected no bonus rows, got %d", bonuses)
	}
}

func TestRecordEarningIdempotent(t *testing.T) {
	db := newTestDB(t)
	createRule(t, db, "express", "10.00")
	parent := createAgent(t, db, "moraa", nil)
	sub := createAgent(t, db, "omondi", &parent.ID)

	first, err := RecordEarning(db, sub.ID, 5, "express", decimal.Zero)
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	second, err := RecordEarning(db, sub.ID, 5, "express", decimal.Zero)
	if err != nil {
		t.Fatalf("second record: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the stored earning back, got a new row %d != %d", first.ID, second.ID)
	}

	// No double pay for agent or parent.
	if got := balanceOf(t, db, sub.ID); !got.Equal(decimal.RequireFromString("55.00")) {
		t.Fatalf("sub-agent balance %s, want 55.00", got)
	}
	if got := balanceOf(t, db, parent.ID); !got.Equal(decimal.RequireFromString("2.75")) {
		t.Fatalf("parent balance %s, want 2.75", got)
	}
	var earningRows, bonusRows int64
	db.Model(&models.DeliveryEarning{}).Count(&earningRows)
	db.Model(&models.SubAgentCommission{}).Count(&bonusRows)
	if earningRows != 1 || bonusRows != 1 {
		t.Fatalf("expected 1 earning and 1 bonus, got %d and %d", earningRows, bonusRows)
	}
}

func TestRecordEarningInvalidBase(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "nyambura", nil)

	for _, base := range []string{"-1.00", "10.005"} {
		_, err := RecordEarning(db, agent.ID, 6, "", decimal.RequireFromString(base))
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("base %s: expected ErrInvalidAmount, got %v", base, err)
		}
	}
}

func TestRecordRiderEarning(t *testing.T) {
	db := newTestDB(t)
	rider := createAgent(t, db, "juma", nil)

	entry, err := RecordRiderEarning(db, rider.ID, decimal.RequireFromString("7.5"))
	if err != nil {
		t.Fatalf("record rider earning: %v", err)
	}
	// 60 per km * 7.5 km
	if !entry.Amount.Equal(decimal.RequireFromString("450.00")) {
		t.Fatalf("amount %s, want 450.00", entry.Amount)
	}
	if entry.Kind != models.KindRiderDelivery {
		t.Fatalf("kind %s, want %s", entry.Kind, models.KindRiderDelivery)
	}

	if _, err := RecordRiderEarning(db, rider.ID, decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero km, got %v", err)
	}
}
