package earnings

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/APPLEMALL-KENYA/agents/models"
)

func TestCreditCreatesWalletAndEntry(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "wanjiku", nil)

	entry, err := Credit(db, agent.ID, decimal.RequireFromString("55.00"), models.KindEarning, "Delivery pay")
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if entry.Flow != models.FlowCredit {
		t.Fatalf("expected credit flow, got %s", entry.Flow)
	}
	if entry.Reference == "" {
		t.Fatal("expected a ledger reference")
	}

	if got := balanceOf(t, db, agent.ID); !got.Equal(decimal.RequireFromString("55.00")) {
		t.Fatalf("expected balance 55.00, got %s", got)
	}
}

func TestCreditRejectsInvalidAmounts(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "njeri", nil)

	for _, amount := range []string{"0", "-10.00", "1.005"} {
		_, err := Credit(db, agent.ID, decimal.RequireFromString(amount), models.KindEarning, "")
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("credit %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestDebitInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "otieno", nil)
	mustCredit(t, db, agent.ID, "100.00")

	_, err := Debit(db, agent.ID, decimal.RequireFromString("100.01"), models.KindWithdrawal, "")
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// A failed debit must leave the balance and the ledger untouched.
	if got := balanceOf(t, db, agent.ID); !got.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("balance changed after failed debit: %s", got)
	}
	var debits int64
	db.Model(&models.WalletTransaction{}).
		Where("owner_id = ? AND flow = ?", agent.ID, models.FlowDebit).Count(&debits)
	if debits != 0 {
		t.Fatalf("expected no debit entries, got %d", debits)
	}
}

func TestDebitMissingWallet(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "kamau", nil)

	_, err := Debit(db, agent.ID, decimal.RequireFromString("1.00"), models.KindWithdrawal, "")
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance for missing wallet, got %v", err)
	}
}

func TestLedgerSequenceMatchesBalance(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "achieng", nil)

	ops := []struct {
		flow   string
		amount string
		ok     bool
	}{
		{models.FlowCredit, "200.00", true},
		{models.FlowDebit, "50.00", true},
		{models.FlowCredit, "25.50", true},
		{models.FlowDebit, "500.00", false},
		{models.FlowDebit, "175.50", true},
		{models.FlowDebit, "0.01", false},
	}

	expected := decimal.Zero
	for i, op := range ops {
		var err error
		amount := decimal.RequireFromString(op.amount)
		if op.flow == models.FlowCredit {
			_, err = Credit(db, agent.ID, amount, models.KindEarning, "")
		} else {
			_, err = Debit(db, agent.ID, amount, models.KindWithdrawal, "")
		}
		if op.ok {
			if err != nil {
				t.Fatalf("op %d (%s %s): unexpected error %v", i, op.flow, op.amount, err)
			}
			if op.flow == models.FlowCredit {
				expected = expected.Add(amount)
			} else {
				expected = expected.Sub(amount)
			}
		} else if !errors.Is(err, ErrInsufficientBalance) {
			t.Fatalf("op %d (%s %s): expected ErrInsufficientBalance, got %v", i, op.flow, op.amount, err)
		}
		if got := balanceOf(t, db, agent.ID); !got.Equal(expected) {
			t.Fatalf("op %d: balance %s, want %s", i, got, expected)
		}
	}

	if expected.IsNegative() {
		t.Fatalf("test sequence drove expected balance negative: %s", expected)
	}
}

// Two hundred shillings, twenty racing debits of fifteen each: at most
// thirteen can succeed and the balance can never go negative.
func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	db := newTestDB(t)
	agent := createAgent(t, db, "mumbi", nil)
	mustCredit(t, db, agent.ID, "200.00")

	const workers = 20
	amount := decimal.RequireFromString("15.00")

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Debit(db, agent.ID, amount, models.KindWithdrawal, "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	approved := 0
	for err := range results {
		switch {
		case err == nil:
			approved++
		case errors.Is(err, ErrInsufficientBalance):
		default:
			t.Fatalf("unexpected debit error: %v", err)
		}
	}

	debited := amount.Mul(decimal.NewFromInt(int64(approved)))
	if debited.GreaterThan(decimal.RequireFromString("200.00")) {
		t.Fatalf("approved debits total %s exceed the starting balance", debited)
	}

	final := balanceOf(t, db, agent.ID)
	if final.IsNegative() {
		t.Fatalf("balance went negative: %s", final)
	}
	want := decimal.RequireFromString("200.00").Sub(debited)
	if !final.Equal(want) {
		t.Fatalf("final balance %s, want %s", final, want)
	}
}
