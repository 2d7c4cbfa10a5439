package earnings

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRateFor(t *testing.T) {
	db := newTestDB(t)
	createRule(t, db, "express", "10.00")

	if got := RateFor(db, "express"); !got.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected 10.00, got %s", got)
	}
	// A category without a rule earns 0%, never an error.
	if got := RateFor(db, "unknown-category"); !got.IsZero() {
		t.Fatalf("expected zero rate for unknown category, got %s", got)
	}
}

func TestValidAmount(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"50.00", true},
		{"0.01", true},
		{"499.99", true},
		{"0", false},
		{"0.00", false},
		{"-5.00", false},
		{"1.005", false},
		{"2.123", false},
	}
	for _, c := range cases {
		if got := ValidAmount(decimal.RequireFromString(c.in)); got != c.valid {
			t.Errorf("ValidAmount(%s) = %v, want %v", c.in, got, c.valid)
		}
	}
}
