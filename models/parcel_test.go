package models

import "testing"

func TestParcelCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{ParcelCreated, ParcelInTransit, true},
		{ParcelCreated, ParcelCancelled, true},
		{ParcelCreated, ParcelDelivered, false},
		{ParcelInTransit, ParcelDelivered, true},
		{ParcelInTransit, ParcelReturned, true},
		{ParcelInTransit, ParcelCreated, false},
		{ParcelDelivered, ParcelInTransit, false},
		{ParcelReturned, ParcelDelivered, false},
		{ParcelCancelled, ParcelInTransit, false},
	}
	for _, c := range cases {
		p := Parcel{Status: c.from}
		if got := p.CanTransition(c.to); got != c.ok {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestNewTrackingNumber(t *testing.T) {
	a, b := NewTrackingNumber(), NewTrackingNumber()
	if len(a) != 12 || len(b) != 12 {
		t.Fatalf("expected 12-char tracking numbers, got %q and %q", a, b)
	}
	if a == b {
		t.Fatal("tracking numbers should be unique")
	}
}
