package amount

import "testing"

func TestParseAmountRoundTripsThroughString(t *testing.T) {
	cases := []string{"0.0000", "1.0000", "100.5000", "0.0001", "-12.3400"}
	for _, s := range cases {
		a, err := ParseAmount(s)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %s", s, err)
		}
		if got := a.String(); got != s {
			t.Fatalf("ParseAmount(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestParseAmountPadsShortFractions(t *testing.T) {
	a, err := ParseAmount("1.5")
	if err != nil {
		t.Fatalf("ParseAmount: %s", err)
	}
	if got := a.String(); got != "1.5000" {
		t.Fatalf("got %q, want 1.5000", got)
	}
}

func TestParseAmountWithNoFraction(t *testing.T) {
	a, err := ParseAmount("42")
	if err != nil {
		t.Fatalf("ParseAmount: %s", err)
	}
	if got := a.String(); got != "42.0000" {
		t.Fatalf("got %q, want 42.0000", got)
	}
}

func TestParseAmountRejectsTooManyFractionalDigits(t *testing.T) {
	if _, err := ParseAmount("1.23456"); err == nil {
		t.Fatalf("expected an error for five fractional digits")
	}
}

func TestParseAmountRejectsEmptyString(t *testing.T) {
	if _, err := ParseAmount("   "); err == nil {
		t.Fatalf("expected an error for an empty value")
	}
}

func TestAddAndSub(t *testing.T) {
	a := New(10000)
	b := New(2500)

	if got := Add(a, b); got != New(12500) {
		t.Fatalf("Add: got %s, want 1.2500", got)
	}
	if got := Sub(a, b); got != New(7500) {
		t.Fatalf("Sub: got %s, want 0.7500", got)
	}
}

func TestIsZeroAndIsNegative(t *testing.T) {
	if !Zero.IsZero() {
		t.Fatalf("Zero.IsZero() = false")
	}
	if New(-1).IsZero() {
		t.Fatalf("New(-1).IsZero() = true")
	}
	if !New(-1).IsNegative() {
		t.Fatalf("New(-1).IsNegative() = false")
	}
	if New(0).IsNegative() {
		t.Fatalf("New(0).IsNegative() = true")
	}
}
