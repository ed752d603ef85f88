package txn

import (
	"testing"

	"github.com/paymentstream/ledger/internal/amount"
)

func TestClientOfAndIDOfForTransfers(t *testing.T) {
	tx := NewDeposit(3, 42, amount.New(100))
	if tx.ClientOf() != 3 {
		t.Fatalf("got client %d, want 3", tx.ClientOf())
	}
	if tx.IDOf() != 42 {
		t.Fatalf("got id %d, want 42", tx.IDOf())
	}
}

func TestClientOfAndIDOfForDisputes(t *testing.T) {
	tx := NewChargeback(5, 9)
	if tx.ClientOf() != 5 {
		t.Fatalf("got client %d, want 5", tx.ClientOf())
	}
	if tx.IDOf() != 9 {
		t.Fatalf("got id %d, want 9", tx.IDOf())
	}
}

func TestNewClientStateStartsUnfrozenAndZero(t *testing.T) {
	s := NewClientState(1)
	if s.Frozen {
		t.Fatalf("expected a fresh client to be unfrozen")
	}
	if !s.Balance.Total().IsZero() {
		t.Fatalf("expected a fresh client to have a zero balance")
	}
}

func TestDisputeStatusString(t *testing.T) {
	cases := map[DisputeStatus]string{
		NotDisputed: "not_disputed",
		Disputed:    "disputed",
		Resolved:    "resolved",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", status, got, want)
		}
	}
}
