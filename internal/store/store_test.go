package store

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slices"

	"github.com/paymentstream/ledger/internal/amount"
	"github.com/paymentstream/ledger/internal/balance"
	"github.com/paymentstream/ledger/internal/store/engine"
	"github.com/paymentstream/ledger/internal/txn"
)

func TestClientStateRoundTripsThroughMemEngine(t *testing.T) {
	s := New(engine.NewMemEngine())

	state := txn.ClientState{
		ID: 7,
		Balance: balance.Balance{
			Available: amount.New(50000),
			Held:      amount.New(2500),
		},
		Frozen: false,
	}

	if err := s.PutClientState(state); err != nil {
		t.Fatalf("PutClientState: %s", err)
	}

	got, ok, err := s.GetClientState(7)
	if err != nil || !ok {
		t.Fatalf("GetClientState: got=%v ok=%v err=%s", got, ok, err)
	}
	if got != state {
		t.Fatalf("got %+v, want %+v", got, state)
	}
}

func TestGetClientStateMissingIsNotAnError(t *testing.T) {
	s := New(engine.NewMemEngine())

	_, ok, err := s.GetClientState(99)
	if err != nil {
		t.Fatalf("GetClientState: %s", err)
	}
	if ok {
		t.Fatalf("expected ok=false for an unseen client")
	}
}

func TestTransactionRoundTripsThroughMemEngine(t *testing.T) {
	s := New(engine.NewMemEngine())

	tr := txn.TransferTransaction{
		Kind:    txn.Deposit,
		Client:  3,
		Tx:      101,
		Amount:  amount.New(123400),
		Dispute: txn.NotDisputed,
	}

	if err := s.PutTransaction(tr); err != nil {
		t.Fatalf("PutTransaction: %s", err)
	}

	got, ok, err := s.GetTransaction(101)
	if err != nil || !ok {
		t.Fatalf("GetTransaction: got=%v ok=%v err=%s", got, ok, err)
	}
	if got != tr {
		t.Fatalf("got %+v, want %+v", got, tr)
	}
}

func TestForEachClientVisitsEveryRow(t *testing.T) {
	s := New(engine.NewMemEngine())

	want := map[txn.ClientID]bool{1: true, 2: true, 3: true}
	for id := range want {
		if err := s.PutClientState(txn.NewClientState(id)); err != nil {
			t.Fatalf("PutClientState: %s", err)
		}
	}

	var seen []txn.ClientID
	err := s.ForEachClient(func(state txn.ClientState) bool {
		seen = append(seen, state.ID)
		return true
	})
	if err != nil {
		t.Fatalf("ForEachClient: %s", err)
	}

	// ForEach's iteration order is backend-dependent; sort before
	// comparing so the assertion doesn't depend on it.
	slices.Sort(seen)
	wantIDs := []txn.ClientID{1, 2, 3}
	if !slices.Equal(seen, wantIDs) {
		t.Fatalf("got clients %v, want %v", seen, wantIDs)
	}
}

func TestGetClientStatePropagatesEngineFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := engine.NewMockEngine(ctrl)
	mock.EXPECT().Get(engine.Clients, gomock.Any()).Return(nil, false, errors.New("disk on fire"))

	s := New(mock)
	_, _, err := s.GetClientState(1)
	if err == nil {
		t.Fatalf("expected an error, got nil")
	}
}

func TestCloseDelegatesToEngine(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := engine.NewMockEngine(ctrl)
	mock.EXPECT().Close().Return(nil)

	s := New(mock)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}
}
