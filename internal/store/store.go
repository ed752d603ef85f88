// Package store wires the binary codec to a store engine, presenting the
// rest of the ledger with a typed facade over the two keyspaces: client
// state and transfer transactions.
package store

import (
	"fmt"
	"sync"

	"github.com/paymentstream/ledger/internal/codec"
	"github.com/paymentstream/ledger/internal/logging"
	"github.com/paymentstream/ledger/internal/store/engine"
	"github.com/paymentstream/ledger/internal/txn"
)

// ClientStore is the typed facade the state machine and the report writer
// depend on. Apart from mu, which only orders Close against the other
// calls, it relies on the engine for concurrency control: callers that
// need cross-call atomicity (the actor, specifically) serialize their own
// access.
type ClientStore struct {
	engine engine.Engine

	// mu guards nothing the engine doesn't already guard on its own; it
	// exists only to keep Close from racing a ForEach call made by the
	// report writer while the dispatcher is still tearing down actors.
	mu sync.RWMutex
}

// New wraps an engine in the typed client/transaction facade.
func New(e engine.Engine) *ClientStore {
	return &ClientStore{engine: e}
}

// GetTransaction looks up a previously stored transfer transaction by ID.
// ok is false if no such transaction has ever been stored.
func (s *ClientStore) GetTransaction(id txn.TxID) (txn.TransferTransaction, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok, err := s.engine.Get(engine.Transactions, codec.EncodeTxID(id))
	if err != nil {
		logging.Store.Printf("get transaction %d failed: %s", id, err)
		return txn.TransferTransaction{}, false, fmt.Errorf("store: get transaction %d: %w", id, err)
	}
	if !ok {
		return txn.TransferTransaction{}, false, nil
	}
	t, err := codec.DecodeTransaction(raw)
	if err != nil {
		return txn.TransferTransaction{}, false, fmt.Errorf("store: decode transaction %d: %w", id, err)
	}
	if !t.IsTransfer {
		return txn.TransferTransaction{}, false, fmt.Errorf("store: transaction %d is not a transfer", id)
	}
	return t.Transfer, true, nil
}

// PutTransaction persists a transfer transaction under its TxID, overwriting
// any prior value. Used both to record new deposits/withdrawals and to
// update a transaction's DisputeStatus as it moves through the dispute
// lifecycle.
func (s *ClientStore) PutTransaction(t txn.TransferTransaction) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := codec.EncodeTransaction(txn.Transaction{IsTransfer: true, Transfer: t})
	if err != nil {
		return fmt.Errorf("store: encode transaction %d: %w", t.Tx, err)
	}
	if err := s.engine.Put(engine.Transactions, codec.EncodeTxID(t.Tx), raw); err != nil {
		return fmt.Errorf("store: put transaction %d: %w", t.Tx, err)
	}
	return nil
}

// GetClientState looks up a client's persisted state. ok is false if the
// client has never been seen before; callers should treat that as a fresh
// account rather than an error.
func (s *ClientStore) GetClientState(id txn.ClientID) (txn.ClientState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok, err := s.engine.Get(engine.Clients, codec.EncodeClientID(id))
	if err != nil {
		return txn.ClientState{}, false, fmt.Errorf("store: get client %d: %w", id, err)
	}
	if !ok {
		return txn.ClientState{}, false, nil
	}
	state, err := codec.DecodeClientState(raw)
	if err != nil {
		return txn.ClientState{}, false, fmt.Errorf("store: decode client %d: %w", id, err)
	}
	return state, true, nil
}

// PutClientState persists a client's state, overwriting any prior value.
func (s *ClientStore) PutClientState(state txn.ClientState) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := codec.EncodeClientState(state)
	if err != nil {
		return fmt.Errorf("store: encode client %d: %w", state.ID, err)
	}
	if err := s.engine.Put(engine.Clients, codec.EncodeClientID(state.ID), raw); err != nil {
		return fmt.Errorf("store: put client %d: %w", state.ID, err)
	}
	return nil
}

// ForEachClient visits every client's persisted state, in backend-dependent
// order, stopping early if fn returns false. Used only by the report
// writer at the end of a run.
func (s *ClientStore) ForEachClient(fn func(txn.ClientState) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var decodeErr error
	err := s.engine.ForEach(engine.Clients, func(_, value []byte) bool {
		state, err := codec.DecodeClientState(value)
		if err != nil {
			decodeErr = fmt.Errorf("store: decode client row: %w", err)
			return false
		}
		return fn(state)
	})
	if decodeErr != nil {
		return decodeErr
	}
	if err != nil {
		return fmt.Errorf("store: iterate clients: %w", err)
	}
	return nil
}

// Close releases the underlying engine's resources.
func (s *ClientStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Close()
}
