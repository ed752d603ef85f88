// Package ledger implements the client state machine: the single entry
// point that applies one Transaction to one ClientState, enforcing the
// dispute protocol's preconditions and persisting every accepted mutation
// through the store facade.
package ledger

import (
	"fmt"

	"github.com/paymentstream/ledger/internal/store"
	"github.com/paymentstream/ledger/internal/txn"
)

const (
	disputeMismatch   = "Only a transfer can be disputed"
	disputeWithdrawal = "Cannot dispute a withdrawal"
	notDisputed       = "Transaction is not disputed"
	alreadyDisputed   = "Transaction is already disputed"
	disputeResolved   = "Dispute already resolved"
)

// Error is a sentinel error kind for state machine failures that do not
// carry a dynamic message (see DisputeError for the one kind that does).
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrMismatchedClientID is returned when a transaction's client ID
	// does not match the ClientState it was routed to.
	ErrMismatchedClientID Error = "mismatched client id"
	// ErrAccountFrozen is returned for any operation against a client
	// that has previously suffered a chargeback.
	ErrAccountFrozen Error = "account frozen"
	// ErrTransactionNotFound is returned when a dispute event references
	// a TxId this client has never recorded a transfer row for.
	ErrTransactionNotFound Error = "transaction not found"
)

// DisputeError reports a dispute-protocol precondition violation. It is a
// distinct type (rather than another Error constant) because its message
// is one of several variants rather than a single fixed string.
type DisputeError struct {
	Message string
}

func (e *DisputeError) Error() string { return e.Message }

// StoreError wraps a failure from the underlying store facade. Per the
// taxonomy, this is the one fatal kind: the dispatcher halts on it rather
// than logging and continuing, because persistence is the ground truth
// and a failed write leaves memory and disk out of sync.
type StoreError struct {
	Cause error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store error: %s", e.Cause) }
func (e *StoreError) Unwrap() error { return e.Cause }

// ClientState owns one client's in-memory balance/frozen flag and applies
// transactions against it, persisting every accepted mutation through
// store. It is not safe for concurrent use; the actor that owns it
// guarantees single-threaded access.
type ClientState struct {
	state txn.ClientState
	store *store.ClientStore
}

// New constructs a ClientState wrapping an already-loaded (or freshly
// default) persisted state.
func New(state txn.ClientState, s *store.ClientStore) *ClientState {
	return &ClientState{state: state, store: s}
}

// ID returns the owning client's ID.
func (c *ClientState) ID() txn.ClientID { return c.state.ID }

// Apply executes t against this client's state. On success the new state
// has already been persisted. On a rejected transaction nothing has been
// mutated or written; a StoreError can be returned after the in-memory
// balance or the transfer row has already changed.
func (c *ClientState) Apply(t txn.Transaction) error {
	if t.ClientOf() != c.state.ID {
		return ErrMismatchedClientID
	}
	if c.state.Frozen {
		return ErrAccountFrozen
	}

	var err error
	if t.IsTransfer {
		err = c.applyTransfer(t.Transfer)
	} else {
		err = c.applyDispute(t.Disputed)
	}
	if err != nil {
		return err
	}

	if err := c.store.PutClientState(c.state); err != nil {
		return &StoreError{Cause: err}
	}
	return nil
}

func (c *ClientState) applyTransfer(t txn.TransferTransaction) error {
	var err error
	switch t.Kind {
	case txn.Deposit:
		err = c.state.Balance.Deposit(t.Amount)
	case txn.Withdrawal:
		err = c.state.Balance.Withdraw(t.Amount)
	}
	if err != nil {
		return err
	}

	t.Dispute = txn.NotDisputed
	if err := c.store.PutTransaction(t); err != nil {
		return &StoreError{Cause: err}
	}
	return nil
}

func (c *ClientState) applyDispute(d txn.DisputedTransaction) error {
	tr, ok, err := c.store.GetTransaction(d.Tx)
	if err != nil {
		return &StoreError{Cause: err}
	}
	if !ok || tr.Client != c.state.ID {
		return ErrTransactionNotFound
	}
	if tr.Kind == txn.Withdrawal && d.Kind == txn.DisputeOpen {
		return &DisputeError{Message: disputeWithdrawal}
	}

	switch d.Kind {
	case txn.DisputeOpen:
		return c.dispute(tr)
	case txn.Resolve:
		return c.resolve(tr)
	case txn.Chargeback:
		return c.chargeback(tr)
	default:
		return &DisputeError{Message: disputeMismatch}
	}
}

func (c *ClientState) dispute(tr txn.TransferTransaction) error {
	switch tr.Dispute {
	case txn.Disputed:
		return &DisputeError{Message: alreadyDisputed}
	case txn.Resolved:
		return &DisputeError{Message: disputeResolved}
	}

	tr.Dispute = txn.Disputed
	if err := c.store.PutTransaction(tr); err != nil {
		return &StoreError{Cause: err}
	}
	if err := c.state.Balance.Hold(tr.Amount); err != nil {
		return err
	}
	return nil
}

func (c *ClientState) resolve(tr txn.TransferTransaction) error {
	if tr.Dispute != txn.Disputed {
		return &DisputeError{Message: notDisputed}
	}

	tr.Dispute = txn.NotDisputed
	if err := c.store.PutTransaction(tr); err != nil {
		return &StoreError{Cause: err}
	}
	c.state.Balance.Release(tr.Amount)
	return nil
}

func (c *ClientState) chargeback(tr txn.TransferTransaction) error {
	switch tr.Dispute {
	case txn.Resolved:
		return &DisputeError{Message: disputeResolved}
	case txn.NotDisputed:
		return &DisputeError{Message: notDisputed}
	}

	tr.Dispute = txn.Resolved
	if err := c.store.PutTransaction(tr); err != nil {
		return &StoreError{Cause: err}
	}
	c.state.Balance.Charge(tr.Amount)
	c.state.Frozen = true
	return nil
}
