// Package txn defines the transaction model shared by the store, the
// client state machine and the CSV parser: a tagged union of transfer
// transactions (deposit, withdrawal) and disputed-transaction events
// (dispute, resolve, chargeback).
package txn

import (
	"github.com/paymentstream/ledger/internal/amount"
	"github.com/paymentstream/ledger/internal/balance"
)

// ClientID identifies a client account. Immutable once assigned.
type ClientID uint16

// TxID identifies a transfer transaction. Unique across the whole input
// stream; this is assumed, not enforced, by the dispute protocol.
type TxID uint32

// DisputeStatus tracks the lifecycle of a transfer transaction's dispute.
type DisputeStatus uint8

const (
	// NotDisputed is the initial state, and the state a resolved dispute
	// returns to.
	NotDisputed DisputeStatus = iota
	// Disputed means a dispute is currently open against the transaction.
	Disputed
	// Resolved is terminal: a chargeback has consumed the funds. Distinct
	// from NotDisputed because a resolved dispute may never be reopened.
	Resolved
)

func (s DisputeStatus) String() string {
	switch s {
	case NotDisputed:
		return "not_disputed"
	case Disputed:
		return "disputed"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// TransferKind distinguishes the two kinds of transfer transaction.
type TransferKind uint8

const (
	Deposit TransferKind = iota
	Withdrawal
)

// DisputeKind distinguishes the three kinds of disputed-transaction event.
type DisputeKind uint8

const (
	DisputeOpen DisputeKind = iota
	Resolve
	Chargeback
)

// TransferTransaction is a deposit or withdrawal: it carries an amount and
// persists as an addressable row under its TxID.
type TransferTransaction struct {
	Kind    TransferKind
	Client  ClientID
	Tx      TxID
	Amount  amount.Amount
	Dispute DisputeStatus
}

// DisputedTransaction is a dispute/resolve/chargeback event referencing a
// prior TransferTransaction by TxID. It carries no amount of its own and
// is never itself persisted as an addressable row.
type DisputedTransaction struct {
	Kind   DisputeKind
	Client ClientID
	Tx     TxID
}

// Transaction is the tagged union consumed by the client state machine.
// Exactly one of Transfer/Disputed is meaningful, selected by IsTransfer.
type Transaction struct {
	IsTransfer bool
	Transfer   TransferTransaction
	Disputed   DisputedTransaction
}

// ClientOf returns the client ID this transaction is addressed to.
func (t Transaction) ClientOf() ClientID {
	if t.IsTransfer {
		return t.Transfer.Client
	}
	return t.Disputed.Client
}

// IDOf returns the transaction ID this transaction refers to: the ID it
// defines, for a transfer, or the ID it targets, for a dispute event.
func (t Transaction) IDOf() TxID {
	if t.IsTransfer {
		return t.Transfer.Tx
	}
	return t.Disputed.Tx
}

// NewDeposit constructs a deposit transaction.
func NewDeposit(client ClientID, tx TxID, amt amount.Amount) Transaction {
	return Transaction{IsTransfer: true, Transfer: TransferTransaction{
		Kind: Deposit, Client: client, Tx: tx, Amount: amt, Dispute: NotDisputed,
	}}
}

// NewWithdrawal constructs a withdrawal transaction.
func NewWithdrawal(client ClientID, tx TxID, amt amount.Amount) Transaction {
	return Transaction{IsTransfer: true, Transfer: TransferTransaction{
		Kind: Withdrawal, Client: client, Tx: tx, Amount: amt, Dispute: NotDisputed,
	}}
}

// NewDispute constructs a dispute event against tx.
func NewDispute(client ClientID, tx TxID) Transaction {
	return Transaction{Disputed: DisputedTransaction{Kind: DisputeOpen, Client: client, Tx: tx}}
}

// NewResolve constructs a resolve event against tx.
func NewResolve(client ClientID, tx TxID) Transaction {
	return Transaction{Disputed: DisputedTransaction{Kind: Resolve, Client: client, Tx: tx}}
}

// NewChargeback constructs a chargeback event against tx.
func NewChargeback(client ClientID, tx TxID) Transaction {
	return Transaction{Disputed: DisputedTransaction{Kind: Chargeback, Client: client, Tx: tx}}
}

// ClientState is the persisted state of one client: its balance and
// whether it has been frozen by a chargeback.
type ClientState struct {
	ID      ClientID
	Balance balance.Balance
	Frozen  bool
}

// NewClientState returns a fresh, unfrozen, zero-balance client.
func NewClientState(id ClientID) ClientState {
	return ClientState{ID: id}
}
