// Package codec implements the binary encoding of keys and records used
// by the store engine: fixed-width big-endian keys for ClientID/TxID, and
// tag-prefixed variable-length encodings for Transaction and ClientState.
//
// Serialization is deterministic and round-trips: DecodeX(EncodeX(v))
// equals v for every value this package can produce.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/paymentstream/ledger/internal/amount"
	"github.com/paymentstream/ledger/internal/balance"
	"github.com/paymentstream/ledger/internal/txn"
)

// Error distinguishes a serialize failure from a deserialize failure, per
// the store's error taxonomy; both wrap the underlying cause.
type Error struct {
	Serializing bool
	Cause       error
}

func (e *Error) Error() string {
	if e.Serializing {
		return fmt.Sprintf("codec: serialize: %s", e.Cause)
	}
	return fmt.Sprintf("codec: deserialize: %s", e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func serializeErr(cause error) error { return &Error{Serializing: true, Cause: cause} }
func deserializeErr(cause error) error { return &Error{Serializing: false, Cause: cause} }

// EncodeClientID produces the fixed 2-byte big-endian key for a ClientID.
func EncodeClientID(id txn.ClientID) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(id))
	return buf
}

// DecodeClientID parses a 2-byte big-endian ClientID key.
func DecodeClientID(b []byte) (txn.ClientID, error) {
	if len(b) != 2 {
		return 0, deserializeErr(fmt.Errorf("client id key: want 2 bytes, got %d", len(b)))
	}
	return txn.ClientID(binary.BigEndian.Uint16(b)), nil
}

// EncodeTxID produces the fixed 4-byte big-endian key for a TxID.
func EncodeTxID(id txn.TxID) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(id))
	return buf
}

// DecodeTxID parses a 4-byte big-endian TxID key.
func DecodeTxID(b []byte) (txn.TxID, error) {
	if len(b) != 4 {
		return 0, deserializeErr(fmt.Errorf("tx id key: want 4 bytes, got %d", len(b)))
	}
	return txn.TxID(binary.BigEndian.Uint32(b)), nil
}

// Transaction value tags. Each selects one of the five concrete shapes a
// Transaction can take on the wire.
const (
	tagDeposit byte = iota
	tagWithdrawal
	tagDisputeOpen
	tagResolve
	tagChargeback
)

// EncodeTransaction serializes a Transaction to its wire form.
func EncodeTransaction(t txn.Transaction) ([]byte, error) {
	var buf bytes.Buffer

	if t.IsTransfer {
		tr := t.Transfer
		tag := tagDeposit
		if tr.Kind == txn.Withdrawal {
			tag = tagWithdrawal
		}
		buf.WriteByte(byte(tag))
		if err := binary.Write(&buf, binary.BigEndian, uint16(tr.Client)); err != nil {
			return nil, serializeErr(err)
		}
		if err := binary.Write(&buf, binary.BigEndian, uint32(tr.Tx)); err != nil {
			return nil, serializeErr(err)
		}
		if err := binary.Write(&buf, binary.BigEndian, tr.Amount.Scaled()); err != nil {
			return nil, serializeErr(err)
		}
		buf.WriteByte(byte(tr.Dispute))
		return buf.Bytes(), nil
	}

	d := t.Disputed
	var tag byte
	switch d.Kind {
	case txn.DisputeOpen:
		tag = tagDisputeOpen
	case txn.Resolve:
		tag = tagResolve
	case txn.Chargeback:
		tag = tagChargeback
	default:
		return nil, serializeErr(fmt.Errorf("unknown dispute kind %d", d.Kind))
	}
	buf.WriteByte(tag)
	if err := binary.Write(&buf, binary.BigEndian, uint16(d.Client)); err != nil {
		return nil, serializeErr(err)
	}
	if err := binary.Write(&buf, binary.BigEndian, uint32(d.Tx)); err != nil {
		return nil, serializeErr(err)
	}
	return buf.Bytes(), nil
}

// DecodeTransaction parses the wire form produced by EncodeTransaction.
func DecodeTransaction(data []byte) (txn.Transaction, error) {
	if len(data) < 1 {
		return txn.Transaction{}, deserializeErr(fmt.Errorf("transaction: empty payload"))
	}
	r := bytes.NewReader(data[1:])
	tag := data[0]

	switch tag {
	case tagDeposit, tagWithdrawal:
		var client uint16
		var tx uint32
		var scaled int64
		var dispute byte
		if err := binary.Read(r, binary.BigEndian, &client); err != nil {
			return txn.Transaction{}, deserializeErr(err)
		}
		if err := binary.Read(r, binary.BigEndian, &tx); err != nil {
			return txn.Transaction{}, deserializeErr(err)
		}
		if err := binary.Read(r, binary.BigEndian, &scaled); err != nil {
			return txn.Transaction{}, deserializeErr(err)
		}
		if err := binary.Read(r, binary.BigEndian, &dispute); err != nil {
			return txn.Transaction{}, deserializeErr(err)
		}
		kind := txn.Deposit
		if tag == tagWithdrawal {
			kind = txn.Withdrawal
		}
		return txn.Transaction{IsTransfer: true, Transfer: txn.TransferTransaction{
			Kind:    kind,
			Client:  txn.ClientID(client),
			Tx:      txn.TxID(tx),
			Amount:  amount.FromScaled(scaled),
			Dispute: txn.DisputeStatus(dispute),
		}}, nil
	case tagDisputeOpen, tagResolve, tagChargeback:
		var client uint16
		var tx uint32
		if err := binary.Read(r, binary.BigEndian, &client); err != nil {
			return txn.Transaction{}, deserializeErr(err)
		}
		if err := binary.Read(r, binary.BigEndian, &tx); err != nil {
			return txn.Transaction{}, deserializeErr(err)
		}
		var kind txn.DisputeKind
		switch tag {
		case tagDisputeOpen:
			kind = txn.DisputeOpen
		case tagResolve:
			kind = txn.Resolve
		case tagChargeback:
			kind = txn.Chargeback
		}
		return txn.Transaction{Disputed: txn.DisputedTransaction{
			Kind: kind, Client: txn.ClientID(client), Tx: txn.TxID(tx),
		}}, nil
	default:
		return txn.Transaction{}, deserializeErr(fmt.Errorf("transaction: unknown tag %d", tag))
	}
}

// EncodeClientState serializes a ClientState to its wire form.
func EncodeClientState(s txn.ClientState) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, uint16(s.ID)); err != nil {
		return nil, serializeErr(err)
	}
	if err := binary.Write(&buf, binary.BigEndian, s.Balance.Available.Scaled()); err != nil {
		return nil, serializeErr(err)
	}
	if err := binary.Write(&buf, binary.BigEndian, s.Balance.Held.Scaled()); err != nil {
		return nil, serializeErr(err)
	}
	frozen := byte(0)
	if s.Frozen {
		frozen = 1
	}
	buf.WriteByte(frozen)
	return buf.Bytes(), nil
}

// DecodeClientState parses the wire form produced by EncodeClientState.
func DecodeClientState(data []byte) (txn.ClientState, error) {
	r := bytes.NewReader(data)
	var id uint16
	var available, held int64
	var frozen byte

	if err := binary.Read(r, binary.BigEndian, &id); err != nil {
		return txn.ClientState{}, deserializeErr(err)
	}
	if err := binary.Read(r, binary.BigEndian, &available); err != nil {
		return txn.ClientState{}, deserializeErr(err)
	}
	if err := binary.Read(r, binary.BigEndian, &held); err != nil {
		return txn.ClientState{}, deserializeErr(err)
	}
	if err := binary.Read(r, binary.BigEndian, &frozen); err != nil {
		return txn.ClientState{}, deserializeErr(err)
	}

	return txn.ClientState{
		ID: txn.ClientID(id),
		Balance: balance.Balance{
			Available: amount.FromScaled(available),
			Held:      amount.FromScaled(held),
		},
		Frozen: frozen != 0,
	}, nil
}
