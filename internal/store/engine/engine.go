// Package engine defines the two-keyspace byte-oriented key/value
// contract that backs the ledger's store, plus the in-memory and on-disk
// implementations of it.
package engine

// Keyspace names a logical namespace within the store. The engine does
// not interpret keys beyond their keyspace; typed meaning is layered on
// top by the client store facade.
type Keyspace string

const (
	// Clients holds one row per ClientState, keyed by ClientID.
	Clients Keyspace = "clients"
	// Transactions holds one row per TransferTransaction, keyed by TxID.
	Transactions Keyspace = "transactions"
)

// Error is a sentinel error kind for engine-level failures, following
// this codebase's const-error idiom for small immutable error values.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrRead is returned when the underlying backend fails to read.
	ErrRead Error = "store: read failed"
	// ErrWrite is returned when the underlying backend fails to write.
	ErrWrite Error = "store: write failed"
	// ErrKeyspaceNotFound is returned when an operation names an unknown
	// keyspace. Both shipped engines accept Clients and Transactions from
	// the start (MemEngine pre-creates them, DiskEngine maps each to a
	// fixed key prefix), so this only fires if a caller passes a third value.
	ErrKeyspaceNotFound Error = "store: keyspace not found"
)

// Engine is the byte-level contract both the in-memory and on-disk stores
// satisfy. It is the only abstraction the rest of the ledger depends on:
// nothing upstream of this package may depend on backend-specific
// behavior beyond what Get/Put/ForEach promise.
type Engine interface {
	// Get looks up key in keyspace. ok is false if the key is absent; it
	// is not an error for a key to be absent.
	Get(ks Keyspace, key []byte) (value []byte, ok bool, err error)
	// Put upserts key/value in keyspace.
	Put(ks Keyspace, key, value []byte) error
	// ForEach calls fn for every key/value pair in keyspace, stopping
	// early if fn returns false. Iteration order is backend-dependent and
	// callers must not depend on it (used only by the report writer).
	ForEach(ks Keyspace, fn func(key, value []byte) bool) error
	// Close releases any resources held by the engine (file handles,
	// etc). MemEngine's Close is a no-op.
	Close() error
}
