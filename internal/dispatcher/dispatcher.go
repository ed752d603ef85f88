// Package dispatcher routes a stream of transactions to per-client actors,
// keeping only a bounded LRU of live actors in memory and rehydrating a
// client's state from the store facade whenever it falls out of cache.
package dispatcher

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/paymentstream/ledger/internal/ledger"
	"github.com/paymentstream/ledger/internal/logging"
	"github.com/paymentstream/ledger/internal/store"
	"github.com/paymentstream/ledger/internal/txn"
)

// DefaultCapacity is the number of live actors the dispatcher keeps
// resident before evicting the least recently used one.
const DefaultCapacity = 2048

// Dispatcher reads Transactions from an input channel and routes each to
// the actor for its client, rehydrating or creating actors on demand and
// evicting the least recently used ones once the cache is full.
type Dispatcher struct {
	store    *store.ClientStore
	capacity int
	actors   *lru.Cache // txn.ClientID -> *ledger.Actor
}

// New constructs a Dispatcher over s with the given actor LRU capacity.
// A capacity of 0 uses DefaultCapacity.
func New(s *store.ClientStore, capacity int) (*Dispatcher, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	d := &Dispatcher{store: s, capacity: capacity}

	cache, err := lru.NewWithEvict(capacity, d.onEvict)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: create actor cache: %w", err)
	}
	d.actors = cache
	return d, nil
}

// onEvict closes the evicted actor's mailbox. The actor itself finishes
// draining whatever is already queued and then exits on its own; eviction
// never blocks waiting for that, since every mutation the actor could
// still be holding in its mailbox has already been accepted by the caller
// and will simply be replied to as the actor catches up.
func (d *Dispatcher) onEvict(key, value interface{}) {
	actor := value.(*ledger.Actor)
	actor.Close()
	logging.Actor.Printf("evicted client=%v, mailbox closing", key)
}

// Run drains in from the caller until it is closed, applying each
// transaction through its client's actor and returning once every queued
// transaction has been applied. It returns the first fatal (store) error
// encountered, if any; non-fatal per-transaction errors are logged and the
// stream continues.
func (d *Dispatcher) Run(in <-chan txn.Transaction) error {
	for tx := range in {
		if err := d.dispatch(tx); err != nil {
			var storeErr *ledger.StoreError
			if errors.As(err, &storeErr) {
				logging.Dispatcher.Printf("fatal store error applying tx=%d client=%d: %s", tx.IDOf(), tx.ClientOf(), err)
				return err
			}
			logging.Dispatcher.Printf("rejected tx=%d client=%d: %s", tx.IDOf(), tx.ClientOf(), err)
		}
	}
	return nil
}

func (d *Dispatcher) dispatch(tx txn.Transaction) error {
	actor, err := d.actorFor(tx.ClientOf())
	if err != nil {
		return err
	}

	reply := make(chan error, 1)
	actor.Mailbox <- ledger.Request{Transaction: tx, Reply: reply}
	return <-reply
}

func (d *Dispatcher) actorFor(id txn.ClientID) (*ledger.Actor, error) {
	if cached, ok := d.actors.Get(id); ok {
		return cached.(*ledger.Actor), nil
	}

	state, found, err := d.store.GetClientState(id)
	if err != nil {
		return nil, &ledger.StoreError{Cause: err}
	}
	if !found {
		state = txn.NewClientState(id)
	}

	actor := ledger.NewActor(ledger.New(state, d.store), 64)
	d.actors.Add(id, actor)
	return actor, nil
}

// Shutdown evicts every remaining actor, closing their mailboxes, without
// touching the store. Intended for use once Run has returned and before
// the caller reads a final report from the same store.
func (d *Dispatcher) Shutdown() {
	for _, key := range d.actors.Keys() {
		d.actors.Remove(key)
	}
}

// Close calls Shutdown and then closes the underlying store. Use this
// instead of Shutdown when nothing further needs the store.
func (d *Dispatcher) Close() error {
	d.Shutdown()
	return d.store.Close()
}
