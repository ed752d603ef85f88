package ledger

import "github.com/paymentstream/ledger/internal/txn"

// Request is an asynchronous ask for an Actor to apply a transaction
// against the client it owns. Reply receives exactly one value once the
// transaction has been applied (or rejected).
type Request struct {
	Transaction txn.Transaction
	Reply       chan<- error
}

// Actor is a long-lived goroutine bound to one client's state. It drains
// its Mailbox in arrival order, applying each request's transaction
// through the embedded ClientState, so that a given client never has two
// transactions in flight against its balance at once.
type Actor struct {
	Mailbox chan Request

	state *ClientState
	done  chan struct{}
}

// NewActor starts an actor goroutine over state with the given mailbox
// capacity, and returns immediately; run is already running in the
// background.
func NewActor(state *ClientState, mailboxCapacity int) *Actor {
	a := &Actor{
		Mailbox: make(chan Request, mailboxCapacity),
		state:   state,
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Actor) run() {
	defer close(a.done)
	for req := range a.Mailbox {
		err := a.state.Apply(req.Transaction)
		req.Reply <- err
	}
}

// Close closes the mailbox; the actor finishes draining any requests
// already queued, then exits. Close does not wait for that drain — use
// Wait if the caller needs to block until the actor has fully stopped.
func (a *Actor) Close() {
	close(a.Mailbox)
}

// Wait blocks until the actor's goroutine has returned, i.e. until its
// mailbox has been closed and fully drained.
func (a *Actor) Wait() {
	<-a.done
}
