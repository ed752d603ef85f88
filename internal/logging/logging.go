// Package logging provides one prefixed *log.Logger per component, the
// same convention this codebase's diagnostics already follow elsewhere
// (log.Printf with a fixed prefix rather than a structured logging
// framework).
package logging

import (
	"io"
	"log"
	"os"
)

var output io.Writer = os.Stderr

// Dispatcher logs dispatcher-level routing and classification decisions.
var Dispatcher = log.New(output, "dispatcher: ", log.LstdFlags)

// Actor logs per-client actor lifecycle events, such as eviction.
var Actor = log.New(output, "actor: ", log.LstdFlags)

// Store logs store-engine diagnostics.
var Store = log.New(output, "store: ", log.LstdFlags)

// SetOutput redirects every component logger to w, to send logs somewhere
// other than stderr.
func SetOutput(w io.Writer) {
	output = w
	Dispatcher.SetOutput(w)
	Actor.SetOutput(w)
	Store.SetOutput(w)
}
