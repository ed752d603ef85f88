package generator

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paymentstream/ledger/internal/ledger"
	"github.com/paymentstream/ledger/internal/parser"
	"github.com/paymentstream/ledger/internal/store"
	"github.com/paymentstream/ledger/internal/store/engine"
	"github.com/paymentstream/ledger/internal/txn"
)

func TestGenerateProducesTheRequestedRowCount(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(200, &buf); err != nil {
		t.Fatalf("Generate: %s", err)
	}

	lines := bufio.NewScanner(&buf)
	lineCount := 0
	for lines.Scan() {
		lineCount++
	}
	// header + 200 rows
	if lineCount != 201 {
		t.Fatalf("got %d lines, want 201", lineCount)
	}
}

func TestGeneratedStreamReplaysWithoutDisputeErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(500, &buf); err != nil {
		t.Fatalf("Generate: %s", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "generated.csv")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write fixture: %s", err)
	}

	facade := store.New(engine.NewMemEngine())
	in := make(chan txn.Transaction, 64)
	readErr := make(chan error, 1)
	go func() {
		readErr <- parser.ReadTransactions(context.Background(), path, in)
		close(in)
	}()

	actors := map[txn.ClientID]*ledger.ClientState{}
	for tx := range in {
		c, ok := actors[tx.ClientOf()]
		if !ok {
			state, found, err := facade.GetClientState(tx.ClientOf())
			if err != nil {
				t.Fatalf("GetClientState: %s", err)
			}
			if !found {
				state = txn.NewClientState(tx.ClientOf())
			}
			c = ledger.New(state, facade)
			actors[tx.ClientOf()] = c
		}

		if err := c.Apply(tx); err != nil {
			var de *ledger.DisputeError
			if errors.As(err, &de) {
				t.Fatalf("generated stream produced an invalid dispute: %s", err)
			}
			if errors.Is(err, ledger.ErrTransactionNotFound) {
				t.Fatalf("generated stream referenced an unknown transaction: %s", err)
			}
		}
	}
	if err := <-readErr; err != nil {
		t.Fatalf("ReadTransactions: %s", err)
	}
}
