package parser

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paymentstream/ledger/internal/amount"
	"github.com/paymentstream/ledger/internal/store"
	"github.com/paymentstream/ledger/internal/store/engine"
	"github.com/paymentstream/ledger/internal/txn"
)

func writeFixture(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write fixture: %s", err)
	}
	return path
}

func readAll(t *testing.T, path string) []txn.Transaction {
	t.Helper()
	out := make(chan txn.Transaction, 64)
	errCh := make(chan error, 1)
	go func() {
		errCh <- ReadTransactions(context.Background(), path, out)
		close(out)
	}()

	var got []txn.Transaction
	for tx := range out {
		got = append(got, tx)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("ReadTransactions: %s", err)
	}
	return got
}

func TestReadTransactionsParsesEveryRowType(t *testing.T) {
	path := writeFixture(t, strings.Join([]string{
		"type, client, tx, amount",
		"deposit, 1, 1, 100.0000",
		"withdrawal, 1, 2, 40.0000",
		"dispute, 1, 1,",
		"resolve, 1, 1,",
		"chargeback, 1, 1,",
	}, "\n")+"\n")

	got := readAll(t, path)
	want := []txn.Transaction{
		txn.NewDeposit(1, 1, amount.New(1000000)),
		txn.NewWithdrawal(1, 2, amount.New(400000)),
		txn.NewDispute(1, 1),
		txn.NewResolve(1, 1),
		txn.NewChargeback(1, 1),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadTransactionsRejectsDisputeWithAmount(t *testing.T) {
	path := writeFixture(t, "type, client, tx, amount\ndispute, 1, 1, 5.0000\n")

	out := make(chan txn.Transaction, 8)
	err := ReadTransactions(context.Background(), path, out)
	if err == nil {
		t.Fatalf("expected a parse error, got nil")
	}
}

func TestReadTransactionsRejectsDepositWithoutAmount(t *testing.T) {
	path := writeFixture(t, "type, client, tx, amount\ndeposit, 1, 1,\n")

	out := make(chan txn.Transaction, 8)
	err := ReadTransactions(context.Background(), path, out)
	if err == nil {
		t.Fatalf("expected a parse error, got nil")
	}
}

func TestReadTransactionsRejectsUnknownType(t *testing.T) {
	path := writeFixture(t, "type, client, tx, amount\nteleport, 1, 1,\n")

	out := make(chan txn.Transaction, 8)
	err := ReadTransactions(context.Background(), path, out)
	if err == nil {
		t.Fatalf("expected a parse error, got nil")
	}
}

func TestReadTransactionsAbortsOnFirstMalformedRow(t *testing.T) {
	path := writeFixture(t, strings.Join([]string{
		"type, client, tx, amount",
		"deposit, 1, 1, 100.0000",
		"teleport, 1, 2,",
		"deposit, 1, 3, 50.0000",
	}, "\n")+"\n")

	out := make(chan txn.Transaction, 8)
	done := make(chan error, 1)
	go func() {
		done <- ReadTransactions(context.Background(), path, out)
		close(out)
	}()

	var got []txn.Transaction
	for tx := range out {
		got = append(got, tx)
	}
	if err := <-done; err == nil {
		t.Fatalf("expected an error, got nil")
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows before the malformed one, want exactly 1", len(got))
	}
}

func TestWriteReportFormatsFourDecimalPlaces(t *testing.T) {
	s := store.New(engine.NewMemEngine())

	cs := txn.NewClientState(1)
	cs.Balance.Available = amount.New(1234)
	if err := s.PutClientState(cs); err != nil {
		t.Fatalf("PutClientState: %s", err)
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, s); err != nil {
		t.Fatalf("WriteReport: %s", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "client, available, held, total, locked\n") {
		t.Fatalf("missing expected header, got %q", out)
	}
	if !strings.Contains(out, "1, 0.1234, 0.0000, 0.1234, false") {
		t.Fatalf("missing expected client row, got %q", out)
	}
}
