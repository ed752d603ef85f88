// Package parser implements the CSV record format: reading an input
// stream of deposit/withdrawal/dispute/resolve/chargeback rows into
// Transactions, and writing the final per-client report.
package parser

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paymentstream/ledger/internal/amount"
	"github.com/paymentstream/ledger/internal/store"
	"github.com/paymentstream/ledger/internal/txn"
)

// wantHeader is the fixed header row every input CSV must start with.
var wantHeader = []string{"type", "client", "tx", "amount"}

// csvRow is the intermediary shape a row parses to before it is converted
// to a txn.Transaction; the amount column is optional at this layer since
// its presence (or absence) is itself part of what's validated.
type csvRow struct {
	kind   string
	client txn.ClientID
	tx     txn.TxID
	amount *amount.Amount
}

// ReadTransactions opens path, validates its header, and streams each
// row's parsed Transaction on out until EOF or the first malformed row,
// whichever comes first — a parse error aborts the read rather than
// skipping the bad row, since a single corrupt line makes the shape of
// the rest of the file suspect.
func ReadTransactions(ctx context.Context, path string, out chan<- txn.Transaction) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("parser: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = len(wantHeader)

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("parser: read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return err
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parser: read row: %w", err)
		}

		row, err := parseRow(record)
		if err != nil {
			return err
		}
		tx, err := row.toTransaction()
		if err != nil {
			return err
		}

		select {
		case out <- tx:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func checkHeader(got []string) error {
	if len(got) != len(wantHeader) {
		return fmt.Errorf("parser: header has %d columns, want %d", len(got), len(wantHeader))
	}
	for i, col := range got {
		if strings.TrimSpace(strings.ToLower(col)) != wantHeader[i] {
			return fmt.Errorf("parser: header column %d is %q, want %q", i, col, wantHeader[i])
		}
	}
	return nil
}

func parseRow(record []string) (csvRow, error) {
	var row csvRow
	row.kind = strings.ToLower(strings.TrimSpace(record[0]))

	client, err := parseUint16(record[1])
	if err != nil {
		return csvRow{}, fmt.Errorf("parser: client column %q: %w", record[1], err)
	}
	row.client = txn.ClientID(client)

	tx, err := parseUint32(record[2])
	if err != nil {
		return csvRow{}, fmt.Errorf("parser: tx column %q: %w", record[2], err)
	}
	row.tx = txn.TxID(tx)

	if text := strings.TrimSpace(record[3]); text != "" {
		a, err := amount.ParseAmount(text)
		if err != nil {
			return csvRow{}, fmt.Errorf("parser: amount column %q: %w", record[3], err)
		}
		row.amount = &a
	}

	return row, nil
}

func (row csvRow) toTransaction() (txn.Transaction, error) {
	switch row.kind {
	case "deposit":
		a, err := requireAmount(row)
		if err != nil {
			return txn.Transaction{}, err
		}
		return txn.NewDeposit(row.client, row.tx, a), nil
	case "withdrawal":
		a, err := requireAmount(row)
		if err != nil {
			return txn.Transaction{}, err
		}
		return txn.NewWithdrawal(row.client, row.tx, a), nil
	case "dispute":
		if err := forbidAmount(row); err != nil {
			return txn.Transaction{}, err
		}
		return txn.NewDispute(row.client, row.tx), nil
	case "resolve":
		if err := forbidAmount(row); err != nil {
			return txn.Transaction{}, err
		}
		return txn.NewResolve(row.client, row.tx), nil
	case "chargeback":
		if err := forbidAmount(row); err != nil {
			return txn.Transaction{}, err
		}
		return txn.NewChargeback(row.client, row.tx), nil
	default:
		return txn.Transaction{}, fmt.Errorf("parser: unknown transaction type %q", row.kind)
	}
}

func requireAmount(row csvRow) (amount.Amount, error) {
	if row.amount == nil {
		return amount.Zero, fmt.Errorf("parser: %s tx=%d: expected an amount", row.kind, row.tx)
	}
	return *row.amount, nil
}

func forbidAmount(row csvRow) error {
	if row.amount != nil {
		return fmt.Errorf("parser: %s tx=%d: expected no amount", row.kind, row.tx)
	}
	return nil
}

func parseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// WriteReport prints the header row followed by one line per client in
// facade's clients keyspace, in whatever order ForEachClient yields.
func WriteReport(w io.Writer, facade *store.ClientStore) error {
	if _, err := fmt.Fprintln(w, "client, available, held, total, locked"); err != nil {
		return err
	}

	var writeErr error
	err := facade.ForEachClient(func(state txn.ClientState) bool {
		_, writeErr = fmt.Fprintf(w, "%d, %s, %s, %s, %t\n",
			state.ID, state.Balance.Available, state.Balance.Held, state.Balance.Total(), state.Frozen)
		return writeErr == nil
	})
	if writeErr != nil {
		return fmt.Errorf("parser: write report row: %w", writeErr)
	}
	if err != nil {
		return fmt.Errorf("parser: write report: %w", err)
	}
	return nil
}
