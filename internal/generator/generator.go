// Package generator produces a synthetic, internally-consistent stream of
// transactions for exercising the ledger end to end.
package generator

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/paymentstream/ledger/internal/amount"
	"github.com/paymentstream/ledger/internal/ledger"
	"github.com/paymentstream/ledger/internal/store"
	"github.com/paymentstream/ledger/internal/store/engine"
	"github.com/paymentstream/ledger/internal/txn"
)

// newClientProbability is the chance, on a transfer turn, of minting a new
// client rather than reusing an existing one.
const newClientProbability = 0.3

// disputeTurnProbability is the chance, on any turn after the first
// transfer has been recorded, of attempting a dispute-lifecycle event
// instead of a transfer.
const disputeTurnProbability = 0.1

// Generate produces n synthetic rows and writes them as CSV to w. Every
// row is first replayed against a throwaway in-memory ledger; a candidate
// that the state machine would reject (e.g. a dispute against a
// transaction already disputed) is discarded rather than emitted, so the
// written stream is itself internally consistent.
func Generate(n int, w io.Writer) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	facade := store.New(engine.NewMemEngine())

	actors := map[txn.ClientID]*ledger.ClientState{}
	var clientIDs []txn.ClientID

	var openTransfers []txn.TransferTransaction
	var disputedTransfers []txn.TransferTransaction

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "client", "tx", "amount"}); err != nil {
		return fmt.Errorf("generator: write header: %w", err)
	}

	var nextTx txn.TxID
	written := 0
	for written < n {
		var tx txn.Transaction
		var ok bool

		if len(openTransfers) > 0 && rng.Float64() < disputeTurnProbability {
			tx, ok = attemptDisputeEvent(rng, &openTransfers, &disputedTransfers)
		} else {
			client := pickClient(rng, &clientIDs, actors, facade)
			tx, ok = transferTransaction(rng, client, nextTx)
			if ok {
				nextTx++
			}
		}
		if !ok {
			continue
		}

		actor := actors[tx.ClientOf()]
		if err := actor.Apply(tx); err != nil {
			// The candidate turned out invalid against live state (e.g. a
			// stale pool entry); drop it and try another turn.
			continue
		}

		if tx.IsTransfer {
			openTransfers = append(openTransfers, tx.Transfer)
		} else {
			switch tx.Disputed.Kind {
			case txn.DisputeOpen:
				if tr, found := removeByTxID(&openTransfers, tx.Disputed.Tx); found {
					disputedTransfers = append(disputedTransfers, tr)
				}
			case txn.Resolve:
				if tr, found := removeByTxID(&disputedTransfers, tx.Disputed.Tx); found {
					openTransfers = append(openTransfers, tr)
				}
			case txn.Chargeback:
				removeByTxID(&disputedTransfers, tx.Disputed.Tx)
			}
		}

		if err := cw.Write(csvRecord(tx)); err != nil {
			return fmt.Errorf("generator: write row: %w", err)
		}
		written++
	}

	cw.Flush()
	return cw.Error()
}

func pickClient(rng *rand.Rand, ids *[]txn.ClientID, actors map[txn.ClientID]*ledger.ClientState, facade *store.ClientStore) txn.ClientID {
	if len(*ids) == 0 || rng.Float64() < newClientProbability {
		id := txn.ClientID(len(*ids))
		*ids = append(*ids, id)
		actors[id] = ledger.New(txn.NewClientState(id), facade)
		return id
	}
	return (*ids)[rng.Intn(len(*ids))]
}

func transferTransaction(rng *rand.Rand, client txn.ClientID, tx txn.TxID) (txn.Transaction, bool) {
	a := amount.New(rng.Int63n(10_000_000))
	if rng.Float64() < 0.5 {
		return txn.NewWithdrawal(client, tx, a), true
	}
	return txn.NewDeposit(client, tx, a), true
}

func attemptDisputeEvent(rng *rand.Rand, open, disputed *[]txn.TransferTransaction) (txn.Transaction, bool) {
	if len(*disputed) == 0 {
		tr := (*open)[rng.Intn(len(*open))]
		return txn.NewDispute(tr.Client, tr.Tx), true
	}

	switch rng.Intn(10) {
	case 0, 1, 2, 3, 4, 5:
		tr := (*open)[rng.Intn(len(*open))]
		return txn.NewDispute(tr.Client, tr.Tx), true
	case 6, 7, 8:
		tr := (*disputed)[rng.Intn(len(*disputed))]
		return txn.NewResolve(tr.Client, tr.Tx), true
	default:
		tr := (*disputed)[rng.Intn(len(*disputed))]
		return txn.NewChargeback(tr.Client, tr.Tx), true
	}
}

func removeByTxID(transfers *[]txn.TransferTransaction, id txn.TxID) (txn.TransferTransaction, bool) {
	for i, tr := range *transfers {
		if tr.Tx == id {
			*transfers = append((*transfers)[:i], (*transfers)[i+1:]...)
			return tr, true
		}
	}
	return txn.TransferTransaction{}, false
}

func csvRecord(tx txn.Transaction) []string {
	kind := kindName(tx)
	client := fmt.Sprintf("%d", tx.ClientOf())
	id := fmt.Sprintf("%d", tx.IDOf())
	if tx.IsTransfer {
		return []string{kind, client, id, tx.Transfer.Amount.String()}
	}
	return []string{kind, client, id, ""}
}

func kindName(tx txn.Transaction) string {
	if tx.IsTransfer {
		if tx.Transfer.Kind == txn.Withdrawal {
			return "withdrawal"
		}
		return "deposit"
	}
	switch tx.Disputed.Kind {
	case txn.Resolve:
		return "resolve"
	case txn.Chargeback:
		return "chargeback"
	default:
		return "dispute"
	}
}
