package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/paymentstream/ledger/internal/dispatcher"
	"github.com/paymentstream/ledger/internal/parser"
	"github.com/paymentstream/ledger/internal/store"
	"github.com/paymentstream/ledger/internal/store/engine"
	"github.com/paymentstream/ledger/internal/txn"
)

var storeDirFlag = cli.StringFlag{
	Name:  "store-dir",
	Usage: "directory for the on-disk client/transaction store",
	Value: "./store",
}

var Run = cli.Command{
	Action:    run,
	Name:      "run",
	Usage:     "process a CSV transaction stream and print the resulting account report",
	ArgsUsage: "<input.csv>",
	Flags: []cli.Flag{
		&storeDirFlag,
	},
}

func run(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("missing input csv path")
	}
	inputPath := c.Args().Get(0)
	storeDir := c.String(storeDirFlag.Name)

	eng, err := engine.OpenDiskEngine(storeDir)
	if err != nil {
		return fmt.Errorf("open store at %s: %w", storeDir, err)
	}
	facade := store.New(eng)

	d, err := dispatcher.New(facade, 0)
	if err != nil {
		facade.Close()
		return err
	}

	in := make(chan txn.Transaction, 256)
	readErr := make(chan error, 1)
	go func() {
		readErr <- parser.ReadTransactions(context.Background(), inputPath, in)
		close(in)
	}()

	runErr := d.Run(in)
	if err := <-readErr; err != nil && runErr == nil {
		runErr = err
	}
	d.Shutdown()
	defer facade.Close()

	if runErr != nil {
		return runErr
	}
	return parser.WriteReport(os.Stdout, facade)
}
