package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Run using
//  go run ./cmd/ledger <command> <flags>

func main() {
	app := &cli.App{
		Name:  "ledger",
		Usage: "a toy payments ledger processing deposits, withdrawals and disputes",
		Commands: []*cli.Command{
			&Run,
			&Generate,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
