package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/paymentstream/ledger/internal/generator"
)

var outFlag = cli.StringFlag{
	Name:  "out",
	Usage: "destination file for the generated CSV",
	Value: "generated.csv",
}

var Generate = cli.Command{
	Action:    generate,
	Name:      "generate",
	Usage:     "produce a synthetic, internally-consistent transaction stream",
	ArgsUsage: "<count>",
	Flags: []cli.Flag{
		&outFlag,
	},
}

func generate(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("missing row count")
	}
	var count int
	if _, err := fmt.Sscanf(c.Args().Get(0), "%d", &count); err != nil {
		return fmt.Errorf("invalid row count %q: %w", c.Args().Get(0), err)
	}

	out := c.String(outFlag.Name)
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	return generator.Generate(count, f)
}
