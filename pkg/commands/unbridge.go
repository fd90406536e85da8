package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/podbridge-dev/podbridge/pkg/interact"
)

// Unbridge returns the CLI command that tears down one or all bridges.
func Unbridge() *cli.Command {
	return &cli.Command{
		Name:      "unbridge",
		Usage:     "Remove a bridge, or all bridges with --all",
		ArgsUsage: "[NAME]",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"A"},
				Usage:   "Remove every bridge intent",
			},
		}, clusterFlags()...),
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "name",
				UsageText: "Name of the bridge to remove",
				Config:    cli.StringConfig{TrimSpace: true},
			},
		},
		Action: runUnbridge,
	}
}

func runUnbridge(ctx context.Context, c *cli.Command) error {
	name := c.StringArg("name")
	all := c.Bool("all")
	if all == (name != "") {
		return fmt.Errorf("specify either a bridge NAME or --all")
	}

	op, err := newOperator(c)
	if err != nil {
		return err
	}

	if all {
		err = interact.RunWithSpinner(ctx, "Removing all bridges...", func(ctx context.Context, _ func(string)) error {
			return op.UnbridgeAll(ctx)
		})
		if err != nil {
			return err
		}
		op.Printer.Success("All bridges removed")
		return nil
	}

	err = interact.RunWithSpinner(ctx, fmt.Sprintf("Removing bridge %s...", name), func(ctx context.Context, _ func(string)) error {
		return op.Unbridge(ctx, name)
	})
	if err != nil {
		return err
	}
	op.Printer.Success(fmt.Sprintf("Bridge %s removed", name))
	return nil
}
