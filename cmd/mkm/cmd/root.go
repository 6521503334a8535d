// Package cmd provides the CLI commands for mkm.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/mkm/internal/logging"
)

type cli struct {
	verbose bool
	log     *zap.Logger
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	c := &cli{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "mkm",
		Short: "Sale price calculator for interstate shipments",
		Long: `mkm back-solves a sale price from cost, freight, ICMS, the fixed federal
taxes (PIS, COFINS, IRPJ, CSLL) and the chosen markup (MKM).

Examples:
  mkm price --cost 5.863,00 --dest SP --mkm 15
  mkm price --cost "R$ 1.200,00" --freight 80 --icms 7 --json
  mkm icms SP
  mkm icms`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initLogging()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.log.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(newPriceCmd(c))
	root.AddCommand(newICMSCmd(c))
	return root
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

func (c *cli) initLogging() error {
	if !c.verbose {
		return nil
	}

	cfg := logging.DefaultConfig()
	cfg.Level = "debug"
	logger, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		return err
	}
	c.log = logger
	return nil
}
