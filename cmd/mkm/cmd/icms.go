// Package cmd - icms command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/mkm/internal/brl"
	"github.com/Simplici0/mkm/internal/icms"
)

func newICMSCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "icms [UF]",
		Short: "Show the suggested interstate ICMS rate",
		Long: `With a state code, print the suggested ICMS rate for shipments to it.
Without arguments, print the quick-reference table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintf(out, "ICMS interestadual (origem %s)\n", icms.DefaultOrigin)
				fmt.Fprintf(out, "%s: %s\n", brl.FormatRate(icms.ReducedRate), icms.Join(icms.Reduced()))
				fmt.Fprintf(out, "%s: %s\n", brl.FormatRate(icms.StandardRate), icms.Join(icms.Standard()))
				fmt.Fprintf(out, "%s: %s\n", brl.FormatRate(icms.ImportedGoodsRate), icms.ImportedGoodsNote)
				return nil
			}

			uf, ok := icms.Parse(args[0])
			if !ok {
				return fmt.Errorf("unknown state: %q", args[0])
			}
			rate := icms.Suggest(uf)
			c.log.Debug("icms suggestion", zap.String("uf", string(uf)), zap.Float64("rate", rate))
			fmt.Fprintf(out, "%s: %s\n", uf, brl.FormatRate(rate))
			return nil
		},
	}
}
