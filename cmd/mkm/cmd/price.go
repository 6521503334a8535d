// Package cmd - price command
package cmd

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/mkm/internal/brl"
	"github.com/Simplici0/mkm/internal/icms"
	"github.com/Simplici0/mkm/internal/pricing"
	"github.com/Simplici0/mkm/internal/report"
)

type priceOptions struct {
	cost    string
	freight string
	icms    string
	mkm     float64
	origin  string
	dest    string
	title   string
	asJSON  bool
}

type priceOutput struct {
	Valid         bool           `json:"valid"`
	Origin        icms.UF        `json:"origin"`
	Destination   icms.UF        `json:"destination"`
	SuggestedICMS float64        `json:"suggested_icms"`
	Cost          float64        `json:"cost"`
	Freight       float64        `json:"freight"`
	ICMS          float64        `json:"icms"`
	MKM           float64        `json:"mkm"`
	TotalPercent  float64        `json:"total_percent"`
	SalePrice     *float64       `json:"sale_price"`
	Items         []pricing.Item `json:"items,omitempty"`
	TotalTaxes    *float64       `json:"total_taxes"`
	MarkupAmount  *float64       `json:"mkm_amount"`
	GrossProfit   *float64       `json:"gross_profit"`
	Formatted     string         `json:"formatted_sale_price"`
}

func newPriceCmd(c *cli) *cobra.Command {
	opts := &priceOptions{}

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Compute the sale price for a shipment",
		Long: `Compute the sale price and the tax breakdown for a shipment.

Amounts accept pt-BR text ("5.863,00", "R$ 1.234,56"). When --icms is
omitted the rate suggested for the destination state is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPrice(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.cost, "cost", "", "product cost (pt-BR number)")
	cmd.Flags().StringVar(&opts.freight, "freight", "0", "freight (pt-BR number)")
	cmd.Flags().StringVar(&opts.icms, "icms", "", "ICMS rate in percent (default: suggestion for --dest)")
	cmd.Flags().Float64Var(&opts.mkm, "mkm", pricing.DefaultMarkup, "markup in percent (10, 15, 20 or 30)")
	cmd.Flags().StringVar(&opts.origin, "origin", string(icms.DefaultOrigin), "origin state")
	cmd.Flags().StringVar(&opts.dest, "dest", string(icms.DefaultOrigin), "destination state")
	cmd.Flags().StringVar(&opts.title, "title", "", "title printed above the report")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")
	_ = cmd.MarkFlagRequired("cost")

	return cmd
}

func (c *cli) runPrice(cmd *cobra.Command, opts *priceOptions) error {
	origin, ok := icms.Parse(opts.origin)
	if !ok {
		return fmt.Errorf("unknown origin state: %q", opts.origin)
	}
	dest, ok := icms.Parse(opts.dest)
	if !ok {
		return fmt.Errorf("unknown destination state: %q", opts.dest)
	}
	if !pricing.IsMarkupOption(opts.mkm) {
		return fmt.Errorf("mkm must be one of 10, 15, 20, 30: got %v", opts.mkm)
	}

	suggested := icms.Suggest(dest)
	rate := suggested
	if cmd.Flags().Changed("icms") {
		rate = brl.Parse(opts.icms)
	}

	in := pricing.Inputs{
		Cost:    brl.Parse(opts.cost),
		Freight: brl.Parse(opts.freight),
		ICMS:    rate,
		Fixed:   pricing.DefaultFixedRates,
		Markup:  opts.mkm,
	}
	result := pricing.Compute(in)

	c.log.Debug("priced",
		zap.String("dest", string(dest)),
		zap.Float64("base", result.Base),
		zap.Float64("total_percent", result.TotalPercent),
		zap.Bool("valid", result.Valid),
	)

	if opts.asJSON {
		out := priceOutput{
			Valid:         result.Valid,
			Origin:        origin,
			Destination:   dest,
			SuggestedICMS: suggested,
			Cost:          in.Cost,
			Freight:       in.Freight,
			ICMS:          in.ICMS,
			MKM:           in.Markup,
			TotalPercent:  finiteOrZero(result.TotalPercent),
			Formatted:     report.Amount(result, result.SalePrice),
		}
		if result.Valid {
			out.SalePrice = &result.SalePrice
			out.Items = result.Items(in)
			out.TotalTaxes = &result.TotalTaxes
			out.MarkupAmount = &result.MarkupAmount
			out.GrossProfit = &result.GrossProfit
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	return report.Write(cmd.OutOrStdout(), report.Quote{
		Title:       opts.title,
		Origin:      origin,
		Destination: dest,
		Inputs:      in,
		Result:      result,
	})
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
