// Package report renders a priced quote as plain text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Simplici0/mkm/internal/brl"
	"github.com/Simplici0/mkm/internal/icms"
	"github.com/Simplici0/mkm/internal/pricing"
)

// Quote is everything a report shows.
type Quote struct {
	Title       string
	Notes       string
	Origin      icms.UF
	Destination icms.UF
	Inputs      pricing.Inputs
	Result      pricing.Result
}

// Write renders q to w.
func Write(w io.Writer, q Quote) error {
	var b strings.Builder

	if q.Title != "" {
		fmt.Fprintf(&b, "%s\n", q.Title)
	}
	fmt.Fprintf(&b, "Rota: %s → %s (ICMS sugerido %s)\n", q.Origin, q.Destination, brl.FormatRate(icms.Suggest(q.Destination)))
	b.WriteString("\nDados:\n")
	fmt.Fprintf(&b, "- Custo: %s\n", brl.Format(q.Inputs.Cost))
	fmt.Fprintf(&b, "- Frete: %s\n", brl.Format(q.Inputs.Freight))
	fmt.Fprintf(&b, "- ICMS: %s\n", brl.FormatRate(q.Inputs.ICMS))
	fmt.Fprintf(&b, "- MKM: %s\n", brl.FormatRate(q.Inputs.Markup))

	b.WriteString("\nResultado:\n")
	fmt.Fprintf(&b, "Preço de venda: %s\n", Amount(q.Result, q.Result.SalePrice))
	for _, item := range q.Result.Items(q.Inputs) {
		fmt.Fprintf(&b, "- %s (%s): %s\n", item.Label, brl.FormatRate(item.Rate), Amount(q.Result, item.Amount))
	}
	fmt.Fprintf(&b, "Total de impostos: %s\n", Amount(q.Result, q.Result.TotalTaxes))
	fmt.Fprintf(&b, "MKM (R$): %s\n", Amount(q.Result, q.Result.MarkupAmount))
	fmt.Fprintf(&b, "Lucro bruto aprox.: %s\n", Amount(q.Result, q.Result.GrossProfit))
	if !q.Result.Valid {
		b.WriteString("\nCálculo inválido: custo + frete deve ser maior que zero e a soma das alíquotas menor que 100%.\n")
	}

	fmt.Fprintf(&b, "\n%s\n", FixedRatesLine(q.Inputs.Fixed))
	if q.Notes != "" {
		fmt.Fprintf(&b, "\nObservações: %s\n", q.Notes)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FixedRatesLine renders "Impostos fixos: PIS 0,65% | COFINS 3% | ...".
func FixedRatesLine(f pricing.FixedRates) string {
	return fmt.Sprintf("Impostos fixos: PIS %s | COFINS %s | IRPJ %s | CSLL %s",
		brl.FormatRate(f.PIS), brl.FormatRate(f.COFINS), brl.FormatRate(f.IRPJ), brl.FormatRate(f.CSLL))
}

// Amount formats v, or the placeholder when r is invalid.
func Amount(r pricing.Result, v float64) string {
	if !r.Valid {
		return brl.Placeholder
	}
	return brl.Format(v)
}
