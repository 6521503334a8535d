package pricing

import "math"

// FixedRates holds the federal taxes charged on every sale, in percent.
type FixedRates struct {
	PIS    float64
	COFINS float64
	IRPJ   float64
	CSLL   float64
}

// DefaultFixedRates are the presumed-profit federal rates.
var DefaultFixedRates = FixedRates{
	PIS:    0.65,
	COFINS: 3,
	IRPJ:   1.2,
	CSLL:   1.08,
}

// MarkupOptions are the MKM percentages offered to the user.
var MarkupOptions = []float64{10, 15, 20, 30}

// DefaultMarkup is the preselected MKM percentage.
const DefaultMarkup = 15.0

// IsMarkupOption reports whether v is one of MarkupOptions.
func IsMarkupOption(v float64) bool {
	for _, opt := range MarkupOptions {
		if v == opt {
			return true
		}
	}
	return false
}

// Inputs represents everything a sale price is derived from. Amounts are in
// BRL and rates in percent (12 means 12%).
type Inputs struct {
	Cost    float64
	Freight float64
	ICMS    float64
	Fixed   FixedRates
	Markup  float64
}

// Deductions contains the amount of each tax carried by the sale price.
type Deductions struct {
	ICMS   float64
	PIS    float64
	COFINS float64
	IRPJ   float64
	CSLL   float64
}

// Result groups the derived sale price and its breakdown. When Valid is
// false only Base and TotalPercent are meaningful.
type Result struct {
	Valid        bool
	Base         float64
	TotalPercent float64
	SalePrice    float64
	Deductions   Deductions
	TotalTaxes   float64
	MarkupAmount float64
	// GrossProfit is reported as the MKM amount.
	GrossProfit float64
}

// Item is one tax line of a Result.
type Item struct {
	Label  string  `json:"label"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// Compute derives the sale price whose remainder, after every percentage
// deduction is taken from it, equals cost plus freight:
//
//	sale * (1 - Σrates/100) = cost + freight
//
// The result is invalid when the base is not positive, the rates add up to
// 100% or more, or the sale price overflows float64.
func Compute(in Inputs) Result {
	base := in.Cost + in.Freight
	totalPercent := in.ICMS + in.Fixed.PIS + in.Fixed.COFINS + in.Fixed.IRPJ + in.Fixed.CSLL + in.Markup
	denom := 1 - totalPercent/100

	if !isFinite(base) || base <= 0 || !isFinite(denom) || denom <= 0 {
		return Result{Base: base, TotalPercent: totalPercent}
	}

	sale := base / denom
	if !isFinite(sale) {
		return Result{Base: base, TotalPercent: totalPercent}
	}

	d := Deductions{
		ICMS:   sale * (in.ICMS / 100),
		PIS:    sale * (in.Fixed.PIS / 100),
		COFINS: sale * (in.Fixed.COFINS / 100),
		IRPJ:   sale * (in.Fixed.IRPJ / 100),
		CSLL:   sale * (in.Fixed.CSLL / 100),
	}
	markup := sale * (in.Markup / 100)

	return Result{
		Valid:        true,
		Base:         base,
		TotalPercent: totalPercent,
		SalePrice:    sale,
		Deductions:   d,
		TotalTaxes:   d.ICMS + d.PIS + d.COFINS + d.IRPJ + d.CSLL,
		MarkupAmount: markup,
		GrossProfit:  markup,
	}
}

// Items lists the tax deductions in display order, pairing each amount with
// the rate from in.
func (r Result) Items(in Inputs) []Item {
	return []Item{
		{Label: "ICMS", Rate: in.ICMS, Amount: r.Deductions.ICMS},
		{Label: "PIS", Rate: in.Fixed.PIS, Amount: r.Deductions.PIS},
		{Label: "COFINS", Rate: in.Fixed.COFINS, Amount: r.Deductions.COFINS},
		{Label: "IRPJ", Rate: in.Fixed.IRPJ, Amount: r.Deductions.IRPJ},
		{Label: "CSLL", Rate: in.Fixed.CSLL, Amount: r.Deductions.CSLL},
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
