package main

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Simplici0/mkm/internal/brl"
	"github.com/Simplici0/mkm/internal/icms"
	"github.com/Simplici0/mkm/internal/pricing"
	"github.com/Simplici0/mkm/internal/report"
)

const (
	tabConfig  = "config"
	tabCalculo = "calculo"

	icmsActionSuggested = "suggested"
	icmsActionZero      = "zero"

	defaultAmountText = "0,00"
)

// calcForm is the calculator state carried by each request. Amounts stay as
// the text the user typed so the page re-renders exactly what was entered.
type calcForm struct {
	Tab         string
	Origin      icms.UF
	Dest        icms.UF
	CostText    string
	FreightText string
	ICMSText    string
	Markup      float64
}

// parseCalcForm never fails: missing or unknown values fall back to defaults.
func (s *server) parseCalcForm(values url.Values) calcForm {
	form := calcForm{
		Tab:         tabConfig,
		Origin:      s.defaults.Origin,
		Dest:        s.defaults.Dest,
		CostText:    defaultAmountText,
		FreightText: defaultAmountText,
		Markup:      s.defaults.Markup,
	}

	if values.Get("tab") == tabCalculo {
		form.Tab = tabCalculo
	}
	if uf, ok := icms.Parse(values.Get("origin")); ok {
		form.Origin = uf
	}
	if uf, ok := icms.Parse(values.Get("dest")); ok {
		form.Dest = uf
	}
	if values.Has("cost") {
		form.CostText = values.Get("cost")
	}
	if values.Has("freight") {
		form.FreightText = values.Get("freight")
	}
	if markup, err := strconv.ParseFloat(values.Get("mkm"), 64); err == nil && pricing.IsMarkupOption(markup) {
		form.Markup = markup
	}

	form.ICMSText = formatRateText(icms.Suggest(form.Dest))
	if values.Has("icms") {
		form.ICMSText = values.Get("icms")
	}
	switch values.Get("icms_action") {
	case icmsActionSuggested:
		form.ICMSText = formatRateText(icms.Suggest(form.Dest))
	case icmsActionZero:
		form.ICMSText = "0"
	}

	return form
}

func (f calcForm) inputs() pricing.Inputs {
	return pricing.Inputs{
		Cost:    brl.Parse(f.CostText),
		Freight: brl.Parse(f.FreightText),
		ICMS:    brl.Parse(f.ICMSText),
		Fixed:   pricing.DefaultFixedRates,
		Markup:  f.Markup,
	}
}

func (f calcForm) values() url.Values {
	v := url.Values{}
	v.Set("tab", f.Tab)
	v.Set("origin", string(f.Origin))
	v.Set("dest", string(f.Dest))
	v.Set("cost", f.CostText)
	v.Set("freight", f.FreightText)
	v.Set("icms", f.ICMSText)
	v.Set("mkm", formatRateText(f.Markup))
	return v
}

// TabURL links to another tab keeping every entered value.
func (f calcForm) TabURL(tab string) string {
	v := f.values()
	v.Set("tab", tab)
	return "/?" + v.Encode()
}

// formatRateText renders a rate the way the ICMS field expects it: "12",
// "0,65".
func formatRateText(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

type itemView struct {
	Label  string
	Rate   string
	Amount string
}

type resultView struct {
	Valid       bool
	Base        string
	SalePrice   string
	Items       []itemView
	TotalTaxes  string
	Markup      string
	GrossProfit string
}

func newResultView(in pricing.Inputs, r pricing.Result) resultView {
	items := r.Items(in)
	view := resultView{
		Valid:       r.Valid,
		Base:        brl.Format(r.Base),
		SalePrice:   report.Amount(r, r.SalePrice),
		Items:       make([]itemView, len(items)),
		TotalTaxes:  report.Amount(r, r.TotalTaxes),
		Markup:      report.Amount(r, r.MarkupAmount),
		GrossProfit: report.Amount(r, r.GrossProfit),
	}
	for i, item := range items {
		view.Items[i] = itemView{
			Label:  item.Label,
			Rate:   brl.FormatRate(item.Rate),
			Amount: report.Amount(r, item.Amount),
		}
	}
	return view
}

type calculatorViewData struct {
	baseViewData
	Form          calcForm
	UFs           []icms.UF
	MarkupOptions []float64
	Suggested     string
	Reduced       string
	Standard      string
	ReducedRate   string
	StandardRate  string
	ImportedRate  string
	ImportedNote  string
	FixedRates    string
	Result        resultView
}

func (s *server) handleCalculator(w http.ResponseWriter, r *http.Request) {
	form := s.parseCalcForm(r.URL.Query())
	in := form.inputs()

	s.renderTemplate(w, "calculator.html", calculatorViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Form:          form,
		UFs:           icms.All,
		MarkupOptions: pricing.MarkupOptions,
		Suggested:     brl.FormatRate(icms.Suggest(form.Dest)),
		Reduced:       icms.Join(icms.Reduced()),
		Standard:      icms.Join(icms.Standard()),
		ReducedRate:   brl.FormatRate(icms.ReducedRate),
		StandardRate:  brl.FormatRate(icms.StandardRate),
		ImportedRate:  brl.FormatRate(icms.ImportedGoodsRate),
		ImportedNote:  icms.ImportedGoodsNote,
		FixedRates:    report.FixedRatesLine(pricing.DefaultFixedRates),
		Result:        newResultView(in, pricing.Compute(in)),
	})
}
