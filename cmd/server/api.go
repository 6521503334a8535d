package main

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/mkm/internal/brl"
	"github.com/Simplici0/mkm/internal/icms"
	"github.com/Simplici0/mkm/internal/pricing"
	"github.com/Simplici0/mkm/internal/report"
)

const maxRequestBody = 1 << 16

type icmsBucket struct {
	Rate float64   `json:"rate"`
	UFs  []icms.UF `json:"ufs"`
}

type icmsTableResponse struct {
	Origin       icms.UF    `json:"origin"`
	Reduced      icmsBucket `json:"reduced"`
	Standard     icmsBucket `json:"standard"`
	ImportedRate float64    `json:"imported_rate"`
	ImportedNote string     `json:"imported_note"`
}

type icmsSuggestResponse struct {
	Origin      icms.UF `json:"origin"`
	Destination icms.UF `json:"destination"`
	Rate        float64 `json:"rate"`
}

// priceRequest mirrors the calculator form: amounts are pt-BR text.
type priceRequest struct {
	Cost    string   `json:"cost"`
	Freight string   `json:"freight"`
	ICMS    *string  `json:"icms"`
	MKM     *float64 `json:"mkm"`
	Origin  string   `json:"origin"`
	Dest    string   `json:"dest"`
}

type priceAmounts struct {
	SalePrice   float64 `json:"sale_price"`
	ICMS        float64 `json:"icms"`
	PIS         float64 `json:"pis"`
	COFINS      float64 `json:"cofins"`
	IRPJ        float64 `json:"irpj"`
	CSLL        float64 `json:"csll"`
	TotalTaxes  float64 `json:"total_taxes"`
	MKM         float64 `json:"mkm"`
	GrossProfit float64 `json:"gross_profit"`
}

type priceResponse struct {
	Valid         bool              `json:"valid"`
	Origin        icms.UF           `json:"origin"`
	Destination   icms.UF           `json:"destination"`
	SuggestedICMS float64           `json:"suggested_icms"`
	Inputs        priceInputs       `json:"inputs"`
	Base          float64           `json:"base"`
	TotalPercent  float64           `json:"total_percent"`
	Amounts       *priceAmounts     `json:"amounts"`
	Formatted     map[string]string `json:"formatted"`
}

type priceInputs struct {
	Cost    float64 `json:"cost"`
	Freight float64 `json:"freight"`
	ICMS    float64 `json:"icms"`
	PIS     float64 `json:"pis"`
	COFINS  float64 `json:"cofins"`
	IRPJ    float64 `json:"irpj"`
	CSLL    float64 `json:"csll"`
	MKM     float64 `json:"mkm"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleICMSTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, icmsTableResponse{
		Origin:       s.defaults.Origin,
		Reduced:      icmsBucket{Rate: icms.ReducedRate, UFs: icms.Reduced()},
		Standard:     icmsBucket{Rate: icms.StandardRate, UFs: icms.Standard()},
		ImportedRate: icms.ImportedGoodsRate,
		ImportedNote: icms.ImportedGoodsNote,
	})
}

func (s *server) handleICMSSuggest(w http.ResponseWriter, r *http.Request) {
	uf, ok := icms.Parse(chi.URLParam(r, "uf"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown federative unit")
		return
	}

	writeJSON(w, http.StatusOK, icmsSuggestResponse{
		Origin:      s.defaults.Origin,
		Destination: uf,
		Rate:        icms.Suggest(uf),
	})
}

func (s *server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	origin := s.defaults.Origin
	if req.Origin != "" {
		uf, ok := icms.Parse(req.Origin)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, "unknown origin federative unit")
			return
		}
		origin = uf
	}

	dest := s.defaults.Dest
	if req.Dest != "" {
		uf, ok := icms.Parse(req.Dest)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, "unknown destination federative unit")
			return
		}
		dest = uf
	}

	markup := s.defaults.Markup
	if req.MKM != nil {
		if !pricing.IsMarkupOption(*req.MKM) {
			writeJSONError(w, http.StatusBadRequest, "mkm must be one of 10, 15, 20, 30")
			return
		}
		markup = *req.MKM
	}

	suggested := icms.Suggest(dest)
	rate := suggested
	if req.ICMS != nil {
		rate = brl.Parse(*req.ICMS)
	}

	in := pricing.Inputs{
		Cost:    brl.Parse(req.Cost),
		Freight: brl.Parse(req.Freight),
		ICMS:    rate,
		Fixed:   pricing.DefaultFixedRates,
		Markup:  markup,
	}
	result := pricing.Compute(in)

	resp := priceResponse{
		Valid:         result.Valid,
		Origin:        origin,
		Destination:   dest,
		SuggestedICMS: suggested,
		Inputs: priceInputs{
			Cost:    in.Cost,
			Freight: in.Freight,
			ICMS:    in.ICMS,
			PIS:     in.Fixed.PIS,
			COFINS:  in.Fixed.COFINS,
			IRPJ:    in.Fixed.IRPJ,
			CSLL:    in.Fixed.CSLL,
			MKM:     in.Markup,
		},
		Base:         finiteOrZero(result.Base),
		TotalPercent: finiteOrZero(result.TotalPercent),
		Formatted: map[string]string{
			"sale_price":   report.Amount(result, result.SalePrice),
			"icms":         report.Amount(result, result.Deductions.ICMS),
			"pis":          report.Amount(result, result.Deductions.PIS),
			"cofins":       report.Amount(result, result.Deductions.COFINS),
			"irpj":         report.Amount(result, result.Deductions.IRPJ),
			"csll":         report.Amount(result, result.Deductions.CSLL),
			"total_taxes":  report.Amount(result, result.TotalTaxes),
			"mkm":          report.Amount(result, result.MarkupAmount),
			"gross_profit": report.Amount(result, result.GrossProfit),
		},
	}
	if result.Valid {
		d := result.Deductions
		resp.Amounts = &priceAmounts{
			SalePrice:   result.SalePrice,
			ICMS:        d.ICMS,
			PIS:         d.PIS,
			COFINS:      d.COFINS,
			IRPJ:        d.IRPJ,
			CSLL:        d.CSLL,
			TotalTaxes:  result.TotalTaxes,
			MKM:         result.MarkupAmount,
			GrossProfit: result.GrossProfit,
		}
	} else {
		s.log.Debug("price request produced invalid result",
			zap.Float64("base", result.Base),
			zap.Float64("total_percent", result.TotalPercent),
		)
	}

	writeJSON(w, http.StatusOK, resp)
}

// finiteOrZero keeps overflowing sums out of the JSON encoder.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// writeJSON encodes v before touching the response so an encoding failure
// still produces a 500 with a JSON body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
