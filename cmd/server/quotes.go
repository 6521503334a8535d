package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/mkm/internal/icms"
	"github.com/Simplici0/mkm/internal/pricing"
	"github.com/Simplici0/mkm/internal/report"
)

const maxTitleLength = 120

var errInvalidQuote = errors.New("quote result is invalid")

type quoteListItem struct {
	ID          int64
	CreatedAt   string
	Title       string
	Destination string
	SalePrice   float64
}

type quotesViewData struct {
	baseViewData
	Query  string
	Quotes []quoteListItem
}

type quoteDetail struct {
	ID        int64
	CreatedAt string
	report.Quote
}

type quoteDetailViewData struct {
	baseViewData
	Quote      quoteDetail
	FixedRates string
	Result     resultView
}

// quoteTotals and quoteBreakdown are the stored snapshot of a result; a saved
// quote is never recomputed.
type quoteTotals struct {
	SalePrice   float64 `json:"sale_price"`
	TotalTaxes  float64 `json:"total_taxes"`
	GrossProfit float64 `json:"gross_profit"`
}

type quoteBreakdown struct {
	Base         float64 `json:"base"`
	TotalPercent float64 `json:"total_percent"`
	ICMS         float64 `json:"icms"`
	PIS          float64 `json:"pis"`
	COFINS       float64 `json:"cofins"`
	IRPJ         float64 `json:"irpj"`
	CSLL         float64 `json:"csll"`
	MKM          float64 `json:"mkm"`
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.listQuotes(r.Context(), query)
	if err != nil {
		s.log.Error("list quotes", zap.Error(err))
		http.Error(w, "failed to load quotes", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "quotes.html", quotesViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Query:  query,
		Quotes: quotes,
	})
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := s.parseCalcForm(r.PostForm)
	form.Tab = tabCalculo
	in := form.inputs()
	result := pricing.Compute(in)
	if !result.Valid {
		v := form.values()
		v.Set("error", "Não é possível salvar um cálculo inválido.")
		http.Redirect(w, r, "/?"+v.Encode(), http.StatusSeeOther)
		return
	}

	title := strings.TrimSpace(r.PostFormValue("title"))
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}

	id, err := s.insertQuote(r.Context(), report.Quote{
		Title:       title,
		Notes:       strings.TrimSpace(r.PostFormValue("notes")),
		Origin:      form.Origin,
		Destination: form.Dest,
		Inputs:      in,
		Result:      result,
	})
	if err != nil {
		s.log.Error("insert quote", zap.Error(err))
		http.Error(w, "failed to save quote", http.StatusInternalServerError)
		return
	}

	s.log.Info("quote saved", zap.Int64("id", id), zap.Float64("sale_price", result.SalePrice), zap.String("dest", string(form.Dest)))
	http.Redirect(w, r, "/quotes/"+strconv.FormatInt(id, 10)+"?success="+url.QueryEscape("Cotação salva."), http.StatusSeeOther)
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	s.renderTemplate(w, "quote_detail.html", quoteDetailViewData{
		baseViewData: baseViewData{SuccessMessage: r.URL.Query().Get("success")},
		Quote:        detail,
		FixedRates:   report.FixedRatesLine(detail.Inputs.Fixed),
		Result:       newResultView(detail.Inputs, detail.Result),
	})
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := report.Write(w, detail.Quote); err != nil {
		s.log.Error("write quote text", zap.Int64("id", detail.ID), zap.Error(err))
	}
}

func (s *server) loadQuote(w http.ResponseWriter, r *http.Request) (quoteDetail, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid quote id", http.StatusBadRequest)
		return quoteDetail{}, false
	}

	detail, err := s.getQuoteDetail(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return quoteDetail{}, false
	}
	if err != nil {
		s.log.Error("load quote", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "failed to load quote", http.StatusInternalServerError)
		return quoteDetail{}, false
	}
	return detail, true
}

func (s *server) insertQuote(ctx context.Context, q report.Quote) (int64, error) {
	if !q.Result.Valid {
		return 0, errInvalidQuote
	}

	totals, err := json.Marshal(quoteTotals{
		SalePrice:   q.Result.SalePrice,
		TotalTaxes:  q.Result.TotalTaxes,
		GrossProfit: q.Result.GrossProfit,
	})
	if err != nil {
		return 0, fmt.Errorf("encode quote totals: %w", err)
	}

	d := q.Result.Deductions
	breakdown, err := json.Marshal(quoteBreakdown{
		Base:         q.Result.Base,
		TotalPercent: q.Result.TotalPercent,
		ICMS:         d.ICMS,
		PIS:          d.PIS,
		COFINS:       d.COFINS,
		IRPJ:         d.IRPJ,
		CSLL:         d.CSLL,
		MKM:          q.Result.MarkupAmount,
	})
	if err != nil {
		return 0, fmt.Errorf("encode quote breakdown: %w", err)
	}

	in := q.Inputs
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (
			title, notes, origin_uf, dest_uf, cost, freight,
			icms_percent, pis_percent, cofins_percent, irpj_percent, csll_percent, mkm_percent,
			totals_json, breakdown_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		q.Title, q.Notes, string(q.Origin), string(q.Destination), in.Cost, in.Freight,
		in.ICMS, in.Fixed.PIS, in.Fixed.COFINS, in.Fixed.IRPJ, in.Fixed.CSLL, in.Markup,
		string(totals), string(breakdown),
	)
	if err != nil {
		return 0, fmt.Errorf("insert quote: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read quote id: %w", err)
	}
	return id, nil
}

func (s *server) listQuotes(ctx context.Context, query string) ([]quoteListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id,
			created_at,
			COALESCE(title, ''),
			dest_uf,
			totals_json
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]quoteListItem, 0)
	for rows.Next() {
		var item quoteListItem
		var totalsJSON string
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &item.Destination, &totalsJSON); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		item.SalePrice = extractSalePrice(totalsJSON)
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

func extractSalePrice(totalsJSON string) float64 {
	var totals quoteTotals
	if err := json.Unmarshal([]byte(totalsJSON), &totals); err != nil {
		return 0
	}
	return totals.SalePrice
}

func (s *server) getQuoteDetail(ctx context.Context, id int64) (quoteDetail, error) {
	var (
		detail             quoteDetail
		origin, dest       string
		totalsJSON, bdJSON string
		in                 pricing.Inputs
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			id, created_at, COALESCE(title, ''), COALESCE(notes, ''), origin_uf, dest_uf,
			cost, freight, icms_percent, pis_percent, cofins_percent, irpj_percent, csll_percent, mkm_percent,
			totals_json, breakdown_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(
		&detail.ID, &detail.CreatedAt, &detail.Title, &detail.Notes, &origin, &dest,
		&in.Cost, &in.Freight, &in.ICMS, &in.Fixed.PIS, &in.Fixed.COFINS, &in.Fixed.IRPJ, &in.Fixed.CSLL, &in.Markup,
		&totalsJSON, &bdJSON,
	)
	if err != nil {
		return quoteDetail{}, err
	}

	var totals quoteTotals
	if err := json.Unmarshal([]byte(totalsJSON), &totals); err != nil {
		return quoteDetail{}, fmt.Errorf("decode quote totals: %w", err)
	}
	var bd quoteBreakdown
	if err := json.Unmarshal([]byte(bdJSON), &bd); err != nil {
		return quoteDetail{}, fmt.Errorf("decode quote breakdown: %w", err)
	}

	detail.Origin = icms.UF(origin)
	detail.Destination = icms.UF(dest)
	detail.Inputs = in
	detail.Result = pricing.Result{
		Valid:        true,
		Base:         bd.Base,
		TotalPercent: bd.TotalPercent,
		SalePrice:    totals.SalePrice,
		Deductions: pricing.Deductions{
			ICMS:   bd.ICMS,
			PIS:    bd.PIS,
			COFINS: bd.COFINS,
			IRPJ:   bd.IRPJ,
			CSLL:   bd.CSLL,
		},
		TotalTaxes:   totals.TotalTaxes,
		MarkupAmount: bd.MKM,
		GrossProfit:  totals.GrossProfit,
	}
	return detail, nil
}
