package web

import (
	"encoding/json"
	"net/http"
	"time"

	"DrawSentinel/internal/calculator"
	"DrawSentinel/internal/format"
	"DrawSentinel/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type rowResponse struct {
	ID              uuid.UUID       `json:"id"`
	Draw            time.Time       `json:"draw"`
	DrawFormatted   string          `json:"draw_formatted"`
	Stake           decimal.Decimal `json:"stake"`
	Value           decimal.Decimal `json:"value"`
	ValueFormatted  string          `json:"value_formatted"`
	ProfitLoss      decimal.Decimal `json:"profit_loss"`
	ReturnPercent   string          `json:"return_percent"`
	ReferencePrice  decimal.Decimal `json:"reference_price"`
	HistoricalPrice decimal.Decimal `json:"historical_price"`
	Currency        string          `json:"currency"`
}

func toRowResponse(r model.Row) rowResponse {
	return rowResponse{
		ID:              r.ID,
		Draw:            r.Draw,
		DrawFormatted:   format.Datetime(r.Draw),
		Stake:           r.Stake,
		Value:           r.Projected,
		ValueFormatted:  format.Currency(r.Projected),
		ProfitLoss:      calculator.ProfitLoss(r.Projected, r.Stake),
		ReturnPercent:   format.Percent(calculator.ReturnPercent(r.Projected, r.Stake)),
		ReferencePrice:  r.ReferencePrice.Amount,
		HistoricalPrice: r.HistoricalPrice.Amount,
		Currency:        model.Currency,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleListRows(w http.ResponseWriter, r *http.Request) {
	rows := s.Tracker.Rows()
	out := make([]rowResponse, len(rows))
	for i, row := range rows {
		out[i] = toRowResponse(row)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	row, err := s.submit(r.Context(), req.Date)
	if err != nil {
		status, msg := describeError(err)
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}
	writeJSON(w, http.StatusCreated, toRowResponse(*row))
}

func (s *Server) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	p := s.Tracker.CurrentPrice()
	if p == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "current bitcoin price is unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"amount":    p.Amount,
		"formatted": format.Currency(p.Amount),
		"currency":  p.Currency,
		"at":        p.At,
		"source":    p.Source,
	})
}

func (s *Server) handleNextDraw(w http.ResponseWriter, r *http.Request) {
	input := s.Tracker.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		in, err := s.Tracker.ParseInput(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		input = in
	}
	next, err := s.Tracker.NextDraw(input)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"input":          input,
		"draw":           next,
		"draw_formatted": format.Datetime(next),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
