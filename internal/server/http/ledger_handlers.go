package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/akarpov87/budget-keeper/internal/model"
)

const dateLayout = "2006-01-02"

func (s *Server) handleGetSalary(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromCtx(r.Context())
	amount, err := s.ledger.GetSalary(r.Context(), id.UserID)
	if err != nil {
		writeError(s.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"amount": amount})
}

type setSalaryRequest struct {
	Amount float64 `json:"amount"`
}

func (s *Server) handleSetSalary(w http.ResponseWriter, r *http.Request) {
	var req setSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.Amount < 0 {
		badRequest(w, "amount must be non-negative")
		return
	}
	id, _ := IdentityFromCtx(r.Context())
	if err := s.ledger.SetSalary(r.Context(), id.UserID, req.Amount); err != nil {
		writeError(s.log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addTransactionRequest struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		badRequest(w, "date must be YYYY-MM-DD")
		return
	}
	if req.Amount < 0 {
		badRequest(w, "amount must be non-negative")
		return
	}
	category := model.Category(req.Category)
	if !model.ValidCategory(category) {
		badRequest(w, "category must be one of Needs, Wants, Savings")
		return
	}

	id, _ := IdentityFromCtx(r.Context())
	if err := s.ledger.AddTransaction(r.Context(), id.UserID, date, req.Amount, category, req.Description); err != nil {
		writeError(s.log, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type transactionResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// dateRange parses optional from/to query params, inclusive on both ends.
func dateRange(r *http.Request) (from, to *time.Time, err error) {
	if v := r.URL.Query().Get("from"); v != "" {
		d, perr := time.Parse(dateLayout, v)
		if perr != nil {
			return nil, nil, perr
		}
		from = &d
	}
	if v := r.URL.Query().Get("to"); v != "" {
		d, perr := time.Parse(dateLayout, v)
		if perr != nil {
			return nil, nil, perr
		}
		to = &d
	}
	return from, to, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		badRequest(w, "from/to must be YYYY-MM-DD")
		return
	}
	id, _ := IdentityFromCtx(r.Context())
	txs, err := s.ledger.ListTransactions(r.Context(), id.UserID, from, to)
	if err != nil {
		writeError(s.log, w, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionResponse{
			ID:          t.ID.String(),
			Date:        t.Date.Format(dateLayout),
			Amount:      t.Amount,
			Category:    string(t.Category),
			Description: t.Description,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]transactionResponse{"transactions": out})
}

func (s *Server) handleCategoryTotals(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		badRequest(w, "from/to must be YYYY-MM-DD")
		return
	}
	id, _ := IdentityFromCtx(r.Context())
	totals, err := s.ledger.CategoryTotals(r.Context(), id.UserID, from, to)
	if err != nil {
		writeError(s.log, w, err)
		return
	}
	out := make(map[string]float64, len(totals))
	for cat, sum := range totals {
		out[string(cat)] = sum
	}
	writeJSON(w, http.StatusOK, map[string]map[string]float64{"totals": out})
}
