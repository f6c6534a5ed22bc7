package http

import (
	"net/http"
	"time"

	"gestor/internal/core"
	applog "gestor/internal/log"
)

type transactionDTO struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	AmountCents int64   `json:"amount_cents"`
	Method      string  `json:"method,omitempty"`
	Note        string  `json:"note,omitempty"`
}

type categoryDTO struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Placeholder bool    `json:"placeholder,omitempty"`
}

type aggregatesDTO struct {
	Period        string           `json:"period"`
	Label         string           `json:"label"`
	Now           string           `json:"now"`
	Balance       float64          `json:"balance"`
	PeriodIncome  float64          `json:"period_income"`
	PeriodExpense float64          `json:"period_expense"`
	Breakdown     []categoryDTO    `json:"breakdown"`
	Transactions  []transactionDTO `json:"transactions"`
}

type submitDTO struct {
	Accepted    bool            `json:"accepted"`
	Error       string          `json:"error,omitempty"`
	Message     string          `json:"message"`
	Transaction *transactionDTO `json:"transaction,omitempty"`
}

func newTransactionDTO(t core.Transaction) transactionDTO {
	return transactionDTO{
		ID:          t.ID,
		Date:        t.Date.String(),
		Category:    t.Category,
		Kind:        string(t.Kind),
		Description: t.Description,
		Amount:      t.Amount.Units(),
		AmountCents: t.Amount.Cents,
		Method:      t.Method,
		Note:        t.Note,
	}
}

func newAggregatesDTO(agg core.Aggregates) aggregatesDTO {
	dto := aggregatesDTO{
		Period:        string(agg.Period),
		Label:         agg.Period.Label(),
		Now:           agg.Now.Format(time.RFC3339),
		Balance:       agg.Balance.Units(),
		PeriodIncome:  agg.PeriodIncome.Units(),
		PeriodExpense: agg.PeriodExpense.Units(),
		Breakdown:     make([]categoryDTO, 0, len(agg.Breakdown)),
		Transactions:  make([]transactionDTO, 0, len(agg.Filtered)),
	}
	for _, c := range agg.Breakdown {
		dto.Breakdown = append(dto.Breakdown, categoryDTO{Name: c.Name, Amount: c.Amount.Units(), Placeholder: c.Placeholder})
	}
	for _, t := range agg.Filtered {
		dto.Transactions = append(dto.Transactions, newTransactionDTO(t))
	}
	return dto
}

// handleAPIAggregates answers the aggregates of a period, defaulting to the
// selected one.
func (s *Server) handleAPIAggregates(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	p, err := ParsePeriodParam(r.URL.Query(), sess.Tracker.Period())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	agg, err := sess.Tracker.Aggregates(r.Context(), p)
	if err != nil {
		requestLogger(r, sess).ErrorContext(r.Context(), "Aggregation failed",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpAggregate)
		writeJSONError(w, http.StatusInternalServerError, "aggregation failed")
		return
	}
	writeJSON(w, http.StatusOK, newAggregatesDTO(agg))
}

func (s *Server) handleAPICreateTransaction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed body")
		return
	}

	res := sess.Tracker.Submit(r.Context(), parser.TransactionInput())
	out := submitDTO{Accepted: res.Accepted, Error: string(res.Error), Message: res.Message()}
	if !res.Accepted {
		s.metrics.rejected.Add(1)
		writeJSON(w, http.StatusUnprocessableEntity, out)
		return
	}
	s.metrics.accepted.Add(1)
	tx := newTransactionDTO(res.Transaction)
	out.Transaction = &tx
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleAPISetPeriod(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed body")
		return
	}
	p, err := core.ParsePeriod(parser.Get("period"))
	if err == nil {
		err = sess.Tracker.SetPeriod(p)
	}
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"period": string(p), "label": p.Label()})
}
