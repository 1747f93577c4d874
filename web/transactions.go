package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jgoi0512/centi/ledger"
	"github.com/jgoi0512/centi/store"
)

// TransactionResponse represents one transaction in the transactions endpoint.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	Source      string          `json:"source"`
	Destination string          `json:"destination,omitempty"`
	Category    string          `json:"category"`
	Note        string          `json:"note,omitempty"`
	Date        time.Time       `json:"date"`
}

// DayGroupResponse is one calendar day of transactions.
type DayGroupResponse struct {
	Day          string                `json:"day"`
	Transactions []TransactionResponse `json:"transactions"`
}

// TransactionsResponse is the JSON response structure for the transactions
// endpoint. Days are ordered newest first.
type TransactionsResponse struct {
	Days []DayGroupResponse `json:"days"`
}

// handleGetTransactions handles GET requests to /api/transactions.
//
// Query parameters:
//   - accounts: Comma-separated account IDs; matches source or destination.
//   - categories: Comma-separated category names.
//   - kinds: Comma-separated kinds (Income,Expense,Transfer).
//   - startDate, endDate: Inclusive date bounds in YYYY-MM-DD format.
//   - limit: Maximum number of transactions (default 50).
//
// Omitted parameters apply no constraint.
func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{Limit: 50}

	if param := r.URL.Query().Get("accounts"); param != "" {
		for _, raw := range strings.Split(param, ",") {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				http.Error(w, "invalid account id: "+raw, http.StatusBadRequest)
				return
			}
			filter.Accounts = append(filter.Accounts, id)
		}
	}
	if param := r.URL.Query().Get("categories"); param != "" {
		for _, category := range strings.Split(param, ",") {
			filter.Categories = append(filter.Categories, strings.TrimSpace(category))
		}
	}
	if param := r.URL.Query().Get("kinds"); param != "" {
		for _, raw := range strings.Split(param, ",") {
			kind, err := ledger.ParseKind(strings.TrimSpace(raw))
			if err != nil {
				http.Error(w, "invalid kind: "+raw, http.StatusBadRequest)
				return
			}
			filter.Kinds = append(filter.Kinds, kind)
		}
	}
	if param := r.URL.Query().Get("startDate"); param != "" {
		date, err := time.ParseInLocation("2006-01-02", param, time.Local)
		if err != nil {
			http.Error(w, "invalid startDate format (expected YYYY-MM-DD): "+param, http.StatusBadRequest)
			return
		}
		filter.From = date
	}
	if param := r.URL.Query().Get("endDate"); param != "" {
		date, err := time.ParseInLocation("2006-01-02", param, time.Local)
		if err != nil {
			http.Error(w, "invalid endDate format (expected YYYY-MM-DD): "+param, http.StatusBadRequest)
			return
		}
		filter.To = date.Add(24*time.Hour - time.Nanosecond)
	}
	if param := r.URL.Query().Get("limit"); param != "" {
		limit, err := strconv.Atoi(param)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit: "+param, http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	transactions, err := s.store.Transactions(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := TransactionsResponse{Days: []DayGroupResponse{}}
	for _, group := range store.GroupByDay(transactions) {
		day := DayGroupResponse{
			Day:          group.Day.Format("2006-01-02"),
			Transactions: make([]TransactionResponse, 0, len(group.Transactions)),
		}
		for _, txn := range group.Transactions {
			day.Transactions = append(day.Transactions, transactionResponse(txn))
		}
		response.Days = append(response.Days, day)
	}

	writeJSONResponse(w, &response)
}

func transactionResponse(txn *ledger.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:       txn.ID.String(),
		Amount:   txn.Amount,
		Kind:     txn.Kind.String(),
		Source:   txn.Source.String(),
		Category: txn.Category,
		Note:     txn.Note,
		Date:     txn.Date,
	}
	if txn.Destination != uuid.Nil {
		response.Destination = txn.Destination.String()
	}
	return response
}
