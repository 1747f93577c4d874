package web

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jgoi0512/centi/ledger"
)

// AccountResponse represents one account in the accounts endpoint.
type AccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency,omitempty"`
	Icon           string          `json:"icon"`
	Color          string          `json:"color"`
	ModifiedAt     time.Time       `json:"modifiedAt"`
}

// AccountsResponse is the JSON response structure for the accounts endpoint.
type AccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Total    decimal.Decimal   `json:"total"`
}

// handleGetAccounts handles GET requests to /api/accounts.
// Returns all accounts with their balances and the summed total.
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.Accounts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := AccountsResponse{
		Accounts: make([]AccountResponse, 0, len(accounts)),
		Total:    decimal.Zero,
	}
	for _, account := range accounts {
		response.Accounts = append(response.Accounts, accountResponse(account))
		response.Total = response.Total.Add(account.Balance)
	}

	writeJSONResponse(w, &response)
}

func accountResponse(account *ledger.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID.String(),
		Name:           account.Name,
		Type:           account.Type.String(),
		OpeningBalance: account.OpeningBalance,
		Balance:        account.Balance,
		Currency:       account.Currency,
		Icon:           account.Icon,
		Color:          account.Color,
		ModifiedAt:     account.ModifiedAt,
	}
}
