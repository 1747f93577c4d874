package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the type of account
type AccountType int

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeSavings
	AccountTypeTransaction
	AccountTypeCash
	AccountTypeCredit
	AccountTypeInvestment
)

// String returns the string representation of the account type
func (t AccountType) String() string {
	switch t {
	case AccountTypeSavings:
		return "Savings"
	case AccountTypeTransaction:
		return "Transaction"
	case AccountTypeCash:
		return "Cash"
	case AccountTypeCredit:
		return "Credit Card"
	case AccountTypeInvestment:
		return "Investment"
	default:
		return "Unknown"
	}
}

// AccountTypes lists all valid account types in display order.
func AccountTypes() []AccountType {
	return []AccountType{
		AccountTypeSavings,
		AccountTypeTransaction,
		AccountTypeCash,
		AccountTypeCredit,
		AccountTypeInvestment,
	}
}

// ParseAccountType parses an account type from its string representation.
// Matching is exact; "Credit Card" may also be written as "Credit".
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "Savings":
		return AccountTypeSavings, nil
	case "Transaction":
		return AccountTypeTransaction, nil
	case "Cash":
		return AccountTypeCash, nil
	case "Credit Card", "Credit":
		return AccountTypeCredit, nil
	case "Investment":
		return AccountTypeInvestment, nil
	default:
		return AccountTypeUnknown, fmt.Errorf("unknown account type %q", s)
	}
}

// Account represents a single account with its running balance.
//
// Balance is the single source of truth for how much is in the account right
// now. It is mutated only by the Engine; the invariant Balance ==
// OpeningBalance + sum of the effects of every transaction referencing the
// account is what Engine.Check verifies.
type Account struct {
	ID             uuid.UUID
	Name           string
	Type           AccountType
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	Icon           string
	Color          string
	Currency       string // empty means the configured default
	CreatedAt      time.Time
	ModifiedAt     time.Time
}

// NewAccount creates an account with the given opening balance. The running
// balance starts equal to the opening balance.
func NewAccount(name string, typ AccountType, opening decimal.Decimal) *Account {
	now := time.Now()
	return &Account{
		ID:             uuid.New(),
		Name:           name,
		Type:           typ,
		OpeningBalance: opening,
		Balance:        opening,
		Icon:           "creditcard",
		Color:          "appBlue",
		CreatedAt:      now,
		ModifiedAt:     now,
	}
}

// Clone returns a copy of the account. The Engine mutates clones so that a
// failed commit leaves the caller's view of the account untouched.
func (a *Account) Clone() *Account {
	clone := *a
	return &clone
}
