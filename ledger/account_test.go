package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestParseAccountType(t *testing.T) {
	for _, typ := range AccountTypes() {
		parsed, err := ParseAccountType(typ.String())
		assert.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}

	parsed, err := ParseAccountType("Credit")
	assert.NoError(t, err)
	assert.Equal(t, AccountTypeCredit, parsed)

	_, err = ParseAccountType("Checking")
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds() {
		parsed, err := ParseKind(kind.String())
		assert.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseKind("Withdrawal")
	assert.Error(t, err)
}

func TestNewAccount(t *testing.T) {
	opening := decimal.RequireFromString("99.95")
	account := NewAccount("Checking", AccountTypeTransaction, opening)

	assert.True(t, account.Balance.Equal(opening), "balance starts at the opening balance")
	assert.True(t, account.OpeningBalance.Equal(opening))
	assert.Equal(t, "creditcard", account.Icon)
	assert.Equal(t, "appBlue", account.Color)
	assert.False(t, account.CreatedAt.IsZero())
}

func TestAccount_Clone(t *testing.T) {
	account := NewAccount("Checking", AccountTypeCash, decimal.NewFromInt(10))

	clone := account.Clone()
	clone.Balance = decimal.NewFromInt(999)
	clone.Name = "Other"

	assert.True(t, account.Balance.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Checking", account.Name)
}

func TestDefaultCategories(t *testing.T) {
	defaults := DefaultCategories()
	assert.Equal(t, 10, len(defaults))

	names := make(map[string]bool)
	for _, category := range defaults {
		assert.True(t, category.IsDefault)
		assert.NotEqual(t, "", category.Icon)
		names[category.Name] = true
	}
	assert.True(t, names["Food & Dining"])
	assert.True(t, names["Other"])
}
