package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered amount string to a decimal.Decimal.
// It accepts an optional leading currency symbol and thousands separators,
// so "$1,234.50", "1234.50" and "-€3.20" all parse. The empty string is an
// error; validation of sign and positivity is the caller's responsibility.
func ParseAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}

	negative := false
	if strings.HasPrefix(trimmed, "-") {
		negative = true
		trimmed = trimmed[1:]
	}

	// Strip a leading currency symbol ("$", "€", "£", "¥", "CHF", ...).
	trimmed = strings.TrimLeftFunc(trimmed, func(r rune) bool {
		return !(r >= '0' && r <= '9') && r != '.'
	})
	trimmed = strings.ReplaceAll(trimmed, ",", "")

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount value %q: %w", s, err)
	}

	if negative {
		d = d.Neg()
	}
	return d, nil
}

// MustParseAmount converts an amount string to a decimal.Decimal and panics on
// error. Use only in tests or when you're certain the amount is valid.
func MustParseAmount(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FormatAmount renders an amount with the symbol for the given currency code,
// always with two decimal places: "$12.50", "-€3.20". An empty currency code
// falls back to the config's default currency. The output round-trips through
// ParseAmount without loss for any two-decimal amount.
func FormatAmount(cfg *Config, amount decimal.Decimal, currency string) string {
	if cfg == nil {
		cfg = NewConfig()
	}
	if currency == "" {
		currency = cfg.DefaultCurrency
	}

	symbol := cfg.Symbol(currency)
	if amount.IsNegative() {
		return "-" + symbol + amount.Neg().StringFixed(2)
	}
	return symbol + amount.StringFixed(2)
}
