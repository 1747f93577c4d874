package ledger

import (
	"context"
	"sort"
)

// Config holds the display configuration for amounts: the default currency
// and the code-to-symbol table. It replaces any process-wide currency state;
// callers thread it explicitly, usually via context.
type Config struct {
	DefaultCurrency string
	Currencies      map[string]string // code -> display symbol
}

// NewConfig creates a Config with the supported currencies and USD as the
// default.
func NewConfig() *Config {
	return &Config{
		DefaultCurrency: "USD",
		Currencies: map[string]string{
			"USD": "$",
			"EUR": "€",
			"GBP": "£",
			"AUD": "$",
			"CAD": "$",
			"JPY": "¥",
			"CHF": "CHF",
			"CNY": "¥",
		},
	}
}

// Symbol returns the display symbol for a currency code, falling back to "$"
// for unknown codes.
func (c *Config) Symbol(code string) string {
	if symbol, ok := c.Currencies[code]; ok {
		return symbol
	}
	return "$"
}

// Supported returns the sorted list of supported currency codes.
func (c *Config) Supported() []string {
	codes := make([]string, 0, len(c.Currencies))
	for code := range c.Currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}
