package cli

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jgoi0512/centi/ledger"
)

func TestPadLeft(t *testing.T) {
	assert.Equal(t, "   abc", padLeft("abc", 6))
	assert.Equal(t, "abc", padLeft("abc", 3))
	assert.Equal(t, "abc", padLeft("abc", 2))
	// Wide symbols count display cells, not bytes.
	assert.Equal(t, " €1.00", padLeft("€1.00", 6))
}

func TestDayLabel(t *testing.T) {
	today := startOfToday()

	assert.Equal(t, "Today", dayLabel(today))
	assert.Equal(t, "Yesterday", dayLabel(today.AddDate(0, 0, -1)))

	older := today.AddDate(0, 0, -7)
	assert.Equal(t, older.Format("Monday, 2 January 2006"), dayLabel(older))
}

func TestParseDate(t *testing.T) {
	date, err := parseDate("2026-08-15")
	assert.NoError(t, err)
	assert.Equal(t, 2026, date.Year())
	assert.Equal(t, time.August, date.Month())
	assert.Equal(t, 15, date.Day())

	today, err := parseDate("")
	assert.NoError(t, err)
	assert.Equal(t, time.Now().Day(), today.Day())

	_, err = parseDate("15-08-2026")
	assert.Error(t, err)
}

func TestFormatSignedAmount(t *testing.T) {
	cfg := ledger.NewConfig()
	source := uuid.New()
	destination := uuid.New()
	names := map[uuid.UUID]string{source: "Checking", destination: "Savings"}

	expense := &ledger.Transaction{Amount: decimal.NewFromInt(30), Kind: ledger.KindExpense, Source: source}
	assert.Equal(t, "-$30.00", formatSignedAmount(cfg, expense, names))

	income := &ledger.Transaction{Amount: decimal.NewFromInt(30), Kind: ledger.KindIncome, Source: source}
	assert.Equal(t, "+$30.00", formatSignedAmount(cfg, income, names))

	moved := &ledger.Transaction{
		Amount: decimal.NewFromInt(30), Kind: ledger.KindTransfer,
		Source: source, Destination: destination,
	}
	assert.Equal(t, "$30.00 (Checking → Savings)", formatSignedAmount(cfg, moved, names))

	// A deleted account shows a shortened id instead of breaking the list.
	delete(names, destination)
	got := formatSignedAmount(cfg, moved, names)
	assert.Equal(t, "$30.00 (Checking → "+destination.String()[:8]+")", got)
}
