package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kong"

	"github.com/jgoi0512/centi/ledger"
	"github.com/jgoi0512/centi/output"
	"github.com/jgoi0512/centi/store"
	"github.com/jgoi0512/centi/telemetry"
)

// Globals defines global flags available to all commands.
type Globals struct {
	DB        string `help:"Path to the centi database file." default:"centi.db" env:"CENTI_DB"`
	Currency  string `name:"default-currency" help:"Default currency code for formatting." default:"USD" env:"CENTI_CURRENCY"`
	Telemetry bool   `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Account  AccountCmd  `cmd:"" help:"Manage accounts."`
	Tx       TxCmd       `cmd:"" help:"Record, edit, delete, and list transactions."`
	Category CategoryCmd `cmd:"" help:"Manage transaction categories."`
	Balances BalancesCmd `cmd:"" help:"Show account balances and the total."`
	Check    CheckCmd    `cmd:"" help:"Verify that every stored balance matches its transactions."`
	Web      WebCmd      `cmd:"" help:"Start the read-only web viewer."`
}

// runContext builds the context for one command run, attaching the currency
// config and, when enabled, a telemetry collector.
func (g *Globals) runContext() (context.Context, *telemetry.TimingCollector) {
	cfg := ledger.NewConfig()
	cfg.DefaultCurrency = g.Currency
	ctx := cfg.WithContext(context.Background())

	if !g.Telemetry {
		return ctx, nil
	}
	collector := telemetry.NewTimingCollector()
	return telemetry.WithCollector(ctx, collector), collector
}

func reportTelemetry(w io.Writer, collector *telemetry.TimingCollector) {
	if collector == nil {
		return
	}
	_, _ = fmt.Fprintln(w)
	collector.Report(w, output.NewStyles(w))
}

// openStore opens the configured database.
func (g *Globals) openStore(ctx context.Context) (*store.Store, error) {
	s, err := store.Open(ctx, g.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", g.DB, err)
	}
	return s, nil
}

// renderErrors prints each validation error and a summary line, and reports
// the failure through the exit code.
func renderErrors(ctx *kong.Context, errs []error) error {
	for _, err := range errs {
		_, _ = fmt.Fprintln(ctx.Stderr, err)
	}
	_, _ = fmt.Fprintln(ctx.Stderr)
	printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(errs)))
	return NewCommandError(1)
}
