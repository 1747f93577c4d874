package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/jgoi0512/centi/ledger"
)

type BalancesCmd struct{}

func (cmd *BalancesCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx.Stderr, collector)

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	accounts, err := s.Accounts(runCtx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		printInfof(ctx.Stdout, "No accounts yet. Create one with: centi account add <name>")
		return nil
	}

	renderAccountTable(ctx.Stdout, runCtx, accounts)
	return nil
}

// renderAccountTable prints one aligned row per account and a total line.
// The total sums raw balances across accounts; with mixed currencies it is
// indicative only and formatted in the default currency.
func renderAccountTable(w io.Writer, ctx context.Context, accounts []*ledger.Account) {
	cfg := ledger.ConfigFromContext(ctx)

	nameWidth, amountWidth := 0, 0
	amounts := make([]string, len(accounts))
	total := decimal.Zero
	for i, account := range accounts {
		amounts[i] = ledger.FormatAmount(cfg, account.Balance, account.Currency)
		total = total.Add(account.Balance)

		if width := runewidth.StringWidth(account.Name); width > nameWidth {
			nameWidth = width
		}
		if width := runewidth.StringWidth(amounts[i]); width > amountWidth {
			amountWidth = width
		}
	}

	totalAmount := ledger.FormatAmount(cfg, total, "")
	if width := runewidth.StringWidth(totalAmount); width > amountWidth {
		amountWidth = width
	}

	for i, account := range accounts {
		_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
			runewidth.FillRight(account.Name, nameWidth),
			amountStyle.Render(padLeft(amounts[i], amountWidth)),
			dimStyle.Render(account.Type.String()),
		)
	}

	_, _ = fmt.Fprintf(w, "%s  %s\n",
		runewidth.FillRight("Total", nameWidth),
		amountStyle.Render(padLeft(totalAmount, amountWidth)),
	)
}
