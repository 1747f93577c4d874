package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/jgoi0512/centi/ledger"
)

type AccountCmd struct {
	Add    AccountAddCmd    `cmd:"" help:"Create a new account."`
	List   AccountListCmd   `cmd:"" help:"List accounts with balances."`
	Delete AccountDeleteCmd `cmd:"" help:"Delete an account and all its transactions."`
}

type AccountAddCmd struct {
	Name     string `help:"Account name." arg:""`
	Type     string `help:"Account type (Savings, Transaction, Cash, Credit, Investment)." default:"Transaction"`
	Balance  string `help:"Opening balance." default:"0"`
	Currency string `help:"Currency code (defaults to the configured default)." default:""`
	Icon     string `help:"Icon name." default:"creditcard"`
	Color    string `help:"Color name." default:"appBlue"`
}

func (cmd *AccountAddCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx.Stderr, collector)

	typ, err := ledger.ParseAccountType(cmd.Type)
	if err != nil {
		return err
	}
	opening, err := ledger.ParseAmount(cmd.Balance)
	if err != nil {
		return err
	}

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	account := ledger.NewAccount(cmd.Name, typ, opening)
	account.Icon = cmd.Icon
	account.Color = cmd.Color
	account.Currency = cmd.Currency

	if err := s.Commit(runCtx, ledger.Commit{Accounts: []*ledger.Account{account}}); err != nil {
		return err
	}

	cfg := ledger.ConfigFromContext(runCtx)
	printSuccess(ctx.Stdout, fmt.Sprintf("Created %s account %q with balance %s",
		typ, account.Name, ledger.FormatAmount(cfg, account.Balance, account.Currency)))
	return nil
}

type AccountListCmd struct{}

func (cmd *AccountListCmd) Run(ctx *kong.Context, globals *Globals) error {
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

type AccountDeleteCmd struct {
	Name string `help:"Name of the account to delete." arg:""`
	Yes  bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (cmd *AccountDeleteCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx.Stderr, collector)

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	account, err := s.AccountByName(runCtx, cmd.Name)
	if err != nil {
		return err
	}
	referencing, err := s.TransactionsByAccount(runCtx, account.ID)
	if err != nil {
		return err
	}

	// Reversal and removal only happen on a confirmed commit; cancelling
	// here leaves every balance untouched.
	if !cmd.Yes {
		confirmed, err := promptYesNo(fmt.Sprintf(
			"Delete account %q? This will also delete all %d associated transactions. This action cannot be undone.",
			account.Name, len(referencing)))
		if err != nil {
			return err
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Aborted")
			return nil
		}
	}

	engine := ledger.NewEngine(s)
	if err := engine.DeleteAccount(runCtx, account.ID); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Deleted account %q and %d transaction(s)", account.Name, len(referencing)))
	return nil
}
