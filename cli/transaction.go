package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"github.com/jgoi0512/centi/ledger"
	"github.com/jgoi0512/centi/store"
)

const dateLayout = "2006-01-02"

type TxCmd struct {
	Add    TxAddCmd    `cmd:"" help:"Record a transaction."`
	Edit   TxEditCmd   `cmd:"" help:"Edit a recorded transaction."`
	Delete TxDeleteCmd `cmd:"" help:"Delete a transaction, reversing its balance effect."`
	List   TxListCmd   `cmd:"" help:"List transactions, newest first, grouped by day."`
}

type TxAddCmd struct {
	Amount   string `help:"Transaction amount (always positive)." arg:""`
	Kind     string `help:"Transaction kind (Income, Expense, Transfer)." default:"Expense"`
	From     string `help:"Source account name." required:""`
	To       string `help:"Destination account name (transfers only)." default:""`
	Category string `help:"Category name." default:"Other"`
	Note     string `help:"Free-form note." default:""`
	Date     string `help:"Transaction date (2006-01-02, defaults to today)." default:""`
}

func (cmd *TxAddCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx.Stderr, collector)

	amount, err := ledger.ParseAmount(cmd.Amount)
	if err != nil {
		return err
	}
	kind, err := ledger.ParseKind(cmd.Kind)
	if err != nil {
		return err
	}
	date, err := parseDate(cmd.Date)
	if err != nil {
		return err
	}

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	source, err := s.AccountByName(runCtx, cmd.From)
	if err != nil {
		return err
	}
	destination := uuid.Nil
	if cmd.To != "" {
		account, err := s.AccountByName(runCtx, cmd.To)
		if err != nil {
			return err
		}
		destination = account.ID
	}

	txn, err := ledger.NewTransaction(amount, kind, source.ID, destination, cmd.Category, date)
	if err != nil {
		return renderValidation(ctx, err)
	}
	txn.Note = cmd.Note

	engine := ledger.NewEngine(s)
	if err := engine.Record(runCtx, txn); err != nil {
		return renderValidation(ctx, err)
	}

	cfg := ledger.ConfigFromContext(runCtx)
	printSuccess(ctx.Stdout, fmt.Sprintf("Recorded %s of %s (%s)",
		kind, ledger.FormatAmount(cfg, amount, source.Currency), txn.ID))
	return nil
}

type TxEditCmd struct {
	ID       string `help:"ID of the transaction to edit." arg:""`
	Amount   string `help:"New amount." default:""`
	Kind     string `help:"New kind (Income, Expense, Transfer)." default:""`
	From     string `help:"New source account name." default:""`
	To       string `help:"New destination account name (transfers only)." default:""`
	Category string `help:"New category name." default:""`
	Note     string `help:"New note." default:""`
	Date     string `help:"New date (2006-01-02)." default:""`
	NoTo     bool   `help:"Clear the destination (when changing a transfer to another kind)." name:"no-to"`
	NoNote   bool   `help:"Clear the note." name:"no-note"`
}

func (cmd *TxEditCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx.Stderr, collector)

	id, err := uuid.Parse(cmd.ID)
	if err != nil {
		return fmt.Errorf("invalid transaction id %q: %w", cmd.ID, err)
	}

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	recorded, err := s.Transaction(runCtx, id)
	if err != nil {
		return err
	}
	next := recorded.Clone()

	if cmd.Amount != "" {
		amount, err := ledger.ParseAmount(cmd.Amount)
		if err != nil {
			return err
		}
		next.Amount = amount
	}
	if cmd.Kind != "" {
		kind, err := ledger.ParseKind(cmd.Kind)
		if err != nil {
			return err
		}
		next.Kind = kind
	}
	if cmd.From != "" {
		account, err := s.AccountByName(runCtx, cmd.From)
		if err != nil {
			return err
		}
		next.Source = account.ID
	}
	if cmd.To != "" {
		account, err := s.AccountByName(runCtx, cmd.To)
		if err != nil {
			return err
		}
		next.Destination = account.ID
	}
	if cmd.NoTo {
		next.Destination = uuid.Nil
	}
	if cmd.Category != "" {
		next.Category = cmd.Category
	}
	if cmd.Note != "" {
		next.Note = cmd.Note
	}
	if cmd.NoNote {
		next.Note = ""
	}
	if cmd.Date != "" {
		date, err := parseDate(cmd.Date)
		if err != nil {
			return err
		}
		next.Date = date
	}

	engine := ledger.NewEngine(s)
	if err := engine.Edit(runCtx, id, next); err != nil {
		return renderValidation(ctx, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Updated transaction %s", id))
	return nil
}

type TxDeleteCmd struct {
	ID  string `help:"ID of the transaction to delete." arg:""`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (cmd *TxDeleteCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx.Stderr, collector)

	id, err := uuid.Parse(cmd.ID)
	if err != nil {
		return fmt.Errorf("invalid transaction id %q: %w", cmd.ID, err)
	}

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.Transaction(runCtx, id); err != nil {
		return err
	}

	if !cmd.Yes {
		confirmed, err := promptYesNo("Are you sure you want to delete this transaction? This action cannot be undone.")
		if err != nil {
			return err
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Aborted")
			return nil
		}
	}

	engine := ledger.NewEngine(s)
	if err := engine.Delete(runCtx, id); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Deleted transaction %s", id))
	return nil
}

type TxListCmd struct {
	Account  []string `help:"Filter by account name (repeatable)."`
	Category []string `help:"Filter by category (repeatable)."`
	Kind     []string `help:"Filter by kind (repeatable)."`
	From     string   `help:"Only transactions on or after this date (2006-01-02)." default:""`
	To       string   `help:"Only transactions on or before this date (2006-01-02)." default:""`
	Limit    int      `help:"Maximum number of transactions to show." default:"50"`
	IDs      bool     `help:"Show transaction IDs."`
}

func (cmd *TxListCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx.Stderr, collector)

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	filter := store.Filter{Limit: cmd.Limit}
	for _, name := range cmd.Account {
		account, err := s.AccountByName(runCtx, name)
		if err != nil {
			return err
		}
		filter.Accounts = append(filter.Accounts, account.ID)
	}
	filter.Categories = cmd.Category
	for _, k := range cmd.Kind {
		kind, err := ledger.ParseKind(k)
		if err != nil {
			return err
		}
		filter.Kinds = append(filter.Kinds, kind)
	}
	if cmd.From != "" {
		if filter.From, err = parseDate(cmd.From); err != nil {
			return err
		}
	}
	if cmd.To != "" {
		day, err := parseDate(cmd.To)
		if err != nil {
			return err
		}
		// Inclusive through the end of the named day.
		filter.To = day.Add(24*time.Hour - time.Nanosecond)
	}

	transactions, err := s.Transactions(runCtx, filter)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		printInfof(ctx.Stdout, "No transactions found")
		return nil
	}

	renderTransactionList(ctx.Stdout, runCtx, s, transactions, cmd.IDs)
	return nil
}

// renderTransactionList prints transactions grouped by day, newest day first,
// with the current and previous day labeled Today and Yesterday.
func renderTransactionList(w io.Writer, ctx context.Context, s *store.Store, transactions []*ledger.Transaction, showIDs bool) {
	cfg := ledger.ConfigFromContext(ctx)
	names := accountNames(ctx, s)

	amountWidth := 0
	lines := make([]string, len(transactions))
	byID := make(map[uuid.UUID]int, len(transactions))
	for i, txn := range transactions {
		byID[txn.ID] = i
		lines[i] = formatSignedAmount(cfg, txn, names)
		if width := runewidth.StringWidth(lines[i]); width > amountWidth {
			amountWidth = width
		}
	}

	for gi, group := range store.GroupByDay(transactions) {
		if gi > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, dimStyle.Render(dayLabel(group.Day)))

		for _, txn := range group.Transactions {
			amount := padLeft(lines[byID[txn.ID]], amountWidth)
			detail := txn.Category
			if txn.Note != "" {
				detail += "  " + dimStyle.Render(txn.Note)
			}
			line := fmt.Sprintf("  %s  %s", amountStyle.Render(amount), detail)
			if showIDs {
				line += "  " + dimStyle.Render(txn.ID.String())
			}
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

// formatSignedAmount renders a transaction amount with the sign and account
// context a reader expects from a list: expenses negative, transfers shown
// as source to destination.
func formatSignedAmount(cfg *ledger.Config, txn *ledger.Transaction, names map[uuid.UUID]string) string {
	switch txn.Kind {
	case ledger.KindExpense:
		return ledger.FormatAmount(cfg, txn.Amount.Neg(), "")
	case ledger.KindTransfer:
		return fmt.Sprintf("%s (%s → %s)",
			ledger.FormatAmount(cfg, txn.Amount, ""),
			accountName(names, txn.Source), accountName(names, txn.Destination))
	default:
		return "+" + ledger.FormatAmount(cfg, txn.Amount, "")
	}
}

// accountName resolves an account ID for display. A reference to a deleted
// account falls back to a shortened ID rather than failing the listing.
func accountName(names map[uuid.UUID]string, id uuid.UUID) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id.String()[:8]
}

func accountNames(ctx context.Context, s *store.Store) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string)
	accounts, err := s.Accounts(ctx)
	if err != nil {
		return names
	}
	for _, account := range accounts {
		names[account.ID] = account.Name
	}
	return names
}

func dayLabel(day time.Time) string {
	today := startOfToday()
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format("Monday, 2 January 2006")
	}
}

func startOfToday() time.Time {
	year, month, day := time.Now().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// parseDate parses a 2006-01-02 date in local time; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	date, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected %s): %w", s, dateLayout, err)
	}
	return date, nil
}

// renderValidation expands a *ValidationErrors into its individual messages;
// any other error passes through.
func renderValidation(ctx *kong.Context, err error) error {
	var verrs *ledger.ValidationErrors
	if errors.As(err, &verrs) {
		return renderErrors(ctx, verrs.Errors)
	}
	return err
}
