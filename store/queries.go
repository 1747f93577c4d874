package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jgoi0512/centi/ledger"
)

// Filter narrows a transaction listing. Empty slices and zero times mean
// "no constraint", matching the dashboard's behavior of treating an empty
// selection as no filter at all.
type Filter struct {
	Accounts   []uuid.UUID // matches source or destination
	Categories []string
	Kinds      []ledger.Kind
	From       time.Time // inclusive
	To         time.Time // inclusive
	Limit      int       // 0 means no limit
}

// Transactions lists transactions matching the filter, newest first.
func (s *Store) Transactions(ctx context.Context, filter Filter) ([]*ledger.Transaction, error) {
	var conditions []string
	var args []any

	if len(filter.Accounts) > 0 {
		placeholders := placeholderList(len(filter.Accounts))
		for _, id := range filter.Accounts {
			args = append(args, id.String())
		}
		for _, id := range filter.Accounts {
			args = append(args, id.String())
		}
		conditions = append(conditions,
			fmt.Sprintf("(source_id IN (%s) OR destination_id IN (%s))", placeholders, placeholders))
	}
	if len(filter.Categories) > 0 {
		conditions = append(conditions, fmt.Sprintf("category IN (%s)", placeholderList(len(filter.Categories))))
		for _, category := range filter.Categories {
			args = append(args, category)
		}
	}
	if len(filter.Kinds) > 0 {
		conditions = append(conditions, fmt.Sprintf("kind IN (%s)", placeholderList(len(filter.Kinds))))
		for _, kind := range filter.Kinds {
			args = append(args, kind.String())
		}
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "date >= ?")
		args = append(args, formatTime(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "date <= ?")
		args = append(args, formatTime(filter.To))
	}

	query := `
		SELECT id, amount, kind, source_id, destination_id, category, note, date, created_at
		FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// DayGroup is one calendar day of transactions, newest day first when
// produced by GroupByDay.
type DayGroup struct {
	Day          time.Time
	Transactions []*ledger.Transaction
}

// GroupByDay groups an already newest-first transaction list by calendar day
// (local time). Day order follows the input order, so the newest day comes
// first.
func GroupByDay(transactions []*ledger.Transaction) []DayGroup {
	var groups []DayGroup
	index := make(map[time.Time]int)

	for _, txn := range transactions {
		day := startOfDay(txn.Date.Local())
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Day: day})
		}
		groups[i].Transactions = append(groups[i].Transactions, txn)
	}
	return groups
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Categories lists all categories, defaults first, then by name.
func (s *Store) Categories(ctx context.Context) ([]*ledger.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, icon, color, is_default, created_at
		FROM categories
		ORDER BY is_default DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*ledger.Category
	for rows.Next() {
		var category ledger.Category
		var id, createdAt string
		var isDefault int
		if err := rows.Scan(&id, &category.Name, &category.Icon, &category.Color, &isDefault, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if category.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid category id %q: %w", id, err)
		}
		if category.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("invalid category created_at %q: %w", createdAt, err)
		}
		category.IsDefault = isDefault == 1
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}

// AddCategory inserts a category. The name must be unique.
func (s *Store) AddCategory(ctx context.Context, category *ledger.Category) error {
	isDefault := 0
	if category.IsDefault {
		isDefault = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, icon, color, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		category.ID.String(), category.Name, category.Icon, category.Color,
		isDefault, formatTime(category.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add category %q: %w", category.Name, err)
	}
	return nil
}

// DeleteCategory removes a user-defined category by name. Default categories
// cannot be deleted. Transactions keep the deleted category's name as a raw
// string.
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM categories WHERE name = ? AND is_default = 0`, name)
	if err != nil {
		return fmt.Errorf("failed to delete category %q: %w", name, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("category %q not found or is a default category", name)
	}
	return nil
}

// SeedDefaultCategories inserts the default categories into an empty
// category table. It is a no-op when any category exists.
func (s *Store) SeedDefaultCategories(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, category := range ledger.DefaultCategories() {
		if err := s.AddCategory(ctx, category); err != nil {
			return err
		}
	}
	return nil
}

func placeholderList(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*ledger.Account, error) {
	var account ledger.Account
	var id, typ, opening, balance, createdAt, modifiedAt string

	err := row.Scan(&id, &account.Name, &typ, &opening, &balance,
		&account.Icon, &account.Color, &account.Currency, &createdAt, &modifiedAt)
	if err != nil {
		return nil, err
	}

	if account.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid account id %q: %w", id, err)
	}
	if account.Type, err = ledger.ParseAccountType(typ); err != nil {
		return nil, err
	}
	if account.OpeningBalance, err = decimal.NewFromString(opening); err != nil {
		return nil, fmt.Errorf("invalid opening balance %q: %w", opening, err)
	}
	if account.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("invalid balance %q: %w", balance, err)
	}
	if account.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("invalid account created_at %q: %w", createdAt, err)
	}
	if account.ModifiedAt, err = parseTime(modifiedAt); err != nil {
		return nil, fmt.Errorf("invalid account modified_at %q: %w", modifiedAt, err)
	}
	return &account, nil
}

func scanTransaction(row scanner) (*ledger.Transaction, error) {
	var txn ledger.Transaction
	var id, amount, kind, source, date, createdAt string
	var destination sql.NullString

	err := row.Scan(&id, &amount, &kind, &source, &destination,
		&txn.Category, &txn.Note, &date, &createdAt)
	if err != nil {
		return nil, err
	}

	if txn.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid transaction id %q: %w", id, err)
	}
	if txn.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid transaction amount %q: %w", amount, err)
	}
	if txn.Kind, err = ledger.ParseKind(kind); err != nil {
		return nil, err
	}
	if txn.Source, err = uuid.Parse(source); err != nil {
		return nil, fmt.Errorf("invalid source id %q: %w", source, err)
	}
	if destination.Valid {
		if txn.Destination, err = uuid.Parse(destination.String); err != nil {
			return nil, fmt.Errorf("invalid destination id %q: %w", destination.String, err)
		}
	}
	if txn.Date, err = parseTime(date); err != nil {
		return nil, fmt.Errorf("invalid transaction date %q: %w", date, err)
	}
	if txn.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("invalid transaction created_at %q: %w", createdAt, err)
	}
	return &txn, nil
}

func collectTransactions(rows *sql.Rows) ([]*ledger.Transaction, error) {
	var transactions []*ledger.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}
