// Package store persists accounts, transactions, and categories in a local
// SQLite database. It implements ledger.Store: loads by id, the
// account-to-transactions back-reference index, and an atomic Commit that
// wraps every account mutation and transaction write of one engine operation
// in a single SQL transaction. A crash between debiting a transfer's source
// and crediting its destination can therefore never persist.
//
// Amounts are stored as decimal strings, never floats, so balances survive
// round-trips exactly.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jgoi0512/centi/ledger"
	"github.com/jgoi0512/centi/telemetry"
)

// Store provides database operations on a single SQLite file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path, applies the schema,
// and seeds the default categories into an empty category table.
func Open(ctx context.Context, path string) (*Store, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("store.open %s", path))
	defer timer.End()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single-writer model; serialize access at the connection level.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.SeedDefaultCategories(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrations returns the schema statements. Each string is a single SQL
// statement (SQLite executes one at a time).
func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL UNIQUE,
			type            TEXT NOT NULL,
			opening_balance TEXT NOT NULL,
			balance         TEXT NOT NULL,
			icon            TEXT NOT NULL DEFAULT 'creditcard',
			color           TEXT NOT NULL DEFAULT 'appBlue',
			currency        TEXT NOT NULL DEFAULT '',
			created_at      TEXT NOT NULL,
			modified_at     TEXT NOT NULL
		)`,

		// destination_id is NULL unless the transaction is a transfer.
		// References are deliberately not ON DELETE CASCADE: the engine owns
		// the cascade so it can reverse effects against surviving accounts
		// before the rows go away.
		`CREATE TABLE IF NOT EXISTS transactions (
			id             TEXT PRIMARY KEY,
			amount         TEXT NOT NULL,
			kind           TEXT NOT NULL,
			source_id      TEXT NOT NULL REFERENCES accounts(id),
			destination_id TEXT REFERENCES accounts(id),
			category       TEXT NOT NULL,
			note           TEXT NOT NULL DEFAULT '',
			date           TEXT NOT NULL,
			created_at     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_source ON transactions(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_destination ON transactions(destination_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			icon       TEXT NOT NULL DEFAULT 'tag',
			color      TEXT NOT NULL DEFAULT 'appBlue',
			is_default INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
	}
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range migrations() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Account loads an account by id.
func (s *Store) Account(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, opening_balance, balance, icon, color, currency, created_at, modified_at
		FROM accounts
		WHERE id = ?`, id.String())

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.NewAccountNotFoundError(id)
	}
	return account, err
}

// AccountByName loads an account by its unique name.
func (s *Store) AccountByName(ctx context.Context, name string) (*ledger.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, opening_balance, balance, icon, color, currency, created_at, modified_at
		FROM accounts
		WHERE name = ?`, name)

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %q not found", name)
	}
	return account, err
}

// Accounts lists all accounts ordered by name.
func (s *Store) Accounts(ctx context.Context) ([]*ledger.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, opening_balance, balance, icon, color, currency, created_at, modified_at
		FROM accounts
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*ledger.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Transaction loads a transaction by id.
func (s *Store) Transaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, amount, kind, source_id, destination_id, category, note, date, created_at
		FROM transactions
		WHERE id = ?`, id.String())

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.NewTransactionNotFoundError(id)
	}
	return txn, err
}

// TransactionsByAccount lists the transactions referencing the account as
// source or destination, newest first. This is the back-reference index the
// engine uses for cascade deletes and consistency checks.
func (s *Store) TransactionsByAccount(ctx context.Context, id uuid.UUID) ([]*ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, kind, source_id, destination_id, category, note, date, created_at
		FROM transactions
		WHERE source_id = ? OR destination_id = ?
		ORDER BY date DESC, created_at DESC`, id.String(), id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Commit persists the given mutations inside a single SQL transaction.
// Either every mutation is applied or, on any failure, none is.
func (s *Store) Commit(ctx context.Context, commit ledger.Commit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin commit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, account := range commit.Accounts {
		if err := upsertAccount(ctx, tx, account); err != nil {
			return err
		}
	}
	for _, txn := range commit.Transactions {
		if err := upsertTransaction(ctx, tx, txn); err != nil {
			return err
		}
	}
	for _, id := range commit.DeleteTransactions {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id.String()); err != nil {
			return fmt.Errorf("failed to delete transaction %s: %w", id, err)
		}
	}
	for _, id := range commit.DeleteAccounts {
		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id.String()); err != nil {
			return fmt.Errorf("failed to delete account %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func upsertAccount(ctx context.Context, tx *sql.Tx, account *ledger.Account) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, name, type, opening_balance, balance, icon, color, currency, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name            = excluded.name,
			type            = excluded.type,
			opening_balance = excluded.opening_balance,
			balance         = excluded.balance,
			icon            = excluded.icon,
			color           = excluded.color,
			currency        = excluded.currency,
			modified_at     = excluded.modified_at`,
		account.ID.String(), account.Name, account.Type.String(),
		account.OpeningBalance.String(), account.Balance.String(),
		account.Icon, account.Color, account.Currency,
		formatTime(account.CreatedAt), formatTime(account.ModifiedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert account %s: %w", account.Name, err)
	}
	return nil
}

func upsertTransaction(ctx context.Context, tx *sql.Tx, txn *ledger.Transaction) error {
	var destination any
	if txn.Destination != uuid.Nil {
		destination = txn.Destination.String()
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, kind, source_id, destination_id, category, note, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount         = excluded.amount,
			kind           = excluded.kind,
			source_id      = excluded.source_id,
			destination_id = excluded.destination_id,
			category       = excluded.category,
			note           = excluded.note,
			date           = excluded.date`,
		txn.ID.String(), txn.Amount.String(), txn.Kind.String(),
		txn.Source.String(), destination,
		txn.Category, txn.Note, formatTime(txn.Date), formatTime(txn.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert transaction %s: %w", txn.ID, err)
	}
	return nil
}

// timeLayout is RFC 3339 with fixed-width nanoseconds. RFC3339Nano trims
// trailing zeros, which would break the lexicographic ordering the date
// comparisons in SQL rely on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
