// Package ledger contains the domain model and the balance-consistency
// engine of the finance tracker. The engine is the sole authority for
// mutating account balances: it computes the signed effect a transaction
// implies, applies it when a transaction is recorded, and reverses the
// as-recorded effect before an edit or delete touches anything else.
//
// All monetary amounts use decimal arithmetic to avoid floating point
// precision issues. The engine never recomputes an account's balance from
// the full transaction set on the hot path; Check does that explicitly when
// asked.
//
// Example usage:
//
//	st, err := store.Open(ctx, "centi.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine := ledger.NewEngine(st)
//
//	txn, err := ledger.NewTransaction(amount, ledger.KindExpense, acct.ID, uuid.Nil, "Shopping", time.Now())
//	if err != nil {
//	    // Validation failed; nothing was recorded.
//	}
//	err = engine.Record(ctx, txn)
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jgoi0512/centi/telemetry"
)

// Store is the durable repository the engine reads from and commits to.
// Implementations must make Commit atomic: either every mutation in the
// commit is persisted or none is.
//
// The account-to-transactions back reference is an index owned by the store
// (TransactionsByAccount), never a live object graph; the engine only walks
// from transaction to account.
type Store interface {
	// Account loads an account by id. Returns *AccountNotFoundError if it
	// does not exist.
	Account(ctx context.Context, id uuid.UUID) (*Account, error)

	// Transaction loads a transaction by id. Returns
	// *TransactionNotFoundError if it does not exist.
	Transaction(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// Accounts lists all accounts.
	Accounts(ctx context.Context) ([]*Account, error)

	// TransactionsByAccount lists the transactions referencing the account
	// as source or destination.
	TransactionsByAccount(ctx context.Context, id uuid.UUID) ([]*Transaction, error)

	// Commit persists the given mutations in one atomic unit.
	Commit(ctx context.Context, commit Commit) error
}

// Commit is one atomic unit of mutations. Accounts and Transactions are
// upserted; the Delete slices remove records by id.
type Commit struct {
	Accounts           []*Account
	Transactions       []*Transaction
	DeleteTransactions []uuid.UUID
	DeleteAccounts     []uuid.UUID
}

// Engine applies and reverses transaction effects against account balances.
// All operations are single-writer and synchronous; each one commits its
// account mutations and the transaction record in one atomic store commit.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine creates an engine on top of a store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Record validates a new transaction, applies its effect to the referenced
// account balances, and commits the mutated accounts together with the
// transaction record.
//
// For a transfer, the total money delta across the two accounts is zero;
// for income and expense it is exactly +amount and -amount.
func (e *Engine) Record(ctx context.Context, txn *Transaction) error {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("engine.record %s", txn.Kind))
	defer timer.End()

	if err := txn.Validate(); err != nil {
		return err
	}

	accounts, err := e.loadTouched(ctx, txn.Effect(), true)
	if err != nil {
		return err
	}
	e.applyDeltas(accounts, txn.Effect())

	return e.store.Commit(ctx, Commit{
		Accounts:     accountList(accounts),
		Transactions: []*Transaction{txn},
	})
}

// Edit replaces a transaction's fields with new values, keeping every
// referenced balance consistent. The stored record is loaded first and its
// snapshot reversed before the new fields are applied; reversing after the
// fields are overwritten would reverse the new effect instead of the old one
// and silently corrupt balances.
//
// The reversal runs against the transaction's previous accounts even when
// the edit re-points it at different ones. A previous account that no longer
// exists is skipped for that side; the rest of the edit proceeds.
func (e *Engine) Edit(ctx context.Context, id uuid.UUID, next *Transaction) error {
	timer := telemetry.FromContext(ctx).Start("engine.edit")
	defer timer.End()

	recorded, err := e.store.Transaction(ctx, id)
	if err != nil {
		return err
	}
	snapshot := recorded.Snapshot()

	next.ID = recorded.ID
	next.CreatedAt = recorded.CreatedAt
	if err := next.Validate(); err != nil {
		return err
	}

	// Old accounts may be gone; new ones must exist.
	accounts, err := e.loadTouched(ctx, snapshot.Reversal(), false)
	if err != nil {
		return err
	}
	if err := e.loadTouchedInto(ctx, accounts, next.Effect(), true); err != nil {
		return err
	}

	e.applyDeltas(accounts, snapshot.Reversal())
	e.applyDeltas(accounts, next.Effect())

	return e.store.Commit(ctx, Commit{
		Accounts:     accountList(accounts),
		Transactions: []*Transaction{next},
	})
}

// Delete reverses a transaction's as-recorded effect and removes the record,
// both in one commit. A referenced account that was already deleted is
// skipped for that side of the reversal.
func (e *Engine) Delete(ctx context.Context, id uuid.UUID) error {
	timer := telemetry.FromContext(ctx).Start("engine.delete")
	defer timer.End()

	recorded, err := e.store.Transaction(ctx, id)
	if err != nil {
		return err
	}

	accounts, err := e.loadTouched(ctx, recorded.Snapshot().Reversal(), false)
	if err != nil {
		return err
	}
	e.applyDeltas(accounts, recorded.Snapshot().Reversal())

	return e.store.Commit(ctx, Commit{
		Accounts:           accountList(accounts),
		DeleteTransactions: []uuid.UUID{id},
	})
}

// DeleteAccount removes an account and cascades to every transaction that
// references it. Each transaction's effect is reversed against the accounts
// that survive; deltas against the dying account are dropped, since its
// balance ceases to exist together with the transactions that produced it.
func (e *Engine) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	timer := telemetry.FromContext(ctx).Start("engine.delete_account")
	defer timer.End()

	if _, err := e.store.Account(ctx, id); err != nil {
		return err
	}

	transactions, err := e.store.TransactionsByAccount(ctx, id)
	if err != nil {
		return err
	}

	accounts := make(map[uuid.UUID]*Account)
	deleted := make([]uuid.UUID, 0, len(transactions))
	for _, txn := range transactions {
		reversal := withoutAccount(txn.Snapshot().Reversal(), id)
		if err := e.loadTouchedInto(ctx, accounts, reversal, false); err != nil {
			return err
		}
		e.applyDeltas(accounts, reversal)
		deleted = append(deleted, txn.ID)
	}

	return e.store.Commit(ctx, Commit{
		Accounts:           accountList(accounts),
		DeleteTransactions: deleted,
		DeleteAccounts:     []uuid.UUID{id},
	})
}

// Check verifies the derived consistency property for every account:
// Balance == OpeningBalance + sum of the effects of every transaction
// referencing the account. Mismatches are collected and returned together
// as a *ValidationErrors; a nil return means every account is consistent.
func (e *Engine) Check(ctx context.Context) error {
	timer := telemetry.FromContext(ctx).Start("engine.check")
	defer timer.End()

	accounts, err := e.store.Accounts(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, account := range accounts {
		transactions, err := e.store.TransactionsByAccount(ctx, account.ID)
		if err != nil {
			return err
		}

		expected := account.OpeningBalance
		for _, txn := range transactions {
			for _, delta := range txn.Effect() {
				if delta.Account == account.ID {
					expected = expected.Add(delta.Amount)
				}
			}
		}

		if !expected.Equal(account.Balance) {
			errs = append(errs, NewBalanceMismatchError(account, expected))
		}
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// loadTouched loads clones of the accounts a set of deltas touches. With
// strict set, a missing account is an error; otherwise its deltas will be
// dangling references and the account is simply absent from the result.
func (e *Engine) loadTouched(ctx context.Context, deltas []Delta, strict bool) (map[uuid.UUID]*Account, error) {
	accounts := make(map[uuid.UUID]*Account)
	if err := e.loadTouchedInto(ctx, accounts, deltas, strict); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (e *Engine) loadTouchedInto(ctx context.Context, accounts map[uuid.UUID]*Account, deltas []Delta, strict bool) error {
	for _, delta := range deltas {
		if _, ok := accounts[delta.Account]; ok {
			continue
		}

		account, err := e.store.Account(ctx, delta.Account)
		if err != nil {
			var notFound *AccountNotFoundError
			if !strict && errors.As(err, &notFound) {
				continue // dangling reference, reversal side is a no-op
			}
			return err
		}
		accounts[delta.Account] = account.Clone()
	}
	return nil
}

// applyDeltas adds each delta to its account's balance and bumps ModifiedAt.
// Deltas against accounts absent from the map are skipped; loadTouched has
// already classified those as dangling.
func (e *Engine) applyDeltas(accounts map[uuid.UUID]*Account, deltas []Delta) {
	now := e.now()
	for _, delta := range deltas {
		account, ok := accounts[delta.Account]
		if !ok {
			continue
		}
		account.Balance = account.Balance.Add(delta.Amount)
		account.ModifiedAt = now
	}
}

func accountList(accounts map[uuid.UUID]*Account) []*Account {
	list := make([]*Account, 0, len(accounts))
	for _, account := range accounts {
		list = append(list, account)
	}
	return list
}

func withoutAccount(deltas []Delta, id uuid.UUID) []Delta {
	kept := deltas[:0:0]
	for _, delta := range deltas {
		if delta.Account != id {
			kept = append(kept, delta)
		}
	}
	return kept
}
