package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory Store for engine tests. Commits apply all
// mutations or, when failCommit is set, none.
type memStore struct {
	accounts     map[uuid.UUID]*Account
	transactions map[uuid.UUID]*Transaction
	failCommit   error
}

func newMemStore() *memStore {
	return &memStore{
		accounts:     make(map[uuid.UUID]*Account),
		transactions: make(map[uuid.UUID]*Transaction),
	}
}

func (m *memStore) Account(_ context.Context, id uuid.UUID) (*Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return nil, NewAccountNotFoundError(id)
	}
	return account.Clone(), nil
}

func (m *memStore) Transaction(_ context.Context, id uuid.UUID) (*Transaction, error) {
	txn, ok := m.transactions[id]
	if !ok {
		return nil, NewTransactionNotFoundError(id)
	}
	return txn.Clone(), nil
}

func (m *memStore) Accounts(_ context.Context) ([]*Account, error) {
	list := make([]*Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		list = append(list, account.Clone())
	}
	return list, nil
}

func (m *memStore) TransactionsByAccount(_ context.Context, id uuid.UUID) ([]*Transaction, error) {
	var list []*Transaction
	for _, txn := range m.transactions {
		if txn.Source == id || txn.Destination == id {
			list = append(list, txn.Clone())
		}
	}
	return list, nil
}

func (m *memStore) Commit(_ context.Context, commit Commit) error {
	if m.failCommit != nil {
		return m.failCommit
	}
	for _, account := range commit.Accounts {
		m.accounts[account.ID] = account.Clone()
	}
	for _, txn := range commit.Transactions {
		m.transactions[txn.ID] = txn.Clone()
	}
	for _, id := range commit.DeleteTransactions {
		delete(m.transactions, id)
	}
	for _, id := range commit.DeleteAccounts {
		delete(m.accounts, id)
	}
	return nil
}

func (m *memStore) addAccount(name string, balance int64) *Account {
	account := NewAccount(name, AccountTypeTransaction, decimal.NewFromInt(balance))
	m.accounts[account.ID] = account
	return account
}

func (m *memStore) balance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	account, ok := m.accounts[id]
	assert.True(t, ok, "account %s should exist", id)
	return account.Balance
}

func assertBalance(t *testing.T, m *memStore, id uuid.UUID, want int64) {
	t.Helper()
	got := m.balance(t, id)
	assert.True(t, got.Equal(decimal.NewFromInt(want)),
		"balance should be %d, got %s", want, got)
}

func expense(t *testing.T, source uuid.UUID, amount int64) *Transaction {
	t.Helper()
	txn, err := NewTransaction(decimal.NewFromInt(amount), KindExpense, source, uuid.Nil, "Other", time.Now())
	assert.NoError(t, err)
	return txn
}

func transfer(t *testing.T, source, destination uuid.UUID, amount int64) *Transaction {
	t.Helper()
	txn, err := NewTransaction(decimal.NewFromInt(amount), KindTransfer, source, destination, "Other", time.Now())
	assert.NoError(t, err)
	return txn
}

func TestEngine_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("expense decreases source", func(t *testing.T) {
		m := newMemStore()
		account := m.addAccount("Checking", 100)
		engine := NewEngine(m)

		assert.NoError(t, engine.Record(ctx, expense(t, account.ID, 30)))
		assertBalance(t, m, account.ID, 70)
		assert.Equal(t, 1, len(m.transactions))
	})

	t.Run("income increases source", func(t *testing.T) {
		m := newMemStore()
		account := m.addAccount("Checking", 100)
		engine := NewEngine(m)

		txn, err := NewTransaction(decimal.NewFromInt(25), KindIncome, account.ID, uuid.Nil, "Salary", time.Now())
		assert.NoError(t, err)
		assert.NoError(t, engine.Record(ctx, txn))
		assertBalance(t, m, account.ID, 125)
	})

	t.Run("transfer conserves total", func(t *testing.T) {
		m := newMemStore()
		a := m.addAccount("Checking", 100)
		b := m.addAccount("Savings", 50)
		engine := NewEngine(m)

		assert.NoError(t, engine.Record(ctx, transfer(t, a.ID, b.ID, 40)))
		assertBalance(t, m, a.ID, 60)
		assertBalance(t, m, b.ID, 90)
	})

	t.Run("validation failure records nothing", func(t *testing.T) {
		m := newMemStore()
		account := m.addAccount("Checking", 100)
		engine := NewEngine(m)

		invalid := &Transaction{
			ID:     uuid.New(),
			Amount: decimal.Zero,
			Kind:   KindExpense,
			Source: account.ID,
		}
		err := engine.Record(ctx, invalid)
		assert.Error(t, err)

		var verrs *ValidationErrors
		assert.True(t, errors.As(err, &verrs))
		assertBalance(t, m, account.ID, 100)
		assert.Equal(t, 0, len(m.transactions))
	})

	t.Run("missing account is an error", func(t *testing.T) {
		m := newMemStore()
		engine := NewEngine(m)

		err := engine.Record(ctx, expense(t, uuid.New(), 10))
		var notFound *AccountNotFoundError
		assert.True(t, errors.As(err, &notFound))
	})

	t.Run("failed commit leaves store untouched", func(t *testing.T) {
		m := newMemStore()
		account := m.addAccount("Checking", 100)
		m.failCommit = errors.New("disk full")
		engine := NewEngine(m)

		err := engine.Record(ctx, expense(t, account.ID, 30))
		assert.Error(t, err)
		assertBalance(t, m, account.ID, 100)
		assert.Equal(t, 0, len(m.transactions))
	})
}

func TestEngine_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("amount change reverses old effect first", func(t *testing.T) {
		m := newMemStore()
		account := m.addAccount("Checking", 200)
		engine := NewEngine(m)

		txn := expense(t, account.ID, 70)
		assert.NoError(t, engine.Record(ctx, txn))
		assertBalance(t, m, account.ID, 130)

		next := txn.Clone()
		next.Amount = decimal.NewFromInt(130)
		assert.NoError(t, engine.Edit(ctx, txn.ID, next))

		// 200 - 130, not 130 - 130.
		assertBalance(t, m, account.ID, 70)
	})

	t.Run("kind change flips direction", func(t *testing.T) {
		m := newMemStore()
		account := m.addAccount("Checking", 100)
		engine := NewEngine(m)

		txn := expense(t, account.ID, 20)
		assert.NoError(t, engine.Record(ctx, txn))
		assertBalance(t, m, account.ID, 80)

		next := txn.Clone()
		next.Kind = KindIncome
		assert.NoError(t, engine.Edit(ctx, txn.ID, next))
		assertBalance(t, m, account.ID, 120)
	})

	t.Run("re-pointing a transfer updates all three accounts", func(t *testing.T) {
		m := newMemStore()
		a := m.addAccount("A", 100)
		b := m.addAccount("B", 100)
		c := m.addAccount("C", 100)
		engine := NewEngine(m)

		txn := transfer(t, a.ID, b.ID, 40)
		assert.NoError(t, engine.Record(ctx, txn))
		assertBalance(t, m, a.ID, 60)
		assertBalance(t, m, b.ID, 140)

		next := txn.Clone()
		next.Destination = c.ID
		assert.NoError(t, engine.Edit(ctx, txn.ID, next))

		assertBalance(t, m, a.ID, 60)
		assertBalance(t, m, b.ID, 100)
		assertBalance(t, m, c.ID, 140)
	})

	t.Run("identity edit is a no-op on balances", func(t *testing.T) {
		m := newMemStore()
		account := m.addAccount("Checking", 100)
		engine := NewEngine(m)

		txn := expense(t, account.ID, 30)
		assert.NoError(t, engine.Record(ctx, txn))
		assert.NoError(t, engine.Edit(ctx, txn.ID, txn.Clone()))
		assertBalance(t, m, account.ID, 70)
	})

	t.Run("invalid new values change nothing", func(t *testing.T) {
		m := newMemStore()
		account := m.addAccount("Checking", 100)
		engine := NewEngine(m)

		txn := expense(t, account.ID, 30)
		assert.NoError(t, engine.Record(ctx, txn))

		next := txn.Clone()
		next.Amount = decimal.NewFromInt(-5)
		assert.Error(t, engine.Edit(ctx, txn.ID, next))

		assertBalance(t, m, account.ID, 70)
		stored, err := m.Transaction(ctx, txn.ID)
		assert.NoError(t, err)
		assert.True(t, stored.Amount.Equal(decimal.NewFromInt(30)))
	})

	t.Run("unknown transaction", func(t *testing.T) {
		m := newMemStore()
		engine := NewEngine(m)

		err := engine.Edit(ctx, uuid.New(), expense(t, uuid.New(), 10))
		var notFound *TransactionNotFoundError
		assert.True(t, errors.As(err, &notFound))
	})

	t.Run("id and creation time survive the edit", func(t *testing.T) {
		m := newMemStore()
		account := m.addAccount("Checking", 100)
		engine := NewEngine(m)

		txn := expense(t, account.ID, 10)
		assert.NoError(t, engine.Record(ctx, txn))

		next := txn.Clone()
		next.ID = uuid.New()
		next.Amount = decimal.NewFromInt(20)
		assert.NoError(t, engine.Edit(ctx, txn.ID, next))

		stored, err := m.Transaction(ctx, txn.ID)
		assert.NoError(t, err)
		assert.True(t, stored.Amount.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, txn.CreatedAt, stored.CreatedAt)
	})
}

func TestEngine_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("restores prior balances", func(t *testing.T) {
		m := newMemStore()
		a := m.addAccount("A", 100)
		b := m.addAccount("B", 100)
		engine := NewEngine(m)

		txn := transfer(t, a.ID, b.ID, 40)
		assert.NoError(t, engine.Record(ctx, txn))
		assert.NoError(t, engine.Delete(ctx, txn.ID))

		assertBalance(t, m, a.ID, 100)
		assertBalance(t, m, b.ID, 100)
		assert.Equal(t, 0, len(m.transactions))
	})

	t.Run("dangling side is skipped", func(t *testing.T) {
		m := newMemStore()
		a := m.addAccount("A", 100)
		b := m.addAccount("B", 100)
		engine := NewEngine(m)

		txn := transfer(t, a.ID, b.ID, 40)
		assert.NoError(t, engine.Record(ctx, txn))

		// Destination disappears out of band.
		delete(m.accounts, b.ID)

		assert.NoError(t, engine.Delete(ctx, txn.ID))
		assertBalance(t, m, a.ID, 100)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		m := newMemStore()
		engine := NewEngine(m)

		err := engine.Delete(ctx, uuid.New())
		var notFound *TransactionNotFoundError
		assert.True(t, errors.As(err, &notFound))
	})
}

func TestEngine_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades and reverses against survivors", func(t *testing.T) {
		m := newMemStore()
		a := m.addAccount("A", 100)
		b := m.addAccount("B", 100)
		engine := NewEngine(m)

		// A transfer into B and an expense on A.
		assert.NoError(t, engine.Record(ctx, transfer(t, a.ID, b.ID, 40)))
		assert.NoError(t, engine.Record(ctx, expense(t, a.ID, 10)))
		assertBalance(t, m, a.ID, 50)
		assertBalance(t, m, b.ID, 140)

		assert.NoError(t, engine.DeleteAccount(ctx, a.ID))

		_, ok := m.accounts[a.ID]
		assert.False(t, ok, "account should be gone")
		assert.Equal(t, 0, len(m.transactions))

		// B gives back the transferred 40; the expense only touched A.
		assertBalance(t, m, b.ID, 100)
	})

	t.Run("deltas against the dying account are dropped", func(t *testing.T) {
		m := newMemStore()
		a := m.addAccount("A", 100)
		engine := NewEngine(m)

		assert.NoError(t, engine.Record(ctx, expense(t, a.ID, 30)))
		assert.NoError(t, engine.DeleteAccount(ctx, a.ID))
		assert.Equal(t, 0, len(m.accounts))
		assert.Equal(t, 0, len(m.transactions))
	})

	t.Run("unknown account", func(t *testing.T) {
		m := newMemStore()
		engine := NewEngine(m)

		err := engine.DeleteAccount(ctx, uuid.New())
		var notFound *AccountNotFoundError
		assert.True(t, errors.As(err, &notFound))
	})
}

func TestEngine_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("consistent store passes", func(t *testing.T) {
		m := newMemStore()
		a := m.addAccount("A", 100)
		b := m.addAccount("B", 50)
		engine := NewEngine(m)

		assert.NoError(t, engine.Record(ctx, transfer(t, a.ID, b.ID, 25)))
		assert.NoError(t, engine.Record(ctx, expense(t, a.ID, 10)))
		assert.NoError(t, engine.Check(ctx))
	})

	t.Run("corrupted balance is reported", func(t *testing.T) {
		m := newMemStore()
		a := m.addAccount("A", 100)
		engine := NewEngine(m)

		assert.NoError(t, engine.Record(ctx, expense(t, a.ID, 10)))

		// Corrupt the stored balance behind the engine's back.
		m.accounts[a.ID].Balance = decimal.NewFromInt(42)

		err := engine.Check(ctx)
		assert.Error(t, err)

		var verrs *ValidationErrors
		assert.True(t, errors.As(err, &verrs))
		assert.Equal(t, 1, len(verrs.Errors))

		mismatch, ok := verrs.Errors[0].(*BalanceMismatchError)
		assert.True(t, ok, "should be BalanceMismatchError")
		assert.Equal(t, "A", mismatch.Account)
		assert.True(t, mismatch.Expected.Equal(decimal.NewFromInt(90)))
		assert.True(t, mismatch.Actual.Equal(decimal.NewFromInt(42)))
	})

	t.Run("empty store passes", func(t *testing.T) {
		m := newMemStore()
		assert.NoError(t, NewEngine(m).Check(ctx))
	})
}

// Recording then deleting a batch of transactions brings every account back
// to its opening balance.
func TestEngine_RecordDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	a := m.addAccount("A", 500)
	b := m.addAccount("B", 250)
	engine := NewEngine(m)

	txns := []*Transaction{
		expense(t, a.ID, 120),
		transfer(t, a.ID, b.ID, 75),
		expense(t, b.ID, 30),
	}
	income, err := NewTransaction(decimal.NewFromInt(60), KindIncome, b.ID, uuid.Nil, "Salary", time.Now())
	assert.NoError(t, err)
	txns = append(txns, income)

	for _, txn := range txns {
		assert.NoError(t, engine.Record(ctx, txn))
	}
	assert.NoError(t, engine.Check(ctx))

	for _, txn := range txns {
		assert.NoError(t, engine.Delete(ctx, txn.ID))
	}

	assertBalance(t, m, a.ID, 500)
	assertBalance(t, m, b.ID, 250)
	assert.NoError(t, engine.Check(ctx))
}
