package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind represents the direction of a transaction.
type Kind int

const (
	KindUnknown Kind = iota
	KindIncome
	KindExpense
	KindTransfer
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindIncome:
		return "Income"
	case KindExpense:
		return "Expense"
	case KindTransfer:
		return "Transfer"
	default:
		return "Unknown"
	}
}

// Kinds lists all valid transaction kinds in display order.
func Kinds() []Kind {
	return []Kind{KindIncome, KindExpense, KindTransfer}
}

// ParseKind parses a kind from its string representation, case-exact.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Income":
		return KindIncome, nil
	case "Expense":
		return KindExpense, nil
	case "Transfer":
		return KindTransfer, nil
	default:
		return KindUnknown, fmt.Errorf("unknown transaction kind %q", s)
	}
}

// Transaction is the cause of every balance change. The stored amount is
// always strictly positive; direction is derived from Kind, never from the
// amount's sign. Destination is set if and only if Kind is KindTransfer.
type Transaction struct {
	ID          uuid.UUID
	Amount      decimal.Decimal
	Kind        Kind
	Source      uuid.UUID
	Destination uuid.UUID // uuid.Nil unless Kind == KindTransfer
	Category    string
	Note        string
	Date        time.Time
	CreatedAt   time.Time
}

// NewTransaction creates and validates a transaction. For transfers,
// destination must be set and differ from source; for all other kinds it must
// be uuid.Nil.
func NewTransaction(amount decimal.Decimal, kind Kind, source, destination uuid.UUID, category string, date time.Time) (*Transaction, error) {
	t := &Transaction{
		ID:          uuid.New(),
		Amount:      amount,
		Kind:        kind,
		Source:      source,
		Destination: destination,
		Category:    category,
		Date:        date,
		CreatedAt:   time.Now(),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the transaction invariants. All violations are collected
// and returned together as a *ValidationErrors.
func (t *Transaction) Validate() error {
	var errs []error

	if !t.Amount.IsPositive() {
		errs = append(errs, NewInvalidAmountError(t.Amount))
	}
	if t.Category == "" {
		errs = append(errs, NewEmptyCategoryError())
	}
	if t.Source == uuid.Nil {
		errs = append(errs, NewMissingAccountError("source"))
	}

	switch t.Kind {
	case KindTransfer:
		if t.Destination == uuid.Nil {
			errs = append(errs, NewMissingAccountError("destination"))
		} else if t.Destination == t.Source {
			errs = append(errs, NewSameAccountTransferError(t.Source))
		}
	case KindIncome, KindExpense:
		if t.Destination != uuid.Nil {
			errs = append(errs, NewUnexpectedDestinationError(t.Kind))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown transaction kind %d", t.Kind))
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// Clone returns a copy of the transaction.
func (t *Transaction) Clone() *Transaction {
	clone := *t
	return &clone
}

// Snapshot captures the balance-relevant fields of a transaction as recorded.
// The Engine takes a snapshot before any field is overwritten during an edit,
// so reversal always runs against the previous values.
type Snapshot struct {
	Amount      decimal.Decimal
	Kind        Kind
	Source      uuid.UUID
	Destination uuid.UUID
}

// Snapshot returns the transaction's as-recorded balance-relevant fields.
func (t *Transaction) Snapshot() Snapshot {
	return Snapshot{
		Amount:      t.Amount,
		Kind:        t.Kind,
		Source:      t.Source,
		Destination: t.Destination,
	}
}

// Delta is a signed balance change against a single account.
type Delta struct {
	Account uuid.UUID
	Amount  decimal.Decimal
}

// Effect maps the snapshot to the signed balance changes it implies:
//
//	Income:   (source, +amount)
//	Expense:  (source, -amount)
//	Transfer: (source, -amount), (destination, +amount)
//
// The deltas of a transfer sum to zero; money is conserved across the pair.
func (s Snapshot) Effect() []Delta {
	switch s.Kind {
	case KindIncome:
		return []Delta{{Account: s.Source, Amount: s.Amount}}
	case KindExpense:
		return []Delta{{Account: s.Source, Amount: s.Amount.Neg()}}
	case KindTransfer:
		return []Delta{
			{Account: s.Source, Amount: s.Amount.Neg()},
			{Account: s.Destination, Amount: s.Amount},
		}
	default:
		return nil
	}
}

// Reversal is the effect with every delta negated. Applying a snapshot's
// Effect followed by its Reversal leaves every touched account unchanged.
func (s Snapshot) Reversal() []Delta {
	effect := s.Effect()
	reversed := make([]Delta, len(effect))
	for i, d := range effect {
		reversed[i] = Delta{Account: d.Account, Amount: d.Amount.Neg()}
	}
	return reversed
}

// Effect returns the signed balance changes the transaction implies in its
// current state.
func (t *Transaction) Effect() []Delta {
	return t.Snapshot().Effect()
}
