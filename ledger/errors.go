package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error types for validation and consistency errors.
//
// Validation errors are raised before the Engine touches any balance; when
// one is returned, the attempted transaction was never created or edited and
// no account changed. None of these errors is fatal.

// ValidationErrors wraps multiple validation errors
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// InvalidAmountError is returned when a transaction amount is not strictly
// positive. Stored amounts are unsigned; direction comes from the kind.
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("transaction amount must be positive, got %s", e.Amount)
}

// NewInvalidAmountError creates an error for a non-positive transaction amount.
func NewInvalidAmountError(amount decimal.Decimal) *InvalidAmountError {
	return &InvalidAmountError{Amount: amount}
}

// EmptyCategoryError is returned when a transaction has no category.
type EmptyCategoryError struct{}

func (e *EmptyCategoryError) Error() string {
	return "transaction category must not be empty"
}

// NewEmptyCategoryError creates an error for a missing category.
func NewEmptyCategoryError() *EmptyCategoryError {
	return &EmptyCategoryError{}
}

// MissingAccountError is returned when a required account reference is unset.
// Side is "source" or "destination".
type MissingAccountError struct {
	Side string
}

func (e *MissingAccountError) Error() string {
	return fmt.Sprintf("transaction is missing its %s account", e.Side)
}

// NewMissingAccountError creates an error for an unset account reference.
func NewMissingAccountError(side string) *MissingAccountError {
	return &MissingAccountError{Side: side}
}

// SameAccountTransferError is returned when a transfer's destination equals
// its source.
type SameAccountTransferError struct {
	Account uuid.UUID
}

func (e *SameAccountTransferError) Error() string {
	return fmt.Sprintf("transfer source and destination are the same account (%s)", e.Account)
}

// NewSameAccountTransferError creates an error for a self-transfer.
func NewSameAccountTransferError(account uuid.UUID) *SameAccountTransferError {
	return &SameAccountTransferError{Account: account}
}

// UnexpectedDestinationError is returned when a non-transfer transaction
// carries a destination account.
type UnexpectedDestinationError struct {
	Kind Kind
}

func (e *UnexpectedDestinationError) Error() string {
	return fmt.Sprintf("%s transaction must not have a destination account", e.Kind)
}

// NewUnexpectedDestinationError creates an error for a stray destination.
func NewUnexpectedDestinationError(kind Kind) *UnexpectedDestinationError {
	return &UnexpectedDestinationError{Kind: kind}
}

// AccountNotFoundError is returned when an operation references an account
// that does not exist in the store.
type AccountNotFoundError struct {
	ID uuid.UUID
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.ID)
}

// NewAccountNotFoundError creates an error for a missing account.
func NewAccountNotFoundError(id uuid.UUID) *AccountNotFoundError {
	return &AccountNotFoundError{ID: id}
}

// TransactionNotFoundError is returned when an edit or delete references a
// transaction that does not exist in the store.
type TransactionNotFoundError struct {
	ID uuid.UUID
}

func (e *TransactionNotFoundError) Error() string {
	return fmt.Sprintf("transaction %s not found", e.ID)
}

// NewTransactionNotFoundError creates an error for a missing transaction.
func NewTransactionNotFoundError(id uuid.UUID) *TransactionNotFoundError {
	return &TransactionNotFoundError{ID: id}
}

// BalanceMismatchError is returned by Engine.Check when an account's stored
// balance does not equal its opening balance plus the sum of the effects of
// the transactions referencing it.
type BalanceMismatchError struct {
	Account  string
	ID       uuid.UUID
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("balance mismatch for %s:\n  Expected: %s\n  Actual:   %s",
		e.Account, e.Expected.StringFixed(2), e.Actual.StringFixed(2))
}

// NewBalanceMismatchError creates an error for a failed consistency check.
func NewBalanceMismatchError(account *Account, expected decimal.Decimal) *BalanceMismatchError {
	return &BalanceMismatchError{
		Account:  account.Name,
		ID:       account.ID,
		Expected: expected,
		Actual:   account.Balance,
	}
}
