package domain

import (
	"errors"
	"fmt"
)

// Failure categories. Every error returned by the ledger services wraps
// exactly one of these; callers match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrOverdraft  = errors.New("overdraft rejected")
	ErrTransient  = errors.New("transient store failure")
)

var (
	ErrEmptyCart         = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrInvalidQuantity   = fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be a positive value with at most two decimal places", ErrValidation)
	ErrAmountMismatch    = fmt.Errorf("%w: amount does not match order total", ErrValidation)
	ErrMissingField      = fmt.Errorf("%w: missing required field", ErrValidation)
	ErrPayerIsHouse      = fmt.Errorf("%w: payer account cannot be the house account", ErrValidation)
	ErrOrderNotFound     = fmt.Errorf("order %w", ErrNotFound)
	ErrMenuItemNotFound  = fmt.Errorf("menu item %w", ErrNotFound)
	ErrAccountNotFound   = fmt.Errorf("bank account %w", ErrNotFound)
	ErrCustomerNotFound  = fmt.Errorf("customer %w", ErrNotFound)
	ErrReferenceNotFound = fmt.Errorf("referenced record %w", ErrNotFound)
	ErrOrderAlreadyPaid  = fmt.Errorf("%w: order already paid", ErrConflict)
	ErrOrderNotPaid      = fmt.Errorf("%w: order is not paid", ErrConflict)
	ErrDuplicateCustomer = fmt.Errorf("%w: customer already registered", ErrConflict)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrOverdraft)
)

// Category returns the failure category of err, or nil for uncategorized errors.
func Category(err error) error {
	for _, c := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrOverdraft, ErrTransient} {
		if errors.Is(err, c) {
			return c
		}
	}
	return nil
}
