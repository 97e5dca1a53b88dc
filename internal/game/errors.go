/*
Package game
File: errors.go
Description:
    Error taxonomy of the engine.

    1. Validation failures wrap ErrInvalid. No state was changed.
    2. Insufficient funds unwrap to ErrInsufficientFunds. No state was changed.
    3. Internal invariant violations are panics carrying *InvariantError.
       They mean the engine itself is broken and are never recovered here.
*/

package game

import (
	"errors"
	"fmt"
)

// ErrInvalid is the root of every validation failure.
var ErrInvalid = errors.New("invalid request")

var (
	ErrUnknownFacility    = fmt.Errorf("%w: invalid facility name", ErrInvalid)
	ErrFacilityHidden     = fmt.Errorf("%w: facility is not revealed yet", ErrInvalid)
	ErrNegativeQuantity   = fmt.Errorf("%w: expected a non-negative amount", ErrInvalid)
	ErrNotEnoughOwned     = fmt.Errorf("%w: not enough owned", ErrInvalid)
	ErrQuantityTooLarge   = fmt.Errorf("%w: amount too large", ErrInvalid)
	ErrUnknownUpgrade     = fmt.Errorf("%w: invalid upgrade name", ErrInvalid)
	ErrUpgradePurchased   = fmt.Errorf("%w: upgrade is already purchased", ErrInvalid)
	ErrUpgradeUnavailable = fmt.Errorf("%w: upgrade is not yet available", ErrInvalid)
)

// ErrInsufficientFunds is returned (wrapped) when the ledger refuses a debit.
var ErrInsufficientFunds = errors.New("not enough cookies")

// InsufficientFundsError carries what was needed and what the ledger held.
type InsufficientFundsError struct {
	Need float64
	Have float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("not enough cookies: need %.0f, have %.0f", e.Need, e.Have)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// NotEnoughOwnedError is a sale of more units than owned.
type NotEnoughOwnedError struct {
	Facility string
	Have     int64
	Want     int64
}

func (e *NotEnoughOwnedError) Error() string {
	return fmt.Sprintf("you only have %d %s(s), cannot sell %d", e.Have, e.Facility, e.Want)
}

func (e *NotEnoughOwnedError) Unwrap() error { return ErrNotEnoughOwned }

// InvariantError is the panic value for defects inside the engine.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated in %s: %s", e.Op, e.Detail)
}

func invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
