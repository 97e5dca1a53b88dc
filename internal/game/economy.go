/*
Package game
File: economy.go
Description:
    Handles the cookie transactions of the engine.
    This includes:
    1. Buying facilities (debit first, then ownership).
    2. Selling facilities (refund, then ownership).
    3. Buying upgrades (see upgrade.go for effect application).

    Every transaction either fully commits or leaves the state untouched:
    validation runs before the ledger is touched, and the ledger refuses a
    debit as a whole.
*/

package game

import "math"

// PurchaseFacility buys qty units of a facility and returns the cookies spent.
// Buying zero units is a successful no-op that costs nothing.
func (e *Engine) PurchaseFacility(id FacilityID, qty int64) (float64, error) {
	// 1. Validation
	f := e.facilityByID[id]
	if f == nil {
		return 0, ErrUnknownFacility
	}
	if f.Visual == Hidden {
		return 0, ErrFacilityHidden
	}
	if qty < 0 {
		return 0, ErrNegativeQuantity
	}
	if qty == 0 {
		return 0, nil
	}
	if qty > math.MaxInt64-f.Amount {
		return 0, ErrQuantityTooLarge
	}

	// 2. Price the series from the current amount
	out := f.CostDelta(qty)
	if !out.Exact {
		invariant("PurchaseFacility", "purchase of %d %s priced inexact", qty, id)
	}

	// 3. Debit. A refused debit leaves everything as it was.
	if !e.ledger.ApplyDelta(out.Cost, SourceFacilityPurchase) {
		return 0, &InsufficientFundsError{Need: -out.Cost, Have: e.ledger.Balance()}
	}

	// 4. Ownership
	if !f.ChangeOwnedBy(qty) {
		invariant("PurchaseFacility", "ownership of %s refused +%d after debit", id, qty)
	}

	e.updateProductionRate()
	e.log.Printf("[ECON] bought %d %s for %.0f cookies (now %d)", qty, f.Name, -out.Cost, f.Amount)
	return -out.Cost, nil
}

// SellFacility sells qty owned units and returns the cookies refunded.
// Refunds do not count as production.
func (e *Engine) SellFacility(id FacilityID, qty int64) (float64, error) {
	// 1. Validation
	f := e.facilityByID[id]
	if f == nil {
		return 0, ErrUnknownFacility
	}
	if qty < 0 {
		return 0, ErrNegativeQuantity
	}
	if qty > f.Amount {
		return 0, &NotEnoughOwnedError{Facility: f.Name, Have: f.Amount, Want: qty}
	}
	if qty == 0 {
		return 0, nil
	}

	// 2. Price the refund
	out := f.CostDelta(-qty)
	if !out.Exact {
		invariant("SellFacility", "sale of %d %s priced inexact with %d owned", qty, id, f.Amount)
	}

	// 3. Credit
	if !e.ledger.ApplyDelta(out.Cost, SourceFacilitySale) {
		invariant("SellFacility", "ledger refused refund of %.0f", out.Cost)
	}

	// 4. Ownership
	if !f.ChangeOwnedBy(-qty) {
		invariant("SellFacility", "ownership of %s refused -%d", id, qty)
	}

	e.updateProductionRate()
	e.log.Printf("[ECON] sold %d %s for %.0f cookies (now %d)", qty, f.Name, out.Cost, f.Amount)
	return out.Cost, nil
}
