/*
Package game
File: facility.go
Description:
    The Facility is a purchasable production source. It owns its amount
    counter and its attached modifiers, and it prices ownership changes with
    a geometric series:

        S = C * (r^(n+Δ) - r^n) / (r - 1)

    where C is the base cost, r the catalog-wide ratio and n the baseline
    amount. Buying rounds the sum up and debits it. Selling refunds half of
    the rounded sum, truncated, so a refund never exceeds half a purchase.
*/

package game

import "math"

// Facility is one kind of production unit. Amount and Visual are written
// only from the tick goroutine.
type Facility struct {
	ID          FacilityID
	Name        string
	Description string
	BaseCost    float64 // Whole number of cookies
	BaseCPS     float64
	Visual      VisualState
	Amount      int64
	Modifiers   []Modifier

	ratio float64
}

// CostOutcome is the signed cookie change of an ownership change.
// Cost is negative for purchases (a debit) and non-negative for sales.
// Exact is false when a sale asked for more than the baseline held and the
// delta was clamped.
type CostOutcome struct {
	Cost  float64
	Exact bool
}

// UnitRate is the composed production of a single unit.
func (f *Facility) UnitRate() float64 {
	return Compose(f.BaseCPS, f.Modifiers)
}

// ProductionRate is the cookies per second produced by all owned units.
func (f *Facility) ProductionRate() float64 {
	if f.Amount == 0 {
		return 0
	}
	return f.UnitRate() * float64(f.Amount)
}

// CostDelta prices changing ownership by diff from the current amount.
func (f *Facility) CostDelta(diff int64) CostOutcome {
	return f.CostDeltaFrom(diff, f.Amount)
}

// CostDeltaFrom prices changing ownership by diff from an explicit baseline.
func (f *Facility) CostDeltaFrom(diff, base int64) CostOutcome {
	if diff == 0 {
		return CostOutcome{Cost: 0, Exact: true}
	}

	exact := true
	// Trying to sell more than the baseline holds. base >= 0, so the sum
	// cannot overflow on this branch.
	if diff < 0 && base+diff < 0 {
		diff = -base
		exact = false
	}

	r := f.ratio
	raw := f.BaseCost * (math.Pow(r, float64(base+diff)) - math.Pow(r, float64(base))) / (r - 1)

	var cost float64
	if diff > 0 {
		cost = -math.Ceil(raw)
	} else {
		cost = math.Trunc(math.Abs(math.Ceil(raw)) * 0.5)
	}
	return CostOutcome{Cost: cost, Exact: exact}
}

// NextCost is the price of the next single unit.
func (f *Facility) NextCost() float64 {
	out := f.CostDelta(1)
	if !out.Exact {
		invariant("NextCost", "cost of one %s from %d reported inexact", f.ID, f.Amount)
	}
	return math.Abs(out.Cost)
}

// ChangeOwnedBy applies an ownership delta. It refuses, without mutating,
// a change that would leave the amount negative.
func (f *Facility) ChangeOwnedBy(n int64) bool {
	if f.Amount+n < 0 {
		return false
	}
	f.Amount += n
	return true
}

// AttachModifier appends m unless a modifier from the same source is
// already attached.
func (f *Facility) AttachModifier(m Modifier) bool {
	for _, existing := range f.Modifiers {
		if existing.Source == m.Source && existing.SourceID == m.SourceID {
			return false
		}
	}
	f.Modifiers = append(f.Modifiers, m)
	return true
}
