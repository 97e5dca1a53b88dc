/*
Package game
File: upgrade.go
Description:
    Handles upgrade purchases and routes each effect to its receiver:
    1. Facility targets attach a modifier (duplicates are ignored).
    2. Global multiplies the global multiplier or adds to production.
    3. Action yield multiplies the cookies earned per accuracy point.
*/

package game

import "fmt"

// PurchaseUpgrade buys an available upgrade and applies its effects.
func (e *Engine) PurchaseUpgrade(id UpgradeID) error {
	// 1. Validation
	u := e.upgradeByID[id]
	if u == nil {
		return ErrUnknownUpgrade
	}
	if u.purchased {
		return ErrUpgradePurchased
	}
	idx := e.availableIndex(id)
	if idx < 0 {
		return ErrUpgradeUnavailable
	}

	// 2. Debit
	if !e.ledger.ApplyDelta(-u.Price, SourceUpgradePurchase) {
		return &InsufficientFundsError{Need: u.Price, Have: e.ledger.Balance()}
	}

	// 3. Commit
	u.purchased = true
	e.available = append(e.available[:idx], e.available[idx+1:]...)
	for _, eff := range u.Effects {
		e.applyEffect(u.ID, eff)
	}

	e.updateProductionRate()
	e.log.Printf("[UPGRADE] bought %s for %.0f cookies", u.Name, u.Price)
	return nil
}

func (e *Engine) availableIndex(id UpgradeID) int {
	for i, a := range e.available {
		if a == id {
			return i
		}
	}
	return -1
}

// applyEffect routes one effect to its receiver.
func (e *Engine) applyEffect(from UpgradeID, eff Effect) {
	switch eff.Target.Kind {
	case TargetFacility:
		f := e.facilityByID[eff.Target.Facility]
		if f == nil {
			invariant("applyEffect", "upgrade %s targets unknown facility %s", from, eff.Target.Facility)
		}
		// A second effect of the same upgrade on the same facility is ignored
		f.AttachModifier(Modifier{Source: SourceUpgrade, SourceID: from, Kind: eff.Kind, Value: eff.Value})

	case TargetGlobal:
		if eff.Kind == Multiplicative {
			e.multipliers.Global *= eff.Value
		} else {
			e.multipliers.Production += eff.Value
		}

	case TargetActionYield:
		if eff.Kind == Multiplicative {
			e.multipliers.Action *= eff.Value
		}
		// Additive action yield has no receiver
	}
}

// UpgradeStateOf derives the lifecycle state of an upgrade.
func (e *Engine) UpgradeStateOf(id UpgradeID) UpgradeState {
	u := e.upgradeByID[id]
	switch {
	case u == nil:
		return Locked
	case u.purchased:
		return Purchased
	case e.availableIndex(id) >= 0:
		return Available
	default:
		return Locked
	}
}

// DescribeEffect renders an effect for listings, e.g. "keyboard x2".
func DescribeEffect(eff Effect) string {
	if eff.Kind == Multiplicative {
		return fmt.Sprintf("%s x%g", eff.Target, eff.Value)
	}
	return fmt.Sprintf("%s +%g", eff.Target, eff.Value)
}
