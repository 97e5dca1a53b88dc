/*
Package game
File: unlock.go
Description:
    The unlock state machine, advanced once per tick.

    Facilities reveal two ahead of what the player can see: facility i
    leaves Hidden once facility i-2 is Shown (the first two start Covered
    in the stock catalog and are exempt). A Covered facility becomes Shown
    once lifetime production reaches its base cost. Both steps can happen
    in the same pass, and states never move backwards.

    Upgrades join the available set, in catalog order, the first time their
    unlock condition holds. They never leave it except by being purchased.
*/

package game

// CheckUnlocks runs one pass of the state machine and reports whether
// anything changed.
func (e *Engine) CheckUnlocks() bool {
	changed := e.checkFacilities()
	if e.checkUpgrades() {
		changed = true
	}
	return changed
}

func (e *Engine) checkFacilities() bool {
	produced := e.ledger.LifetimeProduced()
	changed := false

	for i, f := range e.facilities {
		// 1. Hidden -> Covered
		if f.Visual == Hidden && (i < 2 || e.facilities[i-2].Visual == Shown) {
			f.Visual = Covered
			changed = true
			e.log.Printf("[UNLOCK] %s covered", f.Name)
		}

		// 2. Covered -> Shown
		if f.Visual == Covered && produced >= f.BaseCost {
			f.Visual = Shown
			changed = true
			e.log.Printf("[UNLOCK] %s shown", f.Name)
		}
	}
	return changed
}

func (e *Engine) checkUpgrades() bool {
	changed := false
	for _, u := range e.upgrades {
		if u.purchased || e.availableIndex(u.ID) >= 0 {
			continue
		}
		if u.Unlock.Satisfied(e) {
			e.available = append(e.available, u.ID)
			changed = true
			e.log.Printf("[UNLOCK] upgrade %s available", u.Name)
		}
	}
	return changed
}
