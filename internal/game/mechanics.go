/*
Package game
File: mechanics.go
Description:
    Contains the lookup and production helper functions.
    It serves as the rules engine for automatic production:

        aggregate = Σ facility rate × Global × Production
*/

package game

import "strings"

// GetFacility is a helper to retrieve a Facility pointer by its ID.
// Returns nil if not found.
func (e *Engine) GetFacility(id FacilityID) *Facility {
	return e.facilityByID[id]
}

// GetUpgrade is a helper to retrieve an Upgrade pointer by its ID.
func (e *Engine) GetUpgrade(id UpgradeID) *Upgrade {
	return e.upgradeByID[id]
}

// Available returns a copy of the available upgrade IDs, oldest first.
func (e *Engine) Available() []UpgradeID {
	out := make([]UpgradeID, len(e.available))
	copy(out, e.available)
	return out
}

// FindFacility resolves a user-typed name: the key, or the display name,
// case-insensitively with spaces and underscores treated alike.
func (e *Engine) FindFacility(name string) *Facility {
	want := normalizeName(name)
	for _, f := range e.facilities {
		if normalizeName(string(f.ID)) == want || normalizeName(f.Name) == want {
			return f
		}
	}
	return nil
}

// FindUpgrade resolves a user-typed upgrade name like FindFacility.
func (e *Engine) FindUpgrade(name string) *Upgrade {
	want := normalizeName(name)
	for _, u := range e.upgrades {
		if normalizeName(string(u.ID)) == want || normalizeName(u.Name) == want {
			return u
		}
	}
	return nil
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// CalculateProductionRate sums every facility and applies the global
// multipliers.
func (e *Engine) CalculateProductionRate() float64 {
	sum := 0.0
	for _, f := range e.facilities {
		sum += f.ProductionRate()
	}
	return sum * e.multipliers.Global * e.multipliers.Production
}

func (e *Engine) updateProductionRate() float64 {
	e.productionRate = e.CalculateProductionRate()
	return e.productionRate
}
