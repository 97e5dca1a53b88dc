package config

import (
	"errors"
	"fmt"
	"math"
)

func (c *Catalog) validate() error {
	p := c.Parameters
	if !(p.FacilityCostMultiplier > 1) {
		return fmt.Errorf("parameters: facility_cost_multiplier_by_amount must be > 1, got %v", p.FacilityCostMultiplier)
	}
	if p.TickRate <= 0 {
		return fmt.Errorf("parameters: tick_rate must be > 0, got %d", p.TickRate)
	}
	if !(p.CookiesPerType > 0) {
		return fmt.Errorf("parameters: cookies_per_type must be > 0, got %v", p.CookiesPerType)
	}

	if len(c.Facilities) == 0 {
		return errors.New("facilities: empty")
	}
	facilities := make(map[string]bool, len(c.Facilities))
	for i, f := range c.Facilities {
		if f.Key == "" {
			return fmt.Errorf("facilities[%d]: empty key", i)
		}
		if f.Key == TargetGlobal || f.Key == TargetActionYield {
			return fmt.Errorf("facilities[%d]: key %q is reserved", i, f.Key)
		}
		if facilities[f.Key] {
			return fmt.Errorf("facilities[%d]: duplicate key %q", i, f.Key)
		}
		facilities[f.Key] = true
		if f.BaseCost <= 0 || f.BaseCost != math.Trunc(f.BaseCost) {
			return fmt.Errorf("facility %s: base_cost must be a positive whole number", f.Key)
		}
		if f.BaseCPS < 0 {
			return fmt.Errorf("facility %s: base_cps must be >= 0", f.Key)
		}
		switch f.InitVisual {
		case VisualHidden, VisualCovered, VisualShown:
		default:
			return fmt.Errorf("facility %s: unknown init_visual %q", f.Key, f.InitVisual)
		}
	}

	upgrades := make(map[string]bool, len(c.Upgrades))
	for i, u := range c.Upgrades {
		if u.Key == "" {
			return fmt.Errorf("upgrades[%d]: empty key", i)
		}
		if upgrades[u.Key] {
			return fmt.Errorf("upgrades[%d]: duplicate key %q", i, u.Key)
		}
		upgrades[u.Key] = true
		if u.Price <= 0 || u.Price != math.Trunc(u.Price) {
			return fmt.Errorf("upgrade %s: price must be a positive whole number", u.Key)
		}
		if len(u.Effects) == 0 {
			return fmt.Errorf("upgrade %s: no effects", u.Key)
		}
		for j, e := range u.Effects {
			switch e.Target {
			case TargetGlobal, TargetActionYield:
			default:
				if !facilities[e.Target] {
					return fmt.Errorf("upgrade %s: effects[%d]: unknown target %q", u.Key, j, e.Target)
				}
			}
			if e.Kind != EffectAdd && e.Kind != EffectMultiply {
				return fmt.Errorf("upgrade %s: effects[%d]: unknown kind %q", u.Key, j, e.Kind)
			}
		}
		switch u.Unlock.Kind {
		case UnlockOwnedAtLeast:
			if !facilities[u.Unlock.Facility] {
				return fmt.Errorf("upgrade %s: unlock references unknown facility %q", u.Key, u.Unlock.Facility)
			}
		case UnlockProducedAtLeast:
		default:
			return fmt.Errorf("upgrade %s: unknown unlock kind %q", u.Key, u.Unlock.Kind)
		}
		if u.Unlock.Count < 0 {
			return fmt.Errorf("upgrade %s: unlock count must be >= 0", u.Key)
		}
	}

	if len(c.Sentences) == 0 {
		return errors.New("sentences: empty")
	}
	return nil
}
