/*
Package game
File: models.go
Description:
    Defines the data structures used throughout the progression engine.
    This file serves as the "schema" of the runtime: facilities and upgrades
    built from the static catalog, the modifiers and effects that connect them,
    and the closed enumerations (visibility, upgrade state, cookie source).

    No logic beyond enum naming is performed here.
*/

package game

// FacilityID is the stable catalog key of a facility (e.g., "keyboard").
type FacilityID string

// UpgradeID is the stable catalog key of an upgrade.
type UpgradeID string

// VisualState is the visibility of a facility. It only ever advances
// Hidden -> Covered -> Shown.
type VisualState int

const (
	Hidden VisualState = iota
	Covered
	Shown
)

func (v VisualState) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Covered:
		return "covered"
	case Shown:
		return "shown"
	default:
		return "unknown"
	}
}

// MarshalText lets snapshots carry the readable name.
func (v VisualState) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UpgradeState is derived, never stored: Locked -> Available -> Purchased.
type UpgradeState int

const (
	Locked UpgradeState = iota
	Available
	Purchased
)

func (s UpgradeState) String() string {
	switch s {
	case Locked:
		return "locked"
	case Available:
		return "available"
	case Purchased:
		return "purchased"
	default:
		return "unknown"
	}
}

func (s UpgradeState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// EffectKind selects how a magnitude is combined.
type EffectKind int

const (
	Additive EffectKind = iota
	Multiplicative
)

func (k EffectKind) String() string {
	if k == Multiplicative {
		return "multiply"
	}
	return "add"
}

func (k EffectKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ModifierSource is the kind of thing that produced a modifier.
type ModifierSource int

const (
	SourceUpgrade ModifierSource = iota + 1
)

// Modifier is the attached form of an upgrade effect on one facility.
type Modifier struct {
	Source   ModifierSource `json:"-"`
	SourceID UpgradeID      `json:"source_id"`
	Kind     EffectKind     `json:"kind"`
	Value    float64        `json:"value"`
}

// TargetKind is what an effect applies to.
type TargetKind int

const (
	TargetFacility TargetKind = iota
	TargetGlobal
	TargetActionYield
)

// EffectTarget names the receiver of an effect. Facility is only set for
// TargetFacility.
type EffectTarget struct {
	Kind     TargetKind
	Facility FacilityID
}

func (t EffectTarget) String() string {
	switch t.Kind {
	case TargetGlobal:
		return "global"
	case TargetActionYield:
		return "action_yield"
	default:
		return string(t.Facility)
	}
}

// Effect is one declared consequence of purchasing an upgrade.
type Effect struct {
	Target EffectTarget
	Kind   EffectKind
	Value  float64
}

// ConditionKind enumerates the declarative unlock predicates.
type ConditionKind int

const (
	OwnedAtLeast ConditionKind = iota
	ProducedAtLeast
)

// UnlockCondition is evaluated against a read-only StateView. It never
// captures engine state.
type UnlockCondition struct {
	Kind      ConditionKind
	Facility  FacilityID // OwnedAtLeast only
	Threshold float64
}

// StateView is the read-only slice of engine state that unlock predicates see.
type StateView interface {
	Owned(id FacilityID) int64
	LifetimeProduced() float64
}

// Satisfied reports whether the condition holds for the given state.
func (c UnlockCondition) Satisfied(s StateView) bool {
	switch c.Kind {
	case OwnedAtLeast:
		return float64(s.Owned(c.Facility)) >= c.Threshold
	case ProducedAtLeast:
		return s.LifetimeProduced() >= c.Threshold
	default:
		return false
	}
}

// Upgrade is a one-time permanent purchase. Only the purchased flag changes
// after construction, and only through PurchaseUpgrade.
type Upgrade struct {
	ID          UpgradeID
	Name        string
	Description string
	Price       float64 // Whole number of cookies
	Effects     []Effect
	Unlock      UnlockCondition

	purchased bool
}

// Purchased reports whether the upgrade has been bought.
func (u *Upgrade) Purchased() bool { return u.purchased }

// CookieSource classifies every ledger mutation for statistics.
type CookieSource int

const (
	SourceOther CookieSource = iota
	SourceTyping
	SourceFacility
	SourceFacilityPurchase
	SourceFacilitySale
	SourceUpgradePurchase
)

func (s CookieSource) String() string {
	switch s {
	case SourceTyping:
		return "typing"
	case SourceFacility:
		return "facility"
	case SourceFacilityPurchase:
		return "facility_purchase"
	case SourceFacilitySale:
		return "facility_sale"
	case SourceUpgradePurchase:
		return "upgrade_purchase"
	default:
		return "other"
	}
}

func (s CookieSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// GlobalMultipliers are applied on top of per-facility totals.
type GlobalMultipliers struct {
	Global     float64 `json:"global"`     // Multiplies all automatic production
	Production float64 `json:"production"` // Additive bucket for automatic production
	Action     float64 `json:"action"`     // Multiplies cookies earned per typed input
}

func defaultMultipliers() GlobalMultipliers {
	return GlobalMultipliers{Global: 1.0, Production: 1.0, Action: 1.0}
}
