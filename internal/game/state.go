/*
Package game
File: state.go
Description:
    Manages the runtime state of the engine.
    The Engine holds everything that changes while the game runs: the
    facilities built from the catalog, the upgrades and the available set,
    the global multipliers, the cached production rate and the Ledger.

    There is no package-level state. main.go builds one Engine and hands the
    pointer to every component that needs it.

    Threading: only the Ledger is shared across goroutines. Every other field
    is touched exclusively by the tick goroutine (Run, and the line handler
    it calls). Other goroutines read the published Snapshot (Latest).
*/

package game

import (
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/everforgeworks/cookey-typer/internal/config"
)

// TickObserver is notified once per tick with the published snapshot.
// It runs on the tick goroutine and must return quickly.
type TickObserver interface {
	ObserveTick(s *Snapshot, took time.Duration)
}

// Options wires optional collaborators into the Engine.
type Options struct {
	Logger          *log.Logger
	LedgerObservers []LedgerObserver
	TickObservers   []TickObserver
}

// Engine is the progression engine state.
type Engine struct {
	params config.Parameters
	ledger *Ledger

	// Catalog order is reveal order.
	facilities   []*Facility
	facilityByID map[FacilityID]*Facility

	upgrades    []*Upgrade
	upgradeByID map[UpgradeID]*Upgrade
	available   []UpgradeID // Insertion ordered

	multipliers    GlobalMultipliers
	productionRate float64
	tick           uint64

	log           *log.Logger
	tickObservers []TickObserver
	latest        atomic.Pointer[Snapshot]
}

// NewEngine builds a fresh engine from an immutable catalog.
func NewEngine(cat *config.Catalog, opts Options) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("nil catalog")
	}
	if cat.Parameters.TickRate <= 0 || cat.Parameters.FacilityCostMultiplier <= 1 {
		return nil, fmt.Errorf("catalog parameters out of range: tick_rate %d, ratio %g",
			cat.Parameters.TickRate, cat.Parameters.FacilityCostMultiplier)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	e := &Engine{
		params:        cat.Parameters,
		ledger:        NewLedger(opts.LedgerObservers...),
		facilityByID:  make(map[FacilityID]*Facility, len(cat.Facilities)),
		upgradeByID:   make(map[UpgradeID]*Upgrade, len(cat.Upgrades)),
		multipliers:   defaultMultipliers(),
		log:           logger,
		tickObservers: opts.TickObservers,
	}

	// 1. Facilities, in declared order
	for _, fc := range cat.Facilities {
		vis, err := parseVisual(fc.InitVisual)
		if err != nil {
			return nil, fmt.Errorf("facility %s: %w", fc.Key, err)
		}
		f := &Facility{
			ID:          FacilityID(fc.Key),
			Name:        fc.Name,
			Description: fc.Description,
			BaseCost:    fc.BaseCost,
			BaseCPS:     fc.BaseCPS,
			Visual:      vis,
			ratio:       cat.Parameters.FacilityCostMultiplier,
		}
		if _, dup := e.facilityByID[f.ID]; dup {
			return nil, fmt.Errorf("facility %s: duplicate key", fc.Key)
		}
		e.facilities = append(e.facilities, f)
		e.facilityByID[f.ID] = f
	}

	// 2. Upgrades (effects may reference any facility)
	for _, uc := range cat.Upgrades {
		u, err := e.buildUpgrade(uc)
		if err != nil {
			return nil, fmt.Errorf("upgrade %s: %w", uc.Key, err)
		}
		if _, dup := e.upgradeByID[u.ID]; dup {
			return nil, fmt.Errorf("upgrade %s: duplicate key", uc.Key)
		}
		e.upgrades = append(e.upgrades, u)
		e.upgradeByID[u.ID] = u
	}

	e.publish()
	return e, nil
}

func parseVisual(s string) (VisualState, error) {
	switch s {
	case config.VisualHidden:
		return Hidden, nil
	case config.VisualCovered:
		return Covered, nil
	case config.VisualShown:
		return Shown, nil
	}
	return Hidden, fmt.Errorf("unknown visual state %q", s)
}

func (e *Engine) buildUpgrade(uc config.UpgradeConfig) (*Upgrade, error) {
	u := &Upgrade{
		ID:          UpgradeID(uc.Key),
		Name:        uc.Name,
		Description: uc.Description,
		Price:       uc.Price,
	}

	for _, ec := range uc.Effects {
		var eff Effect
		switch ec.Target {
		case config.TargetGlobal:
			eff.Target = EffectTarget{Kind: TargetGlobal}
		case config.TargetActionYield:
			eff.Target = EffectTarget{Kind: TargetActionYield}
		default:
			if _, ok := e.facilityByID[FacilityID(ec.Target)]; !ok {
				return nil, fmt.Errorf("unknown effect target %q", ec.Target)
			}
			eff.Target = EffectTarget{Kind: TargetFacility, Facility: FacilityID(ec.Target)}
		}
		switch ec.Kind {
		case config.EffectAdd:
			eff.Kind = Additive
		case config.EffectMultiply:
			eff.Kind = Multiplicative
		default:
			return nil, fmt.Errorf("unknown effect kind %q", ec.Kind)
		}
		eff.Value = ec.Value
		u.Effects = append(u.Effects, eff)
	}

	switch uc.Unlock.Kind {
	case config.UnlockOwnedAtLeast:
		if _, ok := e.facilityByID[FacilityID(uc.Unlock.Facility)]; !ok {
			return nil, fmt.Errorf("unlock references unknown facility %q", uc.Unlock.Facility)
		}
		u.Unlock = UnlockCondition{Kind: OwnedAtLeast, Facility: FacilityID(uc.Unlock.Facility), Threshold: uc.Unlock.Count}
	case config.UnlockProducedAtLeast:
		u.Unlock = UnlockCondition{Kind: ProducedAtLeast, Threshold: uc.Unlock.Count}
	default:
		return nil, fmt.Errorf("unknown unlock kind %q", uc.Unlock.Kind)
	}
	return u, nil
}

// Ledger exposes the shared ledger.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// Balance is the current cookie balance.
func (e *Engine) Balance() float64 { return e.ledger.Balance() }

// Owned implements StateView.
func (e *Engine) Owned(id FacilityID) int64 {
	if f := e.facilityByID[id]; f != nil {
		return f.Amount
	}
	return 0
}

// LifetimeProduced implements StateView.
func (e *Engine) LifetimeProduced() float64 { return e.ledger.LifetimeProduced() }

// Multipliers returns the current global multipliers.
func (e *Engine) Multipliers() GlobalMultipliers { return e.multipliers }

// ProductionRate is the aggregate cookies per second computed at the last tick
// (or purchase).
func (e *Engine) ProductionRate() float64 { return e.productionRate }

// CookiesPerAction is the yield of one accuracy point of typed input.
func (e *Engine) CookiesPerAction() float64 {
	return e.params.CookiesPerType * e.multipliers.Action
}

// CurrentTick is the number of completed ticks.
func (e *Engine) CurrentTick() uint64 { return e.tick }

// CreditCookies moves cookies through the ledger on behalf of a collaborator.
func (e *Engine) CreditCookies(amount float64, source CookieSource) bool {
	return e.ledger.ApplyDelta(amount, source)
}

// CreditTyping awards cookies for a scored typing attempt and returns the gain.
func (e *Engine) CreditTyping(accuracy int) float64 {
	gain := float64(accuracy) * e.CookiesPerAction()
	if gain <= 0 {
		return 0
	}
	e.ledger.ApplyDelta(gain, SourceTyping)
	return gain
}
