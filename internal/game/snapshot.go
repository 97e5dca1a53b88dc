/*
Package game
File: snapshot.go
Description:
    Immutable read-only views of the engine. The tick goroutine builds one
    after every step and publishes it atomically; the observer API, the
    websocket pulse and the metrics read only these.
*/

package game

// FacilitySnapshot is the read-only view of one facility.
type FacilitySnapshot struct {
	ID             FacilityID  `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Visual         VisualState `json:"visual"`
	Amount         int64       `json:"amount"`
	BaseCost       float64     `json:"base_cost"`
	UnitRate       float64     `json:"unit_rate"`
	ProductionRate float64     `json:"production_rate"`
	NextCost       float64     `json:"next_cost"`
	SellValue      float64     `json:"sell_value"` // Refund for selling one unit
	Modifiers      []Modifier  `json:"modifiers,omitempty"`
}

// UpgradeSnapshot is the read-only view of one upgrade.
type UpgradeSnapshot struct {
	ID          UpgradeID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	State       UpgradeState `json:"state"`
	Effects     []string     `json:"effects"`
}

// Snapshot is an immutable copy of the engine state, safe to share with
// other goroutines once published.
type Snapshot struct {
	Tick             uint64             `json:"tick"`
	Balance          float64            `json:"balance"`
	ProductionRate   float64            `json:"production_rate"`
	CookiesPerAction float64            `json:"cookies_per_action"`
	Multipliers      GlobalMultipliers  `json:"multipliers"`
	Stats            LedgerStats        `json:"stats"`
	Facilities       []FacilitySnapshot `json:"facilities"`
	Upgrades         []UpgradeSnapshot  `json:"upgrades"`
	Available        []UpgradeID        `json:"available"`
}

// Facility finds a facility view by ID.
func (s *Snapshot) Facility(id FacilityID) (FacilitySnapshot, bool) {
	for _, f := range s.Facilities {
		if f.ID == id {
			return f, true
		}
	}
	return FacilitySnapshot{}, false
}

// Upgrade finds an upgrade view by ID.
func (s *Snapshot) Upgrade(id UpgradeID) (UpgradeSnapshot, bool) {
	for _, u := range s.Upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return UpgradeSnapshot{}, false
}

// Snapshot copies the current state. Call it from the tick goroutine only.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Tick:             e.tick,
		Balance:          e.ledger.Balance(),
		ProductionRate:   e.productionRate,
		CookiesPerAction: e.CookiesPerAction(),
		Multipliers:      e.multipliers,
		Stats:            e.ledger.Stats(),
		Facilities:       make([]FacilitySnapshot, 0, len(e.facilities)),
		Upgrades:         make([]UpgradeSnapshot, 0, len(e.upgrades)),
		Available:        e.Available(),
	}

	for _, f := range e.facilities {
		fs := FacilitySnapshot{
			ID:             f.ID,
			Name:           f.Name,
			Description:    f.Description,
			Visual:         f.Visual,
			Amount:         f.Amount,
			BaseCost:       f.BaseCost,
			UnitRate:       f.UnitRate(),
			ProductionRate: f.ProductionRate(),
			NextCost:       f.NextCost(),
		}
		if f.Amount > 0 {
			fs.SellValue = f.CostDelta(-1).Cost
		}
		if len(f.Modifiers) > 0 {
			fs.Modifiers = append([]Modifier(nil), f.Modifiers...)
		}
		s.Facilities = append(s.Facilities, fs)
	}

	for _, u := range e.upgrades {
		us := UpgradeSnapshot{
			ID:          u.ID,
			Name:        u.Name,
			Description: u.Description,
			Price:       u.Price,
			State:       e.UpgradeStateOf(u.ID),
			Effects:     make([]string, 0, len(u.Effects)),
		}
		for _, eff := range u.Effects {
			us.Effects = append(us.Effects, DescribeEffect(eff))
		}
		s.Upgrades = append(s.Upgrades, us)
	}
	return s
}

// Latest returns the most recently published snapshot. Safe from any goroutine.
func (e *Engine) Latest() *Snapshot { return e.latest.Load() }

func (e *Engine) publish() *Snapshot {
	s := e.Snapshot()
	e.latest.Store(&s)
	return &s
}
