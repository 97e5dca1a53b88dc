/*
Package game
File: ledger.go
Description:
    The Ledger is the single source of truth for the cookie balance.

    ApplyDelta is the ONLY write path for the balance. It is guarded by an
    exclusive lock because two actors move cookies: the tick loop crediting
    automatic production and the command path debiting purchases or
    crediting typed input. A delta that would make the balance negative is
    refused as a whole.

    Every accepted mutation is classified by CookieSource and folded into
    the lifetime accumulators. "Ever" only grows and drives facility reveals.
*/

package game

import (
	"sync"
	"time"
)

// LedgerStats are the lifetime accumulators.
type LedgerStats struct {
	Ever         float64 `json:"ever"`          // All production ever credited
	Ascension    float64 `json:"ascension"`     // Production since the last ascension (no ascension yet)
	ByTyping     float64 `json:"by_typing"`     // Credited for typed input
	ByFacilities float64 `json:"by_facilities"` // Credited by automatic production
	ConsumedEver float64 `json:"consumed_ever"` // Spent on facilities and upgrades
	Transactions uint64  `json:"transactions"`  // Accepted mutations
	Rejections   uint64  `json:"rejections"`    // Refused mutations
}

// LedgerEntry describes one accepted mutation.
type LedgerEntry struct {
	Seq     uint64       `json:"seq"`
	At      time.Time    `json:"at"`
	Source  CookieSource `json:"source"`
	Amount  float64      `json:"amount"`
	Balance float64      `json:"balance"` // Balance after the mutation
}

// LedgerObserver is notified of every accepted mutation, and of refused
// ones with ok=false. It runs under the ledger lock and MUST NOT block or
// call back into the ledger.
type LedgerObserver interface {
	ObserveLedger(entry LedgerEntry, ok bool)
}

// Ledger owns the balance and the lifetime statistics.
type Ledger struct {
	mu        sync.Mutex
	balance   float64
	stats     LedgerStats
	observers []LedgerObserver
	now       func() time.Time
}

// NewLedger returns an empty ledger.
func NewLedger(observers ...LedgerObserver) *Ledger {
	return &Ledger{observers: observers, now: time.Now}
}

// ApplyDelta applies amount if the balance stays non-negative.
func (l *Ledger) ApplyDelta(amount float64, source CookieSource) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balance+amount < 0 {
		l.stats.Rejections++
		l.notify(LedgerEntry{Seq: l.stats.Transactions, At: l.now(), Source: source, Amount: amount, Balance: l.balance}, false)
		return false
	}

	l.balance += amount
	l.record(amount, source)
	l.stats.Transactions++
	l.notify(LedgerEntry{Seq: l.stats.Transactions, At: l.now(), Source: source, Amount: amount, Balance: l.balance}, true)
	return true
}

// record folds an accepted mutation into the accumulators. Caller holds mu.
func (l *Ledger) record(amount float64, source CookieSource) {
	if amount >= 0 {
		switch source {
		case SourceTyping:
			l.stats.ByTyping += amount
		case SourceFacility:
			l.stats.ByFacilities += amount
		default:
			// Refunds and other credits move the balance only
			return
		}
		l.stats.Ever += amount
		l.stats.Ascension += amount
		return
	}

	switch source {
	case SourceFacilityPurchase, SourceUpgradePurchase:
		l.stats.ConsumedEver += -amount
	}
}

func (l *Ledger) notify(e LedgerEntry, ok bool) {
	for _, o := range l.observers {
		o.ObserveLedger(e, ok)
	}
}

// Balance returns the current balance.
func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Stats returns a copy of the lifetime accumulators.
func (l *Ledger) Stats() LedgerStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// LifetimeProduced is the monotonic "ever produced" accumulator.
func (l *Ledger) LifetimeProduced() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats.Ever
}
