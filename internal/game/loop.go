/*
Package game
File: loop.go
Description:
    The tick driver. One fixed-interval step:
    1. Take at most one queued input line (never waits for one).
    2. Hand it to the line handler.
    3. Advance the unlock state machine.
    4. Recompute the aggregate production rate.
    5. Credit this tick's share of production to the ledger.
    6. Publish a snapshot and notify tick observers.

    The sleep between steps is a plain timer reset, so a slow step pushes
    every later tick back. There is no catch-up.
*/

package game

import (
	"context"
	"time"
)

// InputSource is a non-blocking line queue.
type InputSource interface {
	TryPop() (string, bool)
}

// LineHandler executes one input line against the engine.
type LineHandler interface {
	HandleLine(line string)
}

// Run drives the engine until ctx is cancelled.
func (e *Engine) Run(ctx context.Context, in InputSource, h LineHandler) error {
	interval := e.params.TickInterval()
	e.log.Printf("[LOOP] running at %d ticks/s", e.params.TickRate)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		e.RunTick(in, h)

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			e.log.Printf("[LOOP] stopped after %d ticks", e.tick)
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunTick performs one full step including input handling.
func (e *Engine) RunTick(in InputSource, h LineHandler) {
	start := time.Now()

	if in != nil {
		if line, ok := in.TryPop(); ok && h != nil {
			h.HandleLine(line)
		}
	}
	snap := e.Step()

	took := time.Since(start)
	for _, o := range e.tickObservers {
		o.ObserveTick(snap, took)
	}
}

// Step advances the simulation by one tick without touching input.
func (e *Engine) Step() *Snapshot {
	e.CheckUnlocks()
	rate := e.updateProductionRate()

	if gain := rate / float64(e.params.TickRate); gain > 0 {
		if !e.ledger.ApplyDelta(gain, SourceFacility) {
			invariant("Step", "ledger refused production credit %f", gain)
		}
	}

	e.tick++
	return e.publish()
}
