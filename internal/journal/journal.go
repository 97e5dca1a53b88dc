/*
Package journal
File: journal.go
Description:
    Write-only audit trail of every accepted ledger mutation.

    Each entry is written to two sinks:
    1. Hourly-rotated zstd JSONL files under <dir>/ledger/.
    2. A SQLite index at <dir>/index.db for ad-hoc queries.

    The engine calls ObserveLedger while holding the ledger lock, so the
    Journal only does a non-blocking channel send there. One goroutine
    drains the channel into both sinks. When it falls behind, entries are
    dropped and counted; the game never waits for the disk.

    Nothing here is ever read back by the engine.
*/

package journal

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/everforgeworks/cookey-typer/internal/config"
	"github.com/everforgeworks/cookey-typer/internal/game"
)

// Record is one journal line.
type Record struct {
	Session string    `json:"session"`
	Seq     uint64    `json:"seq"`
	Tick    uint64    `json:"tick"`
	At      time.Time `json:"at"`
	Source  string    `json:"source"`
	Amount  float64   `json:"amount"`
	Balance float64   `json:"balance"`
}

// Journal implements game.LedgerObserver and game.TickObserver.
type Journal struct {
	session string
	log     *log.Logger

	files *JSONLZstdWriter
	index *SQLiteIndex

	mu      sync.RWMutex // Guards closed against sends on a closed ch
	ch      chan Record
	wg      sync.WaitGroup
	once    sync.Once
	closed  bool
	tick    atomic.Uint64
	dropped atomic.Uint64
	written atomic.Uint64
}

// Open creates the journal under dir and records the catalog it runs with.
func Open(dir string, cat *config.Catalog, logger *log.Logger) (*Journal, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	index, err := OpenSQLite(filepath.Join(dir, "index.db"), logger)
	if err != nil {
		return nil, fmt.Errorf("journal index: %w", err)
	}

	j := &Journal{
		session: uuid.NewString(),
		log:     logger,
		files:   NewJSONLZstdWriter(filepath.Join(dir, "ledger"), "ledger"),
		index:   index,
		ch:      make(chan Record, 4096),
	}

	if cat != nil {
		raw, err := json.Marshal(cat)
		if err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("journal catalog: %w", err)
		}
		if err := index.UpsertCatalog("catalog", cat.Digest, raw); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("journal catalog: %w", err)
		}
	}
	if err := index.SetMeta("last_session", j.session); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("journal meta: %w", err)
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.loop()
	}()

	logger.Printf("[JOURNAL] session %s writing to %s", j.session, dir)
	return j, nil
}

// Session is the id stamped on every record of this process.
func (j *Journal) Session() string { return j.session }

// Dropped counts records lost to a full queue, in either sink.
func (j *Journal) Dropped() uint64 { return j.dropped.Load() + j.index.Dropped() }

// Written counts records handed to the file sink.
func (j *Journal) Written() uint64 { return j.written.Load() }

// ObserveLedger implements game.LedgerObserver. Refusals are not journaled.
func (j *Journal) ObserveLedger(e game.LedgerEntry, ok bool) {
	if !ok {
		return
	}
	r := Record{
		Session: j.session,
		Seq:     e.Seq,
		Tick:    j.tick.Load(),
		At:      e.At,
		Source:  e.Source.String(),
		Amount:  e.Amount,
		Balance: e.Balance,
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}
	select {
	case j.ch <- r:
	default:
		j.dropped.Add(1)
	}
}

// ObserveTick implements game.TickObserver.
func (j *Journal) ObserveTick(s *game.Snapshot, _ time.Duration) {
	j.tick.Store(s.Tick)
}

func (j *Journal) loop() {
	flush := time.NewTicker(time.Second)
	defer flush.Stop()

	for {
		select {
		case r, ok := <-j.ch:
			if !ok {
				return
			}
			if err := j.files.Write(r); err != nil {
				j.log.Printf("[JOURNAL] write: %v", err)
			} else {
				j.written.Add(1)
			}
			j.index.WriteRecord(r)

		case <-flush.C:
			if err := j.files.Flush(); err != nil {
				j.log.Printf("[JOURNAL] flush: %v", err)
			}
		}
	}
}

// Close drains pending records and closes both sinks.
func (j *Journal) Close() error {
	var err error
	j.once.Do(func() {
		j.mu.Lock()
		j.closed = true
		close(j.ch)
		j.mu.Unlock()
		j.wg.Wait()

		ferr := j.files.Close()
		ierr := j.index.Close()
		switch {
		case ferr != nil:
			err = fmt.Errorf("journal files: %w", ferr)
		case ierr != nil:
			err = fmt.Errorf("journal index: %w", ierr)
		}
		if n := j.Dropped(); n > 0 {
			j.log.Printf("[JOURNAL] %d records dropped", n)
		}
	})
	return err
}
