package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteIndex is a queryable copy of the ledger journal. Writes are queued
// and applied in batches by one goroutine; when the queue is full entries
// are dropped; the JSONL files remain the source of truth.
type SQLiteIndex struct {
	db  *sql.DB
	log *log.Logger

	ch      chan Record
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
	dropped atomic.Uint64
}

// OpenSQLite opens (or creates) the index database at path.
func OpenSQLite(path string, logger *log.Logger) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{db: db, log: logger, ch: make(chan Record, 16384)}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ledger (
			session TEXT NOT NULL,
			seq INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			at TEXT NOT NULL,
			source TEXT NOT NULL,
			amount REAL NOT NULL,
			balance REAL NOT NULL,
			PRIMARY KEY (session, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_source ON ledger(source, session);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// UpsertCatalog stores the catalog a session ran with. It runs synchronously
// and is meant for startup.
func (s *SQLiteIndex) UpsertCatalog(name, digest string, raw []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`,
		name, digest, string(raw), now); err != nil {
		return err
	}
	return tx.Commit()
}

// SetMeta writes one key of the meta table synchronously.
func (s *SQLiteIndex) SetMeta(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES(?,?)`, key, value)
	return err
}

// WriteRecord queues r. It never blocks.
func (s *SQLiteIndex) WriteRecord(r Record) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		s.dropped.Add(1)
	}
}

// Dropped is the number of records lost to a full queue.
func (s *SQLiteIndex) Dropped() uint64 { return s.dropped.Load() }

// Close drains the queue and closes the database.
func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insert, err := s.db.Prepare(`INSERT OR REPLACE INTO ledger(session,seq,tick,at,source,amount,balance) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		s.logf("[JOURNAL] sqlite prepare: %v", err)
		for range s.ch {
			s.dropped.Add(1)
		}
		return
	}
	defer insert.Close()

	var (
		tx            *sql.Tx
		opCount       int
		commitEvery   = 512
		commitMaxWait = time.Second
	)

	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			s.logf("[JOURNAL] sqlite commit: %v", err)
		}
		tx = nil
		opCount = 0
	}

	flush := time.NewTicker(commitMaxWait)
	defer flush.Stop()

	for {
		select {
		case r, ok := <-s.ch:
			if !ok {
				commit()
				return
			}
			if tx == nil {
				txx, err := s.db.BeginTx(ctx, nil)
				if err != nil {
					s.logf("[JOURNAL] sqlite begin: %v", err)
					s.dropped.Add(1)
					continue
				}
				tx = txx
			}
			if _, err := tx.Stmt(insert).Exec(
				r.Session,
				int64(r.Seq),
				int64(r.Tick),
				r.At.UTC().Format(time.RFC3339Nano),
				r.Source,
				r.Amount,
				r.Balance,
			); err != nil {
				s.logf("[JOURNAL] sqlite insert: %v", err)
				_ = tx.Rollback()
				tx = nil
				opCount = 0
				continue
			}
			opCount++
			if opCount >= commitEvery {
				commit()
			}

		case <-flush.C:
			commit()
		}
	}
}
