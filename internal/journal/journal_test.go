package journal

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/cookey-typer/internal/config"
	"github.com/everforgeworks/cookey-typer/internal/game"
)

func readJSONL(t *testing.T, path string) []Record {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	var out []Record
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var r Record
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		out = append(out, r)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestJournalRecordsLedger(t *testing.T) {
	dir := t.TempDir()
	cat, err := config.Default()
	require.NoError(t, err)

	j, err := Open(dir, cat, nil)
	require.NoError(t, err)

	e, err := game.NewEngine(cat, game.Options{
		LedgerObservers: []game.LedgerObserver{j},
		TickObservers:   []game.TickObserver{j},
	})
	require.NoError(t, err)

	require.True(t, e.CreditCookies(20, game.SourceTyping))
	_, err = e.PurchaseFacility("keyboard", 1)
	require.NoError(t, err)
	_, err = e.PurchaseFacility("keyboard", 1) // refused, not journaled
	require.Error(t, err)
	e.RunTick(nil, nil)

	require.NoError(t, j.Close())
	require.NoError(t, j.Close(), "idempotent")
	assert.Equal(t, uint64(0), j.Dropped())

	// 1. Compressed JSONL
	files, err := filepath.Glob(filepath.Join(dir, "ledger", "ledger-*.jsonl.zst"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	recs := readJSONL(t, files[0])
	require.Len(t, recs, 3, "typing, purchase, one tick of production")
	assert.Equal(t, "typing", recs[0].Source)
	assert.Equal(t, float64(20), recs[0].Amount)
	assert.Equal(t, "facility_purchase", recs[1].Source)
	assert.Equal(t, float64(-15), recs[1].Amount)
	assert.Equal(t, float64(5), recs[1].Balance)
	assert.Equal(t, "facility", recs[2].Source)
	assert.Equal(t, j.Session(), recs[2].Session)

	// 2. SQLite index
	db, err := sql.Open("sqlite", filepath.Join(dir, "index.db"))
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM ledger WHERE session=?`, j.Session()).Scan(&n))
	assert.Equal(t, 3, n)

	var spent float64
	require.NoError(t, db.QueryRow(`SELECT -SUM(amount) FROM ledger WHERE source='facility_purchase'`).Scan(&spent))
	assert.Equal(t, float64(15), spent)

	var digest string
	require.NoError(t, db.QueryRow(`SELECT digest FROM catalogs WHERE name='catalog'`).Scan(&digest))
	assert.Equal(t, cat.Digest, digest)

	var session string
	require.NoError(t, db.QueryRow(`SELECT value FROM meta WHERE key='last_session'`).Scan(&session))
	assert.Equal(t, j.Session(), session)
}

func TestJournalAfterCloseIsSilent(t *testing.T) {
	j, err := Open(t.TempDir(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.NotPanics(t, func() {
		j.ObserveLedger(game.LedgerEntry{Seq: 1, Amount: 1}, true)
	})
}

func TestJSONLZstdWriterRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "ledger")
	at := time.Date(2026, 10, 18, 9, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return at }

	require.NoError(t, w.Write(Record{Seq: 1}))
	at = at.Add(2 * time.Minute)
	require.NoError(t, w.Write(Record{Seq: 2}))
	require.NoError(t, w.Write(Record{Seq: 3}))
	require.NoError(t, w.Close())

	first := readJSONL(t, filepath.Join(dir, "ledger-2026-10-18-09.jsonl.zst"))
	second := readJSONL(t, filepath.Join(dir, "ledger-2026-10-18-10.jsonl.zst"))
	require.Len(t, first, 1)
	require.Len(t, second, 2)
	assert.Equal(t, uint64(3), second[1].Seq)
}
