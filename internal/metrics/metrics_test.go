package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/cookey-typer/internal/config"
	"github.com/everforgeworks/cookey-typer/internal/game"
)

func TestRecorderObservesEngine(t *testing.T) {
	rec := New()
	cat, err := config.Default()
	require.NoError(t, err)
	e, err := game.NewEngine(cat, game.Options{
		LedgerObservers: []game.LedgerObserver{rec},
		TickObservers:   []game.TickObserver{rec},
	})
	require.NoError(t, err)

	require.True(t, e.CreditCookies(100, game.SourceTyping))
	_, err = e.PurchaseFacility("keyboard", 1)
	require.NoError(t, err)
	_, err = e.PurchaseFacility("grandma", 1)
	require.Error(t, err)
	_, err = e.SellFacility("keyboard", 1)
	require.NoError(t, err)
	e.RunTick(nil, nil)

	assert.Equal(t, float64(100), testutil.ToFloat64(rec.cookies.WithLabelValues("typing", "credit")))
	assert.Equal(t, float64(15), testutil.ToFloat64(rec.cookies.WithLabelValues("facility_purchase", "debit")))
	assert.Equal(t, float64(7), testutil.ToFloat64(rec.cookies.WithLabelValues("facility_sale", "credit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.rejections))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.purchases.WithLabelValues("facility")))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.purchases.WithLabelValues("facility_sale")))
	assert.Equal(t, float64(92), testutil.ToFloat64(rec.balance))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.ticks))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.tickDuration))
}

func TestRecorderHandler(t *testing.T) {
	rec := New()
	rec.ObserveTick(&game.Snapshot{ProductionRate: 2.5, Balance: 10}, time.Millisecond)

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "cookey_production_rate 2.5")
	assert.Contains(t, string(body), "cookey_balance 10")
	assert.Contains(t, string(body), "go_goroutines")
}
