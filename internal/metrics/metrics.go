/*
Package metrics
File: metrics.go
Description:
    Prometheus instrumentation of the engine. The Recorder owns its own
    registry (nothing is registered globally) and plugs into the engine as
    a ledger observer and a tick observer.

    Metrics:
    - cookey_balance                      gauge
    - cookey_production_rate              gauge, cookies per second
    - cookey_ledger_cookies_total         counter {source, direction}
    - cookey_ledger_rejections_total      counter
    - cookey_purchases_total              counter {kind}
    - cookey_ticks_total                  counter
    - cookey_tick_duration_seconds        histogram
*/

package metrics

import (
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/everforgeworks/cookey-typer/internal/game"
)

const namespace = "cookey"

// Recorder implements game.LedgerObserver and game.TickObserver.
type Recorder struct {
	reg *prometheus.Registry

	balance      prometheus.Gauge
	rate         prometheus.Gauge
	cookies      *prometheus.CounterVec
	rejections   prometheus.Counter
	purchases    *prometheus.CounterVec
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
}

// New builds a Recorder with the Go runtime and process collectors attached.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "balance",
			Help:      "Current cookie balance.",
		}),
		rate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "production_rate",
			Help:      "Aggregate automatic production in cookies per second.",
		}),
		cookies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_cookies_total",
			Help:      "Cookies moved through the ledger.",
		}, []string{"source", "direction"}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_rejections_total",
			Help:      "Ledger mutations refused for lack of funds.",
		}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Completed purchases and sales.",
		}, []string{"kind"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation ticks completed.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent inside one tick, input handling included.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14),
		}),
	}

	r.reg.MustRegister(
		r.balance, r.rate, r.cookies, r.rejections, r.purchases, r.ticks, r.tickDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry exposes the private registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ObserveLedger implements game.LedgerObserver. It only touches atomics.
func (r *Recorder) ObserveLedger(e game.LedgerEntry, ok bool) {
	if !ok {
		r.rejections.Inc()
		return
	}

	direction := "credit"
	if e.Amount < 0 {
		direction = "debit"
	}
	r.cookies.WithLabelValues(e.Source.String(), direction).Add(math.Abs(e.Amount))
	r.balance.Set(e.Balance)

	switch e.Source {
	case game.SourceFacilityPurchase:
		r.purchases.WithLabelValues("facility").Inc()
	case game.SourceFacilitySale:
		r.purchases.WithLabelValues("facility_sale").Inc()
	case game.SourceUpgradePurchase:
		r.purchases.WithLabelValues("upgrade").Inc()
	}
}

// ObserveTick implements game.TickObserver.
func (r *Recorder) ObserveTick(s *game.Snapshot, took time.Duration) {
	r.ticks.Inc()
	r.tickDuration.Observe(took.Seconds())
	r.rate.Set(s.ProductionRate)
	r.balance.Set(s.Balance)
}
