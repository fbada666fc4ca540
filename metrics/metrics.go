package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the operational counters of the scraping pipeline.
// Scrape failures have no user-facing surface, so these counters plus the
// log are the only place they show up.
type Registry struct {
	reg                *prometheus.Registry
	Runs               prometheus.Counter
	UnitsOK            prometheus.Counter
	UnitsFailed        prometheus.Counter
	MenusCreated       prometheus.Counter
	MenusSkipped       prometheus.Counter
	RestaurantsCreated prometheus.Counter
	LastRunSeconds     prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	runs := prometheus.NewCounter(prometheus.CounterOpts{Name: "scrape_runs_total"})
	unitsOK := prometheus.NewCounter(prometheus.CounterOpts{Name: "scrape_units_ok_total"})
	unitsFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "scrape_units_failed_total"})
	menusCreated := prometheus.NewCounter(prometheus.CounterOpts{Name: "scrape_menus_created_total"})
	menusSkipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "scrape_menus_skipped_total"})
	restaurantsCreated := prometheus.NewCounter(prometheus.CounterOpts{Name: "scrape_restaurants_created_total"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{Name: "scrape_last_run_duration_seconds"})

	r.MustRegister(runs, unitsOK, unitsFailed, menusCreated, menusSkipped, restaurantsCreated, lastRun)
	return &Registry{
		reg:                r,
		Runs:               runs,
		UnitsOK:            unitsOK,
		UnitsFailed:        unitsFailed,
		MenusCreated:       menusCreated,
		MenusSkipped:       menusSkipped,
		RestaurantsCreated: restaurantsCreated,
		LastRunSeconds:     lastRun,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
