package scraper

import (
	"time"

	"github.com/aluiziolira/go-game-deals/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry           *prometheus.Registry
	PagesVisitedTotal  *prometheus.CounterVec
	ItemsTotal         *prometheus.CounterVec
	StoreErrorsTotal   *prometheus.CounterVec
	NavigationDuration *prometheus.HistogramVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_pages_visited_total",
			Help: "Listing pages loaded per store.",
		},
		[]string{"store"},
	)
	items := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_items_total",
			Help: "Listing items seen per store, by outcome.",
		},
		[]string{"store", "outcome"},
	)
	storeErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_store_errors_total",
			Help: "Store passes aborted, by error type.",
		},
		[]string{"store", "error_type"},
	)
	navigation := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deals_navigation_duration_seconds",
			Help:    "Time to load a listing page, settle delay excluded.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store"},
	)

	registry.MustRegister(pages, items, storeErrors, navigation)

	return &Metrics{
		Registry:           registry,
		PagesVisitedTotal:  pages,
		ItemsTotal:         items,
		StoreErrorsTotal:   storeErrors,
		NavigationDuration: navigation,
	}
}

// IncPage increments the pages counter for store.
func (m *Metrics) IncPage(store models.Store) {
	if m == nil {
		return
	}
	m.PagesVisitedTotal.WithLabelValues(store.String()).Inc()
}

// IncItem counts an item with outcome "kept" or "below_threshold".
func (m *Metrics) IncItem(store models.Store, outcome string) {
	if m == nil {
		return
	}
	m.ItemsTotal.WithLabelValues(store.String(), outcome).Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(store models.Store, errorType string) {
	if m == nil {
		return
	}
	m.StoreErrorsTotal.WithLabelValues(store.String(), errorType).Inc()
}

// ObserveNavigation records a navigation duration.
func (m *Metrics) ObserveNavigation(store models.Store, d time.Duration) {
	if m == nil {
		return
	}
	m.NavigationDuration.WithLabelValues(store.String()).Observe(d.Seconds())
}
