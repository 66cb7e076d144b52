package catalog

import "github.com/prometheus/client_golang/prometheus"

const (
	labelKind    = "kind"
	labelOutcome = "outcome"

	outcomeHit   = "hit"
	outcomeEmpty = "empty"
)

// Metrics are the catalog-level series exported next to the kit HTTP
// metrics.
type Metrics struct {
	Movies     prometheus.Gauge
	Reviews    prometheus.Gauge
	LoadErrors prometheus.Gauge
	Searches   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Movies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_movies",
			Help: "Movies held by the catalog",
		}),
		Reviews: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_reviews",
			Help: "Reviews available to movie detail pages",
		}),
		LoadErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_load_failed",
			Help: "1 when the catalog load failed and the catalog is empty",
		}),
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_searches_total",
				Help: "Catalog searches by kind and outcome",
			},
			[]string{labelKind, labelOutcome},
		),
	}

	reg.MustRegister(m.Movies, m.Reviews, m.LoadErrors, m.Searches)
	return m
}

func (m *Metrics) observeLoad(rep LoadReport) {
	if m == nil {
		return
	}
	m.Movies.Set(float64(rep.Count))
	if rep.OK() {
		m.LoadErrors.Set(0)
	} else {
		m.LoadErrors.Set(1)
	}
}

func (m *Metrics) observeReviews(rep LoadReport) {
	if m == nil {
		return
	}
	m.Reviews.Set(float64(rep.Count))
}

func (m *Metrics) observeSearch(kind string, matches int) {
	if m == nil {
		return
	}
	outcome := outcomeHit
	if matches == 0 {
		outcome = outcomeEmpty
	}
	m.Searches.WithLabelValues(kind, outcome).Inc()
}
