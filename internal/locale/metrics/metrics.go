package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for locale changes and redirects.
type Metrics struct {
	Changes          *prometheus.CounterVec
	Superseded       prometheus.Counter
	Redirects        *prometheus.CounterVec
	SlugLookupErrors prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Changes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paraiso_locale_changes_total",
			Help: "Explicit locale changes, labeled by target locale and persistence",
		}, []string{"locale", "persisted"}),
		Superseded: factory.NewCounter(prometheus.CounterOpts{
			Name: "paraiso_locale_changes_superseded_total",
			Help: "Locale changes discarded because a newer change started",
		}),
		Redirects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paraiso_locale_redirects_total",
			Help: "Cookie driven locale redirects, labeled by route kind",
		}, []string{"kind"}),
		SlugLookupErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "paraiso_locale_slug_lookup_errors_total",
			Help: "Failed blog translation lookups",
		}),
	}
}

func (m *Metrics) IncrementChange(locale string, persisted bool) {
	label := "session"
	if persisted {
		label = "cookie"
	}
	m.Changes.WithLabelValues(locale, label).Inc()
}

func (m *Metrics) IncrementSuperseded() {
	m.Superseded.Inc()
}

func (m *Metrics) IncrementRedirect(kind string) {
	m.Redirects.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementSlugLookupError() {
	m.SlugLookupErrors.Inc()
}
