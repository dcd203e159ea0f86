package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the consent flow.
type Metrics struct {
	Actions         *prometheus.CounterVec
	CategoryChanges *prometheus.CounterVec
	RevokeFailures  prometheus.Counter
	PromptsShown    prometheus.Counter
	GoogleDisabled  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Actions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paraiso_consent_actions_total",
			Help: "Consent prompt actions, labeled by action",
		}, []string{"action"}),
		CategoryChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paraiso_consent_category_changes_total",
			Help: "Consent category transitions, labeled by category and decision",
		}, []string{"category", "decision"}),
		RevokeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "paraiso_consent_revoke_failures_total",
			Help: "Revocation sweeps aborted by a cookie failure",
		}),
		PromptsShown: factory.NewCounter(prometheus.CounterOpts{
			Name: "paraiso_consent_prompts_shown_total",
			Help: "Sessions that started without any prior consent cookie",
		}),
		GoogleDisabled: factory.NewCounter(prometheus.CounterOpts{
			Name: "paraiso_consent_google_disabled_total",
			Help: "Sessions in which Google Analytics was disabled",
		}),
	}
}

func (m *Metrics) IncrementAction(action string) {
	m.Actions.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementCategoryChange(category, decision string) {
	m.CategoryChanges.WithLabelValues(category, decision).Inc()
}

func (m *Metrics) IncrementRevokeFailure() {
	m.RevokeFailures.Inc()
}

func (m *Metrics) IncrementPromptShown() {
	m.PromptsShown.Inc()
}

func (m *Metrics) IncrementGoogleDisabled() {
	m.GoogleDisabled.Inc()
}
