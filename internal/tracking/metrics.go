package tracking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Visits        *prometheus.CounterVec
	DeviceReports prometheus.Counter
	GAHits        *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Visits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paraiso_tracking_visits_total",
			Help: "Page visits recorded in the _visited cookie, labeled by page",
		}, []string{"page"}),
		DeviceReports: factory.NewCounter(prometheus.CounterOpts{
			Name: "paraiso_tracking_device_reports_total",
			Help: "Screen resolution reports stored in the _device cookie",
		}),
		GAHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paraiso_tracking_ga_hits_total",
			Help: "Google Analytics measurement protocol hits, labeled by event and outcome",
		}, []string{"event", "outcome"}),
	}
}

func (m *Metrics) IncrementVisit(page string) {
	m.Visits.WithLabelValues(page).Inc()
}

func (m *Metrics) IncrementDeviceReport() {
	m.DeviceReports.Inc()
}

func (m *Metrics) IncrementGAHit(event, outcome string) {
	m.GAHits.WithLabelValues(event, outcome).Inc()
}
