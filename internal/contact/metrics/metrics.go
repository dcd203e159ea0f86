package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded for contact submissions.
const (
	OutcomeSent     = "sent"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

type Metrics struct {
	Submissions     *prometheus.CounterVec
	AttachmentBytes prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paraiso_contact_submissions_total",
			Help: "Contact form submissions, labeled by reason and outcome",
		}, []string{"reason", "outcome"}),
		AttachmentBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "paraiso_contact_attachment_bytes",
			Help:    "Size of accepted contact attachments",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 7),
		}),
	}
}

func (m *Metrics) IncrementSubmission(reason, outcome string) {
	m.Submissions.WithLabelValues(reason, outcome).Inc()
}

func (m *Metrics) ObserveAttachment(size int) {
	m.AttachmentBytes.Observe(float64(size))
}
