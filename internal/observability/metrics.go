package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors for the intake and transfer flows.
type Metrics struct {
	registry *prometheus.Registry

	recordsIngestedTotal   *prometheus.CounterVec
	filesUploadedTotal     *prometheus.CounterVec
	feedbackFilesTotal     *prometheus.CounterVec
	notificationsConciled  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		recordsIngestedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asp_relay_records_ingested_total",
				Help: "Employee record events consumed from the intake queue.",
			},
			[]string{"outcome"},
		),
		filesUploadedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asp_relay_files_uploaded_total",
				Help: "Batch files pushed to the agency SFTP server.",
			},
			[]string{"outcome"},
		),
		feedbackFilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asp_relay_feedback_files_total",
				Help: "Feedback files fetched from the agency SFTP server.",
			},
			[]string{"outcome"},
		),
		notificationsConciled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asp_relay_notifications_reconciled_total",
				Help: "Notifications updated from feedback results.",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.recordsIngestedTotal,
		m.filesUploadedTotal,
		m.feedbackFilesTotal,
		m.notificationsConciled,
	)

	return m
}

func (m *Metrics) IncRecordIngested(outcome string) {
	if m == nil {
		return
	}
	m.recordsIngestedTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncFileUploaded(outcome string) {
	if m == nil {
		return
	}
	m.filesUploadedTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncFeedbackFile(outcome string) {
	if m == nil {
		return
	}
	m.feedbackFilesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncNotificationReconciled(status string) {
	if m == nil {
		return
	}
	m.notificationsConciled.WithLabelValues(status).Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
