package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Services treat a
// nil *Metrics as disabled, so tests can skip registration entirely.
type Metrics struct {
	BeneficiariesRegistered prometheus.Counter
	ApplicationsSubmitted   prometheus.Counter
	ApplicationsReviewed    *prometheus.CounterVec
	KhataEntriesAdded       prometheus.Counter
	AuditsSubmitted         prometheus.Counter
	DeliveriesConfirmed     prometheus.Counter
	SyncRuns                *prometheus.CounterVec
	RecordsSynced           prometheus.Counter
	SyncDuration            prometheus.Histogram
	RequestLatency          *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		BeneficiariesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sahayak_beneficiaries_registered_total",
			Help: "Total number of beneficiary records saved offline",
		}),
		ApplicationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sahayak_applications_submitted_total",
			Help: "Total number of scheme applications submitted",
		}),
		ApplicationsReviewed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sahayak_applications_reviewed_total",
			Help: "Total number of application reviews by outcome",
		}, []string{"outcome"}),
		KhataEntriesAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sahayak_khata_entries_added_total",
			Help: "Total number of ledger entries recorded",
		}),
		AuditsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sahayak_impact_audits_submitted_total",
			Help: "Total number of impact audits submitted",
		}),
		DeliveriesConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sahayak_deliveries_confirmed_total",
			Help: "Total number of asset deliveries confirmed",
		}),
		SyncRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sahayak_sync_runs_total",
			Help: "Total number of sync reconciler runs by result",
		}, []string{"result"}),
		RecordsSynced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sahayak_records_synced_total",
			Help: "Total number of records transitioned to synced",
		}),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sahayak_sync_duration_seconds",
			Help:    "Duration of sync reconciler runs",
			Buckets: prometheus.DefBuckets,
		}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sahayak_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncSyncRun records one reconciler run with its result label.
func (m *Metrics) IncSyncRun(result string) {
	if m == nil {
		return
	}
	m.SyncRuns.WithLabelValues(result).Inc()
}
