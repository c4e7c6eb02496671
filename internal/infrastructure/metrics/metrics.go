package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
)

// Metrics holds all Prometheus metrics. It implements usecase.Recorder.
type Metrics struct {
	// Settlement metrics
	SessionsFinalized      prometheus.Counter
	DeductionsPosted       prometheus.Counter
	SettlementPasses       prometheus.Counter
	AutomaticPayments      prometheus.Counter
	AutomaticPaymentAmount prometheus.Histogram
	RentAccruals           *prometheus.CounterVec
	SharedBalance          *prometheus.GaugeVec

	// Persistence metrics
	PersistenceFailures *prometheus.CounterVec
	SnapshotOperations  *prometheus.CounterVec
	SnapshotDuration    *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Settlement metrics
		SessionsFinalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "kasa_sessions_finalized_total",
			Help: "Total number of finalized work sessions",
		}),
		DeductionsPosted: factory.NewCounter(prometheus.CounterOpts{
			Name: "kasa_deductions_posted_czk_total",
			Help: "Sum of session deductions posted to the shared balance",
		}),
		SettlementPasses: factory.NewCounter(prometheus.CounterOpts{
			Name: "kasa_settlement_passes_total",
			Help: "Total number of settlement passes above the rent reserve",
		}),
		AutomaticPayments: factory.NewCounter(prometheus.CounterOpts{
			Name: "kasa_automatic_payments_total",
			Help: "Total number of automatic debt payments",
		}),
		AutomaticPaymentAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kasa_automatic_payment_amount_czk",
			Help:    "Automatic debt payment amounts",
			Buckets: []float64{10, 100, 500, 1000, 5000, 10000, 25000, 100000},
		}),
		RentAccruals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kasa_rent_accruals_total",
				Help: "Monthly rent accruals by outcome",
			},
			[]string{"outcome"},
		),
		SharedBalance: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kasa_shared_balance",
				Help: "Current shared balance",
			},
			[]string{"currency"},
		),

		// Persistence metrics
		PersistenceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kasa_persistence_failures_total",
				Help: "Snapshot load/save failures",
			},
			[]string{"op", "key"},
		),
		SnapshotOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kasa_snapshot_operations_total",
				Help: "Snapshot store operations",
			},
			[]string{"backend", "operation", "status"},
		),
		SnapshotDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kasa_snapshot_duration_seconds",
				Help:    "Snapshot store operation duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kasa_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"method"},
		),
	}
}

func (m *Metrics) SessionFinalized(deduction decimal.Decimal) {
	m.SessionsFinalized.Inc()
	m.DeductionsPosted.Add(deduction.InexactFloat64())
}

func (m *Metrics) SettlementPass(payments int) {
	m.SettlementPasses.Inc()
}

func (m *Metrics) AutomaticPayment(amount decimal.Decimal) {
	m.AutomaticPayments.Inc()
	m.AutomaticPaymentAmount.Observe(amount.InexactFloat64())
}

func (m *Metrics) RentAccrued(coveredByBudget bool) {
	outcome := "debt"
	if coveredByBudget {
		outcome = "paid"
	}
	m.RentAccruals.WithLabelValues(outcome).Inc()
}

func (m *Metrics) BalanceChanged(currency domain.Currency, balance decimal.Decimal) {
	m.SharedBalance.WithLabelValues(string(currency)).Set(balance.InexactFloat64())
}

func (m *Metrics) PersistenceFailed(op, key string) {
	m.PersistenceFailures.WithLabelValues(op, key).Inc()
}

// ObserveSnapshot records one snapshot store operation.
func (m *Metrics) ObserveSnapshot(backend, operation string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SnapshotOperations.WithLabelValues(backend, operation, status).Inc()
	m.SnapshotDuration.WithLabelValues(backend, operation).Observe(time.Since(started).Seconds())
}
