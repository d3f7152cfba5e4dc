package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the property registry module.
type Metrics struct {
	PropertiesRegistered prometheus.Counter
	OwnershipTransfers   prometheus.Counter
	RejectedMutations    *prometheus.CounterVec
	RegisterDuration     prometheus.Histogram
	MutationDuration     prometheus.Histogram
}

// New creates a Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		PropertiesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cadastre_properties_registered_total",
			Help: "Total number of properties registered",
		}),
		OwnershipTransfers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cadastre_ownership_transfers_total",
			Help: "Total number of successful ownership transfers",
		}),
		RejectedMutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cadastre_rejected_mutations_total",
			Help: "Mutations rejected before any state change, by failure kind",
		}, []string{"code"}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cadastre_register_duration_seconds",
			Help:    "Duration of property registration operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		MutationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cadastre_mutation_duration_seconds",
			Help:    "Duration of property record mutations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementRegistered records a successful property registration.
func (m *Metrics) IncrementRegistered() {
	m.PropertiesRegistered.Inc()
}

// IncrementTransfers records a successful ownership transfer.
func (m *Metrics) IncrementTransfers() {
	m.OwnershipTransfers.Inc()
}

// IncrementRejected records a rejected mutation by failure code.
func (m *Metrics) IncrementRejected(code string) {
	m.RejectedMutations.WithLabelValues(code).Inc()
}

// ObserveRegister records the duration of a registration.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}

// ObserveMutation records the duration of a record mutation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveMutation(start time.Time) {
	m.MutationDuration.Observe(time.Since(start).Seconds())
}
