package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StockMetrics records counters and timings for the stock mutation engine.
type StockMetrics struct {
	applyDuration     *prometheus.HistogramVec
	movements         *prometheus.CounterVec
	insufficientStock prometheus.Counter
	duplicateRefs     prometheus.Counter
}

// NewStockMetrics registers the stock metrics on the provided registerer.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	applyDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stock_apply_duration_seconds",
		Help:    "Duration of stock movement applications in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"movement_type"})
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Accepted stock movements by movement type.",
	}, []string{"movement_type"})
	insufficientStock := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_insufficient_total",
		Help: "Movements rejected because stock would go negative.",
	})
	duplicateRefs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_duplicate_reference_total",
		Help: "Documents rejected because the reference number was already used.",
	})
	reg.MustRegister(applyDuration, movements, insufficientStock, duplicateRefs)
	return &StockMetrics{
		applyDuration:     applyDuration,
		movements:         movements,
		insufficientStock: insufficientStock,
		duplicateRefs:     duplicateRefs,
	}
}

// ObserveApply records the duration of one movement application.
func (s *StockMetrics) ObserveApply(movementType string, duration time.Duration) {
	if s == nil || s.applyDuration == nil {
		return
	}
	s.applyDuration.WithLabelValues(normalizeLabel(movementType)).Observe(duration.Seconds())
}

// IncMovement increments the accepted movement counter.
func (s *StockMetrics) IncMovement(movementType string) {
	if s == nil || s.movements == nil {
		return
	}
	s.movements.WithLabelValues(normalizeLabel(movementType)).Inc()
}

// IncInsufficientStock increments the floor-violation counter.
func (s *StockMetrics) IncInsufficientStock() {
	if s == nil || s.insufficientStock == nil {
		return
	}
	s.insufficientStock.Inc()
}

// IncDuplicateReference increments the duplicate reference counter.
func (s *StockMetrics) IncDuplicateReference() {
	if s == nil || s.duplicateRefs == nil {
		return
	}
	s.duplicateRefs.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
