package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultPartial  = "partial"
)

// CartMetrics records cart operations, validation rejections and submissions.
type CartMetrics struct {
	operations  *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	submissions *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart use case executions by operation and result.",
	}, []string{"operation", "result"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_validation_rejections_total",
		Help: "Quantity changes rejected by cart validation, by operation.",
	}, []string{"operation"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_submissions_total",
		Help: "Cart submissions recorded, by result.",
	}, []string{"result"})
	reg.MustRegister(operations, rejections, submissions)
	return &CartMetrics{
		operations:  operations,
		rejections:  rejections,
		submissions: submissions,
	}
}

// ObserveOperation counts one execution of the named use case.
func (c *CartMetrics) ObserveOperation(operation, result string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(operation), normalizeLabel(result)).Inc()
}

// IncRejection counts a validation rejection for the named use case.
func (c *CartMetrics) IncRejection(operation string) {
	if c == nil || c.rejections == nil {
		return
	}
	c.rejections.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncSubmission counts a recorded submission.
func (c *CartMetrics) IncSubmission(result string) {
	if c == nil || c.submissions == nil {
		return
	}
	c.submissions.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
