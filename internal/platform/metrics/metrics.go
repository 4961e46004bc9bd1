package metrics

import (
	"errors"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Ledger holds the collectors for ledger operations and reference allocation.
// A nil *Ledger is valid and records nothing.
type Ledger struct {
	operations          *prometheus.CounterVec
	duration            *prometheus.HistogramVec
	allocationAttempts  *prometheus.HistogramVec
	allocationExhausted *prometheus.CounterVec
}

// NewLedger creates the ledger collectors and registers them on reg.
func NewLedger(reg prometheus.Registerer, namespace string) (*Ledger, error) {
	m := &Ledger{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Latency of ledger operations including the unit of work.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		allocationAttempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "references",
			Name:      "allocation_attempts",
			Help:      "Candidates tried before a reference was claimed.",
			Buckets:   []float64{1, 2, 3, 5, 8, 10},
		}, []string{"kind"}),
		allocationExhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "references",
			Name:      "allocation_exhausted_total",
			Help:      "Allocations that ran out of attempts.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.duration, m.allocationAttempts, m.allocationExhausted} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveOperation records the outcome and latency of one ledger operation.
func (m *Ledger) ObserveOperation(op domain.LedgerOperation, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(string(op), Outcome(err)).Inc()
	m.duration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
}

// ObserveAllocation records how many candidates an allocation consumed.
func (m *Ledger) ObserveAllocation(kind domain.ReferenceKind, attempts int, exhausted bool) {
	if m == nil {
		return
	}
	if exhausted {
		m.allocationExhausted.WithLabelValues(string(kind)).Inc()
		return
	}
	m.allocationAttempts.WithLabelValues(string(kind)).Observe(float64(attempts))
}

// Outcome classifies err: caller-side precondition failures are "rejected".
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, apperrors.ErrStorage),
		errors.Is(err, apperrors.ErrReferenceAllocationExhausted),
		errors.Is(err, apperrors.ErrInternal):
		return OutcomeError
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrAccountLockedOrInactive),
		errors.Is(err, apperrors.ErrLoanNotFound),
		errors.Is(err, apperrors.ErrLoanNotPayable),
		errors.Is(err, apperrors.ErrAmountExceedsBalance),
		errors.Is(err, apperrors.ErrInterestAlreadyApplied),
		errors.Is(err, apperrors.ErrNotInterestBearing):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
