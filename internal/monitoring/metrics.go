package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

// Metrics contains all metrics for deposit and withdrawal processing
type Metrics struct {
	// Deposit pipeline cycle counters
	depositsDetected  *prometheus.CounterVec
	depositsConfirmed *prometheus.CounterVec
	depositsCredited  *prometheus.CounterVec
	depositErrors     *prometheus.CounterVec

	// Withdrawal outcome counters
	withdrawalsSent   *prometheus.CounterVec
	withdrawalsFailed *prometheus.CounterVec

	// Chain client call duration histogram
	chainCallDuration *prometheus.HistogramVec

	// Chain client call count counter
	chainCalls *prometheus.CounterVec

	// Circuit breaker state gauge
	circuitBreakerState *prometheus.GaugeVec
}

// NewMetrics creates a new instance of bridge metrics
func NewMetrics() *Metrics {
	return &Metrics{
		depositsDetected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_backend_deposits_detected_total",
				Help: "Total number of deposits recorded by the detect phase",
			},
			[]string{"network"},
		),

		depositsConfirmed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_backend_deposits_confirmed_total",
				Help: "Total number of deposits passing confirmation",
			},
			[]string{"network"},
		),

		depositsCredited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_backend_deposits_credited_total",
				Help: "Total number of deposits credited to user balances",
			},
			[]string{"network"},
		),

		depositErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_backend_deposit_cycle_errors_total",
				Help: "Total number of errors collected during deposit cycles",
			},
			[]string{"network"},
		),

		withdrawalsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_backend_withdrawals_sent_total",
				Help: "Total number of withdrawal payouts sent on chain",
			},
			[]string{"network"},
		),

		withdrawalsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_backend_withdrawals_failed_total",
				Help: "Total number of withdrawal payouts that failed and were refunded",
			},
			[]string{"network"},
		),

		chainCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bridge_backend_chain_call_duration_seconds",
				Help:    "Duration of chain client calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"network", "operation", "status"},
		),

		chainCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_backend_chain_calls_total",
				Help: "Total number of chain client calls",
			},
			[]string{"network", "operation", "status"},
		),

		circuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bridge_backend_circuit_breaker_state",
				Help: "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"network"},
		),
	}
}

// MustRegister registers all metrics with the provided registry
func (m *Metrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.depositsDetected,
		m.depositsConfirmed,
		m.depositsCredited,
		m.depositErrors,
		m.withdrawalsSent,
		m.withdrawalsFailed,
		m.chainCallDuration,
		m.chainCalls,
		m.circuitBreakerState,
	)
}

// ObserveDepositCycle records the outcome counts of one deposit cycle
func (m *Metrics) ObserveDepositCycle(network string, detected, confirmed, credited, errors int) {
	m.depositsDetected.WithLabelValues(network).Add(float64(detected))
	m.depositsConfirmed.WithLabelValues(network).Add(float64(confirmed))
	m.depositsCredited.WithLabelValues(network).Add(float64(credited))
	m.depositErrors.WithLabelValues(network).Add(float64(errors))
}

// ObserveWithdrawalSent records a successful payout
func (m *Metrics) ObserveWithdrawalSent(network string) {
	m.withdrawalsSent.WithLabelValues(network).Inc()
}

// ObserveWithdrawalFailed records a failed and refunded payout
func (m *Metrics) ObserveWithdrawalFailed(network string) {
	m.withdrawalsFailed.WithLabelValues(network).Inc()
}

// RecordChainCall records an outbound chain client call with duration and status
func (m *Metrics) RecordChainCall(network, operation, status string, duration float64) {
	m.chainCallDuration.WithLabelValues(network, operation, status).Observe(duration)
	m.chainCalls.WithLabelValues(network, operation, status).Inc()
}

// UpdateCircuitBreakerState updates the circuit breaker state metric
func (m *Metrics) UpdateCircuitBreakerState(network string, state gobreaker.State) {
	m.circuitBreakerState.WithLabelValues(network).Set(float64(state))
}
