package monitoring

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wagerly/bridge-backend/internal/chain"
	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

// CircuitBreakerClient wraps a chain.Client with circuit breaker functionality.
// Only the calls that spend money or mutate chain state trip the breaker;
// balance reads keep their zero-on-failure contract and bypass it.
type CircuitBreakerClient struct {
	wrapped        chain.Client
	circuitBreaker *gobreaker.CircuitBreaker
	metrics        *Metrics
	logger         *logger.Logger
}

// NewCircuitBreakerClient creates a new circuit breaker wrapper for a chain client
func NewCircuitBreakerClient(wrapped chain.Client, config CircuitBreakerConfig, metrics *Metrics, logger *logger.Logger) *CircuitBreakerClient {
	network := wrapped.Network().String()
	cb := &CircuitBreakerClient{
		wrapped: wrapped,
		metrics: metrics,
		logger:  logger,
	}

	settings := gobreaker.Settings{
		Name:        network,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.ConsecutiveFailureThreshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state change", map[string]string{
				"network": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.UpdateCircuitBreakerState(name, to)
		},
	}

	cb.circuitBreaker = gobreaker.NewCircuitBreaker(settings)
	return cb
}

func (cb *CircuitBreakerClient) execute(operation string, fn func() (interface{}, error)) (interface{}, error) {
	start := time.Now()
	result, err := cb.circuitBreaker.Execute(fn)
	status := "success"
	if err != nil {
		status = "error"
	}
	cb.metrics.RecordChainCall(cb.wrapped.Network().String(), operation, status, time.Since(start).Seconds())
	return result, err
}

func (cb *CircuitBreakerClient) Network() model.Network {
	return cb.wrapped.Network()
}

func (cb *CircuitBreakerClient) DeriveAddress(ctx context.Context, index uint32) (string, error) {
	result, err := cb.execute("derive_address", func() (interface{}, error) {
		return cb.wrapped.DeriveAddress(ctx, index)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (cb *CircuitBreakerClient) GetTokenBalance(ctx context.Context, address string) *model.TokenAmount {
	return cb.wrapped.GetTokenBalance(ctx, address)
}

func (cb *CircuitBreakerClient) GetNativeBalance(ctx context.Context, address string) *model.TokenAmount {
	return cb.wrapped.GetNativeBalance(ctx, address)
}

func (cb *CircuitBreakerClient) SendToken(ctx context.Context, toAddress string, amount *model.TokenAmount) (string, error) {
	result, err := cb.execute("send_token", func() (interface{}, error) {
		return cb.wrapped.SendToken(ctx, toAddress, amount)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (cb *CircuitBreakerClient) SendNative(ctx context.Context, toAddress string, amount *model.TokenAmount) (string, error) {
	result, err := cb.execute("send_native", func() (interface{}, error) {
		return cb.wrapped.SendNative(ctx, toAddress, amount)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (cb *CircuitBreakerClient) HealthCheck(ctx context.Context) error {
	_, err := cb.execute("health_check", func() (interface{}, error) {
		return nil, cb.wrapped.HealthCheck(ctx)
	})
	return err
}

// ConfigFor looks up the circuit breaker config for a named network client
func ConfigFor(name string) CircuitBreakerConfig {
	if cfg, ok := CircuitBreakerConfigs[name]; ok {
		return cfg
	}
	return DefaultCircuitBreakerConfig
}
