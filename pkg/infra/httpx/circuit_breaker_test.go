package httpx

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestNewCircuitBreaker(t *testing.T) {
	tests := []struct {
		name        string
		breakerName string
		timeout     time.Duration
		maxFailures uint32
	}{
		{
			name:        "Valid circuit breaker",
			breakerName: "test-breaker",
			timeout:     30 * time.Second,
			maxFailures: 3,
		},
		{
			name:        "Zero timeout",
			breakerName: "zero-timeout-breaker",
			timeout:     0,
			maxFailures: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker := NewCircuitBreaker(tt.breakerName, tt.timeout, tt.maxFailures)

			assert.NotNil(t, breaker)
			assert.IsType(t, &circuitBreakerWrapper{}, breaker)

			wrapper, _ := breaker.(*circuitBreakerWrapper) //nolint:errcheck
			assert.NotNil(t, wrapper.breaker)
			assert.Equal(t, tt.breakerName, wrapper.breaker.Name())
		})
	}
}

func TestCircuitBreakerWrapper_Execute_Success(t *testing.T) {
	breaker := NewCircuitBreaker("success-test", 30*time.Second, 3)

	err := breaker.Execute(func() error {
		return nil
	})

	assert.NoError(t, err)
}

func TestCircuitBreakerWrapper_Execute_Failure(t *testing.T) {
	breaker := NewCircuitBreaker("failure-test", 30*time.Second, 3)
	testError := errors.New("test error")

	err := breaker.Execute(func() error {
		return testError
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "breaker (failure-test)")
	assert.ErrorIs(t, err, testError)
}

func TestCircuitBreakerWrapper_Execute_CircuitOpen(t *testing.T) {
	breaker := NewCircuitBreaker("circuit-open-test", 30*time.Second, 1)

	// First failure opens the circuit
	err := breaker.Execute(func() error {
		return errors.New("first failure")
	})
	assert.Error(t, err)

	// Second call fails immediately without invoking fn
	invoked := false
	err = breaker.Execute(func() error {
		invoked = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, invoked)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestCircuitBreakerWrapper_Execute_CircuitRecovery(t *testing.T) {
	breaker := NewCircuitBreaker("recovery-test", 50*time.Millisecond, 1)

	err := breaker.Execute(func() error {
		return errors.New("trigger failure")
	})
	assert.Error(t, err)

	// Wait for the circuit to allow probes again
	time.Sleep(100 * time.Millisecond)

	err = breaker.Execute(func() error {
		return nil
	})
	assert.NoError(t, err)
}

func TestCircuitBreakerWrapper_Execute_StateTransitions(t *testing.T) {
	breaker := NewCircuitBreaker("state-test", 100*time.Millisecond, 2)
	wrapper, _ := breaker.(*circuitBreakerWrapper) //nolint:errcheck

	assert.Equal(t, gobreaker.StateClosed, wrapper.breaker.State())

	for i := 0; i < 2; i++ {
		err := breaker.Execute(func() error {
			return errors.New("failure")
		})
		assert.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, wrapper.breaker.State())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, wrapper.breaker.State())

	err := breaker.Execute(func() error {
		return nil
	})
	assert.NoError(t, err)
	assert.NotEqual(t, gobreaker.StateOpen, wrapper.breaker.State())
}

func TestCircuitBreakerWrapper_Execute_Counts(t *testing.T) {
	breaker := NewCircuitBreaker("counts-test", 30*time.Second, 3)
	wrapper, _ := breaker.(*circuitBreakerWrapper) //nolint:errcheck

	_ = breaker.Execute(func() error { return nil })                //nolint:errcheck
	_ = breaker.Execute(func() error { return errors.New("fail") }) //nolint:errcheck
	_ = breaker.Execute(func() error { return nil })                //nolint:errcheck

	counts := wrapper.breaker.Counts()
	assert.Equal(t, uint32(3), counts.Requests)
	assert.Equal(t, uint32(2), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(0), counts.ConsecutiveFailures)
}

func TestCircuitBreakerWrapper_Execute_ConcurrentAccess(t *testing.T) {
	breaker := NewCircuitBreaker("concurrent-test", 30*time.Second, 100)

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(id int) {
			defer func() { done <- true }()

			err := breaker.Execute(func() error {
				if id%2 == 0 {
					return nil
				}
				return errors.New("failure")
			})
			if err != nil {
				assert.Contains(t, err.Error(), "concurrent-test")
			}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
