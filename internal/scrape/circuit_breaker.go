package scrape

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// circuitState represents the state of a circuit breaker
type circuitState int

const (
	stateClosed   circuitState = iota // Normal operation
	stateOpen                         // Circuit is open (platform endpoint failing)
	stateHalfOpen                     // Testing if the endpoint recovered
)

// circuitBreaker tracks consecutive upstream failures per platform and stops
// calling a platform's endpoints while they keep failing. The provider rate
// limits aggressively, so hammering a broken endpoint only burns quota.
type circuitBreaker struct {
	failures         map[string]int
	lastFailure      map[string]time.Time
	state            map[string]circuitState
	failureThreshold int
	openDuration     time.Duration
	mu               sync.Mutex
}

// newCircuitBreaker creates a circuit breaker with default settings
func newCircuitBreaker() *circuitBreaker {
	return &circuitBreaker{
		failureThreshold: 3,               // Open after 3 consecutive failures
		openDuration:     5 * time.Minute, // Keep open for 5 minutes
		failures:         make(map[string]int),
		lastFailure:      make(map[string]time.Time),
		state:            make(map[string]circuitState),
	}
}

// canAttempt checks if we should attempt to call this platform's endpoints.
// Returns true if the circuit is closed or half-open (ready to retry).
func (cb *circuitBreaker) canAttempt(platform string) (bool, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, ok := cb.state[platform]
	if !ok {
		state = stateClosed
	}

	if state == stateOpen {
		if time.Since(cb.lastFailure[platform]) > cb.openDuration {
			cb.state[platform] = stateHalfOpen
			log.Printf("[SCRAPE] Circuit for %s moved to half-open", platform)
			return true, nil
		}
		nextRetry := cb.lastFailure[platform].Add(cb.openDuration)
		return false, fmt.Errorf(
			"%w for platform '%s' (failures: %d, next retry: %s)",
			ErrCircuitOpen,
			platform,
			cb.failures[platform],
			nextRetry.Format("15:04:05"),
		)
	}

	return true, nil
}

// recordSuccess records a successful fetch, resetting failure tracking
func (cb *circuitBreaker) recordSuccess(platform string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state[platform] != stateClosed {
		log.Printf("[SCRAPE] Circuit for %s closed again after success", platform)
	}

	delete(cb.failures, platform)
	delete(cb.lastFailure, platform)
	cb.state[platform] = stateClosed
}

// recordFailure records a failed fetch attempt and opens the circuit once
// the consecutive-failure threshold is reached
func (cb *circuitBreaker) recordFailure(platform string, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures[platform]++
	cb.lastFailure[platform] = time.Now()

	// A half-open probe that fails reopens the circuit immediately
	if cb.state[platform] == stateHalfOpen || cb.failures[platform] >= cb.failureThreshold {
		if cb.state[platform] != stateOpen {
			log.Printf("[SCRAPE] Circuit for %s opened after %d failures (last: %v)",
				platform, cb.failures[platform], err)
		}
		cb.state[platform] = stateOpen
	}
}
