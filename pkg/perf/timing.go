package perf

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// Set SNAPMIXER_PERF=1 to enable performance logging
	enabled = os.Getenv("SNAPMIXER_PERF") == "1"

	mu     sync.RWMutex
	logger = zap.NewNop()
)

// SetLogger routes timings to log. Timings are written at debug level.
func SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	mu.Lock()
	logger = log.Named("perf")
	mu.Unlock()
}

// SetEnabled overrides SNAPMIXER_PERF.
func SetEnabled(on bool) {
	mu.Lock()
	enabled = on
	mu.Unlock()
}

// Timer tracks elapsed time for a named operation
type Timer struct {
	name  string
	start time.Time
}

// Start begins timing an operation
func Start(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop ends timing and logs the result
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	mu.RLock()
	defer mu.RUnlock()
	if enabled {
		logger.Debug(t.name, zap.Duration("elapsed", elapsed))
	}
	return elapsed
}

// Track is a convenience function that times a function call
func Track(name string, fn func()) time.Duration {
	t := Start(name)
	fn()
	return t.Stop()
}

// IsEnabled returns whether performance logging is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}
