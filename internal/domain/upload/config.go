package upload

import "time"

// Config holds publisher configuration.
type Config struct {
	// BreakerThreshold is the number of consecutive storage failures that
	// open the circuit. Zero disables the breaker.
	BreakerThreshold uint32

	// BreakerTimeout is how long the circuit stays open before a probe upload.
	BreakerTimeout time.Duration
}

// DefaultConfig returns default publisher configuration.
func DefaultConfig() *Config {
	return &Config{
		BreakerThreshold: 0,
		BreakerTimeout:   30 * time.Second,
	}
}
