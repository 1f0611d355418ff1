package seed

import "time"

// Config holds migration run configuration.
type Config struct {
	// MaxItemFailures aborts the run before commit once more items than this
	// fail to get an image. Zero tolerates any number of failures.
	MaxItemFailures int

	// Timeout bounds the whole run. Zero means no deadline.
	Timeout time.Duration

	// LockName identifies the run lock shared by concurrent seeders.
	LockName string
}

// DefaultConfig returns default migration configuration.
func DefaultConfig() *Config {
	return &Config{
		LockName: "banners",
	}
}
