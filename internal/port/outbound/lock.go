package outbound

import "context"

// SeedLockPort guards a seed run against concurrent runs on other hosts.
type SeedLockPort interface {
	// Acquire takes the named lock. ok is false when another holder owns it.
	// release is non-nil only when ok is true.
	Acquire(ctx context.Context, name string) (release func(context.Context) error, ok bool, err error)
}
