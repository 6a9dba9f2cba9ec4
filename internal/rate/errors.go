package rate

import "errors"

var (
	// ErrRateLimited is returned while an address is over its failure budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps Redis command failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
