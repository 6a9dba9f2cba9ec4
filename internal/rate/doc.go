// Package rate throttles repeated authorization failures in the mock API.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit, one key
// "<prefix>:<addr>" per client address (default prefix "aquao:authfail").
//
// # What this package must NOT do
//
//   - Decide HTTP responses; the mock server maps [ErrRateLimited] to 429.
//   - Be imported outside the goAquao module.
package rate
