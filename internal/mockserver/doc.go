// Package mockserver implements a local stand-in for the AquaO session API: the
// identity, token authorization and logout endpoints, with sessions kept in Redis.
//
// It backs the end-to-end tests and the examples/mock-server program. Behavior
// mirrors what the client relies on: every endpoint that creates a session answers
// with Set-Cookie "<SessionName>=<id>; Path=/; HttpOnly", anonymous sessions
// report the name "anonymousUser", and logout replaces the session with a fresh
// anonymous one. Repeated rejected tokens from one address can be throttled
// with 429 responses (see Config.MaxAuthFailures).
package mockserver
