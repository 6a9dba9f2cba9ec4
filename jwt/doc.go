// Package jwt issues and verifies the short-lived HS256 credentials used to open an
// AquaO session through the client authorization endpoint.
//
// # Architecture boundaries
//
// This package owns token construction, signing, and verification. It does NOT
// perform HTTP calls or track cookies; the root package exchanges the token for a
// session and the session package tracks the resulting cookie.
//
// # What this package must NOT do
//
//   - Import goAquao or session (no upward imports).
//   - Read environment variables (keys and claims arrive through [Config]).
//   - Add claims beyond iat, exp, iss and sub to issued tokens.
package jwt
