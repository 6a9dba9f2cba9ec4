// Package session tracks the AquaO session cookie on the client side.
//
// A [Tracker] owns one [State]: the last session identifier seen in a Set-Cookie
// response header and the last principal name reported by the API. The caller that
// creates the Tracker owns it and hands it to every call explicitly; there is no
// package-level state.
//
// # Cookie matching
//
// Every Set-Cookie value is matched against
//
//	(^|, )<name>=([^;]+);
//
// where <name> is the configured cookie name. The optional ", " prefix accepts
// servers that fold several cookies into one header line. Every match overwrites the
// tracked identifier, so with several matching entries the last one in header order
// wins. A response without a matching entry leaves the identifier untouched.
//
// # What this package must NOT do
//
//   - Persist state beyond the lifetime of the Tracker.
//   - Perform HTTP calls (it only reads responses and decorates requests).
//   - Synchronize access; a Tracker belongs to one sequential caller.
package session
