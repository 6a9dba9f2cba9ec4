// Package goAquao is a small client for the AquaO session API: it signs an HS256
// token, exchanges it for a session cookie, and walks the identity/logout endpoints
// while tracking that cookie.
//
// The client is built through [New]:
//
//	client, err := goAquao.New().
//		WithConfig(cfg).
//		WithLogger(log).
//		Build()
//	tracker, err := session.NewTracker(cfg.SessionName)
//	report, err := client.Run(ctx, tracker)
//
// # Architecture boundaries
//
// goAquao is the public surface. It exposes [Client], [Builder], [Config] and the
// value types of a run ([Report], [StepResult], [Principal]). Token signing lives in
// the jwt package and cookie tracking in the session package; the client owns only
// the HTTP calls and their order.
//
// # What this package must NOT do
//
//   - Keep session state in package variables (the caller owns the Tracker).
//   - Retry, reorder or parallelize calls.
//   - Validate response bodies beyond reading the principal field.
package goAquao
