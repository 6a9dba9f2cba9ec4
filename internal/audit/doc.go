// Package audit defines the audit event model and the synchronous sinks the client
// emits into: token issuance, completed and failed calls, and session changes.
//
// Events are delivered inline on the caller's goroutine. The client performs one
// call at a time, so there is no buffering or background dispatch.
package audit
