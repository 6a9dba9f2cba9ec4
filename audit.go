package goAquao

import (
	"io"
	"log/slog"

	"github.com/aquao/goAquao/internal/audit"
)

// AuditEvent is one entry of the client audit trail.
type AuditEvent = audit.Event

// AuditSink receives audit events synchronously from the calling goroutine.
type AuditSink = audit.Sink

// NoOpSink drops audit events.
type NoOpSink = audit.NoOpSink

// Audit event types.
const (
	AuditTokenIssued    = audit.EventTokenIssued
	AuditCallCompleted  = audit.EventCallCompleted
	AuditCallFailed     = audit.EventCallFailed
	AuditSessionChanged = audit.EventSessionChanged
)

// NewJSONWriterSink returns a sink writing one JSON object per line to w.
func NewJSONWriterSink(w io.Writer) AuditSink {
	return audit.NewJSONWriterSink(w)
}

// NewSlogSink returns a sink logging events through logger.
func NewSlogSink(logger *slog.Logger) AuditSink {
	return audit.NewSlogSink(logger)
}

// NewChannelSink returns a sink buffering up to buffer events in a channel,
// readable through Events.
func NewChannelSink(buffer int) *audit.ChannelSink {
	return audit.NewChannelSink(buffer)
}

// MultiAuditSink fans events out to every non-nil sink in order.
func MultiAuditSink(sinks ...AuditSink) AuditSink {
	return audit.MultiSink(sinks)
}
