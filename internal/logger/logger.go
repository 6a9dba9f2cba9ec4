// Package logger builds the slog logger used by the demo driver and provides the
// attribute helpers shared by the client.
package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// New returns a logger writing to w. format "json" selects the JSON handler; any
// other value selects the text handler.
func New(w io.Writer, format string, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID creates an attribute for outgoing request IDs.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Path creates an attribute for URL paths.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// StatusCode creates an attribute for HTTP status codes.
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Latency creates an attribute for a call duration.
func Latency(d time.Duration) slog.Attr {
	return slog.Duration("latency", d)
}

// Step creates an attribute naming a sequence step.
func Step(name string) slog.Attr {
	return slog.String("step", name)
}

// SessionID creates an attribute for the tracked session identifier.
func SessionID(id string) slog.Attr {
	return slog.String("session_id", id)
}

// Principal creates an attribute for the reported principal.
func Principal(name string) slog.Attr {
	return slog.String("principal", name)
}
