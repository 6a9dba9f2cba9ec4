package goAquao

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aquao/goAquao/internal/audit"
	"github.com/aquao/goAquao/internal/logger"
	"github.com/aquao/goAquao/jwt"
)

// Builder assembles a [Client]. A Builder is single use.
type Builder struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
	auditSink  AuditSink
	now        func() time.Time

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithHTTPClient sets the client used for every call. Without one, Build creates an
// http.Client honoring HTTP.Timeout.
func (b *Builder) WithHTTPClient(c *http.Client) *Builder {
	b.httpClient = c
	return b
}

// WithLogger sets the structured logger. Without one, logs are discarded.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithAuditSink sets the audit sink. Without one, events are dropped.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the call latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithClock overrides time.Now for token issuance and latency measurement.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration and returns a ready Client.
//
// A JWT key that cannot be decoded or used is not a Build error: it is reported by
// [Client.IssueToken], so identity and logout calls remain usable without a key.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	hc := b.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.HTTP.Timeout}
	}

	log := b.logger
	if log == nil {
		log = logger.Discard()
	}

	sink := b.auditSink
	if sink == nil {
		sink = audit.NoOpSink{}
	}

	c := &Client{
		config:  cfg,
		host:    strings.TrimRight(cfg.Host, "/"),
		http:    hc,
		logger:  log,
		audit:   sink,
		metrics: NewMetrics(cfg.Metrics),
		now:     now,
	}

	key, err := jwt.DecodeKey(cfg.JWT.Key)
	if err == nil {
		c.issuer, err = jwt.NewIssuer(jwt.Config{
			TTL:     cfg.JWT.TTL,
			Issuer:  cfg.JWT.Issuer,
			Subject: cfg.JWT.Subject,
			Key:     key,
			Now:     now,
		})
	}
	c.issuerErr = err

	b.built = true
	return c, nil
}
