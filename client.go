package goAquao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/aquao/goAquao/internal/audit"
	"github.com/aquao/goAquao/internal/logger"
	"github.com/aquao/goAquao/jwt"
	"github.com/aquao/goAquao/session"
)

// Endpoint paths, relative to HOST.
const (
	PathWhoAmI        = "/api/whoami"
	PathAuthorization = "/api/public/client/aquao-authorization/"
	PathLogout        = "/api/logout"
)

// RequestIDHeader carries the per-call correlation id.
const RequestIDHeader = "X-Request-ID"

const (
	maxBodyBytes  = 1 << 20
	maxErrorBytes = 512
)

// Principal is the identity reported by an endpoint body. Name is empty when the
// body carries no such field.
type Principal struct {
	Name string
}

// Client performs the AquaO calls. It holds no session state of its own: every
// call reads and updates the [session.Tracker] it is given.
//
// A Client is safe for concurrent use, but a Tracker is not; the intended use is
// one sequential caller per Tracker.
type Client struct {
	config    Config
	host      string
	http      *http.Client
	issuer    *jwt.Issuer
	issuerErr error
	logger    *slog.Logger
	audit     audit.Sink
	metrics   *Metrics
	now       func() time.Time
}

type principalField int

const (
	fieldName principalField = iota
	fieldEmail
)

type endpoint struct {
	step    Step
	path    string
	logPath string
	field   principalField
	success MetricID
	failure MetricID
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.config
}

// MetricsSnapshot returns a copy of the in-process counters.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// IssueToken signs a new authorization token. Decoding and signing errors wrap
// [ErrTokenIssue].
func (c *Client) IssueToken(ctx context.Context) (string, error) {
	if c.issuerErr != nil {
		c.metrics.Inc(MetricTokenIssueFailure)
		c.emit(ctx, audit.Event{EventType: audit.EventTokenIssued, Error: c.issuerErr.Error()})
		return "", fmt.Errorf("%w: %w", ErrTokenIssue, c.issuerErr)
	}

	token, err := c.issuer.Issue()
	if err != nil {
		c.metrics.Inc(MetricTokenIssueFailure)
		c.emit(ctx, audit.Event{EventType: audit.EventTokenIssued, Error: err.Error()})
		return "", fmt.Errorf("%w: %w", ErrTokenIssue, err)
	}

	c.metrics.Inc(MetricTokenIssued)
	c.emit(ctx, audit.Event{
		EventType: audit.EventTokenIssued,
		Success:   true,
		Metadata: map[string]string{
			"iss": c.config.JWT.Issuer,
			"sub": c.config.JWT.Subject,
			"ttl": c.issuer.TTL().String(),
		},
	})
	c.logger.DebugContext(ctx, "token issued", slog.Duration("ttl", c.issuer.TTL()))
	return token, nil
}

// WhoAmI calls GET /api/whoami and records the body's name field as principal.
func (c *Client) WhoAmI(ctx context.Context, tr *session.Tracker) (Principal, error) {
	res, err := c.whoAmI(ctx, tr, StepIdentity1)
	return res.Principal, err
}

// AuthenticateWithToken exchanges token for a session through
// GET /api/public/client/aquao-authorization/{token} and records the body's email
// field as principal.
func (c *Client) AuthenticateWithToken(ctx context.Context, tr *session.Tracker, token string) (Principal, error) {
	res, err := c.authenticate(ctx, tr, token)
	return res.Principal, err
}

// Logout calls GET /api/logout and records the body's name field as principal.
func (c *Client) Logout(ctx context.Context, tr *session.Tracker) (Principal, error) {
	res, err := c.logout(ctx, tr)
	return res.Principal, err
}

func (c *Client) whoAmI(ctx context.Context, tr *session.Tracker, step Step) (StepResult, error) {
	return c.do(ctx, tr, endpoint{
		step:    step,
		path:    PathWhoAmI,
		logPath: PathWhoAmI,
		field:   fieldName,
		success: MetricWhoAmISuccess,
		failure: MetricWhoAmIFailure,
	})
}

func (c *Client) authenticate(ctx context.Context, tr *session.Tracker, token string) (StepResult, error) {
	return c.do(ctx, tr, endpoint{
		step:    StepAuthenticate,
		path:    PathAuthorization + url.PathEscape(token),
		logPath: PathAuthorization + "{token}",
		field:   fieldEmail,
		success: MetricAuthenticateSuccess,
		failure: MetricAuthenticateFailure,
	})
}

func (c *Client) logout(ctx context.Context, tr *session.Tracker) (StepResult, error) {
	return c.do(ctx, tr, endpoint{
		step:    StepLogout,
		path:    PathLogout,
		logPath: PathLogout,
		field:   fieldName,
		success: MetricLogoutSuccess,
		failure: MetricLogoutFailure,
	})
}

func (c *Client) do(ctx context.Context, tr *session.Tracker, ep endpoint) (StepResult, error) {
	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	res := StepResult{
		Step:      ep.step,
		Path:      ep.logPath,
		RequestID: requestID,
	}

	c.logger.InfoContext(ctx, "> "+ep.logPath, logger.Step(ep.step.String()), logger.RequestID(requestID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+ep.path, nil)
	if err != nil {
		return res, c.fail(ctx, ep, res, fmt.Errorf("%w: build request: %w", ErrTransport, err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.config.HTTP.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.HTTP.UserAgent)
	}
	tr.Attach(req)

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		res.Duration = c.now().Sub(start)
		return res, c.fail(ctx, ep, res, fmt.Errorf("%w: GET %s: %w", ErrTransport, ep.logPath, err))
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		res.Duration = c.now().Sub(start)
		return res, c.fail(ctx, ep, res, &StatusError{Path: ep.logPath, StatusCode: resp.StatusCode, Body: string(snippet)})
	}

	if value, ok := tr.UpdateFromResponse(resp); ok {
		res.SessionChanged = true
		c.metrics.Inc(MetricSessionChanged)
		c.logger.InfoContext(ctx, "new session id found", logger.SessionID(value), logger.RequestID(requestID))
		c.emit(ctx, audit.Event{
			EventType: audit.EventSessionChanged,
			RequestID: requestID,
			Step:      ep.step.String(),
			Path:      ep.logPath,
			SessionID: value,
			Success:   true,
		})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	res.Duration = c.now().Sub(start)
	if err != nil {
		return res, c.fail(ctx, ep, res, fmt.Errorf("%w: read %s: %w", ErrTransport, ep.logPath, err))
	}

	res.Principal = decodePrincipal(body, ep.field)
	tr.SetPrincipal(res.Principal.Name)

	state := tr.Current()
	res.SessionID = state.SessionID

	c.metrics.Inc(ep.success)
	c.metrics.Observe(MetricCallLatency, res.Duration)
	c.emit(ctx, audit.Event{
		EventType:  audit.EventCallCompleted,
		RequestID:  requestID,
		Step:       ep.step.String(),
		Path:       ep.logPath,
		StatusCode: res.StatusCode,
		SessionID:  state.SessionID,
		Principal:  state.PrincipalName,
		Success:    true,
	})
	c.logger.InfoContext(ctx, "principal",
		logger.Principal(state.PrincipalName),
		logger.SessionID(state.SessionID),
		logger.StatusCode(res.StatusCode),
		logger.Latency(res.Duration),
	)

	return res, nil
}

func (c *Client) fail(ctx context.Context, ep endpoint, res StepResult, err error) error {
	c.metrics.Inc(ep.failure)
	if res.Duration > 0 {
		c.metrics.Observe(MetricCallLatency, res.Duration)
	}
	c.emit(ctx, audit.Event{
		EventType:  audit.EventCallFailed,
		RequestID:  res.RequestID,
		Step:       ep.step.String(),
		Path:       ep.logPath,
		StatusCode: res.StatusCode,
		Error:      err.Error(),
	})

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		c.logger.ErrorContext(ctx, "unexpected status", logger.Path(ep.logPath), logger.StatusCode(statusErr.StatusCode), logger.RequestID(res.RequestID))
	} else {
		c.logger.ErrorContext(ctx, "call failed", logger.Path(ep.logPath), logger.Error(err), logger.RequestID(res.RequestID))
	}
	return err
}

func (c *Client) emit(ctx context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = c.now().UTC()
	}
	c.audit.Emit(ctx, event)
}

func decodePrincipal(body []byte, field principalField) Principal {
	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return Principal{}
	}
	if field == fieldEmail {
		return Principal{Name: payload.Email}
	}
	return Principal{Name: payload.Name}
}
