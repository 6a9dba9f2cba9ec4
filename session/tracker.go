package session

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
)

// ErrInvalidCookieName is returned by [NewTracker] for names that are not RFC 6265 tokens.
var ErrInvalidCookieName = errors.New("invalid session cookie name")

// Tracker carries the session identifier between sequential requests.
type Tracker struct {
	name    string
	pattern *regexp.Regexp
	state   State
}

// NewTracker returns a Tracker for the cookie called name, with an empty State.
func NewTracker(name string) (*Tracker, error) {
	probe := &http.Cookie{Name: name, Value: "x"}
	if name == "" || probe.Valid() != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCookieName, name)
	}
	return &Tracker{
		name:    name,
		pattern: Pattern(name),
	}, nil
}

// Pattern compiles the Set-Cookie matcher for the cookie called name.
// The first submatch group is the cookie value.
func Pattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|, )` + regexp.QuoteMeta(name) + `=([^;]+);`)
}

// ExtractSessionID scans values in order and returns the value captured by the
// last entry that matches pattern.
func ExtractSessionID(pattern *regexp.Regexp, values []string) (string, bool) {
	var (
		found bool
		value string
	)
	for _, v := range values {
		m := pattern.FindStringSubmatch(v)
		if m == nil {
			continue
		}
		value = m[1]
		found = true
	}
	return value, found
}

// Name returns the tracked cookie name.
func (t *Tracker) Name() string {
	return t.name
}

// Current returns a copy of the tracked state.
func (t *Tracker) Current() State {
	return t.state
}

// UpdateFromResponse captures the session identifier from resp's Set-Cookie
// headers. It returns the captured value and true when at least one entry matched;
// otherwise the tracked identifier is left unchanged.
func (t *Tracker) UpdateFromResponse(resp *http.Response) (string, bool) {
	if resp == nil {
		return "", false
	}
	return t.UpdateFromHeader(resp.Header)
}

// UpdateFromHeader is [Tracker.UpdateFromResponse] for a bare header.
func (t *Tracker) UpdateFromHeader(h http.Header) (string, bool) {
	values := h.Values("Set-Cookie")
	if len(values) == 0 {
		return "", false
	}
	value, ok := ExtractSessionID(t.pattern, values)
	if ok {
		t.state.SessionID = value
	}
	return value, ok
}

// SetPrincipal records the principal name reported by the last response.
func (t *Tracker) SetPrincipal(name string) {
	t.state.PrincipalName = name
}

// Attach sets the Cookie header of req to "<name>=<session id>" when a session
// identifier is tracked, and removes any Cookie header otherwise.
func (t *Tracker) Attach(req *http.Request) {
	if !t.state.HasSession() {
		req.Header.Del("Cookie")
		return
	}
	req.Header.Set("Cookie", t.name+"="+t.state.SessionID)
}

// Reset forgets both the session identifier and the principal.
func (t *Tracker) Reset() {
	t.state = State{}
}
