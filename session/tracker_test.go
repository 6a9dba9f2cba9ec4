package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWithCookies(values ...string) *http.Response {
	h := http.Header{}
	for _, v := range values {
		h.Add("Set-Cookie", v)
	}
	return &http.Response{Header: h}
}

func newTracker(t *testing.T, name string) *Tracker {
	t.Helper()
	tr, err := NewTracker(name)
	require.NoError(t, err)
	return tr
}

func TestNewTrackerRejectsInvalidNames(t *testing.T) {
	for _, name := range []string{"", "bad name", "semi;colon", "quote\"d"} {
		_, err := NewTracker(name)
		assert.ErrorIs(t, err, ErrInvalidCookieName, "name %q", name)
	}

	tr := newTracker(t, "JSESSIONID")
	assert.Equal(t, "JSESSIONID", tr.Name())
	assert.Equal(t, State{}, tr.Current())
	assert.False(t, tr.Current().HasSession())
}

func TestUpdateFromResponseCapturesSingleMatch(t *testing.T) {
	tr := newTracker(t, "sid")

	value, ok := tr.UpdateFromResponse(responseWithCookies("sid=abc123; Path=/"))
	require.True(t, ok)
	assert.Equal(t, "abc123", value)
	assert.Equal(t, "abc123", tr.Current().SessionID)
}

func TestUpdateFromResponseWithoutSetCookieKeepsSession(t *testing.T) {
	tr := newTracker(t, "sid")
	_, ok := tr.UpdateFromResponse(responseWithCookies("sid=first; Path=/"))
	require.True(t, ok)

	_, ok = tr.UpdateFromResponse(responseWithCookies())
	assert.False(t, ok)
	assert.Equal(t, "first", tr.Current().SessionID)

	_, ok = tr.UpdateFromResponse(nil)
	assert.False(t, ok)
	assert.Equal(t, "first", tr.Current().SessionID)
}

func TestUpdateFromResponseIgnoresOtherCookies(t *testing.T) {
	tr := newTracker(t, "sid")
	tr.UpdateFromResponse(responseWithCookies("sid=keep; Path=/"))

	cases := []string{
		"other=value; Path=/",
		"xsid=prefixed; Path=/",
		"sid=no-terminator",
		"lang=fr; sid=not-first; Path=/",
	}
	for _, c := range cases {
		_, ok := tr.UpdateFromResponse(responseWithCookies(c))
		assert.False(t, ok, "entry %q", c)
	}
	assert.Equal(t, "keep", tr.Current().SessionID)
}

func TestUpdateFromResponseLastMatchWins(t *testing.T) {
	tr := newTracker(t, "sid")

	value, ok := tr.UpdateFromResponse(responseWithCookies(
		"sid=first; Path=/",
		"other=x; Path=/",
		"sid=second; Path=/; HttpOnly",
	))
	require.True(t, ok)
	assert.Equal(t, "second", value)
	assert.Equal(t, "second", tr.Current().SessionID)
}

func TestUpdateFromResponseFoldedHeader(t *testing.T) {
	tr := newTracker(t, "sid")

	value, ok := tr.UpdateFromResponse(responseWithCookies("lang=fr; Path=/, sid=folded; Path=/"))
	require.True(t, ok)
	assert.Equal(t, "folded", value)
}

func TestPatternQuotesName(t *testing.T) {
	p := Pattern("a.b")
	_, ok := ExtractSessionID(p, []string{"axb=1; Path=/"})
	assert.False(t, ok)

	v, ok := ExtractSessionID(p, []string{"a.b=1; Path=/"})
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestAttachOnlyWhenSessionKnown(t *testing.T) {
	tr := newTracker(t, "sid")

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Cookie", "stale=1")
	tr.Attach(req)
	assert.Empty(t, req.Header.Get("Cookie"))

	tr.UpdateFromResponse(responseWithCookies("sid=abc123; Path=/"))
	req = httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	tr.Attach(req)
	assert.Equal(t, "sid=abc123", req.Header.Get("Cookie"))
}

func TestSetPrincipalAndReset(t *testing.T) {
	tr := newTracker(t, "sid")
	tr.UpdateFromResponse(responseWithCookies("sid=abc; Path=/"))
	tr.SetPrincipal("demo@aquao.fr")

	assert.Equal(t, State{SessionID: "abc", PrincipalName: "demo@aquao.fr"}, tr.Current())

	tr.Reset()
	assert.Equal(t, State{}, tr.Current())
}
