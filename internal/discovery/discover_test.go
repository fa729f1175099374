package discovery

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripFunc lets tests answer probes per-host without real DNS.
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func respond(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
		Header:     make(http.Header),
	}
}

func fakeClient(hosts map[string]int) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if status, ok := hosts[req.URL.Host]; ok {
				return respond(status), nil
			}
			return nil, &noSuchHostError{req.URL.Host}
		}),
	}
}

type noSuchHostError struct{ host string }

func (e *noSuchHostError) Error() string { return "no such host: " + e.host }

func TestDiscover_FirstCandidateInOrderWins(t *testing.T) {
	// Both the co.uk and the .com resolve; candidate order decides.
	d := NewDiscoverer(WithHTTPClient(fakeClient(map[string]int{
		"www.acme.co.uk": http.StatusOK,
		"acme.com":       http.StatusOK,
	})))

	res, err := d.Discover(context.Background(), "Acme Ltd", "GB")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "https://www.acme.co.uk", res.URL)
	assert.Equal(t, 6, res.Checked)
}

func TestDiscover_RedirectAndForbiddenAccepted(t *testing.T) {
	for _, status := range []int{http.StatusMovedPermanently, http.StatusFound, http.StatusForbidden} {
		d := NewDiscoverer(WithHTTPClient(fakeClient(map[string]int{
			"acme.com": status,
		})))

		res, err := d.Discover(context.Background(), "Acme Ltd", "US")
		require.NoError(t, err)
		assert.True(t, res.Found, "status %d should be accepted", status)
		assert.Equal(t, "https://acme.com", res.URL)
	}
}

func TestDiscover_NotFoundIsCleanResult(t *testing.T) {
	d := NewDiscoverer(WithHTTPClient(fakeClient(map[string]int{})))

	res, err := d.Discover(context.Background(), "Acme Ltd", "GB")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Empty(t, res.URL)
	assert.Equal(t, 6, res.Checked)
}

func TestDiscover_RejectsServerError(t *testing.T) {
	d := NewDiscoverer(WithHTTPClient(fakeClient(map[string]int{
		"www.acme.com": http.StatusInternalServerError,
		"acme.net":     http.StatusOK,
	})))

	res, err := d.Discover(context.Background(), "Acme", "US")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "https://acme.net", res.URL)
}

func TestDiscover_HeadFallsBackToGet(t *testing.T) {
	var methods []string
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Host != "www.acme.com" {
				return nil, &noSuchHostError{req.URL.Host}
			}
			methods = append(methods, req.Method)
			if req.Method == http.MethodHead {
				return respond(http.StatusMethodNotAllowed), nil
			}
			return respond(http.StatusOK), nil
		}),
	}
	d := NewDiscoverer(WithHTTPClient(client), WithMaxConcurrent(1))

	res, err := d.Discover(context.Background(), "Acme", "US")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "https://www.acme.com", res.URL)
	assert.Contains(t, methods, http.MethodHead)
	assert.Contains(t, methods, http.MethodGet)
}

func TestDiscover_EmptyName(t *testing.T) {
	d := NewDiscoverer(WithHTTPClient(fakeClient(nil)))

	res, err := d.Discover(context.Background(), "", "GB")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Zero(t, res.Checked)
}
