package kap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(baseURL), WithRequestDelay(0), WithTimeout(5 * time.Second)}, opts...)
	c, err := NewClient(opts...)
	require.NoError(t, err)
	return c
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient()
	require.NoError(t, err)

	assert.Equal(t, "https://www.kap.org.tr", c.BaseURL())
	assert.Equal(t, time.Second, c.RequestDelay())
	assert.Equal(t, 30*time.Second, c.Timeout())
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
	assert.NotNil(t, c.httpClient.Jar)
}

func TestClientOptions(t *testing.T) {
	c, err := NewClient(
		WithBaseURL("http://example.test/"),
		WithRequestDelay(250*time.Millisecond),
		WithTimeout(3*time.Second),
		WithUserAgent("kapscraper-test"),
	)
	require.NoError(t, err)

	assert.Equal(t, "http://example.test", c.BaseURL())
	assert.Equal(t, 250*time.Millisecond, c.RequestDelay())
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
	assert.Equal(t, "kapscraper-test", c.userAgent)
}

func TestWithHTTPClientLeavesCallerClientUntouched(t *testing.T) {
	hc := &http.Client{Timeout: 0}

	c, err := NewClient(WithHTTPClient(hc), WithTimeout(2*time.Second))
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), hc.Timeout)
	assert.Equal(t, 2*time.Second, c.httpClient.Timeout)
	assert.NotSame(t, hc, c.httpClient)
}

func TestClientOptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"relative base URL", WithBaseURL("/just/a/path")},
		{"negative delay", WithRequestDelay(-time.Second)},
		{"zero timeout", WithTimeout(0)},
		{"nil http client", WithHTTPClient(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.opt)
			assert.Error(t, err)
		})
	}
}

func TestDerivedURLs(t *testing.T) {
	c := newTestClient(t, "https://www.kap.org.tr")

	assert.Equal(t, "https://www.kap.org.tr/tr/api/BildirimPdf/1524023", c.DetailPDFURL("1524023"))
	assert.Equal(t, "https://www.kap.org.tr/tr/Bildirim/1524023", c.DetailPageURL("1524023"))
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.SearchFunds(context.Background(), FundCriteria{})
	require.NoError(t, err)

	assert.Contains(t, got.Get("User-Agent"), "Mozilla/5.0")
	assert.Equal(t, "application/json, text/plain, */*", got.Get("Accept"))
	assert.Equal(t, "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7", got.Get("Accept-Language"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, server.URL+"/tr", got.Get("Referer"))
}

func TestCookiesPersistAcrossRequests(t *testing.T) {
	calls := 0
	var secondCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		} else if ck, err := r.Cookie("session"); err == nil {
			secondCookie = ck.Value
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.SearchFunds(context.Background(), FundCriteria{})
	require.NoError(t, err)
	_, err = c.SearchCompanies(context.Background(), CompanyCriteria{})
	require.NoError(t, err)

	assert.Equal(t, "abc", secondCookie)
}

func TestStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.do(context.Background(), "probe", http.MethodGet, server.URL+"/x", nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "probe", statusErr.Op)
	assert.Contains(t, err.Error(), "503")
}

func TestResolveLinks(t *testing.T) {
	c := newTestClient(t, "https://www.kap.org.tr")

	tests := []struct {
		href string
		want string
	}{
		{"/tr/api/file/download/abc123", "https://www.kap.org.tr/tr/api/file/download/abc123"},
		{"https://cdn.example.com/api/file/download/x1", "https://cdn.example.com/api/file/download/x1"},
		{"  /api/file/download/Z9 ", "https://www.kap.org.tr/api/file/download/Z9"},
	}

	for _, tt := range tests {
		got, err := c.resolve(tt.href)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
