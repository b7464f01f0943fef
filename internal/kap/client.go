/*
Package kap fetches and normalizes disclosure announcements from the KAP
(Public Disclosure Platform) JSON API and resolves attachment download links
from each announcement's detail page.
*/
package kap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	DefaultBaseURL      = "https://www.kap.org.tr"
	DefaultRequestDelay = 1 * time.Second
	DefaultTimeout      = 30 * time.Second

	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptLanguage   = "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"
)

var (
	// ErrUnexpectedFormat is returned when a search response is not a JSON array.
	ErrUnexpectedFormat = errors.New("unexpected API response format")
	// ErrInvalidDateRange is returned when the from date is after the to date.
	ErrInvalidDateRange = errors.New("from date is after to date")
)

// StatusError reports a non-success HTTP status from the platform.
type StatusError struct {
	Op         string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: received non-OK status code %d from %s", e.Op, e.StatusCode, e.URL)
}

// Client is a session against the disclosure platform. It owns the HTTP
// client (cookies persist between requests) and the rate limiter, and is
// safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *Limiter
	userAgent  string
	delay      time.Duration
	timeout    time.Duration
}

type Option func(*Client) error

func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := url.Parse(strings.TrimRight(raw, "/"))
		if err != nil {
			return fmt.Errorf("invalid base URL %q: %w", raw, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base URL %q: scheme and host are required", raw)
		}
		c.baseURL = u
		return nil
	}
}

// WithRequestDelay sets the minimum spacing between two outbound requests.
func WithRequestDelay(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return fmt.Errorf("request delay must not be negative, got %s", d)
		}
		c.delay = d
		return nil
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		c.timeout = d
		return nil
	}
}

// WithHTTPClient uses a copy of hc as the underlying HTTP client. The copy
// takes the configured timeout; hc itself is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		copied := *hc
		c.httpClient = &copied
		return nil
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}

func NewClient(opts ...Option) (*Client, error) {
	base, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		baseURL:   base,
		userAgent: defaultUserAgent,
		delay:     DefaultRequestDelay,
		timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.httpClient == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.httpClient = &http.Client{Jar: jar}
	}
	c.httpClient.Timeout = c.timeout
	c.limiter = NewLimiter(c.delay)

	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) RequestDelay() time.Duration {
	return c.delay
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// DetailPDFURL is the rendered PDF of an announcement. No request is made.
func (c *Client) DetailPDFURL(id string) string {
	return c.BaseURL() + "/tr/api/BildirimPdf/" + id
}

// DetailPageURL is the human-readable HTML page of an announcement.
func (c *Client) DetailPageURL(id string) string {
	return c.BaseURL() + "/tr/Bildirim/" + id
}

// resolve turns a path found on a page into an absolute URL against the base URL.
func (c *Client) resolve(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("failed to parse link %q: %w", href, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", c.BaseURL()+"/tr")
}

// do waits for the rate limiter, issues the request and returns the body of
// a 2xx response. Any other status yields a *StatusError.
func (c *Client) do(ctx context.Context, op, method, target string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter wait failed: %w", op, err)
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request body: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to fetch URL %s: %w", op, target, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Warning: Failed to close response body for %s: %v", target, err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, URL: target, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response body: %w", op, err)
	}
	return data, nil
}
