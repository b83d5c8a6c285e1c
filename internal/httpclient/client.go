package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Config holds settings for the HTTP client.
type Config struct {
	Endpoint  string
	Timeout   time.Duration
	Proxy     func(*http.Request) (*url.URL, error)
	Headers   http.Header
	UserAgent string
	Insecure  bool
}

// DefaultTimeout bounds a single analysis call.
const DefaultTimeout = 10 * time.Second

// headerRoundTripper wraps a base RoundTripper to inject static headers.
// It never retries: a failed analysis is terminal for that request.
type headerRoundTripper struct {
	base      http.RoundTripper
	headers   http.Header
	userAgent string
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := h.base
	if base == nil {
		base = http.DefaultTransport
	}

	r := req.Clone(req.Context())
	for k, vs := range h.headers {
		r.Header.Del(k)
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	if h.userAgent != "" {
		r.Header.Set("User-Agent", h.userAgent)
	}
	return base.RoundTrip(r)
}

// NewHTTP returns the configured *http.Client used for analysis calls.
// Request timeouts are applied per call through the context, so the client
// itself carries none.
func NewHTTP(cfg Config) *http.Client {
	transport := &http.Transport{
		Proxy:           cfg.Proxy,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Insecure}, // #nosec G402 -- opt-in flag
		DialContext: (&net.Dialer{
			Timeout:   timeoutOrDefault(cfg.Timeout),
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if transport.Proxy == nil {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: &headerRoundTripper{
			base:      transport,
			headers:   cfg.Headers,
			userAgent: cfg.UserAgent,
		},
	}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}
