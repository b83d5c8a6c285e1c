package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/selimozcann/phishaid/internal/apperr"
)

func newClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestAnalyzeRequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json content type, got %q", ct)
		}
		if r.Header.Get("X-Test") != "1" {
			t.Errorf("expected header injected")
		}
		if r.Header.Get("User-Agent") != "phishaid-test" {
			t.Errorf("expected user agent injected, got %q", r.Header.Get("User-Agent"))
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]string
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("body is not JSON: %v", err)
		}
		if body["url"] != "https://example.com" {
			t.Errorf("unexpected url in body: %q", body["url"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"verdict":"Phishing","score":85,"warnings":["Suspicious TLD","Uses raw IP address"],"rules_triggered":[{"rule_id":6},2]}`))
	}))
	defer srv.Close()

	c := newClient(t, Config{
		Endpoint:  srv.URL,
		Timeout:   time.Second,
		Headers:   http.Header{"X-Test": []string{"1"}},
		UserAgent: "phishaid-test",
	})
	resp, err := c.Analyze(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Verdict != "Phishing" || resp.Score != 85 {
		t.Fatalf("unexpected verdict/score: %q %v", resp.Verdict, resp.Score)
	}
	if len(resp.Warnings) != 2 || resp.Warnings[0] != "Suspicious TLD" {
		t.Fatalf("unexpected warnings: %v", resp.Warnings)
	}
	if len(resp.RulesTriggered) != 2 || resp.RulesTriggered[0].RuleID != 6 || resp.RulesTriggered[1].RuleID != 2 {
		t.Fatalf("unexpected rules_triggered: %+v", resp.RulesTriggered)
	}
}

func TestAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name:    "non2xx",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			want:    apperr.ErrHTTP,
		},
		{
			name: "notJSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>oops</html>"))
			},
			want: apperr.ErrMalformedResponse,
		},
		{
			name: "missingVerdict",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"score":3}`))
			},
			want: apperr.ErrMalformedResponse,
		},
		{
			name: "missingScore",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"verdict":"Legitimate"}`))
			},
			want: apperr.ErrMalformedResponse,
		},
		{
			name: "connectionDropped",
			handler: func(w http.ResponseWriter, r *http.Request) {
				hj, _ := w.(http.Hijacker)
				conn, _, _ := hj.Hijack()
				conn.Close()
			},
			want: apperr.ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := newClient(t, Config{Endpoint: srv.URL, Timeout: time.Second})
			_, err := c.Analyze(context.Background(), "https://example.com")
			if !errors.Is(err, tt.want) {
				t.Fatalf("Analyze() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAnalyzeHTTPStatusKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newClient(t, Config{Endpoint: srv.URL, Timeout: time.Second})
	_, err := c.Analyze(context.Background(), "https://example.com")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 in error, got %v", err)
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newClient(t, Config{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Analyze(context.Background(), "https://example.com")
	if !errors.Is(err, apperr.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}

func TestAnalyzeNoRetry(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newClient(t, Config{Endpoint: srv.URL, Timeout: time.Second})
	if _, err := c.Analyze(context.Background(), "https://example.com"); err == nil {
		t.Fatalf("expected error")
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", got)
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := New(Config{Endpoint: "  "}, nil); err == nil || !strings.Contains(err.Error(), "endpoint") {
		t.Fatalf("expected endpoint error, got %v", err)
	}
}
