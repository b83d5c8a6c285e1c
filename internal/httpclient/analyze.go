package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/selimozcann/phishaid/internal/apperr"
	"github.com/selimozcann/phishaid/internal/model"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Client posts URLs to the remote scoring endpoint.
type Client struct {
	http     *http.Client
	endpoint string
	timeout  time.Duration
	logger   *slog.Logger
}

// New builds a Client. The endpoint must be an absolute http(s) URL.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("analysis endpoint is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:     NewHTTP(cfg),
		endpoint: endpoint,
		timeout:  timeoutOrDefault(cfg.Timeout),
		logger:   logger,
	}, nil
}

// Endpoint returns the configured scoring endpoint.
func (c *Client) Endpoint() string { return c.endpoint }

// wireResponse uses pointers so missing required fields can be detected.
type wireResponse struct {
	Verdict        *string               `json:"verdict"`
	Score          *float64              `json:"score"`
	Warnings       []string              `json:"warnings"`
	RulesTriggered []model.TriggeredRule `json:"rules_triggered"`
	Rules          []model.RuleMatch     `json:"rules"`
	Domain         string                `json:"domain"`
}

// Analyze sends {"url": target} and decodes the verdict. Every failure is
// returned as an *apperr.Error; nothing is retried.
func (c *Client) Analyze(ctx context.Context, target string) (model.AnalysisResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(model.AnalysisRequest{URL: target})
	if err != nil {
		return model.AnalysisResponse{}, apperr.New(apperr.KindMalformedResponse, "encode", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.AnalysisResponse{}, apperr.New(apperr.KindNetwork, "request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return model.AnalysisResponse{}, classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("analysis_response",
		slog.String("endpoint", c.endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return model.AnalysisResponse{}, &apperr.Error{Kind: apperr.KindHTTP, Op: "post", Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.AnalysisResponse{}, classifyTransportError(ctx, err)
	}
	return decode(raw)
}

func decode(raw []byte) (model.AnalysisResponse, error) {
	var w wireResponse
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.AnalysisResponse{}, apperr.New(apperr.KindMalformedResponse, "decode", err)
	}
	switch {
	case w.Verdict == nil:
		return model.AnalysisResponse{}, &apperr.Error{Kind: apperr.KindMalformedResponse, Op: "decode", Msg: "missing verdict"}
	case w.Score == nil:
		return model.AnalysisResponse{}, &apperr.Error{Kind: apperr.KindMalformedResponse, Op: "decode", Msg: "missing score"}
	}
	return model.AnalysisResponse{
		Verdict:        *w.Verdict,
		Score:          *w.Score,
		Warnings:       w.Warnings,
		RulesTriggered: w.RulesTriggered,
		Rules:          w.Rules,
		Domain:         w.Domain,
	}, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.New(apperr.KindTimeout, "post", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.New(apperr.KindTimeout, "post", err)
	}
	return apperr.New(apperr.KindNetwork, "post", fmt.Errorf("send analysis request: %w", err))
}
