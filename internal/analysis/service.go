// Package analysis wires the normalizer, the scoring client and the
// renderer into the one operation every surface performs.
package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/selimozcann/phishaid/internal/apperr"
	"github.com/selimozcann/phishaid/internal/model"
	"github.com/selimozcann/phishaid/internal/normalize"
	"github.com/selimozcann/phishaid/internal/render"
)

// Scorer is the remote scoring endpoint.
type Scorer interface {
	Analyze(ctx context.Context, url string) (model.AnalysisResponse, error)
}

// Observer is notified after every completed call to the scorer.
type Observer interface {
	ObserveAnalysis(kind apperr.Kind, elapsed time.Duration)
}

// Config holds the two policy switches.
type Config struct {
	Policy normalize.Policy
	Render render.Options
}

// Service runs analyses. It is safe for concurrent use.
type Service struct {
	scorer   Scorer
	cfg      Config
	logger   *slog.Logger
	observer Observer
}

// Option customizes a Service.
type Option func(*Service)

// WithObserver registers o to receive per-call outcomes.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// New creates a Service.
func New(scorer Scorer, cfg Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{scorer: scorer, cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the policies the service was built with.
func (s *Service) Config() Config { return s.cfg }

// Normalize applies the configured normalizer policy to raw.
func (s *Service) Normalize(raw string) (string, error) {
	return normalize.URL(raw, s.cfg.Policy)
}

// Check normalizes raw, calls the scorer, and builds the view.
func (s *Service) Check(ctx context.Context, raw string) (render.View, error) {
	target, err := s.Normalize(raw)
	if err != nil {
		return render.View{}, err
	}
	resp, err := s.Fetch(ctx, target)
	if err != nil {
		return render.View{}, err
	}
	return render.Build(resp, target, s.cfg.Render), nil
}

// Fetch calls the scorer for an already normalized URL.
func (s *Service) Fetch(ctx context.Context, target string) (model.AnalysisResponse, error) {
	start := time.Now()
	resp, err := s.scorer.Analyze(ctx, target)
	elapsed := time.Since(start)

	kind := apperr.KindOf(err)
	if err != nil && kind == "" {
		kind = apperr.KindNetwork
	}
	if s.observer != nil {
		s.observer.ObserveAnalysis(kind, elapsed)
	}

	if err != nil {
		s.logger.Warn("analysis_failed",
			slog.String("url", target),
			slog.String("kind", string(kind)),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err),
		)
		return model.AnalysisResponse{}, err
	}
	s.logger.Info("analysis_completed",
		slog.String("url", target),
		slog.String("verdict", resp.Verdict),
		slog.Float64("score", resp.Score),
		slog.Int("warnings", len(resp.Warnings)),
		slog.Duration("elapsed", elapsed),
	)
	return resp, nil
}
