package runner

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/selimozcann/phishaid/internal/analysis"
	"github.com/selimozcann/phishaid/internal/apperr"
	"github.com/selimozcann/phishaid/internal/model"
)

// Config holds settings for the runner.
type Config struct {
	Threads   int
	RateLimit int // requests per second, 0 = unlimited
}

// Runner coordinates concurrent analyses.
type Runner struct {
	cfg    Config
	svc    *analysis.Service
	logger *slog.Logger
	// OnResult, if set, is called once per finished target from the
	// worker goroutine. It must be safe for concurrent use.
	OnResult func(idx int, res model.Result)
}

// New creates a new Runner.
func New(cfg Config, svc *analysis.Service, logger *slog.Logger) *Runner {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, svc: svc, logger: logger}
}

// Run analyses targets and returns one result per target, in input order.
// Targets not dispatched before ctx is done are reported with the
// context's error.
func (r *Runner) Run(ctx context.Context, targets []string) []model.Result {
	out := make([]model.Result, len(targets))

	var limiter *rate.Limiter
	if r.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.RateLimit), 1)
	}

	g := new(errgroup.Group)
	g.SetLimit(r.cfg.Threads)
	for i, target := range targets {
		if ctx.Err() != nil {
			out[i] = cancelled(target, ctx.Err())
			continue
		}
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					out[i] = cancelled(target, err)
					return nil
				}
			}
			out[i] = r.analyze(ctx, target)
			if r.OnResult != nil {
				r.OnResult(i, out[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Debug("batch_completed", slog.Int("targets", len(targets)), slog.Int("threads", r.cfg.Threads))
	return out
}

func (r *Runner) analyze(ctx context.Context, target string) (res model.Result) {
	res = model.Result{Target: target, StartedAt: time.Now()}
	defer func() { res.DurationMs = time.Since(res.StartedAt).Milliseconds() }()

	normalized, err := r.svc.Normalize(target)
	if err != nil {
		setError(&res, err)
		return res
	}
	res.URL = normalized

	resp, err := r.svc.Fetch(ctx, normalized)
	if err != nil {
		setError(&res, err)
		return res
	}
	res.Response = &resp
	return res
}

func setError(res *model.Result, err error) {
	kind := apperr.KindOf(err)
	if kind == "" {
		kind = apperr.KindNetwork
	}
	res.ErrorKind = string(kind)
	res.Error = err.Error()
}

func cancelled(target string, err error) model.Result {
	res := model.Result{Target: target, StartedAt: time.Now()}
	setError(&res, apperr.New(apperr.KindNetwork, "dispatch", err))
	return res
}
