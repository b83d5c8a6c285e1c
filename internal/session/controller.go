// Package session drives one interactive surface: it owns the render
// targets, runs one analysis at a time, and keeps the latest view.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/selimozcann/phishaid/internal/analysis"
	"github.com/selimozcann/phishaid/internal/apperr"
	"github.com/selimozcann/phishaid/internal/render"
)

// Targets are the UI regions a controller writes to. Only the controller
// calls them, and never concurrently.
type Targets interface {
	// SetLoading shows or hides the loading indicator. While it is shown
	// the trigger control is considered disabled.
	SetLoading(on bool)
	// Show replaces the whole result region with v.
	Show(v render.View)
	// Clear hides the result region.
	Clear()
	// Notify shows a user-facing message.
	Notify(msg string)
}

// Phase is the controller's position in Idle -> Loading -> Idle.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
)

// Outcome is how the last finished submit ended.
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomeRendered Outcome = "rendered"
	OutcomeFailed   Outcome = "failed"
)

// Controller serializes submits. A submit issued while another is loading
// is rejected with apperr.ErrBusy.
type Controller struct {
	svc     *analysis.Service
	targets Targets
	logger  *slog.Logger

	mu      sync.Mutex
	phase   Phase
	outcome Outcome
	last    *render.View
	lastErr error
}

// New returns an idle controller.
func New(svc *analysis.Service, targets Targets, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{svc: svc, targets: targets, logger: logger, phase: PhaseIdle}
}

// Submit runs one analysis for raw and updates the targets. The returned
// error is the one already shown to the user, if any.
func (c *Controller) Submit(ctx context.Context, raw string) error {
	if !c.begin() {
		c.logger.Debug("submit_rejected_busy")
		return &apperr.Error{Kind: apperr.KindBusy, Op: "submit"}
	}
	defer c.end()

	target, err := c.svc.Normalize(raw)
	if err != nil {
		c.targets.Notify(apperr.UserMessage(err))
		return err
	}

	c.targets.SetLoading(true)
	defer c.targets.SetLoading(false)

	resp, err := c.svc.Fetch(ctx, target)
	if err != nil {
		c.targets.Clear()
		c.targets.Notify(apperr.UserMessage(err))
		c.finish(OutcomeFailed, nil, err)
		return err
	}

	view := render.Build(resp, target, c.svc.Config().Render)
	c.targets.Show(view)
	c.finish(OutcomeRendered, &view, nil)
	return nil
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseLoading {
		return false
	}
	c.phase = PhaseLoading
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	c.phase = PhaseIdle
	c.mu.Unlock()
}

func (c *Controller) finish(o Outcome, v *render.View, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcome = o
	c.lastErr = err
	if v != nil {
		c.last = v
	}
}

// Phase reports whether a submit is in flight.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Outcome reports how the last completed network submit ended.
func (c *Controller) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// LastView returns the view of the most recent successful submit.
func (c *Controller) LastView() (render.View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return render.View{}, false
	}
	return *c.last, true
}

// LastError returns the error of the last completed network submit.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
