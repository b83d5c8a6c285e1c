package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/selimozcann/phishaid/internal/analysis"
	"github.com/selimozcann/phishaid/internal/apperr"
	"github.com/selimozcann/phishaid/internal/model"
	"github.com/selimozcann/phishaid/internal/normalize"
	"github.com/selimozcann/phishaid/internal/render"
)

type event struct {
	op  string
	arg string
}

type fakeTargets struct {
	mu     sync.Mutex
	events []event
}

func (f *fakeTargets) record(op, arg string) {
	f.mu.Lock()
	f.events = append(f.events, event{op, arg})
	f.mu.Unlock()
}

func (f *fakeTargets) SetLoading(on bool) {
	if on {
		f.record("loading", "on")
		return
	}
	f.record("loading", "off")
}
func (f *fakeTargets) Show(v render.View) { f.record("show", v.VerdictText) }
func (f *fakeTargets) Clear()             { f.record("clear", "") }
func (f *fakeTargets) Notify(msg string)  { f.record("notify", msg) }

func (f *fakeTargets) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.op+":"+e.arg)
	}
	return out
}

type scriptedScorer struct {
	mu    sync.Mutex
	calls int
	resp  model.AnalysisResponse
	err   error
	gate  chan struct{}
	ready chan struct{}
}

func (s *scriptedScorer) Analyze(ctx context.Context, _ string) (model.AnalysisResponse, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.gate != nil {
		close(s.ready)
		<-s.gate
	}
	return s.resp, s.err
}

func equalOps(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSubmitSuccess(t *testing.T) {
	scorer := &scriptedScorer{resp: model.AnalysisResponse{Verdict: "Phishing", Score: 85}}
	targets := &fakeTargets{}
	c := New(analysis.New(scorer, analysis.Config{}, nil), targets, nil)

	if err := c.Submit(context.Background(), "example.tk"); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	want := []string{"loading:on", "show:Verdict: Phishing", "loading:off"}
	if got := targets.ops(); !equalOps(got, want) {
		t.Fatalf("target calls = %v, want %v", got, want)
	}
	if c.Phase() != PhaseIdle || c.Outcome() != OutcomeRendered {
		t.Fatalf("unexpected state %s/%s", c.Phase(), c.Outcome())
	}
	v, ok := c.LastView()
	if !ok || v.URL != "https://example.tk" {
		t.Fatalf("LastView() = %+v, %v", v, ok)
	}
}

func TestSubmitInputErrorsNotifyOnly(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		policy normalize.Policy
		msg    string
	}{
		{name: "empty", raw: "  ", policy: normalize.Permissive, msg: apperr.MsgEmptyInput},
		{name: "strict", raw: "example.com", policy: normalize.Strict, msg: apperr.MsgMissingScheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := &scriptedScorer{}
			targets := &fakeTargets{}
			c := New(analysis.New(scorer, analysis.Config{Policy: tt.policy}, nil), targets, nil)

			if err := c.Submit(context.Background(), tt.raw); !apperr.IsInputError(err) {
				t.Fatalf("expected input error, got %v", err)
			}
			if scorer.calls != 0 {
				t.Fatalf("scorer called %d times", scorer.calls)
			}
			if got := targets.ops(); !equalOps(got, []string{"notify:" + tt.msg}) {
				t.Fatalf("target calls = %v", got)
			}
			if c.Outcome() != OutcomeNone {
				t.Fatalf("input errors must not change the outcome, got %q", c.Outcome())
			}
		})
	}
}

func TestSubmitFailureClearsPreviousResult(t *testing.T) {
	scorer := &scriptedScorer{resp: model.AnalysisResponse{Verdict: "Legitimate"}}
	targets := &fakeTargets{}
	c := New(analysis.New(scorer, analysis.Config{}, nil), targets, nil)

	if err := c.Submit(context.Background(), "https://ok.example"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	scorer.err = apperr.New(apperr.KindHTTP, "post", errors.New("status 500"))
	if err := c.Submit(context.Background(), "https://bad.example"); !errors.Is(err, apperr.ErrHTTP) {
		t.Fatalf("expected http error, got %v", err)
	}

	want := []string{
		"loading:on", "show:Verdict: Legitimate", "loading:off",
		"loading:on", "clear:", "notify:" + apperr.MsgUnableAnalyze, "loading:off",
	}
	if got := targets.ops(); !equalOps(got, want) {
		t.Fatalf("target calls = %v, want %v", got, want)
	}
	if c.Outcome() != OutcomeFailed || !errors.Is(c.LastError(), apperr.ErrHTTP) {
		t.Fatalf("unexpected outcome %q / %v", c.Outcome(), c.LastError())
	}
}

func TestSubmitWhileLoadingIsRejected(t *testing.T) {
	scorer := &scriptedScorer{
		resp:  model.AnalysisResponse{Verdict: "Legitimate"},
		gate:  make(chan struct{}),
		ready: make(chan struct{}),
	}
	targets := &fakeTargets{}
	c := New(analysis.New(scorer, analysis.Config{}, nil), targets, nil)

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background(), "https://slow.example") }()
	<-scorer.ready

	if c.Phase() != PhaseLoading {
		t.Fatalf("expected loading phase, got %q", c.Phase())
	}
	before := len(targets.ops())
	if err := c.Submit(context.Background(), "https://other.example"); !errors.Is(err, apperr.ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if len(targets.ops()) != before {
		t.Fatalf("rejected submit touched the targets: %v", targets.ops())
	}

	close(scorer.gate)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if scorer.calls != 1 {
		t.Fatalf("expected one scorer call, got %d", scorer.calls)
	}
	if c.Phase() != PhaseIdle {
		t.Fatalf("expected idle after completion")
	}
}
