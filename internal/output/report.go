package output

import (
	"bufio"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/selimozcann/phishaid/internal/model"
	"github.com/selimozcann/phishaid/internal/render"
)

// ResultType enumerates the classification of a batch result.
type ResultType string

const (
	ResultTypeSafe     ResultType = "safe"
	ResultTypePhishing ResultType = "phishing"
	ResultTypeError    ResultType = "error"
)

// Record represents one line in the JSONL report.
type Record struct {
	Timestamp    string     `json:"timestamp"`
	InputURL     string     `json:"input_url"`
	URL          string     `json:"url,omitempty"`
	Type         ResultType `json:"type"`
	Verdict      string     `json:"verdict,omitempty"`
	Score        *float64   `json:"score,omitempty"`
	Warnings     []string   `json:"warnings,omitempty"`
	TriggeredIDs []int      `json:"triggered_rules,omitempty"`
	Domain       string     `json:"registered_domain,omitempty"`
	DurationMs   int64      `json:"duration_ms"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// Summary contains counters for the HTML summary section.
type Summary struct {
	Total    int
	Safe     int
	Phishing int
	Errors   int
}

// ResultView is used by the HTML template with pre-computed fields.
type ResultView struct {
	Index      int
	Timestamp  time.Time
	InputURL   string
	Type       ResultType
	DurationMs int64
	ErrorKind  string
	Error      string
	View       *render.View
}

// Classify returns error when the analysis failed, otherwise the verdict
// class. Only "Legitimate" is safe.
func Classify(res model.Result) ResultType {
	if res.Error != "" || res.Response == nil {
		return ResultTypeError
	}
	if res.Response.Legitimate() {
		return ResultTypeSafe
	}
	return ResultTypePhishing
}

// BuildRecord converts a model.Result into a Record for JSONL output.
func BuildRecord(res model.Result, opts render.Options) Record {
	rec := Record{
		Timestamp:  res.StartedAt.UTC().Format(time.RFC3339),
		InputURL:   res.Target,
		URL:        res.URL,
		Type:       Classify(res),
		DurationMs: res.DurationMs,
		ErrorKind:  res.ErrorKind,
		Error:      res.Error,
	}
	if rec.Type == ResultTypeError {
		return rec
	}
	view := render.Build(*res.Response, res.URL, opts)
	score := res.Response.Score
	rec.Verdict = res.Response.Verdict
	rec.Score = &score
	rec.Warnings = append([]string(nil), res.Response.Warnings...)
	rec.TriggeredIDs = view.TriggeredIDs()
	if view.Domain != nil {
		rec.Domain = view.Domain.RegisteredDomain
	}
	return rec
}

// BuildResultView converts a model.Result into a ResultView for HTML rendering.
func BuildResultView(idx int, res model.Result, opts render.Options) ResultView {
	rv := ResultView{
		Index:      idx,
		Timestamp:  res.StartedAt,
		InputURL:   res.Target,
		Type:       Classify(res),
		DurationMs: res.DurationMs,
		ErrorKind:  res.ErrorKind,
		Error:      res.Error,
	}
	if rv.Type != ResultTypeError {
		v := render.Build(*res.Response, res.URL, opts)
		rv.View = &v
	}
	return rv
}

// BuildSummary derives high level counters from the results.
func BuildSummary(results []model.Result) Summary {
	sum := Summary{Total: len(results)}
	for _, res := range results {
		switch Classify(res) {
		case ResultTypeSafe:
			sum.Safe++
		case ResultTypePhishing:
			sum.Phishing++
		default:
			sum.Errors++
		}
	}
	return sum
}

// WriteJSONL writes each record as a JSON line to w.
func WriteJSONL(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}
