package model

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"
)

// VerdictLegitimate is the only verdict rendered as safe.
const VerdictLegitimate = "Legitimate"

// Rule is one entry of the static rule catalog.
// Score is the (negative) weight shown when the rule is triggered.
type Rule struct {
	ID          int      `json:"id" yaml:"id" validate:"gte=1"`
	Description string   `json:"description" yaml:"description" validate:"required"`
	Score       float64  `json:"score" yaml:"score"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Implemented bool     `json:"implemented" yaml:"implemented"`
}

// AnalysisRequest is the body posted to the scoring endpoint.
type AnalysisRequest struct {
	URL string `json:"url"`
}

// TriggeredRule references a catalog rule reported by the backend.
type TriggeredRule struct {
	RuleID int `json:"rule_id"`
}

// UnmarshalJSON accepts both {"rule_id": n} and a bare n.
func (t *TriggeredRule) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '{' {
		return json.Unmarshal(data, &t.RuleID)
	}
	type plain TriggeredRule
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = TriggeredRule(p)
	return nil
}

// RuleMatch is a rule the backend reports as matched, with its own texts.
type RuleMatch struct {
	RuleID  int     `json:"rule_id"`
	Comment string  `json:"comment,omitempty"`
	Remark  string  `json:"remark,omitempty"`
	Score   float64 `json:"score"`
}

// AnalysisResponse is the decoded reply of the scoring endpoint.
type AnalysisResponse struct {
	Verdict        string          `json:"verdict"`
	Score          float64         `json:"score"`
	Warnings       []string        `json:"warnings,omitempty"`
	RulesTriggered []TriggeredRule `json:"rules_triggered,omitempty"`
	Rules          []RuleMatch     `json:"rules,omitempty"`
	Domain         string          `json:"domain,omitempty"`
}

// Legitimate reports whether the verdict is exactly "Legitimate".
func (r AnalysisResponse) Legitimate() bool {
	return r.Verdict == VerdictLegitimate
}

// ReportedRuleIDs returns the IDs named in rules_triggered and rules, in
// response order, without duplicates.
func (r AnalysisResponse) ReportedRuleIDs() []int {
	seen := make(map[int]struct{}, len(r.RulesTriggered)+len(r.Rules))
	var ids []int
	add := func(id int) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, t := range r.RulesTriggered {
		add(t.RuleID)
	}
	for _, m := range r.Rules {
		add(m.RuleID)
	}
	return ids
}

// DomainInfo is the display-only domain panel. Registrar, country and
// dates are placeholders; no lookup is performed.
type DomainInfo struct {
	Host             string `json:"host"`
	UnicodeHost      string `json:"unicode_host,omitempty"`
	Scheme           string `json:"scheme"`
	RegisteredDomain string `json:"registered_domain,omitempty"`
	Internal         bool   `json:"internal"`
	Country          string `json:"country"`
	Registrar        string `json:"registrar"`
	RegistrationDate string `json:"registration_date"`
	DomainAge        string `json:"domain_age"`
}

// Result is the outcome of analysing a single target in batch mode.
type Result struct {
	Target     string            `json:"target"`
	URL        string            `json:"url,omitempty"`
	Response   *AnalysisResponse `json:"response,omitempty"`
	ErrorKind  string            `json:"error_kind,omitempty"`
	Error      string            `json:"error,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	DurationMs int64             `json:"duration_ms"`
}
