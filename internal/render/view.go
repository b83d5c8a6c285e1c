// Package render turns an analysis response into a View: the complete,
// freshly built state of the verdict banner, warning list, rule table and
// domain panel. Build is pure; writers for HTML and terminals consume the
// View without looking at the response again.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/selimozcann/phishaid/internal/domaininfo"
	"github.com/selimozcann/phishaid/internal/model"
	"github.com/selimozcann/phishaid/internal/rules"
)

// Class is the style applied to the verdict banner.
type Class string

const (
	ClassSafe     Class = "safe"
	ClassPhishing Class = "phishing"
)

// RuleTableMode selects how the rule table is built.
type RuleTableMode string

const (
	// ModeCatalog lists all catalog rules with a per-rule status.
	ModeCatalog RuleTableMode = "catalog"
	// ModeResponse lists only the rules the response reports.
	ModeResponse RuleTableMode = "response"
)

// ParseRuleTableMode accepts "catalog" or "response"; empty means catalog.
func ParseRuleTableMode(s string) (RuleTableMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeCatalog):
		return ModeCatalog, nil
	case string(ModeResponse):
		return ModeResponse, nil
	}
	return "", fmt.Errorf("unknown rule table mode %q (want catalog or response)", s)
}

// RuleStatus is the status column of a rule row.
type RuleStatus string

const (
	StatusSafe       RuleStatus = "Safe"
	StatusSuspicious RuleStatus = "Suspicious"
	StatusReserved   RuleStatus = "Reserved"
	StatusMatched    RuleStatus = "Matched"
)

// Fixed texts.
const (
	NoWarningsText   = "No phishing indicators found."
	NoRulesText      = "No phishing rules matched"
	ReservedScore    = "—"
	unknownRuleLabel = "Rule #%d"
)

// RuleRow is one row of the rule table.
type RuleRow struct {
	ID          int        `json:"id,omitempty"`
	Description string     `json:"description"`
	Status      RuleStatus `json:"status,omitempty"`
	Score       string     `json:"score,omitempty"`
	Comment     string     `json:"comment,omitempty"`
	Remark      string     `json:"remark,omitempty"`
	Placeholder bool       `json:"placeholder,omitempty"`
}

// Triggered reports whether the row marks a suspicious or matched rule.
func (r RuleRow) Triggered() bool {
	return r.Status == StatusSuspicious || r.Status == StatusMatched
}

// View is the render state derived from one response.
type View struct {
	URL         string            `json:"url"`
	Verdict     string            `json:"verdict"`
	Class       Class             `json:"class"`
	VerdictText string            `json:"verdict_text"`
	ScoreText   string            `json:"score_text"`
	Warnings    []string          `json:"warnings"`
	HasWarnings bool              `json:"has_warnings"`
	Mode        RuleTableMode     `json:"rule_table_mode"`
	Rules       []RuleRow         `json:"rules"`
	Domain      *model.DomainInfo `json:"domain,omitempty"`
}

// Options configures Build.
type Options struct {
	Mode RuleTableMode
	// Catalog overrides the built-in rule catalog; nil uses rules.Catalog().
	Catalog []model.Rule
}

// ClassFor returns ClassSafe only for the exact verdict "Legitimate".
func ClassFor(verdict string) Class {
	if verdict == model.VerdictLegitimate {
		return ClassSafe
	}
	return ClassPhishing
}

// FormatScore prints a score as-is in its shortest decimal form.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// Build derives a View from resp and the URL that was submitted.
func Build(resp model.AnalysisResponse, requestURL string, opts Options) View {
	v := View{
		URL:         requestURL,
		Verdict:     resp.Verdict,
		Class:       ClassFor(resp.Verdict),
		VerdictText: "Verdict: " + resp.Verdict,
		ScoreText:   "Risk Score: " + FormatScore(resp.Score),
		Mode:        opts.Mode,
	}
	if v.Mode == "" {
		v.Mode = ModeCatalog
	}

	if len(resp.Warnings) == 0 {
		v.Warnings = []string{NoWarningsText}
	} else {
		v.Warnings = append([]string(nil), resp.Warnings...)
		v.HasWarnings = true
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = rules.Catalog()
	}
	switch v.Mode {
	case ModeResponse:
		v.Rules = responseRows(resp, catalog)
	default:
		v.Rules = catalogRows(resp, requestURL, catalog)
	}

	if info, ok := domaininfo.Extract(requestURL); ok {
		v.Domain = &info
	}
	return v
}

func catalogRows(resp model.AnalysisResponse, requestURL string, catalog []model.Rule) []RuleRow {
	reported := make(map[int]bool)
	for _, id := range resp.ReportedRuleIDs() {
		reported[id] = true
	}

	rows := make([]RuleRow, 0, len(catalog))
	for _, r := range catalog {
		row := RuleRow{ID: r.ID, Description: r.Description}
		if !r.Implemented {
			row.Status = StatusReserved
			row.Score = ReservedScore
			rows = append(rows, row)
			continue
		}

		triggered := reported[r.ID] || rules.MatchesWarning(r, resp.Warnings)
		if r.ID == rules.HTTPSRuleID {
			triggered = rules.SchemeTriggersHTTPS(requestURL)
		}
		if triggered {
			row.Status = StatusSuspicious
			row.Score = FormatScore(r.Score)
		} else {
			row.Status = StatusSafe
			row.Score = "0"
		}
		rows = append(rows, row)
	}
	return rows
}

func responseRows(resp model.AnalysisResponse, catalog []model.Rule) []RuleRow {
	byID := make(map[int]model.Rule, len(catalog))
	for _, r := range catalog {
		byID[r.ID] = r
	}
	describe := func(id int) string {
		if r, ok := byID[id]; ok {
			return r.Description
		}
		return fmt.Sprintf(unknownRuleLabel, id)
	}

	var rows []RuleRow
	switch {
	case len(resp.Rules) > 0:
		for _, m := range resp.Rules {
			rows = append(rows, RuleRow{
				ID:          m.RuleID,
				Description: describe(m.RuleID),
				Status:      StatusMatched,
				Score:       FormatScore(m.Score),
				Comment:     m.Comment,
				Remark:      m.Remark,
			})
		}
	case len(resp.RulesTriggered) > 0:
		for _, t := range resp.RulesTriggered {
			row := RuleRow{ID: t.RuleID, Description: describe(t.RuleID), Status: StatusMatched, Score: ReservedScore}
			if r, ok := byID[t.RuleID]; ok {
				row.Score = FormatScore(r.Score)
			}
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return []RuleRow{{Description: NoRulesText, Placeholder: true}}
	}
	return rows
}

// TriggeredIDs returns the IDs of suspicious or matched rows, in table order.
func (v View) TriggeredIDs() []int {
	var ids []int
	for _, r := range v.Rules {
		if r.Triggered() && r.ID != 0 {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
