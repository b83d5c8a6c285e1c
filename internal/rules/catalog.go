// Package rules holds the static rule catalog shown in the rule-reference
// table. The catalog only describes what the backend checks; nothing here
// evaluates a URL except the HTTPS rule, which is read off the request scheme.
package rules

import (
	"sort"
	"strings"

	"github.com/selimozcann/phishaid/internal/model"
)

// HTTPSRuleID is the rule whose state comes from the request URL scheme.
const HTTPSRuleID = 1

// MaxRuleID is the highest catalog ID.
const MaxRuleID = 30

var catalog = []model.Rule{
	{ID: 1, Description: "Site does not use HTTPS", Score: -10, Keywords: []string{"https", "not secure"}, Implemented: true},
	{ID: 2, Description: "Raw IP address used instead of a domain name", Score: -20, Keywords: []string{"ip address"}, Implemented: true},
	{ID: 3, Description: "Unusually long URL", Score: -5, Keywords: []string{"long url", "url length"}, Implemented: true},
	{ID: 4, Description: "URL shortening service", Score: -10, Keywords: []string{"shortener", "shortening"}, Implemented: true},
	{ID: 5, Description: "'@' symbol in URL", Score: -15, Keywords: []string{"@", "at symbol"}, Implemented: true},
	{ID: 6, Description: "Suspicious top-level domain", Score: -10, Keywords: []string{"suspicious tld"}, Implemented: true},
	{ID: 7, Description: "Excessive number of subdomains", Score: -10, Keywords: []string{"subdomain"}, Implemented: true},
	{ID: 8, Description: "Hyphen in domain name", Score: -5, Keywords: []string{"hyphen"}, Implemented: true},
	{ID: 9, Description: "Double slash redirect in path", Score: -10, Keywords: []string{"double slash", "'//'"}, Implemented: true},
	{ID: 10, Description: "Punycode / internationalized domain", Score: -15, Keywords: []string{"punycode", "xn--"}, Implemented: true},
	{ID: 11, Description: "Brand name outside the registered domain", Score: -15, Keywords: []string{"brand"}, Implemented: true},
	{ID: 12, Description: "Sensitive keywords (login, verify, account)", Score: -10, Keywords: []string{"suspicious keyword", "sensitive keyword"}, Implemented: true},
	{ID: 13, Description: "Non-standard port", Score: -10, Keywords: []string{"non-standard port", "nonstandard port"}, Implemented: true},
	{ID: 14, Description: "Domain registered less than 6 months ago", Score: -15},
	{ID: 15, Description: "Domain registration expires soon", Score: -5},
	{ID: 16, Description: "Invalid or self-signed TLS certificate", Score: -15},
	{ID: 17, Description: "Excessive digits in domain name", Score: -5, Keywords: []string{"digits"}, Implemented: true},
	{ID: 18, Description: "Percent-encoded characters in URL", Score: -5, Keywords: []string{"encoded"}, Implemented: true},
	{ID: 19, Description: "Executable or archive file extension", Score: -10, Keywords: []string{"file extension", "executable"}, Implemented: true},
	{ID: 20, Description: "Data or javascript URI scheme", Score: -20, Keywords: []string{"data uri", "javascript uri", "javascript:"}, Implemented: true},
	{ID: 21, Description: "Credentials or tokens in query string", Score: -10, Keywords: []string{"credential", "token"}, Implemented: true},
	{ID: 22, Description: "Random-looking (high entropy) domain", Score: -10, Keywords: []string{"entropy", "random"}, Implemented: true},
	{ID: 23, Description: "Homoglyph characters in domain", Score: -15, Keywords: []string{"homoglyph", "confusable"}, Implemented: true},
	{ID: 24, Description: "Listed on a phishing blacklist", Score: -30},
	{ID: 25, Description: "Missing DNS records", Score: -10},
	{ID: 26, Description: "Page contains a login form", Score: -10},
	{ID: 27, Description: "Form posts to an external domain", Score: -15},
	{ID: 28, Description: "Favicon loaded from an external domain", Score: -5},
	{ID: 29, Description: "Multiple redirects before landing", Score: -10},
	{ID: 30, Description: "Server location does not match claimed country", Score: -5},
}

// Catalog returns a copy of the full catalog ordered by ID.
func Catalog() []model.Rule {
	out := make([]model.Rule, len(catalog))
	for i, r := range catalog {
		r.Keywords = append([]string(nil), r.Keywords...)
		out[i] = r
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Lookup returns the catalog rule with the given ID.
func Lookup(id int) (model.Rule, bool) {
	for _, r := range catalog {
		if r.ID == id {
			r.Keywords = append([]string(nil), r.Keywords...)
			return r, true
		}
	}
	return model.Rule{}, false
}

// MatchesWarning reports whether any keyword of rule occurs in any warning,
// ignoring case.
func MatchesWarning(rule model.Rule, warnings []string) bool {
	for _, w := range warnings {
		lw := strings.ToLower(w)
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(lw, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}

// SchemeTriggersHTTPS reports whether the request URL triggers the HTTPS
// rule, i.e. its scheme is anything but https.
func SchemeTriggersHTTPS(requestURL string) bool {
	return !strings.HasPrefix(strings.ToLower(strings.TrimSpace(requestURL)), "https://")
}
