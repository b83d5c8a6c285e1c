package normalize

import (
	"fmt"
	"strings"

	"github.com/selimozcann/phishaid/internal/apperr"
)

// Policy decides what happens to input without an http(s):// prefix.
type Policy string

const (
	// Permissive prepends https:// when the scheme is missing.
	Permissive Policy = "permissive"
	// Strict rejects input without a scheme.
	Strict Policy = "strict"
)

// ParsePolicy accepts "permissive" or "strict" (case-insensitive); empty
// means Permissive.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Permissive):
		return Permissive, nil
	case string(Strict):
		return Strict, nil
	}
	return "", fmt.Errorf("unknown normalizer policy %q (want permissive or strict)", s)
}

// HasScheme reports whether s starts with http:// or https://, ignoring case.
func HasScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// URL trims raw and returns the URL to submit. The host is not validated;
// that is left to the backend.
func URL(raw string, policy Policy) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &apperr.Error{Kind: apperr.KindEmptyInput, Op: "normalize", Msg: apperr.MsgEmptyInput}
	}
	if HasScheme(s) {
		return s, nil
	}
	if policy == Strict {
		return "", &apperr.Error{Kind: apperr.KindValidation, Op: "normalize", Msg: apperr.MsgMissingScheme}
	}
	return "https://" + s, nil
}
