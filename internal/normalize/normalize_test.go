package normalize

import (
	"errors"
	"testing"

	"github.com/selimozcann/phishaid/internal/apperr"
)

func TestURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		raw     string
		policy  Policy
		want    string
		wantErr error
	}{
		{name: "permissivePrepends", raw: "example.com", policy: Permissive, want: "https://example.com"},
		{name: "permissiveTrims", raw: "  example.com/login \n", policy: Permissive, want: "https://example.com/login"},
		{name: "keepsHTTP", raw: "http://example.com", policy: Permissive, want: "http://example.com"},
		{name: "keepsHTTPS", raw: "https://example.com", policy: Strict, want: "https://example.com"},
		{name: "schemeCaseInsensitive", raw: "HTTPS://Example.com", policy: Permissive, want: "HTTPS://Example.com"},
		{name: "mixedCaseStrict", raw: "Http://example.com", policy: Strict, want: "Http://example.com"},
		{name: "strictRejects", raw: "example.com", policy: Strict, wantErr: apperr.ErrValidation},
		{name: "strictRejectsFTP", raw: "ftp://example.com", policy: Strict, wantErr: apperr.ErrValidation},
		{name: "empty", raw: "", policy: Permissive, wantErr: apperr.ErrEmptyInput},
		{name: "whitespaceOnly", raw: " \t\n", policy: Strict, wantErr: apperr.ErrEmptyInput},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := URL(tt.raw, tt.policy)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("URL(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("URL(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("URL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": Permissive, "Permissive": Permissive, " strict ": Strict} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParsePolicy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParsePolicy("lenient"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
