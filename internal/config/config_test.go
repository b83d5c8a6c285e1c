package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadLayers(t *testing.T) {
	cfgPath := writeFile(t, "phishaid.yaml", `
endpoint: https://file.example/check
timeout: 3s
rule_table: response
batch:
  threads: 8
log:
  format: json
rules:
  - id: 1
    description: Custom HTTPS rule
    score: -5
    implemented: true
`)
	envPath := writeFile(t, ".env", "PHISHAID_NORMALIZER=strict\nPHISHAID_ENDPOINT=https://dotenv.example/check\n")

	t.Setenv("PHISHAID_ENDPOINT", "https://env.example/check")
	t.Setenv("PHISHAID_TIMEOUT", "7")
	t.Setenv("PHISHAID_RATE_LIMIT", "2")
	t.Setenv("PHISHAID_NORMALIZER", "")
	os.Unsetenv("PHISHAID_NORMALIZER")

	c, err := Load(cfgPath, envPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if c.Endpoint != "https://env.example/check" {
		t.Fatalf("process env should win over .env and file, got %q", c.Endpoint)
	}
	if c.Normalizer != "strict" {
		t.Fatalf(".env value not applied, got %q", c.Normalizer)
	}
	if c.Timeout != 7*time.Second {
		t.Fatalf("timeout = %s", c.Timeout)
	}
	if c.RuleTable != "response" || c.Batch.Threads != 8 || c.Batch.RateLimit != 2 || c.Log.Format != "json" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Listen != ":8080" || c.Log.Level != "info" {
		t.Fatalf("defaults lost: %+v", c)
	}
	if len(c.Rules) != 1 || c.Rules[0].Description != "Custom HTTPS rule" {
		t.Fatalf("rules not loaded: %+v", c.Rules)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
	bad := writeFile(t, "bad.yaml", "timeout: [")
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected parse error")
	}
	t.Setenv("PHISHAID_THREADS", "many")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "PHISHAID_THREADS") {
		t.Fatalf("expected env parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{name: "endpoint", mut: func(c *Config) { c.Endpoint = "not a url" }, field: "Endpoint"},
		{name: "normalizer", mut: func(c *Config) { c.Normalizer = "loose" }, field: "Normalizer"},
		{name: "ruleTable", mut: func(c *Config) { c.RuleTable = "all" }, field: "RuleTable"},
		{name: "threads", mut: func(c *Config) { c.Batch.Threads = 0 }, field: "Threads"},
		{name: "timeout", mut: func(c *Config) { c.Timeout = 0 }, field: "Timeout"},
		{name: "logLevel", mut: func(c *Config) { c.Log.Level = "trace" }, field: "Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mut(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("Validate() = %v, want error naming %s", err, tt.field)
			}
		})
	}
}

func TestParseTimeout(t *testing.T) {
	for in, want := range map[string]time.Duration{"10": 10 * time.Second, "1500ms": 1500 * time.Millisecond, "2m": 2 * time.Minute} {
		got, err := parseTimeout(in)
		if err != nil || got != want {
			t.Fatalf("parseTimeout(%q) = %s, %v", in, got, err)
		}
	}
}
