package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/selimozcann/phishaid/internal/analysis"
	"github.com/selimozcann/phishaid/internal/config"
	"github.com/selimozcann/phishaid/internal/httpclient"
	"github.com/selimozcann/phishaid/internal/logging"
	"github.com/selimozcann/phishaid/internal/metrics"
	"github.com/selimozcann/phishaid/internal/normalize"
	"github.com/selimozcann/phishaid/internal/render"
	"github.com/selimozcann/phishaid/internal/statuscolor"
)

type globalOptions struct {
	configPath string
	endpoint   string
	timeout    time.Duration
	strict     bool
	ruleTable  string
	proxy      string
	headers    []string
	insecure   bool
	verbose    bool
	noColor    bool
	noBanner   bool
}

// app is everything a subcommand needs, built once from config and flags.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	svc     *analysis.Service
	metrics *metrics.Metrics
	out     io.Writer
	errOut  io.Writer
}

// errSilent marks a failure that was already reported to the user.
var errSilent = errors.New("already reported")

func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "phishaid",
		Short:         "Check URLs against the PhishAID phishing scoring service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.StringVar(&opts.endpoint, "endpoint", "", "Scoring endpoint URL")
	f.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (default from config, 10s)")
	f.BoolVar(&opts.strict, "strict", false, "Reject URLs without http:// or https://")
	f.StringVar(&opts.ruleTable, "rules", "", "Rule table mode: catalog or response")
	f.StringVar(&opts.proxy, "proxy", "", "HTTP(S) proxy URL")
	f.StringArrayVarP(&opts.headers, "header", "H", nil, "Extra HTTP header for the scoring endpoint (repeatable)")
	f.BoolVar(&opts.insecure, "insecure", false, "Skip TLS verification")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	f.BoolVar(&opts.noBanner, "no-banner", false, "Do not print the banner")

	root.AddCommand(
		newCheckCmd(opts),
		newBatchCmd(opts),
		newInteractiveCmd(opts),
		newServeCmd(opts),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = opts.endpoint
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if flags.Changed("strict") {
		if opts.strict {
			cfg.Normalizer = string(normalize.Strict)
		} else {
			cfg.Normalizer = string(normalize.Permissive)
		}
	}
	if flags.Changed("rules") {
		cfg.RuleTable = opts.ruleTable
	}
	if flags.Changed("proxy") {
		cfg.Proxy = opts.proxy
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.noColor {
		statuscolor.Disable()
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	policy, err := normalize.ParsePolicy(cfg.Normalizer)
	if err != nil {
		return nil, err
	}
	mode, err := render.ParseRuleTableMode(cfg.RuleTable)
	if err != nil {
		return nil, err
	}

	headers, err := toHeader(cfg.Headers, opts.headers)
	if err != nil {
		return nil, err
	}
	var proxyFunc func(*http.Request) (*url.URL, error)
	if cfg.Proxy != "" {
		proxyURL, perr := url.Parse(cfg.Proxy)
		if perr != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", perr)
		}
		proxyFunc = http.ProxyURL(proxyURL)
	}

	client, err := httpclient.New(httpclient.Config{
		Endpoint:  cfg.Endpoint,
		Timeout:   cfg.Timeout,
		Proxy:     proxyFunc,
		Headers:   headers,
		UserAgent: cfg.UserAgent,
		Insecure:  opts.insecure,
	}, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	renderOpts := render.Options{Mode: mode}
	if len(cfg.Rules) > 0 {
		renderOpts.Catalog = cfg.Rules
	}
	svc := analysis.New(client, analysis.Config{Policy: policy, Render: renderOpts}, logger, analysis.WithObserver(m))

	logger.Debug("config_loaded",
		slog.String("endpoint", cfg.Endpoint),
		slog.Duration("timeout", cfg.Timeout),
		slog.String("normalizer", string(policy)),
		slog.String("rule_table", string(mode)),
	)
	return &app{cfg: cfg, logger: logger, svc: svc, metrics: m, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}, nil
}

// toHeader merges config headers with "Key: Value" flag values. Flags win.
func toHeader(fromConfig map[string]string, fromFlags []string) (http.Header, error) {
	hdr := make(http.Header)
	for k, v := range fromConfig {
		hdr.Set(k, v)
	}
	for _, h := range fromFlags {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid header %q (expected Key: Value)", h)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, fmt.Errorf("invalid header %q (empty key)", h)
		}
		hdr.Set(key, value)
	}
	return hdr, nil
}
