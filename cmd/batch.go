package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/selimozcann/phishaid/internal/banner"
	"github.com/selimozcann/phishaid/internal/model"
	"github.com/selimozcann/phishaid/internal/output"
	"github.com/selimozcann/phishaid/internal/runner"
)

type batchOptions struct {
	file        string
	threads     int
	rateLimit   int
	stream      bool
	outputJSONL string
	outputHTML  string
}

func newBatchCmd(opts *globalOptions) *cobra.Command {
	bo := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze every URL in a file (one per line)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("threads") {
				a.cfg.Batch.Threads = bo.threads
			}
			if cmd.Flags().Changed("rl") {
				a.cfg.Batch.RateLimit = bo.rateLimit
			}
			return runBatch(cmd, a, bo, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&bo.file, "file", "f", "", "Input file with one URL per line")
	f.IntVarP(&bo.threads, "threads", "t", 0, "Concurrent requests (default from config)")
	f.IntVar(&bo.rateLimit, "rl", 0, "Global rate limit (requests per second)")
	f.BoolVar(&bo.stream, "stream", false, "Write JSONL records to stdout as results arrive")
	f.StringVarP(&bo.outputJSONL, "output", "o", "", "JSONL output file")
	f.StringVar(&bo.outputHTML, "html", "", "HTML report output file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runBatch(cmd *cobra.Command, a *app, bo *batchOptions, opts *globalOptions) error {
	if a.cfg.Batch.Threads <= 0 {
		return fmt.Errorf("--threads must be greater than zero (got %d)", a.cfg.Batch.Threads)
	}
	if a.cfg.Batch.RateLimit < 0 {
		return fmt.Errorf("--rl must be >= 0 (got %d)", a.cfg.Batch.RateLimit)
	}
	targets, err := runner.LoadTargets(bo.file)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New("no targets in input file")
	}

	if !opts.noBanner && !bo.stream {
		banner.Print(a.errOut, a.cfg.Endpoint)
	}

	renderOpts := a.svc.Config().Render
	r := runner.New(runner.Config{Threads: a.cfg.Batch.Threads, RateLimit: a.cfg.Batch.RateLimit}, a.svc, a.logger)
	var stream *output.JSONLWriter
	if bo.stream {
		stream = output.NewJSONLWriter(a.out)
		r.OnResult = func(_ int, res model.Result) {
			if err := stream.Write(output.BuildRecord(res, renderOpts)); err != nil {
				a.logger.Warn("stream_write_failed", slog.Any("error", err))
			}
		}
	}

	a.logger.Debug("batch_started",
		slog.Int("targets", len(targets)),
		slog.Int("threads", a.cfg.Batch.Threads),
		slog.Int("rate_limit", a.cfg.Batch.RateLimit),
	)
	results := r.Run(cmd.Context(), targets)

	if stream != nil {
		if err := stream.Close(); err != nil {
			return fmt.Errorf("write JSONL stream: %w", err)
		}
	} else {
		for i, res := range results {
			output.PrintSummaryLine(a.out, i, len(results), res)
		}
	}

	if bo.outputJSONL != "" {
		records := make([]output.Record, len(results))
		for i, res := range results {
			records[i] = output.BuildRecord(res, renderOpts)
		}
		if err := writeJSONLFile(bo.outputJSONL, records); err != nil {
			return err
		}
		a.logger.Info("report_written", slog.String("format", "jsonl"), slog.String("path", bo.outputJSONL))
	}
	if bo.outputHTML != "" {
		views := make([]output.ResultView, len(results))
		for i, res := range results {
			views[i] = output.BuildResultView(i, res, renderOpts)
		}
		page := output.PageData{
			Title:       "PhishAID Report",
			GeneratedAt: time.Now().UTC(),
			Params:      buildParamsMap(a, bo, len(targets)),
			Summary:     output.BuildSummary(results),
			Results:     views,
		}
		if err := writeHTMLFile(bo.outputHTML, page); err != nil {
			return err
		}
		a.logger.Info("report_written", slog.String("format", "html"), slog.String("path", bo.outputHTML))
	}

	sum := output.BuildSummary(results)
	a.logger.Info("batch_completed",
		slog.Int("total", sum.Total),
		slog.Int("safe", sum.Safe),
		slog.Int("phishing", sum.Phishing),
		slog.Int("errors", sum.Errors),
	)
	return nil
}

func buildParamsMap(a *app, bo *batchOptions, targetCount int) map[string]string {
	params := map[string]string{
		"input":             bo.file,
		"endpoint":          a.cfg.Endpoint,
		"timeout":           a.cfg.Timeout.String(),
		"normalizer":        a.cfg.Normalizer,
		"rule_table":        a.cfg.RuleTable,
		"threads":           strconv.Itoa(a.cfg.Batch.Threads),
		"rate_limit":        strconv.Itoa(a.cfg.Batch.RateLimit),
		"targets_generated": strconv.Itoa(targetCount),
	}
	if bo.outputJSONL != "" {
		params["output_jsonl"] = bo.outputJSONL
	}
	if a.cfg.Proxy != "" {
		params["proxy"] = a.cfg.Proxy
	}
	return params
}

func writeJSONLFile(path string, records []output.Record) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create JSONL directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create JSONL file: %w", err)
	}
	defer f.Close()
	if err := output.WriteJSONL(f, records); err != nil {
		return fmt.Errorf("write JSONL: %w", err)
	}
	return nil
}

func writeHTMLFile(path string, page output.PageData) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create HTML directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create HTML file: %w", err)
	}
	defer f.Close()
	if err := output.RenderHTML(f, page); err != nil {
		return fmt.Errorf("write HTML: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
