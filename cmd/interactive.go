package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selimozcann/phishaid/internal/apperr"
	"github.com/selimozcann/phishaid/internal/banner"
	"github.com/selimozcann/phishaid/internal/output"
	"github.com/selimozcann/phishaid/internal/session"
)

const prompt = "url> "

func newInteractiveCmd(opts *globalOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Read URLs from stdin and analyze each one",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if !opts.noBanner {
				banner.Print(a.errOut, a.cfg.Endpoint)
			}

			term := &output.Terminal{Out: a.out, Err: a.errOut, All: all}
			ctrl := session.New(a.svc, term, a.logger)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(a.errOut, prompt)
			for scanner.Scan() {
				line := scanner.Text()
				switch strings.TrimSpace(line) {
				case "exit", "quit", ":q":
					return nil
				}
				if err := ctrl.Submit(cmd.Context(), line); err != nil && !apperr.IsInputError(err) {
					a.logger.Debug("interactive_submit_failed", slog.Any("error", err))
				}
				fmt.Fprintln(a.out)
				fmt.Fprint(a.errOut, prompt)
			}
			return scanner.Err()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "List untriggered catalog rules too")
	return cmd
}
