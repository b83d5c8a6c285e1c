package cmd

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/selimozcann/phishaid/internal/apperr"
	"github.com/selimozcann/phishaid/internal/banner"
	"github.com/selimozcann/phishaid/internal/output"
	"github.com/selimozcann/phishaid/internal/session"
	"github.com/selimozcann/phishaid/internal/web"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var (
		asJSON bool
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Analyze a single URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				view, err := a.svc.Check(cmd.Context(), args[0])
				if err != nil {
					resp := web.ErrorResponse{Error: string(apperr.KindOf(err)), Message: apperr.UserMessage(err)}
					if encErr := enc.Encode(resp); encErr != nil {
						return encErr
					}
					return errSilent
				}
				return enc.Encode(view)
			}

			if !opts.noBanner {
				banner.Print(a.errOut, a.cfg.Endpoint)
			}
			term := &output.Terminal{Out: a.out, Err: a.errOut, All: all}
			if err := session.New(a.svc, term, a.logger).Submit(cmd.Context(), args[0]); err != nil {
				return errSilent
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "List untriggered catalog rules too")
	return cmd
}
