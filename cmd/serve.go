package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/selimozcann/phishaid/internal/web"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				a.cfg.Listen = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := web.New(web.Config{
				Listen:   a.cfg.Listen,
				Endpoint: a.cfg.Endpoint,
				Release:  !opts.verbose,
			}, a.svc, a.metrics, a.logger)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config, :8080)")
	return cmd
}
