package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgscore/internal/server"
	"github.com/matzehuels/pkgscore/pkg/observability"
	"github.com/matzehuels/pkgscore/pkg/policy"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP scoring service",
		Long: `Serve package evaluations over HTTP.

  POST /process-url  {"url": "..."} returns the report JSON
  GET  /healthz      liveness
  GET  /metrics      Prometheus metrics

When policy.file is set, the file is watched and a valid edit takes effect
for subsequent requests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			a, err := c.openApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Serve.Addr
			}

			pol, err := a.loadPolicy()
			if err != nil {
				return err
			}
			runner, err := a.runner(pol)
			if err != nil {
				return err
			}

			collector := observability.NewCollector()
			observability.SetEvaluationHooks(collector)
			observability.SetCacheHooks(collector)
			observability.SetHTTPHooks(collector)
			defer observability.Reset()

			srv := server.New(runner, collector, logger)

			if file := a.cfg.Policy.File; file != "" {
				go func() {
					err := policy.Watch(ctx, file, func(p *policy.Policy) {
						r, err := a.runner(p)
						if err != nil {
							logger.Error("policy rejected, keeping previous policy", "err", err)
							return
						}
						srv.SetEvaluator(r)
					})
					if err != nil {
						logger.Error("policy watch stopped", "err", err)
					}
				}()
			}

			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":3000", "listen address (serve.addr)")
	return cmd
}
