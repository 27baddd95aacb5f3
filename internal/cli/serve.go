package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newServeCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the search pipeline behind the HTTP API",
		Long: `Run the search pipeline with the HTTP API and the live result stream.

  PUT  /api/v1/search        set the search text {"text", "headlines"}
  GET  /api/v1/articles      current result list
  GET  /api/v1/articles/:id  one published article
  POST /api/v1/refresh       one-off request {"kind", "text"}
  GET  /api/v1/stream        server-sent events, one "results" event per list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd, cfg, false)
			if err != nil {
				return err
			}

			svc := &services{}
			a.OnConfigure(func(ctx context.Context, a *app) error {
				if err := wireNews(a, svc); err != nil {
					return err
				}
				if err := wireSearch(a, svc); err != nil {
					return err
				}
				return wireServer(a, svc)
			})
			return a.Run(cmd.Context())
		},
	}
}
