package cli

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/newsfeed/newsapi"
)

func newSearchCommand(o *rootOptions) *cobra.Command {
	var (
		headlines bool
		kind      string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "search [text...]",
		Short: "Fetch one result list right away",
		Long: `Fetch one result list without the debounce.

The text is lowercased like the pipeline does. --headlines searches the top
headlines instead of the business category; it defaults to search.headlines.`,
		Example: `  newsfeed search golang
  newsfeed search --headlines "interest rates"
  newsfeed search --kind top_headlines`,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := newsapi.ParseKind(kind)
			if err != nil {
				return err
			}
			cfg, err := o.load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("headlines") {
				headlines = cfg.Search.Headlines
			}
			req := newsapi.NewRequest(k, headlines, strings.ToLower(strings.Join(args, " ")))

			a, err := newApp(cmd, cfg, true)
			if err != nil {
				return err
			}
			svc := &services{}
			a.OnConfigure(func(ctx context.Context, a *app) error {
				return wireNews(a, svc)
			})

			return a.RunTask(cmd.Context(), func(ctx context.Context) error {
				articles, err := svc.news.Fetch(ctx, req)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(articles)
				}
				return newRenderer(cmd.OutOrStdout()).results(req.String(), articles, nil)
			})
		},
	}
	cmd.Flags().BoolVar(&headlines, "headlines", false, "search the top headlines instead of the business category")
	cmd.Flags().StringVarP(&kind, "kind", "k", newsapi.KindKeywordSearch.String(), "request kind: top_headlines, business or keyword_search")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print articles as JSON")
	return cmd
}
