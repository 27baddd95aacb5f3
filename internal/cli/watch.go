package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/newsfeed/search"
)

func newWatchCommand(o *rootOptions) *cobra.Command {
	var (
		headlines bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Feed stdin lines through the search pipeline",
		Long: `Read search text from stdin, one value per line, and print every
result list the pipeline publishes. Lines arriving faster than the
debounce interval are coalesced; only the newest request's results
are printed. At end of input the command waits for the last value
to settle, then exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("headlines") {
				cfg.Search.Headlines = headlines
			}

			a, err := newApp(cmd, cfg, true)
			if err != nil {
				return err
			}
			svc := &services{}
			a.OnConfigure(func(ctx context.Context, a *app) error {
				if err := wireNews(a, svc); err != nil {
					return err
				}
				return wireSearch(a, svc)
			})

			settle := cfg.Search.Debounce + cfg.NewsAPI.Timeout
			return a.RunTask(cmd.Context(), func(ctx context.Context) error {
				emit := newRenderer(cmd.OutOrStdout()).state
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					emit = func(st search.State) error { return enc.Encode(st) }
				}
				return watch(ctx, svc.vm, cmd.InOrStdin(), settle, emit)
			})
		},
	}
	cmd.Flags().BoolVar(&headlines, "headlines", false, "search the top headlines instead of the business category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print each state as a JSON line")
	return cmd
}

// pipeline is the part of the view model watch drives.
type pipeline interface {
	SetText(ctx context.Context, text string) error
	Subscribe(buffer int) (<-chan search.State, func())
}

// watch feeds lines from in to p and prints published states until the
// input is exhausted and the last line has settled, or ctx is done.
func watch(ctx context.Context, p pipeline, in io.Reader, settle time.Duration, emit func(search.State) error) error {
	states, unsubscribe := p.Subscribe(16)
	defer unsubscribe()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		pending string
		settled = true
		eof     <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if settled {
					return nil
				}
				lines = nil
				eof = time.After(settle)
				continue
			}
			if err := p.SetText(ctx, line); err != nil {
				return err
			}
			pending, settled = strings.ToLower(line), false
		case st, ok := <-states:
			if !ok {
				return nil
			}
			if err := emit(st); err != nil {
				return err
			}
			settled = settled || st.Query == pending
			if eof != nil && settled {
				return nil
			}
		case <-eof:
			return nil
		}
	}
}
