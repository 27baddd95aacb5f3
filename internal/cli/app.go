package cli

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/newsfeed/bootstrap"
	"github.com/kbukum/newsfeed/config"
	"github.com/kbukum/newsfeed/newsapi"
	"github.com/kbukum/newsfeed/observability"
	"github.com/kbukum/newsfeed/search"
	"github.com/kbukum/newsfeed/server"
	"github.com/kbukum/newsfeed/server/endpoint"
	"github.com/kbukum/newsfeed/sse"
)

const (
	apiPrefix     = "/api/v1"
	streamPath    = apiPrefix + "/stream"
	streamClients = "search"
	streamPattern = streamClients + ":*"
)

type app = bootstrap.App[*config.Config]

// services collects the components built during the configure phase so the
// command task can reach them.
type services struct {
	metrics *observability.Metrics
	news    *newsapi.Component
	vm      *search.ViewModel
	server  *server.Server
}

func newApp(cmd *cobra.Command, cfg *config.Config, quiet bool) (*app, error) {
	opts := []bootstrap.Option{bootstrap.WithOutput(cmd.ErrOrStderr())}
	if quiet {
		opts = append(opts, bootstrap.WithoutSummary())
	}
	return bootstrap.NewApp(cfg, opts...)
}

// wireNews registers telemetry and the news API client.
func wireNews(a *app, svc *services) error {
	metrics, err := observability.NewMetrics(observability.Meter(a.Name))
	if err != nil {
		return err
	}
	svc.metrics = metrics

	obs := observability.NewComponent(a.Cfg.Observability, a.Name, a.Version, a.Cfg.Environment, a.Logger)
	if err := a.RegisterComponent(obs); err != nil {
		return err
	}

	svc.news = newsapi.NewComponent(a.Cfg.NewsAPI,
		newsapi.WithLogger(a.Logger),
		newsapi.WithMetrics(metrics),
	)
	return a.RegisterComponent(svc.news)
}

// wireSearch registers the search pipeline on top of the news client.
func wireSearch(a *app, svc *services) error {
	svc.vm = search.New(svc.news, a.Cfg.Search,
		search.WithLogger(a.Logger),
		search.WithMetrics(svc.metrics),
	)
	return a.RegisterComponent(search.NewComponent(svc.vm, a.Logger))
}

// wireServer registers the result stream and the HTTP API. The server is
// registered last so it starts after everything it serves.
func wireServer(a *app, svc *services) error {
	vm := svc.vm
	stream := sse.NewComponent(streamPath, a.Logger,
		sse.ForwardJSON(streamPattern, sse.EventTypeResults, vm.Subscribe, a.Logger),
	)

	srv := server.New(a.Cfg.Server, a.Logger)
	srv.ApplyDefaults(a.Name, a.Components.HealthAll)
	endpoint.RegisterSearchRoutes(srv.GinEngine().Group(apiPrefix), vm, &sse.Handler{
		Hub:       stream.Hub(),
		Prefix:    streamClients,
		KeepAlive: a.Cfg.Server.StreamKeepAlive,
		Initial: func() (sse.Event, bool) {
			ev, err := sse.JSONEvent(sse.EventTypeResults, vm.Snapshot())
			return ev, err == nil
		},
	})
	svc.server = srv

	if err := a.RegisterComponent(stream); err != nil {
		return err
	}
	return a.RegisterComponent(server.NewComponent(srv))
}
