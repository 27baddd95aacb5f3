// Package bootstrap runs the newsfeed process lifecycle.
//
// An App owns the typed config, the logger and the component registry.
// Configure callbacks build components from the config, the registry starts
// them in order, hooks run around startup and shutdown, and a summary of
// infrastructure, routes and health is written once the app is ready.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*config.Config]) error {
//	    return a.RegisterComponent(server.NewComponent(srv))
//	})
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// RunTask is the one-shot variant for CLI commands: it runs the same
// lifecycle around a finite task and cancels it on SIGINT or SIGTERM.
package bootstrap
