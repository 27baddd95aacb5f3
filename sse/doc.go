// Package sse streams search results to HTTP clients as Server-Sent Events.
//
// A Hub tracks connected clients and routes broadcasts to them by glob
// pattern on the client ID. Feeds push events into the hub; ForwardJSON
// turns any subscription into a feed. Handler serves one stream per request.
//
//	vm := search.New(fetcher, cfg)
//	comp := sse.NewComponent("/api/v1/stream", log,
//		sse.ForwardJSON("search:*", sse.EventTypeResults, vm.Subscribe, log))
//	router.GET("/api/v1/stream", gin.WrapH(&sse.Handler{Hub: comp.Hub(), Prefix: "search"}))
package sse
