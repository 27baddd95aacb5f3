// Package newsapi is the client for the newsapi.org REST API.
//
// A Request is one of three variants: TopHeadlines, BusinessCategory or
// KeywordSearch. Endpoint resolves a request to a deterministic URL and
// Client performs exactly one GET per Fetch:
//
//	client, err := newsapi.NewClient(cfg, newsapi.WithMetrics(metrics))
//	articles, err := client.Fetch(ctx, newsapi.KeywordSearch(true, "golang"))
//
// Errors come in two kinds. IsInvalidRequest errors fail before any I/O;
// IsTransportOrDecode errors cover the round trip, non-2xx answers and
// bodies of the wrong shape.
package newsapi
