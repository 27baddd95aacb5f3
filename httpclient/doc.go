// Package httpclient is the outbound HTTP layer used to reach the news API.
//
// An Adapter owns one *http.Client and applies, in order: default headers,
// authentication, the optional rate limiter and the optional circuit
// breaker. Every failure is returned as a classified *Error so callers can
// tell transport problems from HTTP status failures and cancellation.
// The adapter never retries.
//
//	a, err := httpclient.New(httpclient.Config{
//	    Name:    "newsapi",
//	    BaseURL: "https://newsapi.org/v2",
//	    Auth:    httpclient.APIKeyAuthQuery(key, "apiKey"),
//	})
//	resp, err := httpclient.Get[Envelope](a, ctx, "/top-headlines",
//	    httpclient.WithQueryParam("sources", "techcrunch"))
package httpclient
