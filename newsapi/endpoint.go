package newsapi

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/newsfeed/errors"
)

const (
	pathTopHeadlines = "top-headlines"
	apiKeyParam      = "apiKey"
)

// Endpoint turns requests into newsapi.org URLs.
type Endpoint struct {
	BaseURL  string
	APIKey   string
	Sources  string
	Category string
	Country  string
}

// NewEndpoint returns the endpoint described by cfg.
func NewEndpoint(cfg Config) Endpoint {
	return Endpoint{
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		Sources:  cfg.Sources,
		Category: cfg.Category,
		Country:  cfg.Country,
	}
}

// Resolve returns the target URL without credentials and its query
// parameters. It fails with an invalid request error when req cannot be
// expressed as a URL.
func (e Endpoint) Resolve(req Request) (string, url.Values, error) {
	if e.APIKey == "" {
		return "", nil, errors.InvalidRequest("missing API key")
	}
	base, err := url.Parse(e.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return "", nil, errors.InvalidRequest("base URL must be an absolute http(s) URL").WithCause(err)
	}

	query := url.Values{}
	switch req.Kind {
	case KindTopHeadlines:
		e.headlines(query)
	case KindBusinessCategory:
		e.business(query)
	case KindKeywordSearch:
		if !utf8.ValidString(req.Text) {
			return "", nil, errors.InvalidRequest("query text is not valid UTF-8")
		}
		if req.Headlines {
			e.headlines(query)
		} else {
			e.business(query)
		}
		query.Set("q", req.Text)
	default:
		return "", nil, errors.InvalidRequest("unknown request kind")
	}

	target := strings.TrimRight(base.String(), "/") + "/" + pathTopHeadlines
	return target, query, nil
}

// URL returns the complete request URL including the API key. Parameters
// are encoded in sorted order, so equal requests give identical URLs.
func (e Endpoint) URL(req Request) (string, error) {
	target, query, err := e.Resolve(req)
	if err != nil {
		return "", err
	}
	query.Set(apiKeyParam, e.APIKey)
	return target + "?" + query.Encode(), nil
}

func (e Endpoint) headlines(q url.Values) {
	q.Set("sources", e.Sources)
}

func (e Endpoint) business(q url.Values) {
	q.Set("category", e.Category)
	if e.Country != "" {
		q.Set("country", e.Country)
	}
}
