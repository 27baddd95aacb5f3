package newsapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testEndpoint() Endpoint {
	return Endpoint{
		BaseURL:  "https://newsapi.org/v2",
		APIKey:   "k3y",
		Sources:  "techcrunch",
		Category: "business",
	}
}

func TestEndpoint_URL(t *testing.T) {
	withCountry := testEndpoint()
	withCountry.Country = "us"

	tests := []struct {
		name     string
		endpoint Endpoint
		req      Request
		want     string
	}{
		{"top headlines", testEndpoint(), TopHeadlines(),
			"https://newsapi.org/v2/top-headlines?apiKey=k3y&sources=techcrunch"},
		{"business", testEndpoint(), BusinessCategory(),
			"https://newsapi.org/v2/top-headlines?apiKey=k3y&category=business"},
		{"business with country", withCountry, BusinessCategory(),
			"https://newsapi.org/v2/top-headlines?apiKey=k3y&category=business&country=us"},
		{"keyword in headlines", testEndpoint(), KeywordSearch(true, "apple"),
			"https://newsapi.org/v2/top-headlines?apiKey=k3y&q=apple&sources=techcrunch"},
		{"keyword in business", testEndpoint(), KeywordSearch(false, "apple"),
			"https://newsapi.org/v2/top-headlines?apiKey=k3y&category=business&q=apple"},
		{"keyword is percent encoded", testEndpoint(), KeywordSearch(false, "café & co/?"),
			"https://newsapi.org/v2/top-headlines?apiKey=k3y&category=business&q=caf%C3%A9+%26+co%2F%3F"},
		{"empty keyword still queries", testEndpoint(), KeywordSearch(false, ""),
			"https://newsapi.org/v2/top-headlines?apiKey=k3y&category=business&q="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.endpoint.URL(tt.req)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEndpoint_URL_Deterministic(t *testing.T) {
	e := testEndpoint()
	first, err := e.URL(KeywordSearch(true, "go lang"))
	require.NoError(t, err)
	for range 10 {
		again, err := e.URL(KeywordSearch(true, "go lang"))
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestEndpoint_ScopeFlagChangesEndpoint(t *testing.T) {
	e := testEndpoint()
	headlines, err := e.URL(KeywordSearch(true, "tesla"))
	require.NoError(t, err)
	business, err := e.URL(KeywordSearch(false, "tesla"))
	require.NoError(t, err)

	require.NotEqual(t, headlines, business)
	require.Contains(t, headlines, "sources=techcrunch")
	require.Contains(t, business, "category=business")
}

func TestEndpoint_BaseURLTrailingSlash(t *testing.T) {
	e := testEndpoint()
	e.BaseURL = "http://localhost:8080/v2/"
	got, err := e.URL(TopHeadlines())
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/v2/top-headlines?apiKey=k3y&sources=techcrunch", got)
}

func TestEndpoint_InvalidRequests(t *testing.T) {
	noKey := testEndpoint()
	noKey.APIKey = ""
	relative := testEndpoint()
	relative.BaseURL = "newsapi.org/v2"
	broken := testEndpoint()
	broken.BaseURL = "http://[::1"

	tests := []struct {
		name     string
		endpoint Endpoint
		req      Request
		reason   string
	}{
		{"missing key", noKey, TopHeadlines(), "missing API key"},
		{"relative base", relative, TopHeadlines(), "absolute http(s) URL"},
		{"unparseable base", broken, TopHeadlines(), "absolute http(s) URL"},
		{"zero request", testEndpoint(), Request{}, "unknown request kind"},
		{"out of range kind", testEndpoint(), Request{Kind: Kind(42)}, "unknown request kind"},
		{"invalid utf-8", testEndpoint(), KeywordSearch(true, "bad\xff"), "not valid UTF-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.endpoint.URL(tt.req)
			require.Error(t, err)
			require.True(t, IsInvalidRequest(err))
			require.False(t, IsTransportOrDecode(err))
			require.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindTopHeadlines, KindBusinessCategory, KindKeywordSearch} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}

	_, err := ParseKind("sports")
	require.True(t, IsInvalidRequest(err))
	require.Equal(t, "unknown", Kind(0).String())
}

func TestRequest_String(t *testing.T) {
	require.Equal(t, "top_headlines", TopHeadlines().String())
	require.Equal(t, "business", BusinessCategory().String())
	require.Equal(t, `keyword_search(headlines=false, q="go")`, KeywordSearch(false, "go").String())
}

func TestNewRequest(t *testing.T) {
	require.Equal(t, TopHeadlines(), NewRequest(KindTopHeadlines, true, "ignored"))
	require.Equal(t, BusinessCategory(), NewRequest(KindBusinessCategory, true, "ignored"))
	require.Equal(t, KeywordSearch(true, "go"), NewRequest(KindKeywordSearch, true, "go"))

	_, _, err := NewEndpoint(Config{BaseURL: DefaultBaseURL, APIKey: "k"}).Resolve(NewRequest(Kind(0), false, ""))
	require.True(t, IsInvalidRequest(err))
}
