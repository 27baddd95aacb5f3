package newsapi

import (
	"fmt"

	"github.com/kbukum/newsfeed/errors"
)

// Kind selects one of the supported news requests.
type Kind int

const (
	KindTopHeadlines Kind = iota + 1
	KindBusinessCategory
	KindKeywordSearch
)

var kindNames = map[Kind]string{
	KindTopHeadlines:     "top_headlines",
	KindBusinessCategory: "business",
	KindKeywordSearch:    "keyword_search",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind parses a kind name as produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, errors.InvalidRequest(fmt.Sprintf("unknown request kind %q", s))
}

// Request is one news request. Build it with TopHeadlines, BusinessCategory
// or KeywordSearch; the zero value has no kind and is rejected.
type Request struct {
	Kind Kind
	// Headlines picks the top-headlines base for a keyword search instead
	// of the business category.
	Headlines bool
	// Text is the free-text query of a keyword search.
	Text string
}

// TopHeadlines requests the top headlines of the configured sources.
func TopHeadlines() Request {
	return Request{Kind: KindTopHeadlines}
}

// BusinessCategory requests the headlines of the configured category.
func BusinessCategory() Request {
	return Request{Kind: KindBusinessCategory}
}

// KeywordSearch requests articles matching text, restricted to the top
// headlines when headlines is true and to the business category otherwise.
func KeywordSearch(headlines bool, text string) Request {
	return Request{Kind: KindKeywordSearch, Headlines: headlines, Text: text}
}

// NewRequest builds the request of the given kind. headlines and text only
// apply to keyword searches; an unknown kind yields a request Fetch rejects.
func NewRequest(kind Kind, headlines bool, text string) Request {
	switch kind {
	case KindTopHeadlines:
		return TopHeadlines()
	case KindBusinessCategory:
		return BusinessCategory()
	case KindKeywordSearch:
		return KeywordSearch(headlines, text)
	default:
		return Request{Kind: kind}
	}
}

func (r Request) String() string {
	if r.Kind != KindKeywordSearch {
		return r.Kind.String()
	}
	return fmt.Sprintf("keyword_search(headlines=%t, q=%q)", r.Headlines, r.Text)
}
