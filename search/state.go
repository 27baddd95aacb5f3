package search

import (
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/newsfeed/newsapi"
	"github.com/kbukum/newsfeed/validation"
)

// State is one published view of the search.
type State struct {
	// Text is the raw text most recently set by the user.
	Text string `json:"text"`
	// Query is the normalized text of the request that produced Articles.
	Query string `json:"query"`
	// Request names the request that produced Articles.
	Request string `json:"request"`
	// Headlines reports whether Articles come from the top headlines.
	Headlines bool              `json:"headlines"`
	Articles  []newsapi.Article `json:"articles"`
	Items     []Item            `json:"items"`
	LastError *ErrorInfo        `json:"last_error,omitempty"`
	Seq       uint64            `json:"seq"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ErrorInfo describes the failure behind an empty result list.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// Item is the list row shown for an article.
type Item struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	// ImageURL is set only when the article image is an absolute URL.
	ImageURL string `json:"image_url,omitempty"`
}

// NewItem projects an article into a list row.
func NewItem(a newsapi.Article) Item {
	item := Item{ID: a.ID, Title: a.Title, Subtitle: a.Description}
	if a.ImageURL != "" && !validation.New().AbsoluteURL("image_url", a.ImageURL).HasErrors() {
		item.ImageURL = a.ImageURL
	}
	return item
}

func itemsOf(articles []newsapi.Article) []Item {
	items := make([]Item, len(articles))
	for i, a := range articles {
		items[i] = NewItem(a)
	}
	return items
}
