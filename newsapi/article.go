package newsapi

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/newsfeed/errors"
)

// Article is one decoded news article. ID is derived from the article's
// content at decode time and never changes afterwards.
type Article struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt string    `json:"published_at"`
	SourceName  string    `json:"source_name"`
}

// envelope is the newsapi.org response body. Articles is a pointer so a
// body without the field is told apart from an empty result.
type envelope struct {
	Status       string        `json:"status"`
	TotalResults int           `json:"totalResults"`
	Articles     *[]wireRecord `json:"articles"`
}

// wireRecord accepts both the camelCase keys newsapi.org sends and their
// snake_case forms. Required fields are pointers so absent and null are
// told apart from present; absent and null optional fields decode to "".
type wireRecord struct {
	Source *struct {
		Name *string `json:"name"`
	} `json:"source"`
	SourceName       *string `json:"source_name"`
	Title            *string `json:"title"`
	Description      string  `json:"description"`
	URL              string  `json:"url"`
	URLToImage       string  `json:"urlToImage"`
	URLToImageSnake  string  `json:"url_to_image"`
	PublishedAt      *string `json:"publishedAt"`
	PublishedAtSnake *string `json:"published_at"`
}

// Decode reads a response envelope and returns its articles with IDs assigned.
func Decode(r io.Reader) ([]Article, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, errors.DecodeFailed(ServiceName, err)
	}
	return env.articles()
}

func (env envelope) articles() ([]Article, error) {
	if env.Articles == nil {
		return nil, errors.DecodeFailed(ServiceName, fmt.Errorf("response has no articles field"))
	}
	out := make([]Article, 0, len(*env.Articles))
	seen := make(map[uuid.UUID]int, len(*env.Articles))
	for i, rec := range *env.Articles {
		a, err := rec.article()
		if err != nil {
			return nil, errors.DecodeFailed(ServiceName, fmt.Errorf("article %d: %w", i, err))
		}
		// Repeated URLs in one response get an occurrence-qualified ID.
		base := a.ID
		if n := seen[base]; n > 0 {
			a.ID = uuid.NewSHA1(base, []byte(strconv.Itoa(n)))
		}
		seen[base]++
		out = append(out, a)
	}
	return out, nil
}

func (w wireRecord) article() (Article, error) {
	if w.Title == nil {
		return Article{}, fmt.Errorf("missing title")
	}
	published := firstPresent(w.PublishedAt, w.PublishedAtSnake)
	if published == nil {
		return Article{}, fmt.Errorf("missing publishedAt")
	}
	var source *string
	if w.Source != nil {
		source = w.Source.Name
	}
	source = firstPresent(source, w.SourceName)
	if source == nil {
		return Article{}, fmt.Errorf("missing source.name")
	}

	a := Article{
		Title:       *w.Title,
		Description: w.Description,
		URL:         w.URL,
		ImageURL:    firstNonEmpty(w.URLToImage, w.URLToImageSnake),
		PublishedAt: *published,
		SourceName:  *source,
	}
	a.ID = articleID(a)
	return a, nil
}

// articleID derives a name-based UUID from the article URL, or from its
// source, title and publication time when the URL is missing.
func articleID(a Article) uuid.UUID {
	name := a.URL
	if name == "" {
		name = strings.Join([]string{a.SourceName, a.Title, a.PublishedAt}, "|")
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name))
}

func firstPresent(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
