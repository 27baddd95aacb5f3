package endpoint

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/newsfeed/errors"
	"github.com/kbukum/newsfeed/newsapi"
	"github.com/kbukum/newsfeed/search"
	"github.com/kbukum/newsfeed/validation"
)

// Searcher is the part of the search view model the HTTP API drives.
type Searcher interface {
	SetText(ctx context.Context, text string) error
	SetHeadlines(headlines bool)
	Headlines() bool
	Load(ctx context.Context, req newsapi.Request) error
	Snapshot() search.State
	Article(id uuid.UUID) (newsapi.Article, bool)
}

// SearchRequest is the body of PUT /api/v1/search.
type SearchRequest struct {
	Text      string `json:"text" validate:"max=500"`
	Headlines *bool  `json:"headlines"`
}

// RefreshRequest is the body of POST /api/v1/refresh.
type RefreshRequest struct {
	Kind string `json:"kind" validate:"required,oneof=top_headlines business keyword_search"`
	Text string `json:"text" validate:"max=500"`
}

// QueryAccepted echoes what the pipeline was given.
type QueryAccepted struct {
	Text      string `json:"text"`
	Headlines bool   `json:"headlines"`
}

// RegisterSearchRoutes mounts the search API on g. stream serves the live
// results; it is skipped when nil.
func RegisterSearchRoutes(g *gin.RouterGroup, s Searcher, stream http.Handler) {
	g.PUT("/search", SetQuery(s))
	g.GET("/articles", Articles(s))
	g.GET("/articles/:id", ArticleByID(s))
	g.POST("/refresh", Refresh(s))
	if stream != nil {
		g.GET("/stream", gin.WrapH(stream))
	}
}

// SetQuery feeds the posted text into the debounced pipeline.
func SetQuery(s Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body SearchRequest
		if err := bindJSON(c, &body); err != nil {
			RespondWithError(c, err)
			return
		}
		if body.Headlines != nil {
			s.SetHeadlines(*body.Headlines)
		}
		if err := s.SetText(c.Request.Context(), body.Text); err != nil {
			RespondWithError(c, err)
			return
		}
		RespondAccepted(c, QueryAccepted{Text: body.Text, Headlines: s.Headlines()})
	}
}

// Articles returns the latest published state.
func Articles(s Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondOK(c, s.Snapshot())
	}
}

// ArticleByID looks up an article of a recent result list.
func ArticleByID(s Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := validation.ParseUUID("id", c.Param("id"))
		if err != nil {
			RespondWithError(c, err)
			return
		}
		article, ok := s.Article(id)
		if !ok {
			RespondWithError(c, errors.NotFound("article"))
			return
		}
		RespondOK(c, article)
	}
}

// Refresh issues a request right away, skipping the debounce.
func Refresh(s Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body RefreshRequest
		if err := bindJSON(c, &body); err != nil {
			RespondWithError(c, err)
			return
		}
		kind, err := newsapi.ParseKind(body.Kind)
		if err != nil {
			RespondWithError(c, err)
			return
		}

		req := newsapi.NewRequest(kind, s.Headlines(), strings.ToLower(body.Text))
		if err := s.Load(c.Request.Context(), req); err != nil {
			RespondWithError(c, err)
			return
		}
		RespondAccepted(c, gin.H{"request": req.String()})
	}
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.InvalidInput("", "malformed JSON body").WithCause(err)
	}
	return validation.Struct(dst)
}
