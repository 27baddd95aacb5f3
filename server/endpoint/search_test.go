package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/newsfeed/errors"
	"github.com/kbukum/newsfeed/newsapi"
	"github.com/kbukum/newsfeed/search"
)

type fakeSearcher struct {
	mu        sync.Mutex
	texts     []string
	loads     []newsapi.Request
	headlines bool
	state     search.State
	articles  map[uuid.UUID]newsapi.Article
	err       error
}

func (f *fakeSearcher) SetText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeSearcher) SetHeadlines(h bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headlines = h
}

func (f *fakeSearcher) Headlines() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headlines
}

func (f *fakeSearcher) Load(_ context.Context, req newsapi.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.loads = append(f.loads, req)
	return nil
}

func (f *fakeSearcher) Snapshot() search.State { return f.state }

func (f *fakeSearcher) Article(id uuid.UUID) (newsapi.Article, bool) {
	a, ok := f.articles[id]
	return a, ok
}

func newRouter(s Searcher, stream http.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	RegisterSearchRoutes(e.Group("/api/v1"), s, stream)
	return e
}

func serve(e http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) errors.ErrorCode {
	t.Helper()
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestSetQuery(t *testing.T) {
	s := &fakeSearcher{}
	rec := serve(newRouter(s, nil), http.MethodPut, "/api/v1/search", `{"text":"Golang","headlines":true}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, []string{"Golang"}, s.texts)
	require.True(t, s.headlines)
	require.JSONEq(t, `{"data":{"text":"Golang","headlines":true}}`, rec.Body.String())
}

func TestSetQuery_KeepsScopeWhenOmitted(t *testing.T) {
	s := &fakeSearcher{headlines: true}
	rec := serve(newRouter(s, nil), http.MethodPut, "/api/v1/search", `{"text":""}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, []string{""}, s.texts)
	require.True(t, s.headlines)
}

func TestSetQuery_BadBodies(t *testing.T) {
	s := &fakeSearcher{}
	r := newRouter(s, nil)

	rec := serve(r, http.MethodPut, "/api/v1/search", `{"text":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, errors.ErrCodeInvalidInput, errorCode(t, rec))

	rec = serve(r, http.MethodPut, "/api/v1/search", `{"text":"`+strings.Repeat("a", 501)+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "text")
	require.Empty(t, s.texts)
}

func TestSetQuery_PipelineStopped(t *testing.T) {
	s := &fakeSearcher{err: errors.ServiceUnavailable("search pipeline")}
	rec := serve(newRouter(s, nil), http.MethodPut, "/api/v1/search", `{"text":"go"}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, errors.ErrCodeServiceUnavailable, errorCode(t, rec))
}

func TestArticles(t *testing.T) {
	s := &fakeSearcher{state: search.State{Query: "go", Request: "keyword_search", Seq: 3}}
	rec := serve(newRouter(s, nil), http.MethodGet, "/api/v1/articles", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data search.State `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, uint64(3), body.Data.Seq)
	require.Equal(t, "go", body.Data.Query)
}

func TestArticleByID(t *testing.T) {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://example.com/a"))
	s := &fakeSearcher{articles: map[uuid.UUID]newsapi.Article{id: {ID: id, Title: "A"}}}
	r := newRouter(s, nil)

	rec := serve(r, http.MethodGet, "/api/v1/articles/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"title":"A"`)

	rec = serve(r, http.MethodGet, "/api/v1/articles/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, errors.ErrCodeNotFound, errorCode(t, rec))

	rec = serve(r, http.MethodGet, "/api/v1/articles/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefresh(t *testing.T) {
	s := &fakeSearcher{headlines: true}
	r := newRouter(s, nil)

	require.Equal(t, http.StatusAccepted, serve(r, http.MethodPost, "/api/v1/refresh", `{"kind":"top_headlines"}`).Code)
	require.Equal(t, http.StatusAccepted, serve(r, http.MethodPost, "/api/v1/refresh", `{"kind":"business"}`).Code)
	rec := serve(r, http.MethodPost, "/api/v1/refresh", `{"kind":"keyword_search","text":"Go Lang"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Equal(t, []newsapi.Request{
		newsapi.TopHeadlines(),
		newsapi.BusinessCategory(),
		newsapi.KeywordSearch(true, "go lang"),
	}, s.loads)
}

func TestRefresh_InvalidKind(t *testing.T) {
	s := &fakeSearcher{}
	rec := serve(newRouter(s, nil), http.MethodPost, "/api/v1/refresh", `{"kind":"sports"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "kind")
	require.Empty(t, s.loads)
}

func TestStreamRouteMounted(t *testing.T) {
	stream := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rec := serve(newRouter(&fakeSearcher{}, stream), http.MethodGet, "/api/v1/stream", "")
	require.Equal(t, http.StatusTeapot, rec.Code)

	rec = serve(newRouter(&fakeSearcher{}, nil), http.MethodGet, "/api/v1/stream", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRespondWithError_PlainErrorIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondWithError(c, context.DeadlineExceeded)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, errors.ErrCodeInternal, errorCode(t, rec))
}
