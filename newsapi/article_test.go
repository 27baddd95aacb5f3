package newsapi

import (
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func decodeFixture(t *testing.T, name string) []Article {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	defer f.Close()

	articles, err := Decode(f)
	require.NoError(t, err)
	return articles
}

func TestDecode_CamelCaseFixture(t *testing.T) {
	articles := decodeFixture(t, "top_headlines.json")
	require.Len(t, articles, 3)

	first := articles[0]
	require.Equal(t, "Go 1.26 ships with faster generics", first.Title)
	require.Equal(t, "The release trims compile times.", first.Description)
	require.Equal(t, "https://techcrunch.com/2026/02/11/go-1-26/", first.URL)
	require.Equal(t, "https://techcrunch.com/img/go.png", first.ImageURL)
	require.Equal(t, "2026-02-11T16:00:00Z", first.PublishedAt)
	require.Equal(t, "TechCrunch", first.SourceName)

	second := articles[1]
	require.Empty(t, second.Description, "null description decodes to empty")
	require.Empty(t, second.ImageURL, "null image decodes to empty")
	require.Equal(t, "Reuters", second.SourceName)

	third := articles[2]
	require.Empty(t, third.URL)
	require.Equal(t, "Wire", third.SourceName)
}

func TestDecode_SnakeCaseFixture(t *testing.T) {
	articles := decodeFixture(t, "snake_case.json")
	require.Len(t, articles, 2)

	require.Equal(t, "TechCrunch", articles[0].SourceName)
	require.Equal(t, "https://techcrunch.com/seed.png", articles[0].ImageURL)
	require.Equal(t, "2026-03-01T09:00:00Z", articles[0].PublishedAt)

	require.Equal(t, "Bloomberg", articles[1].SourceName)
	require.Equal(t, "2026-03-01T10:00:00Z", articles[1].PublishedAt)
}

func TestDecode_StableIDs(t *testing.T) {
	first := decodeFixture(t, "top_headlines.json")
	again := decodeFixture(t, "top_headlines.json")

	seen := map[uuid.UUID]bool{}
	for i := range first {
		require.NotEqual(t, uuid.Nil, first[i].ID)
		require.Equal(t, first[i].ID, again[i].ID, "IDs must not change between decodes")
		require.False(t, seen[first[i].ID], "IDs must be distinct")
		seen[first[i].ID] = true
	}

	require.Equal(t, uuid.NewSHA1(uuid.NameSpaceURL, []byte(first[0].URL)), first[0].ID)
	require.Equal(t, uuid.Version(5), first[0].ID.Version())
}

func TestArticleID_FallsBackWithoutURL(t *testing.T) {
	a := Article{SourceName: "Wire", Title: "Untitled wire item", PublishedAt: "2026-02-10T08:00:00Z"}
	want := uuid.NewSHA1(uuid.NameSpaceURL, []byte("Wire|Untitled wire item|2026-02-10T08:00:00Z"))
	require.Equal(t, want, articleID(a))

	a.Title = "Another item"
	require.NotEqual(t, want, articleID(a))
}

func TestDecode_EmptyArticles(t *testing.T) {
	articles, err := Decode(strings.NewReader(`{"status":"ok","totalResults":0,"articles":[]}`))
	require.NoError(t, err)
	require.NotNil(t, articles)
	require.Empty(t, articles)
}

func TestDecode_ShapeMismatch(t *testing.T) {
	tests := map[string]string{
		"not json":         `<html>oops</html>`,
		"missing articles": `{"status":"ok","totalResults":0}`,
		"articles object":  `{"articles":{"title":"x"}}`,
		"wrong title type": `{"articles":[{"title":42}]}`,
		"empty record":     `{"articles":[{}]}`,
		"null title":       `{"articles":[{"title":null,"publishedAt":"2026-02-11T16:00:00Z","source":{"name":"Reuters"}}]}`,
		"null source":      `{"articles":[{"title":"x","publishedAt":"2026-02-11T16:00:00Z","source":null}]}`,
		"missing date":     `{"articles":[{"title":"x","source":{"name":"Reuters"}}]}`,
		"optional only":    `{"articles":[{"description":"x"}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(body))
			require.Error(t, err)
			require.True(t, IsTransportOrDecode(err))
			require.Equal(t, "decode", Reason(err))
		})
	}
}

func TestDecode_RepeatedURLGetsDistinctIDs(t *testing.T) {
	body := `{"articles":[
		{"source":{"name":"Reuters"},"title":"Markets open","url":"https://reuters.com/a","publishedAt":"2026-02-11T13:30:00Z"},
		{"source":{"name":"Reuters"},"title":"Markets open (updated)","url":"https://reuters.com/a","publishedAt":"2026-02-11T14:00:00Z"},
		{"source":{"name":"Reuters"},"title":"Markets open (again)","url":"https://reuters.com/a","publishedAt":"2026-02-11T15:00:00Z"}
	]}`
	first, err := Decode(strings.NewReader(body))
	require.NoError(t, err)
	again, err := Decode(strings.NewReader(body))
	require.NoError(t, err)

	require.Len(t, first, 3)
	require.Equal(t, uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://reuters.com/a")), first[0].ID)
	require.NotEqual(t, first[0].ID, first[1].ID)
	require.NotEqual(t, first[1].ID, first[2].ID)
	require.NotEqual(t, first[0].ID, first[2].ID)
	for i := range first {
		require.Equal(t, first[i].ID, again[i].ID)
	}
}
