package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kbukum/newsfeed/newsapi"
	"github.com/kbukum/newsfeed/search"
)

const wrapWidth = 88

// renderer prints result lists for a terminal. Colors are dropped when the
// writer is not a terminal.
type renderer struct {
	out     io.Writer
	header  lipgloss.Style
	title   lipgloss.Style
	body    lipgloss.Style
	meta    lipgloss.Style
	failure lipgloss.Style
}

func newRenderer(out io.Writer) *renderer {
	r := lipgloss.NewRenderer(out)
	return &renderer{
		out:     out,
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		title:   r.NewStyle().Bold(true),
		body:    r.NewStyle().Width(wrapWidth).PaddingLeft(4),
		meta:    r.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(4),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// state prints one published search state.
func (r *renderer) state(st search.State) error {
	label := st.Request
	if st.Query != "" {
		label = fmt.Sprintf("%s %q", label, st.Query)
	}
	if st.Headlines {
		label += " in top headlines"
	}
	return r.results(fmt.Sprintf("#%d %s", st.Seq, label), st.Articles, st.LastError)
}

// results prints a header line and the numbered article list.
func (r *renderer) results(label string, articles []newsapi.Article, failure *search.ErrorInfo) error {
	var b strings.Builder
	b.WriteString(r.header.Render(fmt.Sprintf("%s (%d articles)", label, len(articles))))
	b.WriteString("\n")
	if failure != nil {
		b.WriteString(r.failure.Render(fmt.Sprintf("  %s: %s", failure.Kind, failure.Message)))
		b.WriteString("\n")
	}
	for i, a := range articles {
		fmt.Fprintf(&b, "%3d. %s\n", i+1, r.title.Render(a.Title))
		if a.Description != "" {
			b.WriteString(r.body.Render(a.Description))
			b.WriteString("\n")
		}
		if m := articleMeta(a); m != "" {
			b.WriteString(r.meta.Render(m))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	_, err := io.WriteString(r.out, b.String())
	return err
}

func articleMeta(a newsapi.Article) string {
	var parts []string
	for _, p := range []string{a.SourceName, a.PublishedAt, a.URL} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}
