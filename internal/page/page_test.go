package page_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crypto_news/internal/page"
	"crypto_news/internal/search"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestDefaultPage(t *testing.T) {
	p := page.Default()

	in, err := p.Input(page.SearchInputID)
	require.NoError(t, err)
	require.Equal(t, "", in.Value())

	in.SetValue("bitcoin")
	require.Equal(t, "bitcoin", in.Value())

	out, err := p.Container(page.ResultsID)
	require.NoError(t, err)
	require.Zero(t, out.Len())

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	require.Contains(t, buf.String(), `id="cryptoSearch"`)
	require.Contains(t, buf.String(), `value="bitcoin"`)
}

func TestMissingElement(t *testing.T) {
	p, err := page.Parse(strings.NewReader(`<html><body><div id="other"></div></body></html>`))
	require.NoError(t, err)

	_, err = p.Input("cryptoSearch")
	require.Error(t, err)
	_, err = p.Container("newsResults")
	require.Error(t, err)
	require.Error(t, p.RenderInner("newsResults", &bytes.Buffer{}))
}

func TestContainer(t *testing.T) {
	p, err := page.Parse(strings.NewReader(`<div id="results"><p>old</p><p>older</p></div>`))
	require.NoError(t, err)

	out, err := p.Container("results")
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	out.Clear()
	require.Zero(t, out.Len())

	out.AppendCard(search.Card{
		Headline:   `<script>alert("x")</script>`,
		Source:     "Source: A & B",
		Date:       "1/1/2024",
		ArticleURL: `https://example.com/a?b=1&c="2"`,
	})
	require.Equal(t, 1, out.Len())

	var buf bytes.Buffer
	require.NoError(t, p.RenderInner("results", &buf))
	markup := buf.String()

	require.Equal(t,
		`<article class="news-card">`+
			`<h3 class="article-title">&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;</h3>`+
			`<div class="article-meta"><span class="source">Source: A &amp; B</span><time class="date">1/1/2024</time></div>`+
			`<a href="https://example.com/a?b=1&amp;c=&#34;2&#34;" class="read-more" target="_blank" rel="noopener">Full Article</a>`+
			`</article>`,
		markup)

	out.Clear()
	out.ShowPlaceholder("No articles found")
	buf.Reset()
	require.NoError(t, p.RenderInner("results", &buf))
	require.Equal(t, `<p>No articles found</p>`, buf.String())
	require.Equal(t, "No articles found", out.Text())
}

func TestSearchRendersIntoPage(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		wantLen  int
		wantText []string
	}{
		{
			name:     "one card",
			body:     `[{"headline":"BTC rallies","origin":"CoinDesk","published_at":"2024-01-01T00:00:00Z","article_url":"https://example.com/a"}]`,
			wantLen:  1,
			wantText: []string{"BTC rallies", "Source: CoinDesk", "1/1/2024", "Full Article"},
		},
		{
			name:     "no articles",
			body:     `[]`,
			wantLen:  1,
			wantText: []string{"No articles found"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "bitcoin", r.URL.Query().Get("crypto_query"))
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			p := page.Default()
			in, _ := p.Input(page.SearchInputID)
			out, _ := p.Container(page.ResultsID)
			out.ShowPlaceholder("previous results")
			in.SetValue(" bitcoin ")

			l, _ := test.NewNullLogger()
			s := search.New(server.URL, in, out, search.Options{
				DateFormat: &search.DateFormat{Layout: "1/2/2006", Location: time.UTC},
				Log:        logrus.NewEntry(l),
			})
			s.Run(context.Background())

			require.Equal(t, tc.wantLen, out.Len())
			for _, text := range tc.wantText {
				require.Contains(t, out.Text(), text)
			}
			require.NotContains(t, out.Text(), "previous results")
		})
	}
}

func TestSearchFailureKeepsPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	p := page.Default()
	in, _ := p.Input(page.SearchInputID)
	out, _ := p.Container(page.ResultsID)
	out.ShowPlaceholder("previous results")
	in.SetValue("eth")

	l, hook := test.NewNullLogger()
	search.New(server.URL, in, out, search.Options{Log: logrus.NewEntry(l)}).Run(context.Background())

	require.Equal(t, "previous results", out.Text())
	require.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
