// Package page держит HTML-документ в памяти и даёт доступ к полю поиска
// и контейнеру результатов по их id.
package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"crypto_news/internal/search"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	SearchInputID = "cryptoSearch"
	ResultsID     = "newsResults"
)

//go:embed web/index.html
var indexHTML []byte

//go:embed web/style.css
var StyleCSS []byte

// Page хранит разобранный HTML-документ. Все изменения дерева идут под mu.
type Page struct {
	mu   sync.Mutex
	root *html.Node
}

// Parse разбирает HTML-документ.
func Parse(r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Page{root: root}, nil
}

// Default возвращает встроенную страницу поиска.
func Default() *Page {
	p, err := Parse(bytes.NewReader(indexHTML))
	if err != nil {
		panic(err)
	}
	return p
}

// Render пишет документ целиком.
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return html.Render(w, p.root)
}

// RenderInner пишет только содержимое элемента с данным id.
func (p *Page) RenderInner(id string, w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := findByID(p.root, id)
	if n == nil {
		return fmt.Errorf("element #%s not found", id)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

func (p *Page) Input(id string) (*Input, error) {
	n, err := p.element(id)
	if err != nil {
		return nil, err
	}
	return &Input{page: p, node: n}, nil
}

func (p *Page) Container(id string) (*Container, error) {
	n, err := p.element(id)
	if err != nil {
		return nil, err
	}
	return &Container{page: p, node: n}, nil
}

func (p *Page) element(id string) (*html.Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := findByID(p.root, id)
	if n == nil {
		return nil, fmt.Errorf("element #%s not found", id)
	}
	return n, nil
}

// Input представляет элемент, значение которого хранится в атрибуте value.
type Input struct {
	page *Page
	node *html.Node
}

func (i *Input) Value() string {
	i.page.mu.Lock()
	defer i.page.mu.Unlock()
	return attr(i.node, "value")
}

func (i *Input) SetValue(v string) {
	i.page.mu.Lock()
	defer i.page.mu.Unlock()
	setAttr(i.node, "value", v)
}

// Container реализует search.Container поверх узла документа.
type Container struct {
	page *Page
	node *html.Node
}

var _ search.Container = (*Container)(nil)

func (c *Container) Clear() {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()

	for c.node.FirstChild != nil {
		c.node.RemoveChild(c.node.FirstChild)
	}
}

func (c *Container) ShowPlaceholder(text string) {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()

	p := element(atom.P)
	p.AppendChild(textNode(text))
	c.node.AppendChild(p)
}

// AppendCard добавляет карточку:
//
//	<article class="news-card">
//	  <h3 class="article-title">…</h3>
//	  <div class="article-meta"><span class="source">…</span><time class="date">…</time></div>
//	  <a href="…" class="read-more" target="_blank" rel="noopener">Full Article</a>
//	</article>
func (c *Container) AppendCard(card search.Card) {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()

	article := element(atom.Article, "class", "news-card")

	title := element(atom.H3, "class", "article-title")
	title.AppendChild(textNode(card.Headline))
	article.AppendChild(title)

	meta := element(atom.Div, "class", "article-meta")
	source := element(atom.Span, "class", "source")
	source.AppendChild(textNode(card.Source))
	date := element(atom.Time, "class", "date")
	date.AppendChild(textNode(card.Date))
	meta.AppendChild(source)
	meta.AppendChild(date)
	article.AppendChild(meta)

	link := element(atom.A, "href", card.ArticleURL, "class", "read-more", "target", "_blank", "rel", "noopener")
	link.AppendChild(textNode(search.LinkText))
	article.AppendChild(link)

	c.node.AppendChild(article)
}

// Len возвращает число дочерних элементов контейнера.
func (c *Container) Len() int {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()

	n := 0
	for ch := c.node.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			n++
		}
	}
	return n
}

// Text возвращает текст контейнера без разметки.
func (c *Container) Text() string {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()

	var b strings.Builder
	collectText(c.node, &b)
	return b.String()
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
