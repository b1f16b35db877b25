// Package search запрашивает новости у эндпоинта /news и перерисовывает
// контейнер результатов: по одной карточке на статью.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"crypto_news/internal/logger"
	"crypto_news/internal/models"
)

const (
	DefaultPath = "/news"
	QueryParam  = "crypto_query"
)

// Input отдаёт текст поискового запроса.
type Input interface {
	Value() string
}

// Container принимает результаты поиска.
type Container interface {
	Clear()
	ShowPlaceholder(text string)
	AppendCard(card Card)
}

// Options содержит необязательные параметры Searcher.
type Options struct {
	Client *http.Client
	// Path эндпоинта, по умолчанию DefaultPath.
	Path string
	// Timeout на один запрос, ноль отключает ограничение.
	Timeout    time.Duration
	DateFormat *DateFormat
	Log        *logger.Entry
}

// Searcher связывает поле ввода и контейнер с эндпоинтом поиска.
// Новый запуск отменяет незавершённый предыдущий, а ответ,
// пришедший не на последний запуск, отбрасывается.
type Searcher struct {
	baseURL   string
	input     Input
	container Container

	client  *http.Client
	path    string
	timeout time.Duration
	dates   DateFormat
	log     *logger.Entry

	mu     sync.Mutex // seq, cancel и запись в container
	seq    uint64
	cancel context.CancelFunc
}

func New(baseURL string, input Input, container Container, opts Options) *Searcher {
	s := &Searcher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		input:     input,
		container: container,
		client:    opts.Client,
		path:      opts.Path,
		timeout:   opts.Timeout,
		dates:     DefaultDateFormat(),
		log:       opts.Log,
	}
	if s.client == nil {
		s.client = http.DefaultClient
	}
	if s.path == "" {
		s.path = DefaultPath
	}
	if opts.DateFormat != nil {
		s.dates = *opts.DateFormat
	}
	if s.log == nil {
		s.log = logger.Component("search")
	}
	return s
}

// Run читает запрос из поля ввода и перерисовывает контейнер.
// Пустой запрос ничего не делает. Ошибки сети и разбора ответа только
// логируются, контейнер при этом остаётся в прежнем состоянии.
func (s *Searcher) Run(ctx context.Context) {
	query := strings.TrimSpace(s.input.Value())
	if query == "" {
		return
	}

	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	seq := s.begin(cancel)
	defer s.end(seq, cancel)

	log := s.log.WithFields(logger.Fields{
		"query": query,
		"seq":   seq,
	})

	items, err := s.fetch(ctx, query)
	if err != nil {
		if s.superseded(seq) {
			log.WithError(err).Debug("Search superseded by a newer one")
			return
		}
		log.WithError(err).Error("Error fetching news")
		return
	}

	if !s.render(seq, items) {
		log.Debug("Discarding stale response")
		return
	}
	log.WithField("items_count", len(items)).Debug("Rendered search results")
}

func (s *Searcher) begin(cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	s.cancel = cancel
	return s.seq
}

func (s *Searcher) end(seq uint64, cancel context.CancelFunc) {
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == seq {
		s.cancel = nil
	}
}

func (s *Searcher) superseded(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq != seq
}

func (s *Searcher) render(seq uint64, items []models.NewsItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq != seq {
		return false
	}

	s.container.Clear()
	if len(items) == 0 {
		s.container.ShowPlaceholder(NoResultsText)
		return true
	}
	for _, item := range items {
		s.container.AppendCard(NewCard(item, s.dates))
	}
	return true
}

func (s *Searcher) fetch(ctx context.Context, query string) ([]models.NewsItem, error) {
	u := s.baseURL + s.path + "?" + QueryParam + "=" + EncodeQuery(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read news: %w", err)
	}

	var raw []*models.NewsItem
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode news: %w", err)
	}

	items := make([]models.NewsItem, 0, len(raw))
	for i, item := range raw {
		if item == nil {
			return nil, fmt.Errorf("decode news: item %d is null", i)
		}
		items = append(items, *item)
	}
	return items, nil
}

var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeQuery кодирует значение параметра так же, как encodeURIComponent:
// пробел становится %20, а символы !'()* не экранируются.
func EncodeQuery(v string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(v))
}
