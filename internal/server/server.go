package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crypto_news/internal/logger"
	"crypto_news/internal/metrics"
	"crypto_news/internal/middleware"
	"crypto_news/internal/models"
	"crypto_news/internal/page"
	"crypto_news/internal/queue"
	"crypto_news/internal/search"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// Searcher ищет статьи у внешних провайдеров.
type Searcher interface {
	Search(ctx context.Context, query string) []models.NewsItem
}

// Archive отдаёт статьи, сохранённые после прошлых поисков.
type Archive interface {
	Ping(ctx context.Context) error
	RecentNews(ctx context.Context, limit int) ([]models.ArchivedNews, error)
}

// Publisher принимает задачи на архивацию.
type Publisher interface {
	Publish(body []byte) error
}

// Server хранит зависимости HTTP-обработчиков.
// archive и queue могут быть nil, если архив не настроен.
type Server struct {
	search  Searcher
	archive Archive
	queue   Publisher

	// selfURL: адрес, по которому страница обращается к /news.
	// Пустой означает адрес из входящего запроса.
	selfURL string
	client  *http.Client
	now     func() time.Time
}

// NewServer создаёт новый экземпляр Server.
func NewServer(search Searcher, archive Archive, queue Publisher) *Server {
	return &Server{
		search:  search,
		archive: archive,
		queue:   queue,
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

// WithSelfURL задаёт базовый адрес для серверной отрисовки страницы.
func (s *Server) WithSelfURL(u string) *Server {
	s.selfURL = strings.TrimRight(u, "/")
	return s
}

// Routes возвращает обработчик со всеми маршрутами и middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /news", s.News)
	mux.HandleFunc("GET /api/news", s.GetNews)
	mux.HandleFunc("GET /api/news/{limit}", s.GetNews)
	mux.HandleFunc("GET /health", s.HealthCheck)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /style.css", s.Style)
	mux.HandleFunc("GET /{$}", s.Index)

	handler := middleware.RequestIDMiddleware(mux)
	return middleware.LoggingMiddleware(handler)
}

// News отвечает JSON-массивом статей по запросу crypto_query.
// Без параметра отвечает 400, пустой запрос даёт пустой массив.
func (s *Server) News(w http.ResponseWriter, r *http.Request) {
	values, ok := r.URL.Query()["crypto_query"]
	if !ok {
		http.Error(w, "missing crypto_query parameter", http.StatusBadRequest)
		return
	}

	query := strings.TrimSpace(values[0])
	items := []models.NewsItem{}
	if query != "" {
		items = s.search.Search(r.Context(), query)
		s.publish(r.Context(), query, items)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(items); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (s *Server) publish(ctx context.Context, query string, items []models.NewsItem) {
	if s.queue == nil || len(items) == 0 {
		return
	}
	log := logger.Log.WithFields(logger.Fields{
		"query":      query,
		"request_id": middleware.RequestIDFromContext(ctx),
	})

	body, err := json.Marshal(models.SearchRecord{Query: query, Items: items, SearchedAt: s.now().UTC()})
	if err != nil {
		log.Errorf("Failed to encode archive task: %v", err)
		return
	}

	if err := s.queue.Publish(body); err != nil {
		metrics.ArchiveTasks.WithLabelValues("dropped").Inc()
		if errors.Is(err, queue.ErrQueueFull) {
			log.Warn("Archive queue is full, dropping search")
			return
		}
		log.Errorf("Failed to publish archive task: %v", err)
		return
	}
	metrics.ArchiveTasks.WithLabelValues("published").Inc()
}

// GetNews возвращает JSON-массив последних limit статей архива.
func (s *Server) GetNews(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		http.Error(w, "archive is not configured", http.StatusServiceUnavailable)
		return
	}

	limit, err := strconv.Atoi(r.PathValue("limit"))
	if err != nil || limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	news, err := s.archive.RecentNews(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load archived news")
		http.Error(w, "Failed to load news", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(news); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// HealthCheck отвечает 200 OK, если база доступна или не настроена, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.archive != nil {
		if err := s.archive.Ping(r.Context()); err != nil {
			http.Error(w, "DB unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Write([]byte("OK"))
}

// Index отдаёт страницу поиска. С параметром crypto_query страница
// отрисовывается на сервере через тот же /news.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	p := page.Default()

	if query := r.URL.Query().Get("crypto_query"); query != "" {
		in, err := p.Input(page.SearchInputID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out, err := p.Container(page.ResultsID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		in.SetValue(query)

		search.New(s.baseURL(r), in, out, search.Options{
			Client: s.client,
			Log:    logger.Component("search").WithField("request_id", middleware.RequestIDFromContext(r.Context())),
		}).Run(r.Context())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.Render(w); err != nil {
		logger.Log.WithError(err).Error("Failed to render page")
	}
}

func (s *Server) Style(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Write(page.StyleCSS)
}

func (s *Server) baseURL(r *http.Request) string {
	if s.selfURL != "" {
		return s.selfURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
