package fetcher

import (
	"context"
	"strings"
	"time"

	"crypto_news/internal/logger"
	"crypto_news/internal/metrics"
	"crypto_news/internal/models"

	"golang.org/x/sync/errgroup"
)

// Aggregator опрашивает всех провайдеров параллельно и объединяет их результаты.
type Aggregator struct {
	providers []Provider
	cache     *Cache
	log       *logger.Entry
}

// NewAggregator создаёт агрегатор. При cacheTTL <= 0 кэш отключён.
func NewAggregator(cacheTTL time.Duration, providers ...Provider) *Aggregator {
	a := &Aggregator{
		providers: providers,
		log:       logger.Component("aggregator"),
	}
	if cacheTTL > 0 {
		a.cache = NewCache(cacheTTL)
	}
	return a
}

// Search возвращает статьи всех провайдеров в порядке их регистрации.
// Ошибка провайдера логируется и равносильна пустому ответу, поэтому
// результат никогда не равен nil.
func (a *Aggregator) Search(ctx context.Context, query string) []models.NewsItem {
	key := strings.ToLower(strings.TrimSpace(query))
	if a.cache != nil {
		if items, ok := a.cache.Get(key); ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			a.log.WithField("query", query).Debug("Serving search from cache")
			return items
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	results := make([][]models.NewsItem, len(a.providers))
	var g errgroup.Group
	for i, p := range a.providers {
		g.Go(func() error {
			results[i] = a.fetch(ctx, p, query)
			return nil
		})
	}
	_ = g.Wait()

	merged := make([]models.NewsItem, 0)
	for _, r := range results {
		merged = append(merged, r...)
	}

	metrics.SearchResults.Observe(float64(len(merged)))
	if a.cache != nil && ctx.Err() == nil {
		a.cache.Set(key, merged)
	}
	return merged
}

func (a *Aggregator) fetch(ctx context.Context, p Provider, query string) []models.NewsItem {
	log := a.log.WithFields(logger.Fields{
		"provider": p.Name(),
		"query":    query,
	})

	start := time.Now()
	items, err := p.Fetch(ctx, query)
	metrics.UpstreamDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(p.Name(), "error").Inc()
		log.Errorf("Failed to fetch news: %v", err)
		return nil
	}

	metrics.UpstreamRequests.WithLabelValues(p.Name(), "ok").Inc()
	log.WithField("items_count", len(items)).Debug("Fetched news")
	return items
}
