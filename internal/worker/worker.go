package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crypto_news/internal/logger"
	"crypto_news/internal/metrics"
	"crypto_news/internal/models"
)

// Store описывает методы db.Database, нужные для архивации.
type Store interface {
	SaveSearch(ctx context.Context, query string, at time.Time) (int, error)
	SaveNewsItem(ctx context.Context, item models.NewsItem, publishedAt time.Time, searchID int) error
}

// Worker сохраняет результаты поиска в архив.
type Worker struct {
	db Store
}

func NewWorker(db Store) *Worker {
	return &Worker{db: db}
}

// HandleTask разбирает models.SearchRecord из body и сохраняет запрос и статьи.
// Статьи с неразборчивой датой пропускаются.
func (w *Worker) HandleTask(body []byte) error {
	ctx := context.Background()

	var rec models.SearchRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		metrics.ArchiveTasks.WithLabelValues("failed").Inc()
		return fmt.Errorf("decode task: %w", err)
	}

	log := logger.Log.WithField("query", rec.Query)
	log.Debug("Archiving search")

	searchID, err := w.db.SaveSearch(ctx, rec.Query, rec.SearchedAt)
	if err != nil {
		metrics.ArchiveTasks.WithLabelValues("failed").Inc()
		log.Errorf("Save search failed: %v", err)
		return err
	}

	saved := 0
	for _, item := range rec.Items {
		pubDate, err := ParseDate(item.PublishedAt)
		if err != nil {
			log.Warnf("Parse date failed: %v", err)
			continue
		}

		if err := w.db.SaveNewsItem(ctx, item, pubDate, searchID); err != nil {
			log.Warnf("Save item failed: %v", err)
			continue
		}
		saved++
	}

	metrics.ArchiveTasks.WithLabelValues("done").Inc()
	log.Infof("Archived %d of %d items", saved, len(rec.Items))
	return nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// ParseDate разбирает дату публикации в форматах провайдеров. Значения без зоны считаются UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q", s)
}
