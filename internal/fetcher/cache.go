package fetcher

import (
	"sync"
	"time"

	"crypto_news/internal/models"
)

type cacheEntry struct {
	items     []models.NewsItem
	expiresAt time.Time
}

// Cache хранит результаты поиска по нормализованному запросу в течение ttl.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get возвращает копию сохранённого результата, если он ещё не истёк.
func (c *Cache) Get(key string) ([]models.NewsItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return append([]models.NewsItem(nil), e.items...), true
}

// Set сохраняет результат и заодно удаляет истёкшие записи.
func (c *Cache) Set(key string, items []models.NewsItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{
		items:     append([]models.NewsItem(nil), items...),
		expiresAt: now.Add(c.ttl),
	}
}

// Len возвращает количество записей, включая ещё не удалённые истёкшие.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
