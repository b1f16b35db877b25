package fetcher

import (
	"context"
	"strings"

	"crypto_news/internal/config"
	"crypto_news/internal/logger"
	"crypto_news/internal/models"
)

const defaultNewsDataOrigin = "NewsData"

// NewsData ищет статьи через newsdata.io.
type NewsData struct {
	client  *Client
	baseURL string
	apiKey  string
	limit   int
}

func NewNewsData(client *Client, cfg config.ProviderConfig, limit int) *NewsData {
	return &NewsData{
		client:  client,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limit:   limit,
	}
}

func (n *NewsData) Name() string { return "newsdata" }

// Fetch возвращает не больше limit статей по запросу.
// Тикер заменяется названием актива, например BTC -> bitcoin.
// Без ключа API возвращает пустой результат.
func (n *NewsData) Fetch(ctx context.Context, query string) ([]models.NewsItem, error) {
	if n.apiKey == "" {
		logger.Log.WithField("provider", n.Name()).Debug("API key is not set, skipping")
		return nil, nil
	}

	u, err := endpoint(n.baseURL, "/api/1/news")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("apikey", n.apiKey)
	q.Set("q", strings.ToLower(SymbolName(query)))
	q.Set("language", "en")
	u.RawQuery = q.Encode()

	var resp models.NewsDataResponse
	if err := n.client.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, err
	}

	items := make([]models.NewsItem, 0, min(len(resp.Results), n.limit))
	for _, a := range resp.Results {
		if len(items) >= n.limit {
			break
		}
		origin := defaultNewsDataOrigin
		if a.SourceID != nil {
			origin = *a.SourceID
		}
		items = append(items, models.NewsItem{
			Headline:    a.Title,
			ArticleURL:  a.Link,
			Origin:      origin,
			PublishedAt: a.PubDate,
		})
	}
	return items, nil
}
