package fetcher

import (
	"context"
	"net/http"
	"time"

	"crypto_news/internal/config"
	"crypto_news/internal/logger"
	"crypto_news/internal/models"
)

const cmcOrigin = "CoinMarketCap"

// CoinMarketCap превращает карточку актива CoinMarketCap в одну «статью» со ссылкой на сайт проекта.
type CoinMarketCap struct {
	client  *Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

func NewCoinMarketCap(client *Client, cfg config.ProviderConfig) *CoinMarketCap {
	return &CoinMarketCap{
		client:  client,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		now:     time.Now,
	}
}

func (c *CoinMarketCap) Name() string { return "coinmarketcap" }

func (c *CoinMarketCap) Fetch(ctx context.Context, query string) ([]models.NewsItem, error) {
	if c.apiKey == "" {
		logger.Log.WithField("provider", c.Name()).Debug("API key is not set, skipping")
		return nil, nil
	}

	u, err := endpoint(c.baseURL, "/v1/cryptocurrency/info")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbol", query)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("X-CMC_PRO_API_KEY", c.apiKey)

	var resp models.CMCInfoResponse
	if err := c.client.GetJSON(ctx, u, header, &resp); err != nil {
		return nil, err
	}

	// ключи data совпадают с тикером в том виде, в каком он был запрошен
	asset, ok := resp.Data[query]
	if !ok || len(asset.URLs.Website) == 0 {
		return nil, nil
	}

	return []models.NewsItem{{
		Headline:    query + " Overview",
		ArticleURL:  asset.URLs.Website[0],
		Origin:      cmcOrigin,
		PublishedAt: c.now().UTC().Format(time.RFC3339),
	}}, nil
}
