package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crypto_news/internal/logger"
	"crypto_news/internal/models"
)

// RetryDelay задаёт паузу между попытками запроса к провайдеру.
// Тесты уменьшают её, чтобы не ждать.
var RetryDelay = 2 * time.Second

// Provider описывает внешний источник новостей.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]models.NewsItem, error)
}

// StatusError описывает ответ провайдера с кодом, отличным от 200.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client выполняет GET-запросы к провайдерам с таймаутом и повторами.
type Client struct {
	http       *http.Client
	maxRetries int
}

// NewClient создаёт клиент с таймаутом на один запрос и числом попыток maxRetries.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// GetJSON загружает u и декодирует тело ответа в out.
// Повторяет запрос при сетевых ошибках, 429 и 5xx.
func (c *Client) GetJSON(ctx context.Context, u *url.URL, header http.Header, out any) error {
	log := logger.Log.WithFields(logger.Fields{
		"host": u.Host,
		"path": u.Path,
	})

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		retry, err := c.do(ctx, u, header, out)
		if err == nil {
			return nil
		}
		lastErr = err

		log.WithError(err).WithField("attempt", attempt).Warn("Upstream request failed")
		if !retry || attempt == c.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RetryDelay):
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, u *url.URL, header http.Header, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, err
	}
	for k, vs := range header {
		req.Header[k] = vs
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retry, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ctx.Err() == nil, fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}

func endpoint(base, path string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + path)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", base, err)
	}
	return u, nil
}
