package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"crypto_news/internal/config"
	"crypto_news/internal/fetcher"
	"crypto_news/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	fetcher.RetryDelay = time.Millisecond
}

func TestClientGetJSON(t *testing.T) {
	testCases := []struct {
		name      string
		responses []int
		body      string
		wantCalls int32
		wantErr   bool
	}{
		{name: "ok", responses: []int{200}, body: `{"status":"success"}`, wantCalls: 1},
		{name: "retry on 503", responses: []int{503, 503, 200}, body: `{"status":"success"}`, wantCalls: 3},
		{name: "retry on 429", responses: []int{429, 200}, body: `{"status":"success"}`, wantCalls: 2},
		{name: "no retry on 400", responses: []int{400}, body: `bad request`, wantCalls: 1, wantErr: true},
		{name: "retries exhausted", responses: []int{500, 500, 500}, body: `oops`, wantCalls: 3, wantErr: true},
		{name: "invalid json", responses: []int{200}, body: `{ invalid`, wantCalls: 1, wantErr: true},
		{name: "trailing garbage", responses: []int{200}, body: `{"ok":true} trailing`, wantCalls: 1, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				code := tc.responses[min(int(n), len(tc.responses))-1]
				w.WriteHeader(code)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			u, err := url.Parse(server.URL)
			require.NoError(t, err)

			var out models.NewsDataResponse
			err = fetcher.NewClient(time.Second, 3).GetJSON(context.Background(), u, nil, &out)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, "success", out.Status)
			}
			require.Equal(t, tc.wantCalls, calls.Load())
		})
	}
}

func TestClientGetJSON_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	u, _ := url.Parse(server.URL)
	var out map[string]any
	err := fetcher.NewClient(time.Second, 1).GetJSON(context.Background(), u, nil, &out)

	var statusErr *fetcher.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusForbidden, statusErr.Code)
	require.Equal(t, "forbidden", statusErr.Body)
}

func TestNewsDataFetch(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/1/news", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"status":"success","results":[
			{"title":"BTC rallies","link":"https://example.com/a","source_id":"coindesk","pubDate":"2024-01-01 10:00:00"},
			{"title":"No source","link":"https://example.com/b","pubDate":"2024-01-02 11:00:00"},
			{"title":"Third","link":"https://example.com/c","source_id":"decrypt","pubDate":"2024-01-03 12:00:00"}
		]}`))
	}))
	defer server.Close()

	client := fetcher.NewClient(time.Second, 1)
	p := fetcher.NewNewsData(client, config.ProviderConfig{BaseURL: server.URL, APIKey: "secret"}, 2)

	items, err := p.Fetch(context.Background(), "BTC")
	require.NoError(t, err)

	require.Equal(t, "secret", gotQuery.Get("apikey"))
	require.Equal(t, "bitcoin", gotQuery.Get("q"))
	require.Equal(t, "en", gotQuery.Get("language"))

	require.Len(t, items, 2)
	require.Equal(t, models.NewsItem{
		Headline:    "BTC rallies",
		ArticleURL:  "https://example.com/a",
		Origin:      "coindesk",
		PublishedAt: "2024-01-01 10:00:00",
	}, items[0])
	require.Equal(t, "NewsData", items[1].Origin)
}

func TestNewsDataFetch_NoAPIKey(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	p := fetcher.NewNewsData(fetcher.NewClient(time.Second, 1), config.ProviderConfig{BaseURL: server.URL}, 11)
	items, err := p.Fetch(context.Background(), "eth")
	require.NoError(t, err)
	require.Empty(t, items)
	require.Zero(t, calls.Load())
}

func TestCoinMarketCapFetch(t *testing.T) {
	testCases := []struct {
		name  string
		query string
		body  string
		want  []string
	}{
		{
			name:  "asset with website",
			query: "ETH",
			body:  `{"data":{"ETH":{"name":"Ethereum","symbol":"ETH","urls":{"website":["https://ethereum.org/","https://other"]}}}}`,
			want:  []string{"https://ethereum.org/"},
		},
		{
			name:  "asset without website",
			query: "ETH",
			body:  `{"data":{"ETH":{"name":"Ethereum","symbol":"ETH","urls":{"website":[]}}}}`,
		},
		{
			name:  "symbol case must match",
			query: "eth",
			body:  `{"data":{"ETH":{"urls":{"website":["https://ethereum.org/"]}}}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/v1/cryptocurrency/info", r.URL.Path)
				require.Equal(t, "cmc-key", r.Header.Get("X-CMC_PRO_API_KEY"))
				require.Equal(t, tc.query, r.URL.Query().Get("symbol"))
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			p := fetcher.NewCoinMarketCap(fetcher.NewClient(time.Second, 1), config.ProviderConfig{BaseURL: server.URL, APIKey: "cmc-key"})
			items, err := p.Fetch(context.Background(), tc.query)
			require.NoError(t, err)
			require.Len(t, items, len(tc.want))

			for i, item := range items {
				assert.Equal(t, tc.want[i], item.ArticleURL)
				assert.Equal(t, tc.query+" Overview", item.Headline)
				assert.Equal(t, "CoinMarketCap", item.Origin)
				_, err := time.Parse(time.RFC3339, item.PublishedAt)
				assert.NoError(t, err)
			}
		})
	}
}

func TestSymbolName(t *testing.T) {
	testCases := map[string]string{
		"BTC":     "Bitcoin",
		"btc":     "Bitcoin",
		"Shib":    "Shiba Inu",
		"EUR":     "Euro",
		"bitcoin": "bitcoin",
		"XYZ":     "XYZ",
	}
	for in, want := range testCases {
		assert.Equal(t, want, fetcher.SymbolName(in), in)
	}
}

type fakeProvider struct {
	name  string
	items []models.NewsItem
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(ctx context.Context, query string) ([]models.NewsItem, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.items, f.err
}

func TestAggregatorSearch(t *testing.T) {
	slow := &fakeProvider{
		name:  "slow",
		delay: 20 * time.Millisecond,
		items: []models.NewsItem{{Headline: "first"}, {Headline: "second"}},
	}
	broken := &fakeProvider{name: "broken", err: errors.New("boom")}
	fast := &fakeProvider{name: "fast", items: []models.NewsItem{{Headline: "third"}}}

	agg := fetcher.NewAggregator(0, slow, broken, fast)
	items := agg.Search(context.Background(), "btc")

	require.Len(t, items, 3)
	require.Equal(t, "first", items[0].Headline)
	require.Equal(t, "second", items[1].Headline)
	require.Equal(t, "third", items[2].Headline)
}

func TestAggregatorSearch_EmptyIsNotNil(t *testing.T) {
	agg := fetcher.NewAggregator(0, &fakeProvider{name: "empty"})
	items := agg.Search(context.Background(), "btc")
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestAggregatorSearch_Cache(t *testing.T) {
	p := &fakeProvider{name: "p", items: []models.NewsItem{{Headline: "cached"}}}
	agg := fetcher.NewAggregator(time.Minute, p)

	first := agg.Search(context.Background(), "BTC")
	second := agg.Search(context.Background(), "  btc ")

	require.Equal(t, first, second)
	require.Equal(t, int32(1), p.calls.Load())

	agg.Search(context.Background(), "eth")
	require.Equal(t, int32(2), p.calls.Load())
}

func TestCache_Expiry(t *testing.T) {
	c := fetcher.NewCache(10 * time.Millisecond)
	c.Set("btc", []models.NewsItem{{Headline: "a"}})

	items, ok := c.Get("btc")
	require.True(t, ok)
	require.Len(t, items, 1)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("btc")
	require.False(t, ok)

	c.Set("eth", nil)
	require.Equal(t, 1, c.Len())
}
