package models

// NewsDataResponse представляет ответ https://newsdata.io/api/1/news.
type NewsDataResponse struct {
	Status  string            `json:"status"`
	Results []NewsDataArticle `json:"results"`
}

// NewsDataArticle представляет статью NewsData. SourceID может отсутствовать.
type NewsDataArticle struct {
	Title    string  `json:"title"`
	Link     string  `json:"link"`
	SourceID *string `json:"source_id"`
	PubDate  string  `json:"pubDate"`
}

// CMCInfoResponse представляет ответ /v1/cryptocurrency/info. Ключи Data совпадают с тикерами.
type CMCInfoResponse struct {
	Data map[string]CMCAsset `json:"data"`
}

type CMCAsset struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URLs   struct {
		Website []string `json:"website"`
	} `json:"urls"`
}
