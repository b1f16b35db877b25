package models

import "time"

// NewsItem представляет одну статью в ответе GET /news.
type NewsItem struct {
	Headline    string `json:"headline"`
	ArticleURL  string `json:"article_url"`
	Origin      string `json:"origin"`
	PublishedAt string `json:"published_at"`
}

// SearchRecord содержит результат одного поиска для очереди архивации.
type SearchRecord struct {
	Query      string     `json:"query"`
	Items      []NewsItem `json:"items"`
	SearchedAt time.Time  `json:"searched_at"`
}

// ArchivedNews представляет статью из архива вместе с запросом, по которому она была найдена.
type ArchivedNews struct {
	Headline    string    `json:"headline"`
	ArticleURL  string    `json:"article_url"`
	Origin      string    `json:"origin"`
	PublishedAt time.Time `json:"published_at"`
	Query       string    `json:"query"`
}
