package search

import (
	"strings"
	"time"

	"crypto_news/internal/models"
)

const (
	NoResultsText = "No articles found"
	SourceLabel   = "Source: "
	LinkText      = "Full Article"
	InvalidDate   = "Invalid Date"
)

// Card содержит готовые к отображению данные одной статьи.
type Card struct {
	Headline   string
	Source     string
	Date       string
	ArticleURL string
}

// NewCard строит карточку из элемента ответа. Поля не проверяются.
func NewCard(item models.NewsItem, df DateFormat) Card {
	return Card{
		Headline:   item.Headline,
		Source:     SourceLabel + item.Origin,
		Date:       df.Format(item.PublishedAt),
		ArticleURL: item.ArticleURL,
	}
}

// DateFormat задаёт локальное представление календарной даты.
// Время суток отбрасывается.
type DateFormat struct {
	Layout   string
	Location *time.Location
}

// DefaultDateFormat соответствует en-US (1/2/2006) в локальной зоне.
func DefaultDateFormat() DateFormat {
	return DateFormat{Layout: "1/2/2006", Location: time.Local}
}

var zonedLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
}

// без зоны значение трактуется в Location
var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// дата без времени считается полуночью UTC, как в JS Date
const dateOnlyLayout = "2006-01-02"

// Format разбирает отметку времени и возвращает дату в Layout.
// Неразборчивое значение превращается в InvalidDate.
func (f DateFormat) Format(value string) string {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultDateFormat().Layout
	}

	t, ok := parseTimestamp(strings.TrimSpace(value), loc)
	if !ok {
		return InvalidDate
	}
	return t.In(loc).Format(layout)
}

func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
