package db

import (
	"context"
	"fmt"
	"time"

	"crypto_news/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS searches (
	id SERIAL PRIMARY KEY,
	query TEXT NOT NULL,
	searched_at TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE TABLE IF NOT EXISTS news (
	id SERIAL PRIMARY KEY,
	headline TEXT NOT NULL,
	origin TEXT NOT NULL,
	publication_date TIMESTAMP WITH TIME ZONE NOT NULL,
	article_url VARCHAR(2048) UNIQUE NOT NULL,
	search_id INTEGER NOT NULL REFERENCES searches(id) ON DELETE CASCADE
);
`

// Database инкапсулирует пул соединений к PostgreSQL с архивом найденных статей.
type Database struct {
	Pool *pgxpool.Pool
}

// NewDB создаёт новый пул соединений по connString и возвращает Database.
func NewDB(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return &Database{Pool: pool}, nil
}

// Close закрывает пул соединений.
func (db *Database) Close() {
	db.Pool.Close()
}

func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate создаёт таблицы searches и news, если их ещё нет.
func (db *Database) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SaveSearch сохраняет запрос и возвращает его id.
func (db *Database) SaveSearch(ctx context.Context, query string, at time.Time) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO searches (query, searched_at)
        VALUES ($1, $2)
        RETURNING id
    `, query, at).Scan(&id)
	return id, err
}

// SaveNewsItem сохраняет одну статью, найденную поиском searchID.
// Если статья с таким article_url уже есть, то операция игнорируется.
func (db *Database) SaveNewsItem(ctx context.Context, item models.NewsItem, publishedAt time.Time, searchID int) error {
	_, err := db.Pool.Exec(ctx, `
        INSERT INTO news (headline, origin, publication_date, article_url, search_id)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (article_url) DO NOTHING
    `, item.Headline, item.Origin, publishedAt, item.ArticleURL, searchID)
	return err
}

// RecentNews возвращает limit последних статей архива, сортированных по дате публикации.
func (db *Database) RecentNews(ctx context.Context, limit int) ([]models.ArchivedNews, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT n.headline, n.origin, n.publication_date, n.article_url, s.query
        FROM news n
        JOIN searches s ON n.search_id = s.id
        ORDER BY n.publication_date DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	news := make([]models.ArchivedNews, 0, limit)
	for rows.Next() {
		var n models.ArchivedNews
		if err := rows.Scan(&n.Headline, &n.Origin, &n.PublishedAt, &n.ArticleURL, &n.Query); err != nil {
			return nil, err
		}
		news = append(news, n)
	}
	return news, rows.Err()
}
