package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config хранит настройки сервиса поиска новостей.
// Ключи API не читаются из файла, только из окружения (NEWS_API, COINMARKETCAP_API).
type Config struct {
	ListenAddr     string         `json:"listen_addr" yaml:"listen_addr"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
	NewsData       ProviderConfig `json:"newsdata" yaml:"newsdata"`
	CoinMarketCap  ProviderConfig `json:"coinmarketcap" yaml:"coinmarketcap"`
	MaxArticles    int            `json:"max_articles" yaml:"max_articles"`
	HTTPTimeout    int            `json:"http_timeout" yaml:"http_timeout"`
	MaxRetries     int            `json:"max_retries" yaml:"max_retries"`
	CacheTTL       int            `json:"cache_ttl" yaml:"cache_ttl"`
	DatabaseURL    string         `json:"database_url" yaml:"database_url"`
	ArchiveWorkers int            `json:"archive_workers" yaml:"archive_workers"`
	ArchiveBuffer  int            `json:"archive_buffer" yaml:"archive_buffer"`
	// SelfURL - адрес, по которому главная страница обращается к /news.
	// Пустое значение означает адрес из входящего запроса.
	SelfURL string `json:"self_url" yaml:"self_url"`
}

// ProviderConfig описывает один внешний источник новостей.
type ProviderConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	APIKey  string `json:"-" yaml:"-"`
}

// Default возвращает конфигурацию, совпадающую с поведением сервиса без файла настроек.
func Default() *Config {
	return &Config{
		ListenAddr:     "127.0.0.1:8000",
		LogLevel:       "info",
		NewsData:       ProviderConfig{BaseURL: "https://newsdata.io"},
		CoinMarketCap:  ProviderConfig{BaseURL: "https://pro-api.coinmarketcap.com"},
		MaxArticles:    11,
		HTTPTimeout:    10,
		MaxRetries:     3,
		ArchiveWorkers: 5,
		ArchiveBuffer:  100,
	}
}

// Validate проверяет адрес, URL источников и числовые ограничения.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return errors.New("listen address must not be empty")
	}
	for name, p := range map[string]ProviderConfig{"newsdata": cfg.NewsData, "coinmarketcap": cfg.CoinMarketCap} {
		if _, err := url.ParseRequestURI(p.BaseURL); err != nil {
			return fmt.Errorf("invalid %s base URL: %s", name, p.BaseURL)
		}
	}
	if cfg.SelfURL != "" {
		if u, err := url.ParseRequestURI(cfg.SelfURL); err != nil || u.Host == "" {
			return fmt.Errorf("invalid self URL: %s", cfg.SelfURL)
		}
	}
	if cfg.MaxArticles < 1 {
		return errors.New("max articles must be ≥ 1")
	}
	if cfg.HTTPTimeout < 1 {
		return errors.New("http timeout must be ≥ 1 second")
	}
	if cfg.MaxRetries < 1 {
		return errors.New("max retries must be ≥ 1")
	}
	if cfg.CacheTTL < 0 {
		return errors.New("cache ttl must not be negative")
	}
	if cfg.DatabaseURL != "" && cfg.ArchiveWorkers < 1 {
		return errors.New("archive workers must be ≥ 1 when database is configured")
	}
	return nil
}

// LoadConfig читает файл path поверх значений по умолчанию.
// Формат определяется расширением: .yaml/.yml или JSON.
// Пустой path означает только значения по умолчанию и окружение.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, cfg)
		default:
			err = json.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadDotEnv подгружает переменные из .env-файлов, если они есть.
// Уже заданные переменные окружения не перезаписываются.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func (cfg *Config) applyEnv() {
	cfg.NewsData.APIKey = os.Getenv("NEWS_API")
	cfg.CoinMarketCap.APIKey = os.Getenv("COINMARKETCAP_API")

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("SELF_URL"); v != "" {
		cfg.SelfURL = v
	}
}
