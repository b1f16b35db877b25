package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto_news/internal/config"
	"crypto_news/internal/db"
	"crypto_news/internal/fetcher"
	"crypto_news/internal/logger"
	"crypto_news/internal/queue"
	"crypto_news/internal/server"
	"crypto_news/internal/worker"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to JSON or YAML config")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		logger.Log.Warnf(".env load error: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Config validation error: %v", err)
	}

	logger.Init(cfg.LogLevel)
	defer logger.Log.Info("Application stopped")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.NewsData.APIKey == "" {
		logger.Log.Warn("NEWS_API is not set, NewsData provider disabled")
	}
	if cfg.CoinMarketCap.APIKey == "" {
		logger.Log.Warn("COINMARKETCAP_API is not set, CoinMarketCap provider disabled")
	}

	client := fetcher.NewClient(time.Duration(cfg.HTTPTimeout)*time.Second, cfg.MaxRetries)
	aggregator := fetcher.NewAggregator(
		time.Duration(cfg.CacheTTL)*time.Second,
		fetcher.NewNewsData(client, cfg.NewsData, cfg.MaxArticles),
		fetcher.NewCoinMarketCap(client, cfg.CoinMarketCap),
	)

	// Архив необязателен: без DATABASE_URL поиск работает без сохранения
	var (
		archive   server.Archive
		publisher server.Publisher
	)
	if cfg.DatabaseURL != "" {
		database, err := db.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Log.Fatalf("DB connection error: %v", err)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			logger.Log.Fatalf("DB migration error: %v", err)
		}

		archiveQueue := queue.New(cfg.ArchiveBuffer, cfg.ArchiveWorkers)
		defer archiveQueue.Close()

		wrk := worker.NewWorker(database)
		archiveQueue.Consume(wrk.HandleTask)

		archive = database
		publisher = archiveQueue
	} else {
		logger.Log.Info("DATABASE_URL is not set, archive disabled")
	}

	srv := server.NewServer(aggregator, archive, publisher).WithSelfURL(cfg.SelfURL)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Log.Infof("Starting HTTP server on http://%s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	ctxShutdown, cancelShutdown := context.WithTimeout(ctx, 5*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Log.Errorf("Forced shutdown: %v", err)
	}
}
