package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stock_scraper/internal/app/di"
	"stock_scraper/internal/app/watchlist"
	historicaladapters "stock_scraper/internal/feature/historical/adapters"
	historicalusecase "stock_scraper/internal/feature/historical/usecase"
	infradb "stock_scraper/internal/platform/db"
	"stock_scraper/internal/platform/logging"
	infraredis "stock_scraper/internal/platform/redis"
	"stock_scraper/internal/shared/ratelimiter"
)

const invalidateTimeout = 10 * time.Second

func main() {
	file := flag.String("file", "", "YAML watchlist with a top-level `symbols` list")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall time limit for the run")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	syncLogs, err := logging.Install(logging.LoadConfig())
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}

	code := run(*file, flag.Args(), *timeout)
	syncLogs()
	os.Exit(code)
}

func run(file string, args []string, timeout time.Duration) int {
	db, err := infradb.OpenDB()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	loc := di.HistoryLocation()
	stockRepo := historicaladapters.NewStockRepository(db)
	historyRepo := historicaladapters.NewHistoryRepository(db)
	uc := historicalusecase.NewIngestUsecase(di.NewHistoricalMarket(loc, nil), stockRepo, historyRepo, ratelimiter.NewFromEnv())

	symbols, err := watchlist.Resolve(ctx, file, args, stockRepo)
	if err != nil {
		slog.Error("failed to resolve symbols", "error", err)
		return 1
	}
	if len(symbols) == 0 {
		slog.Warn("no symbols to ingest")
		return 0
	}

	results := uc.IngestMany(ctx, symbols)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	invalidateHistoricalCache()

	if failed > 0 {
		slog.Error("ingest finished with failures", "failed", failed, "total", len(results))
		return 1
	}
	slog.Info("ingest ok", "symbols", len(results))
	return 0
}

// invalidateHistoricalCache drops cached historical responses so the API serves the new rows.
func invalidateHistoricalCache() {
	rdb, err := infraredis.NewRedisClient(infraredis.LoadConfig())
	if err != nil || rdb == nil {
		return
	}
	defer func() { _ = rdb.Close() }()
	invalidateCache(di.NewHistoricalCache(rdb))
}

type cacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// invalidateCache runs on its own deadline; the ingest timeout may already be spent.
func invalidateCache(c cacheInvalidator) {
	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()
	if err := c.InvalidateAll(ctx); err != nil {
		slog.Warn("failed to invalidate historical cache", "error", err)
	}
}
