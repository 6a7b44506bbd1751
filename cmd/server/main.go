package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_scraper/internal/app/di"
	"stock_scraper/internal/app/router"
	historicaladapters "stock_scraper/internal/feature/historical/adapters"
	historicalhandler "stock_scraper/internal/feature/historical/transport/handler"
	historicalusecase "stock_scraper/internal/feature/historical/usecase"
	quotehandler "stock_scraper/internal/feature/quote/transport/handler"
	quoteusecase "stock_scraper/internal/feature/quote/usecase"
	infradb "stock_scraper/internal/platform/db"
	platformhandler "stock_scraper/internal/platform/http/handler"
	"stock_scraper/internal/platform/logging"
	"stock_scraper/internal/platform/metrics"
	infraredis "stock_scraper/internal/platform/redis"
	"stock_scraper/internal/shared/ratelimiter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	syncLogs, err := logging.Install(logging.LoadConfig())
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer syncLogs()

	if err := run(); err != nil {
		slog.Error("server stopped with error", "error", err)
		syncLogs()
		os.Exit(1)
	}
}

func run() error {
	gin.SetMode(envOr("GIN_MODE", gin.ReleaseMode))

	// db
	db, err := infradb.OpenDB()
	if err != nil {
		return err
	}
	readiness := map[string]platformhandler.Check{"database": platformhandler.DBCheck(db)}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else if tmp != nil {
		rdb = tmp
		readiness["redis"] = platformhandler.RedisCheck(rdb)
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	m := metrics.New("")
	loc := di.HistoryLocation()

	// Repository
	stockRepo := historicaladapters.NewStockRepository(db)
	historyRepo := historicaladapters.NewHistoryRepository(db)

	// Usecase
	quoteUC := quoteusecase.NewQuoteUsecase(di.NewQuoteScraper(m))
	ingestUC := historicalusecase.NewIngestUsecase(di.NewHistoricalMarket(loc, m), stockRepo, historyRepo, ratelimiter.NewFromEnv())
	averageUC := historicalusecase.NewAverageUsecase(stockRepo, historyRepo, loc)

	// ルータ生成
	engine := router.NewRouter(router.Handlers{
		Quote:      quotehandler.NewQuoteHandler(quoteUC),
		Historical: historicalhandler.NewHistoricalHandler(ingestUC),
		Average:    historicalhandler.NewAverageHandler(averageUC),
		Symbols:    historicalhandler.NewSymbolHandler(stockRepo),
	}, router.Options{
		Metrics:         m,
		QuoteCache:      di.NewQuoteCache(rdb),
		HistoricalCache: di.NewHistoricalCache(rdb),
		Readiness:       readiness,
	})

	srv := &http.Server{
		Addr:              ":" + envOr("PORT", "8080"),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "history_timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
