package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"stock_scraper/internal/platform/cache"
)

const (
	quoteCacheTTL      = 10 * time.Minute
	historicalCacheTTL = 60 * time.Minute
)

// NewQuoteCache creates the response cache for GET /api/stocks/:symbol.
func NewQuoteCache(rdb *redis.Client) *cache.ResponseCache {
	return cache.NewResponseCache(rdb, quoteCacheTTL, "quote")
}

// NewHistoricalCache creates the response cache shared by the historical endpoints.
func NewHistoricalCache(rdb *redis.Client) *cache.ResponseCache {
	return cache.NewResponseCache(rdb, historicalCacheTTL, "historical")
}
