package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	historicalhandler "stock_scraper/internal/feature/historical/transport/handler"
	quotehandler "stock_scraper/internal/feature/quote/transport/handler"
	"stock_scraper/internal/platform/cache"
	platformhandler "stock_scraper/internal/platform/http/handler"
	"stock_scraper/internal/platform/http/middleware"
	"stock_scraper/internal/platform/metrics"
)

// Handlers はAPIルートに登録する機能ハンドラーです。
type Handlers struct {
	Quote      *quotehandler.QuoteHandler
	Historical *historicalhandler.HistoricalHandler
	Average    *historicalhandler.AverageHandler
	Symbols    *historicalhandler.SymbolHandler
}

// Options はルーター全体に関わるプラットフォーム部品です。nil の項目は無効として扱います。
type Options struct {
	Metrics         *metrics.Metrics
	QuoteCache      *cache.ResponseCache
	HistoricalCache *cache.ResponseCache
	Readiness       map[string]platformhandler.Check
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), cors.Default())
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	quoteCache := opts.QuoteCache
	if quoteCache == nil {
		quoteCache = cache.NewResponseCache(nil, 0, "quote")
	}
	historicalCache := opts.HistoricalCache
	if historicalCache == nil {
		historicalCache = cache.NewResponseCache(nil, 0, "historical")
	}

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.OPTIONS("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Readiness(opts.Readiness))

	api := r.Group("/api")
	{
		// 現在値（スクレイピング）
		api.GET("/stocks/:symbol", quoteCache.Middleware(), h.Quote.GetQuote)
		// 過去データの取り込みと返却
		api.GET("/historical/:symbol", historicalCache.Middleware(), h.Historical.GetHistorical)
		api.POST("/historical/multiple", historicalCache.InvalidateOnSuccess(), h.Historical.PostMultiple)
		// 保存済みデータからの平均終値
		api.GET("/average/:symbol", h.Average.GetAverage)
		// 取り込み済み銘柄の一覧
		api.GET("/symbols", h.Symbols.List)
	}

	return r
}
