package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"stock_scraper/internal/feature/historical/domain/entity"
	"stock_scraper/internal/shared/ratelimiter"
)

// IngestResult はバッチ取り込みにおける1銘柄分の結果です。
// Err が nil でない場合、Points と Inserted は意味を持ちません。
type IngestResult struct {
	Points   []entity.PricePoint
	Inserted int
	Err      error
}

// IngestUsecase は外部APIから過去の株価を取得し、重複なくデータベースに取り込むユースケースです。
type IngestUsecase struct {
	market      MarketRepository
	stocks      StockRepository
	history     HistoryRepository
	rateLimiter ratelimiter.RateLimiterInterface

	// 同一銘柄への同時リクエストは1回の取得にまとめる
	group singleflight.Group
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market MarketRepository, stocks StockRepository, history HistoryRepository, rateLimiter ratelimiter.RateLimiterInterface) *IngestUsecase {
	return &IngestUsecase{market: market, stocks: stocks, history: history, rateLimiter: rateLimiter}
}

// Ingest は銘柄の過去データを取得して保存し、今回取得した正規化済みの系列を返します。
//
// 銘柄レコードは取得より前にコミットされるため、取得に失敗しても残ります。
// 返す系列は新規挿入件数に関係なく、上流の順序どおりの全件（同日の重複を含む）です。
func (iu *IngestUsecase) Ingest(ctx context.Context, symbol string) ([]entity.PricePoint, error) {
	res := iu.ingestShared(ctx, symbol)
	return res.Points, res.Err
}

// IngestMany は各銘柄を順番に取り込みます。重複した銘柄は最初の1回だけ処理します。
// ある銘柄の失敗は結果に記録され、他の銘柄の処理は継続されます。
func (iu *IngestUsecase) IngestMany(ctx context.Context, symbols []string) map[string]IngestResult {
	out := make(map[string]IngestResult, len(symbols))
	for _, s := range symbols {
		if _, done := out[s]; done {
			continue
		}
		res := iu.ingestShared(ctx, s)
		if res.Err != nil {
			// 1つの銘柄でエラーが発生しても処理を止めずにログに出力し、次の銘柄へ
			slog.Error("failed to ingest data", "symbol", s, "error", res.Err)
		}
		out[s] = res
	}
	return out
}

func (iu *IngestUsecase) ingestShared(ctx context.Context, symbol string) IngestResult {
	v, _, shared := iu.group.Do(symbol, func() (any, error) {
		return iu.ingestOne(ctx, symbol), nil
	})
	res := v.(IngestResult)
	if shared && res.Points != nil {
		res.Points = append([]entity.PricePoint(nil), res.Points...)
	}
	return res
}

// ingestOne は1銘柄分の取り込み処理本体です。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol string) IngestResult {
	stock, err := iu.stocks.FindOrCreate(ctx, symbol)
	if err != nil {
		return IngestResult{Err: fmt.Errorf("resolve stock %q: %w", symbol, err)}
	}

	if iu.rateLimiter != nil {
		if err := iu.rateLimiter.WaitIfNeeded(ctx); err != nil {
			return IngestResult{Err: err}
		}
	}

	points, err := iu.market.GetHistoricalPrices(ctx, symbol)
	if err != nil {
		return IngestResult{Err: err}
	}

	inserted, err := iu.history.MergeHistory(ctx, stock.ID, points)
	if err != nil {
		return IngestResult{Err: fmt.Errorf("merge history for %q: %w", symbol, err)}
	}

	slog.Info("historical data ingested", "symbol", symbol, "fetched", len(points), "inserted", inserted)
	return IngestResult{Points: points, Inserted: inserted}
}
