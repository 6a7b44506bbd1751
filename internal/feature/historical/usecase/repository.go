package usecase

import (
	"context"
	"time"

	"stock_scraper/internal/feature/historical/domain/entity"
)

// MarketRepository は外部APIから過去の株価を取得するリポジトリのインターフェイスです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// GetHistoricalPrices は正規化済みの株価系列を上流の順序のまま返します。
	GetHistoricalPrices(ctx context.Context, symbol string) ([]entity.PricePoint, error)
}

// StockRepository は銘柄の永続化レイヤーを抽象化します。
type StockRepository interface {
	// FindBySymbol は銘柄を検索します。存在しない場合は ErrStockNotFound を返します。
	FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	// FindOrCreate は銘柄を検索し、存在しなければ作成してコミットします。
	FindOrCreate(ctx context.Context, symbol string) (*entity.Stock, error)
	// ListSymbols は登録済みの全銘柄コードを返します。
	ListSymbols(ctx context.Context) ([]string, error)
}

// HistoryRepository は株価履歴の永続化レイヤーを抽象化します。
type HistoryRepository interface {
	// MergeHistory は未保存の日付だけを1トランザクションで挿入し、挿入件数を返します。
	MergeHistory(ctx context.Context, stockID uint, points []entity.PricePoint) (int, error)
	// AverageClose は since 以降のレコードの終値平均と件数を返します。
	AverageClose(ctx context.Context, stockID uint, since time.Time) (float64, int64, error)
}
