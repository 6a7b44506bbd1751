package usecase

import (
	"context"
	"time"

	"stock_scraper/internal/feature/historical/domain/entity"
)

// DefaultWindowDays は平均終値を計算する期間のデフォルト日数です。
const DefaultWindowDays = 30

// AverageUsecase は保存済みの履歴から直近期間の平均終値を計算します。
type AverageUsecase struct {
	stocks  StockRepository
	history HistoryRepository
	loc     *time.Location
	now     func() time.Time
}

// NewAverageUsecase は新しい AverageUsecase を作成します。
// loc は「今日」を判定するタイムゾーンです。nil の場合は UTC を使用します。
func NewAverageUsecase(stocks StockRepository, history HistoryRepository, loc *time.Location) *AverageUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &AverageUsecase{stocks: stocks, history: history, loc: loc, now: time.Now}
}

// AverageClose は today - days 以降（当日を含む）のレコードの終値平均を返します。
// days は検証しません。0 以下の場合は通常 ErrNoData になります。
// 未登録の銘柄は ErrStockNotFound を返し、銘柄を作成することはありません。
func (au *AverageUsecase) AverageClose(ctx context.Context, symbol string, days int) (*entity.AverageReport, error) {
	stock, err := au.stocks.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	today := entity.CalendarDate(au.now(), au.loc)
	cutoff := today.AddDate(0, 0, -days)

	avg, count, err := au.history.AverageClose(ctx, stock.ID, cutoff)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoData
	}

	return &entity.AverageReport{
		Symbol:       stock.Symbol,
		AveragePrice: avg,
		Days:         days,
		Count:        count,
	}, nil
}
