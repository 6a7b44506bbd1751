package usecase

import (
	"context"

	"stock_scraper/internal/feature/quote/domain/entity"
)

// QuoteSource は現在値の表示文字列を取得するソースを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type QuoteSource interface {
	// FetchPrice は銘柄の現在値を画面表示どおりの文字列で返します。
	FetchPrice(ctx context.Context, symbol string) (string, error)
}

// quoteUsecase は現在値取得のユースケースを定義します。
type quoteUsecase struct {
	source QuoteSource
}

// NewQuoteUsecase はquoteUsecaseの新しいインスタンスを生成します。
func NewQuoteUsecase(source QuoteSource) *quoteUsecase {
	return &quoteUsecase{source: source}
}

// GetCurrentPrice は銘柄の現在値を取得します。失敗してもリトライしません。
func (qu *quoteUsecase) GetCurrentPrice(ctx context.Context, symbol string) (*entity.PriceQuote, error) {
	price, err := qu.source.FetchPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &entity.PriceQuote{Symbol: symbol, Price: price}, nil
}
