package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"stock_scraper/internal/feature/historical/domain/entity"
)

var (
	ErrDB        = errors.New("database error")
	ErrMarketAPI = errors.New("market API error")
)

// mockMarketRepository is a mock implementation of the MarketRepository interface.
type mockMarketRepository struct {
	mu                       sync.Mutex
	GetHistoricalPricesFunc  func(ctx context.Context, symbol string) ([]entity.PricePoint, error)
	GetHistoricalPricesCalls []string
}

func (m *mockMarketRepository) GetHistoricalPrices(ctx context.Context, symbol string) ([]entity.PricePoint, error) {
	m.mu.Lock()
	m.GetHistoricalPricesCalls = append(m.GetHistoricalPricesCalls, symbol)
	m.mu.Unlock()
	if m.GetHistoricalPricesFunc != nil {
		return m.GetHistoricalPricesFunc(ctx, symbol)
	}
	return nil, errors.New("GetHistoricalPricesFunc is not implemented")
}

// mockStockRepository is a mock implementation of the StockRepository interface.
type mockStockRepository struct {
	FindBySymbolFunc  func(ctx context.Context, symbol string) (*entity.Stock, error)
	FindOrCreateFunc  func(ctx context.Context, symbol string) (*entity.Stock, error)
	ListSymbolsFunc   func(ctx context.Context) ([]string, error)
	FindOrCreateCalls int
	FindBySymbolCalls int
}

func (m *mockStockRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	m.FindBySymbolCalls++
	if m.FindBySymbolFunc != nil {
		return m.FindBySymbolFunc(ctx, symbol)
	}
	return nil, ErrStockNotFound
}

func (m *mockStockRepository) FindOrCreate(ctx context.Context, symbol string) (*entity.Stock, error) {
	m.FindOrCreateCalls++
	if m.FindOrCreateFunc != nil {
		return m.FindOrCreateFunc(ctx, symbol)
	}
	return &entity.Stock{ID: 1, Symbol: symbol}, nil
}

func (m *mockStockRepository) ListSymbols(ctx context.Context) ([]string, error) {
	if m.ListSymbolsFunc != nil {
		return m.ListSymbolsFunc(ctx)
	}
	return nil, nil
}

// mockHistoryRepository is a mock implementation of the HistoryRepository interface.
type mockHistoryRepository struct {
	MergeHistoryFunc  func(ctx context.Context, stockID uint, points []entity.PricePoint) (int, error)
	AverageCloseFunc  func(ctx context.Context, stockID uint, since time.Time) (float64, int64, error)
	MergeHistoryCalls int
	AverageCloseCalls int
}

func (m *mockHistoryRepository) MergeHistory(ctx context.Context, stockID uint, points []entity.PricePoint) (int, error) {
	m.MergeHistoryCalls++
	if m.MergeHistoryFunc != nil {
		return m.MergeHistoryFunc(ctx, stockID, points)
	}
	return len(points), nil
}

func (m *mockHistoryRepository) AverageClose(ctx context.Context, stockID uint, since time.Time) (float64, int64, error) {
	m.AverageCloseCalls++
	if m.AverageCloseFunc != nil {
		return m.AverageCloseFunc(ctx, stockID, since)
	}
	return 0, 0, nil
}

// mockRateLimiter is a mock implementation of the RateLimiterInterface.
type mockRateLimiter struct {
	WaitIfNeededCalls int
	Err               error
}

func (m *mockRateLimiter) WaitIfNeeded(ctx context.Context) error {
	m.WaitIfNeededCalls++
	// For testing purposes, return immediately without waiting
	return m.Err
}
