package adapters

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"stock_scraper/internal/feature/historical/domain/entity"
	"stock_scraper/internal/feature/historical/usecase"
)

type stockGorm struct {
	db *gorm.DB
}

var _ usecase.StockRepository = (*stockGorm)(nil)

func NewStockRepository(db *gorm.DB) *stockGorm {
	return &stockGorm{db: db}
}

// StockModel は stocks テーブルの行です。symbol は一意です。
type StockModel struct {
	ID     uint   `gorm:"primaryKey"`
	Symbol string `gorm:"size:32;not null;uniqueIndex:stock_symbol"`
	Name   string `gorm:"size:64"`
}

func (StockModel) TableName() string {
	return "stocks"
}

func toStock(m StockModel) *entity.Stock {
	return &entity.Stock{ID: m.ID, Symbol: m.Symbol, Name: m.Name}
}

func (r *stockGorm) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var m StockModel
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrStockNotFound
	}
	if err != nil {
		return nil, err
	}
	return toStock(m), nil
}

// FindOrCreate は銘柄を取得し、存在しなければ作成します。
// 作成は単独の文としてコミットされ、同時作成で一意制約に違反した場合は既存行を読み直します。
func (r *stockGorm) FindOrCreate(ctx context.Context, symbol string) (*entity.Stock, error) {
	s, err := r.FindBySymbol(ctx, symbol)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, usecase.ErrStockNotFound) {
		return nil, err
	}

	m := StockModel{Symbol: symbol}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateKey(err) {
			return r.FindBySymbol(ctx, symbol)
		}
		return nil, err
	}
	return toStock(m), nil
}

func (r *stockGorm) ListSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Order("id ASC").
		Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// isDuplicateKey reports whether err is a unique constraint violation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQLエラー1062: ユニークキーの重複エントリ
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	// PostgreSQL SQLSTATE 23505: unique_violation
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
