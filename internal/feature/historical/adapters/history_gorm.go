package adapters

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_scraper/internal/feature/historical/domain/entity"
	"stock_scraper/internal/feature/historical/usecase"
)

const insertBatchSize = 500

type historyGorm struct {
	db *gorm.DB
}

var _ usecase.HistoryRepository = (*historyGorm)(nil)

func NewHistoryRepository(db *gorm.DB) *historyGorm {
	return &historyGorm{db: db}
}

// HistoricalRecordModel は historical_records テーブルの行です。
// (stock_id, date) の組は一意で、一度書かれた行は更新されません。
type HistoricalRecordModel struct {
	ID      uint      `gorm:"primaryKey"`
	StockID uint      `gorm:"not null;uniqueIndex:history_stock_date,priority:1"`
	Date    time.Time `gorm:"type:date;not null;uniqueIndex:history_stock_date,priority:2"`
	Close   float64   `gorm:"not null"`

	Stock *StockModel `gorm:"constraint:OnDelete:CASCADE"`
}

func (HistoricalRecordModel) TableName() string {
	return "historical_records"
}

// dateOnly は日付部分だけを残し、UTC の0時に揃えます。
func dateOnly(t time.Time) time.Time {
	return entity.CalendarDate(t, t.Location())
}

// MergeHistory は既存の日付を読み込み、未保存の日付だけを挿入します。
//
// 同じ payload 内で同じ日付が複数ある場合は最初のものを採用します。
// 読み込みと挿入は1つのトランザクションで行い、挿入は (stock_id, date) の競合を無視するため、
// 同時に取り込みが走っても重複や上書きは起きません。
func (r *historyGorm) MergeHistory(ctx context.Context, stockID uint, points []entity.PricePoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	inserted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []time.Time
		if err := tx.Model(&HistoricalRecordModel{}).
			Where("stock_id = ?", stockID).
			Pluck("date", &existing).Error; err != nil {
			return err
		}

		seen := make(map[string]struct{}, len(existing)+len(points))
		for _, d := range existing {
			seen[dateOnly(d).Format(entity.DateLayout)] = struct{}{}
		}

		rows := make([]HistoricalRecordModel, 0, len(points))
		for _, p := range points {
			d := dateOnly(p.Date)
			key := d.Format(entity.DateLayout)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			rows = append(rows, HistoricalRecordModel{StockID: stockID, Date: d, Close: p.Close})
		}
		if len(rows) == 0 {
			return nil
		}

		res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stock_id"}, {Name: "date"}},
			DoNothing: true,
		}).CreateInBatches(&rows, insertBatchSize)
		if res.Error != nil {
			return res.Error
		}
		inserted = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// AverageClose returns the mean close and the row count for records on or after since.
// The mean is 0 when count is 0.
func (r *historyGorm) AverageClose(ctx context.Context, stockID uint, since time.Time) (float64, int64, error) {
	var row struct {
		Average sql.NullFloat64
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&HistoricalRecordModel{}).
		Select("AVG(close) AS average, COUNT(*) AS count").
		Where("stock_id = ? AND date >= ?", stockID, dateOnly(since)).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Average.Float64, row.Count, nil
}
