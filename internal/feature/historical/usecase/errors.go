// Package usecase implements the ingestion and aggregation logic for the historical feature.
package usecase

import "errors"

var (
	// ErrStockNotFound is returned when no stock has been recorded for the symbol.
	ErrStockNotFound = errors.New("stock not found")

	// ErrNoData is returned when the stock exists but no records fall inside the requested window.
	ErrNoData = errors.New("no historical data found")
)
