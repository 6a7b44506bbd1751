package dto

import "encoding/json"

// PricePointResponse は1日分の終値です。
type PricePointResponse struct {
	Date  string  `json:"date"`  // 日付 (YYYY-MM-DD)
	Close float64 `json:"close"` // 終値
}

// HistoricalResponse は過去データ取得のレスポンスDTOです。
type HistoricalResponse struct {
	Symbol string               `json:"symbol"`
	Data   []PricePointResponse `json:"data"`
}

// MultipleHistoricalRequest は複数銘柄の一括取得リクエストです。
type MultipleHistoricalRequest struct {
	Symbols []string `json:"symbols"`
}

// AverageResponse は平均終値のレスポンスDTOです。
type AverageResponse struct {
	Symbol       string  `json:"symbol"`
	AveragePrice float64 `json:"average_price"`
	Days         int     `json:"days"`
}

// ErrorResponse はエラー時のレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpstreamErrorResponse は上流APIがエラーを返した場合のレスポンスです。
type UpstreamErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Text       string `json:"text"`
}

// MalformedPayloadResponse は上流APIの応答に prices が無かった場合のレスポンスです。
type MalformedPayloadResponse struct {
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

// SymbolListResponse は保存済み銘柄一覧のレスポンスです。
type SymbolListResponse struct {
	Symbols []string `json:"symbols"`
}
