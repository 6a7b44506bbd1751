package dto

// QuoteResponse は現在値のレスポンスDTOです。
type QuoteResponse struct {
	Symbol string `json:"symbol"` // 銘柄コード
	Price  string `json:"price"`  // 画面表示どおりの価格文字列
}

// ErrorResponse はエラー時のレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
