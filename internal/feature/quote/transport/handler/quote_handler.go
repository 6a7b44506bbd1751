// Package handler はquoteフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_scraper/internal/feature/quote/domain/entity"
	"stock_scraper/internal/feature/quote/transport/http/dto"
	"stock_scraper/internal/feature/quote/usecase"
)

// クライアントに返すエラーメッセージ
const (
	msgQuoteNotFound = "Could not find the stock price on the page"
	msgQuoteParse    = "Failed to parse the stock price from the page"
)

// QuoteUsecase は現在値取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type QuoteUsecase interface {
	GetCurrentPrice(ctx context.Context, symbol string) (*entity.PriceQuote, error)
}

// QuoteHandler は現在値のHTTPリクエストを処理します。
type QuoteHandler struct {
	uc QuoteUsecase
}

// NewQuoteHandler は指定されたusecaseでQuoteHandlerの新しいインスタンスを生成します。
func NewQuoteHandler(uc QuoteUsecase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// GetQuote は銘柄の現在値をJSONで返します。
//
// エンドポイント例:
// GET /api/stocks/:symbol
//
//   - 価格要素が見つからない場合は404
//   - ページの解析や取得に失敗した場合は500
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	symbol := c.Param("symbol")

	q, err := h.uc.GetCurrentPrice(c.Request.Context(), symbol)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrQuoteNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgQuoteNotFound})
		case errors.Is(err, usecase.ErrQuoteParse):
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgQuoteParse})
		default:
			slog.Error("failed to fetch quote", "symbol", symbol, "error", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.QuoteResponse{Symbol: q.Symbol, Price: q.Price})
}
