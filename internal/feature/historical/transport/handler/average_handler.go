package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_scraper/internal/feature/historical/domain/entity"
	"stock_scraper/internal/feature/historical/transport/http/dto"
	"stock_scraper/internal/feature/historical/usecase"
)

// AverageUsecase は平均終値計算のユースケースインターフェースを定義します。
type AverageUsecase interface {
	AverageClose(ctx context.Context, symbol string, days int) (*entity.AverageReport, error)
}

// AverageHandler は平均終値のHTTPリクエストを処理します。
type AverageHandler struct {
	uc AverageUsecase
}

// NewAverageHandler は指定されたusecaseでAverageHandlerの新しいインスタンスを生成します。
func NewAverageHandler(uc AverageUsecase) *AverageHandler {
	return &AverageHandler{uc: uc}
}

// GetAverage は直近 days 日間の平均終値を返します。
//
// エンドポイント例:
// GET /api/average/:symbol?days=30
//
// days が未指定または整数でない場合は30日を使用します。負の値もそのまま渡します。
func (h *AverageHandler) GetAverage(c *gin.Context) {
	symbol := c.Param("symbol")
	days, err := strconv.Atoi(c.Query("days"))
	if err != nil {
		days = usecase.DefaultWindowDays
	}

	report, err := h.uc.AverageClose(c.Request.Context(), symbol, days)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrStockNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Stock not found"})
		case errors.Is(err, usecase.ErrNoData):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No historical data found"})
		default:
			slog.Error("failed to compute average", "symbol", symbol, "days", days, "error", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.AverageResponse{
		Symbol:       report.Symbol,
		AveragePrice: report.AveragePrice,
		Days:         report.Days,
	})
}
