// Package handler はhistoricalフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_scraper/internal/feature/historical/domain"
	"stock_scraper/internal/feature/historical/domain/entity"
	"stock_scraper/internal/feature/historical/transport/http/dto"
	"stock_scraper/internal/feature/historical/usecase"
)

const msgFetchFailed = "Failed to fetch historical data"

// IngestUsecase は過去データ取り込みのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type IngestUsecase interface {
	Ingest(ctx context.Context, symbol string) ([]entity.PricePoint, error)
	IngestMany(ctx context.Context, symbols []string) map[string]usecase.IngestResult
}

// HistoricalHandler は過去データ取得のHTTPリクエストを処理します。
type HistoricalHandler struct {
	uc IngestUsecase
}

// NewHistoricalHandler は指定されたusecaseでHistoricalHandlerの新しいインスタンスを生成します。
func NewHistoricalHandler(uc IngestUsecase) *HistoricalHandler {
	return &HistoricalHandler{uc: uc}
}

// GetHistorical は銘柄の過去データを取得・保存し、今回取得した系列を返します。
//
// エンドポイント例:
// GET /api/historical/:symbol
func (h *HistoricalHandler) GetHistorical(c *gin.Context) {
	symbol := c.Param("symbol")

	points, err := h.uc.Ingest(c.Request.Context(), symbol)
	if err != nil {
		status, body := errorBody(err)
		slog.Warn("historical fetch failed", "symbol", symbol, "status", status, "error", err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, dto.HistoricalResponse{Symbol: symbol, Data: toPricePointResponses(points)})
}

// PostMultiple は複数銘柄を順番に取り込み、銘柄ごとの系列またはエラーを返します。
// ある銘柄の失敗は他の銘柄に影響せず、レスポンスは常に200です。
//
// エンドポイント例:
// POST /api/historical/multiple {"symbols": ["AAPL", "MSFT"]}
func (h *HistoricalHandler) PostMultiple(c *gin.Context) {
	var req dto.MultipleHistoricalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("multiple historical request invalid", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No symbols provided"})
		return
	}
	if len(req.Symbols) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No symbols provided"})
		return
	}

	results := h.uc.IngestMany(c.Request.Context(), req.Symbols)

	out := make(map[string]any, len(results))
	for symbol, res := range results {
		if res.Err != nil {
			_, body := errorBody(res.Err)
			out[symbol] = body
			continue
		}
		out[symbol] = toPricePointResponses(res.Points)
	}
	c.JSON(http.StatusOK, out)
}

// errorBody はエラーをHTTPステータスとレスポンスボディに変換します。
//
//   - UpstreamHTTPError: 上流のステータスをそのまま返す（400未満の場合は502）
//   - MalformedPayloadError: 500、上流の応答本文を data に含める
//   - それ以外: 500、エラーメッセージを返す
func errorBody(err error) (int, any) {
	var upstream *domain.UpstreamHTTPError
	if errors.As(err, &upstream) {
		status := upstream.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return status, dto.UpstreamErrorResponse{
			Error:      msgFetchFailed,
			StatusCode: upstream.StatusCode,
			Text:       upstream.Body,
		}
	}

	var malformed *domain.MalformedPayloadError
	if errors.As(err, &malformed) {
		return http.StatusInternalServerError, dto.MalformedPayloadResponse{
			Error: msgFetchFailed,
			Data:  malformed.Raw,
		}
	}

	return http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()}
}

func toPricePointResponses(points []entity.PricePoint) []dto.PricePointResponse {
	out := make([]dto.PricePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.PricePointResponse{Date: p.DateKey(), Close: p.Close})
	}
	return out
}
