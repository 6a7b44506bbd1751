package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_scraper/internal/feature/historical/transport/http/dto"
)

// SymbolLister は保存済み銘柄の一覧を返します。
type SymbolLister interface {
	ListSymbols(ctx context.Context) ([]string, error)
}

// SymbolHandler は保存済み銘柄の一覧を返すHTTPハンドラーです。
type SymbolHandler struct {
	stocks SymbolLister
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(stocks SymbolLister) *SymbolHandler {
	return &SymbolHandler{stocks: stocks}
}

// List は一度でも取り込まれた銘柄を登録順に返します。
//
// エンドポイント例:
// GET /api/symbols
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.stocks.ListSymbols(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	c.JSON(http.StatusOK, dto.SymbolListResponse{Symbols: symbols})
}
