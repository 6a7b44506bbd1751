package rapidapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"stock_scraper/internal/feature/historical/domain"
	"stock_scraper/internal/feature/historical/domain/entity"
	"stock_scraper/internal/feature/historical/usecase"
	"stock_scraper/internal/platform/externalapi/rapidapi/dto"
	"stock_scraper/internal/platform/metrics"
	"stock_scraper/internal/shared/backoff"
)

const (
	upstreamName = "rapidapi"
	maxBodyBytes = 10 << 20
)

// HistoricalMarket は RapidAPI から過去の株価を取得する MarketRepository 実装です。
type HistoricalMarket struct {
	cfg     Config
	client  *http.Client
	metrics *metrics.Metrics
	sleep   func(ctx context.Context, d time.Duration) error
}

// HistoricalMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*HistoricalMarket)(nil)

// NewHistoricalMarket は指定された設定とHTTPクライアントでHistoricalMarketの新しいインスタンスを生成します。
// m が nil の場合はメトリクスを記録しません。
func NewHistoricalMarket(cfg Config, client *http.Client, m *metrics.Metrics) *HistoricalMarket {
	return &HistoricalMarket{cfg: cfg, client: client, metrics: m, sleep: backoff.SleepContext}
}

// response は1回の試行で受け取ったステータスと本文です。
type response struct {
	status int
	body   []byte
}

// GetHistoricalPrices は銘柄の過去の株価を取得し、正規化した系列を上流の順序で返します。
//
// 429 の場合のみ BaseDelay * 2^attempt 待ってから再試行し、最大 MaxAttempts 回で諦めます。
// それ以外の 200 以外のステータスは即座に domain.UpstreamHTTPError になります。
func (h *HistoricalMarket) GetHistoricalPrices(ctx context.Context, symbol string) ([]entity.PricePoint, error) {
	policy := backoff.Policy{MaxAttempts: h.cfg.MaxAttempts, Base: h.cfg.BaseDelay, Sleep: h.sleep}

	last, err := backoff.Do(ctx, policy, func(ctx context.Context, attempt int) (response, bool, error) {
		res, err := h.fetch(ctx, symbol)
		if err != nil {
			return res, false, err
		}
		if res.status == http.StatusTooManyRequests {
			slog.Warn("rate limited by upstream, backing off",
				"symbol", symbol, "attempt", attempt+1, "max_attempts", policy.MaxAttempts)
			return res, true, nil
		}
		return res, false, nil
	})
	if err != nil {
		return nil, err
	}

	if last.status != http.StatusOK {
		return nil, &domain.UpstreamHTTPError{StatusCode: last.status, Body: string(last.body)}
	}
	return decodePrices(last.body, h.cfg.Location)
}

// fetch は上流APIを1回だけ呼び出します。
func (h *HistoricalMarket) fetch(ctx context.Context, symbol string) (response, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("region", h.cfg.Region)
	u := fmt.Sprintf("%s/stock/v3/get-historical-data?%s", h.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return response{}, err
	}
	req.Header.Set("x-rapidapi-host", h.cfg.Host)
	req.Header.Set("x-rapidapi-key", h.cfg.APIKey)

	res, err := h.client.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("rapidapi request: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return response{}, fmt.Errorf("rapidapi read body: %w", err)
	}
	h.metrics.ObserveUpstream(upstreamName, res.StatusCode)
	return response{status: res.StatusCode, body: body}, nil
}

// decodePrices はレスポンス本文を型付きDTOにデコードし、PricePointに変換します。
// close または date を持たないエントリ（配当・分割など）は黙って除外します。
func decodePrices(body []byte, loc *time.Location) ([]entity.PricePoint, error) {
	var payload dto.HistoricalDataResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode historical data: %w", err)
	}
	if payload.Prices == nil {
		return nil, &domain.MalformedPayloadError{Raw: json.RawMessage(body)}
	}

	entries := *payload.Prices
	points := make([]entity.PricePoint, 0, len(entries))
	for _, e := range entries {
		if e.Close == nil || e.Date == nil {
			continue
		}
		ts := time.Unix(int64(*e.Date), 0)
		points = append(points, entity.PricePoint{
			Date:  entity.CalendarDate(ts, loc),
			Close: *e.Close,
		})
	}
	return points, nil
}
