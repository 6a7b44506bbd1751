package googlefinance

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"stock_scraper/internal/feature/quote/usecase"
	"stock_scraper/internal/platform/metrics"
)

const upstreamName = "googlefinance"

// Scraper はGoogle Financeの銘柄ページから現在値を取得するQuoteSource実装です。
type Scraper struct {
	cfg     Config
	client  *http.Client
	metrics *metrics.Metrics
}

var _ usecase.QuoteSource = (*Scraper)(nil)

// NewScraper は指定された設定とHTTPクライアントでScraperを生成します。
func NewScraper(cfg Config, client *http.Client, m *metrics.Metrics) *Scraper {
	return &Scraper{cfg: cfg, client: client, metrics: m}
}

// FetchPrice は銘柄ページを1回だけ取得し、セレクタに一致する最初の要素のテキストをそのまま返します。
// ページのHTTPステータスは見ません。エラーページであればセレクタが一致せず ErrQuoteNotFound になります。
func (s *Scraper) FetchPrice(ctx context.Context, symbol string) (string, error) {
	u := fmt.Sprintf("%s/quote/%s:%s", s.cfg.BaseURL, url.PathEscape(symbol), s.cfg.Exchange)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	res, err := s.client.Do(req)
	if err != nil {
		s.metrics.ObserveScrape(metrics.ScrapeError)
		return "", fmt.Errorf("fetch quote page: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()
	s.metrics.ObserveUpstream(upstreamName, res.StatusCode)

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		s.metrics.ObserveScrape(metrics.ScrapeError)
		return "", fmt.Errorf("%w: %v", usecase.ErrQuoteParse, err)
	}

	sel := doc.Find(s.cfg.Selector).First()
	if sel.Length() == 0 {
		slog.Info("price element not found", "symbol", symbol, "status", res.StatusCode)
		s.metrics.ObserveScrape(metrics.ScrapeNotFound)
		return "", usecase.ErrQuoteNotFound
	}

	s.metrics.ObserveScrape(metrics.ScrapeOK)
	return sel.Text(), nil
}
