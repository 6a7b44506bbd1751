// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"stock_scraper/internal/platform/externalapi/googlefinance"
	"stock_scraper/internal/platform/externalapi/rapidapi"
	infrahttp "stock_scraper/internal/platform/http"
	"stock_scraper/internal/platform/metrics"
)

// HistoryLocation returns the time zone named by HISTORY_TIMEZONE, falling back to UTC.
func HistoryLocation() *time.Location {
	name := os.Getenv("HISTORY_TIMEZONE")
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("invalid HISTORY_TIMEZONE, using UTC", "value", name, "error", err)
		return time.UTC
	}
	return loc
}

// NewHistoricalMarket creates a fully configured RapidAPI client with HTTP client.
func NewHistoricalMarket(loc *time.Location, m *metrics.Metrics) *rapidapi.HistoricalMarket {
	cfg := rapidapi.LoadConfig(loc)
	if cfg.APIKey == "" {
		slog.Warn("RAPIDAPI_KEY is not set; historical requests will be rejected upstream")
	}
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return rapidapi.NewHistoricalMarket(cfg, httpClient, m)
}

// NewQuoteScraper creates a Google Finance scraper whose requests carry the configured User-Agent.
func NewQuoteScraper(m *metrics.Metrics) *googlefinance.Scraper {
	cfg := googlefinance.LoadConfig()
	httpClient := infrahttp.WithDefaultHeaders(
		infrahttp.NewHTTPClient(cfg.Timeout),
		http.Header{"User-Agent": []string{cfg.UserAgent}},
	)
	return googlefinance.NewScraper(cfg, httpClient, m)
}
