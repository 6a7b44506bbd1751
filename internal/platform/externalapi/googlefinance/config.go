// Package googlefinance scrapes the current price from Google Finance quote pages.
package googlefinance

import (
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://www.google.com/finance"
	defaultExchange  = "NASDAQ"
	defaultSelector  = "div.YMlKec.fxKbKc"
	defaultUserAgent = "Mozilla/5.0 (compatible; stock-scraper/1.0)"
)

// Config holds configuration for the quote page scraper.
type Config struct {
	BaseURL   string        // Page root; the quote path is "<BaseURL>/quote/<symbol>:<Exchange>"
	Exchange  string        // Exchange suffix appended to the symbol
	Selector  string        // CSS selector of the element holding the price text
	UserAgent string        // User-Agent sent with every request
	Timeout   time.Duration // HTTP request timeout
}

// LoadConfig loads scraper configuration from environment variables.
func LoadConfig() Config {
	return Config{
		BaseURL:   strings.TrimRight(envOr("QUOTE_BASE_URL", defaultBaseURL), "/"),
		Exchange:  envOr("QUOTE_EXCHANGE", defaultExchange),
		Selector:  envOr("QUOTE_PRICE_SELECTOR", defaultSelector),
		UserAgent: envOr("QUOTE_USER_AGENT", defaultUserAgent),
		Timeout:   10 * time.Second,
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
