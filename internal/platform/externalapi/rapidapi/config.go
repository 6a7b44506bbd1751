// Package rapidapi provides a client for the Yahoo Finance historical data API hosted on RapidAPI.
package rapidapi

import (
	"os"
	"strings"
	"time"
)

const defaultHost = "apidojo-yahoo-finance-v1.p.rapidapi.com"

// Config holds configuration for the RapidAPI historical data client.
type Config struct {
	APIKey      string         // Sent as x-rapidapi-key
	Host        string         // Sent as x-rapidapi-host
	BaseURL     string         // e.g., "https://apidojo-yahoo-finance-v1.p.rapidapi.com"
	Region      string         // Query parameter "region"
	MaxAttempts int            // Total attempts, including the first
	BaseDelay   time.Duration  // Wait after the first 429; doubles on each retry
	Timeout     time.Duration  // HTTP request timeout
	Location    *time.Location // Time zone used to turn timestamps into calendar dates
}

// LoadConfig loads RapidAPI configuration from environment variables.
func LoadConfig(loc *time.Location) Config {
	host := envOr("RAPIDAPI_HOST", defaultHost)
	return Config{
		APIKey:      os.Getenv("RAPIDAPI_KEY"),
		Host:        host,
		BaseURL:     strings.TrimRight(envOr("RAPIDAPI_BASE_URL", "https://"+host), "/"),
		Region:      envOr("RAPIDAPI_REGION", "US"),
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		Timeout:     10 * time.Second,
		Location:    loc,
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
