package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryLocation(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want string
	}{
		{"unset defaults to UTC", "", "UTC"},
		{"named zone", "Asia/Tokyo", "Asia/Tokyo"},
		{"invalid zone falls back to UTC", "Mars/Olympus", "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HISTORY_TIMEZONE", tt.env)
			assert.Equal(t, tt.want, HistoryLocation().String())
		})
	}
}

func TestNewQuoteScraper_SendsUserAgent(t *testing.T) {
	var gotUA, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`<html><div class="YMlKec fxKbKc">$227.52</div></html>`))
	}))
	defer server.Close()

	t.Setenv("QUOTE_BASE_URL", server.URL)
	t.Setenv("QUOTE_EXCHANGE", "NASDAQ")
	t.Setenv("QUOTE_PRICE_SELECTOR", "")
	t.Setenv("QUOTE_USER_AGENT", "stock-test/1.0")

	price, err := NewQuoteScraper(nil).FetchPrice(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Equal(t, "$227.52", price)
	assert.Equal(t, "stock-test/1.0", gotUA)
	assert.Equal(t, "/quote/AAPL:NASDAQ", gotPath)
}

func TestNewHistoricalMarket_UsesEnvironment(t *testing.T) {
	var gotKey, gotRegion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-rapidapi-key")
		gotRegion = r.URL.Query().Get("region")
		_, _ = w.Write([]byte(`{"prices":[{"date":1704240000,"close":185.64}]}`))
	}))
	defer server.Close()

	t.Setenv("RAPIDAPI_BASE_URL", server.URL)
	t.Setenv("RAPIDAPI_KEY", "secret")
	t.Setenv("RAPIDAPI_REGION", "JP")

	points, err := NewHistoricalMarket(time.UTC, nil).GetHistoricalPrices(context.Background(), "7203.T")

	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "2024-01-03", points[0].DateKey())
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "JP", gotRegion)
}
