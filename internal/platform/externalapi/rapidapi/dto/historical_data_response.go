// Package dto defines data transfer objects for the RapidAPI Yahoo Finance responses.
package dto

// HistoricalDataResponse represents the JSON response from the stock/v3/get-historical-data endpoint.
// Prices is a pointer so that a missing "prices" key can be told apart from an empty list.
type HistoricalDataResponse struct {
	Prices *[]PriceEntry `json:"prices"`
}

// PriceEntry is one element of "prices". Dividend and split events share the
// array and carry no close, so every field is optional.
type PriceEntry struct {
	Date     *float64 `json:"date"` // Unix seconds
	Open     *float64 `json:"open,omitempty"`
	High     *float64 `json:"high,omitempty"`
	Low      *float64 `json:"low,omitempty"`
	Close    *float64 `json:"close"`
	Volume   *float64 `json:"volume,omitempty"`
	AdjClose *float64 `json:"adjclose,omitempty"`
	Type     string   `json:"type,omitempty"`
}
