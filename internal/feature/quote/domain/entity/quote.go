// Package entity defines the domain models for the quote feature.
package entity

// PriceQuote is the current price of a symbol as displayed on the quote page.
// Price is kept verbatim (e.g., "$172.62"); it is never parsed as a number.
type PriceQuote struct {
	Symbol string
	Price  string
}
