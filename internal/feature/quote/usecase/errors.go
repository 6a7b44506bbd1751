// Package usecase implements the business logic for the quote feature.
package usecase

import "errors"

var (
	// ErrQuoteNotFound is returned when the price element is absent from the page.
	ErrQuoteNotFound = errors.New("could not find the stock price on the page")

	// ErrQuoteParse is returned when the page body cannot be parsed as HTML.
	ErrQuoteParse = errors.New("failed to parse the stock price from the page")
)
