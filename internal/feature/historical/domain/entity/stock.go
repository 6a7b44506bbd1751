// Package entity defines the domain models for the historical feature.
package entity

import "time"

// Stock is a tracked security. Symbol is the natural key; ID is a surrogate
// assigned by the store.
type Stock struct {
	ID     uint
	Symbol string // Ticker symbol as supplied by the caller (e.g., "AAPL")
	Name   string // Optional display name
}

// PricePoint is one normalized upstream entry.
type PricePoint struct {
	Date  time.Time // Calendar date (midnight, time-of-day discarded)
	Close float64   // Closing price
}

// DateKey returns the calendar date as "2006-01-02".
func (p PricePoint) DateKey() string {
	return p.Date.Format(DateLayout)
}

// DateLayout is the wire and comparison format for calendar dates.
const DateLayout = "2006-01-02"

// AverageReport is the result of a trailing-window mean over stored closes.
type AverageReport struct {
	Symbol       string
	AveragePrice float64
	Days         int   // Window size echoed back to the caller
	Count        int64 // Number of records the mean was computed over
}

// CalendarDate returns the calendar day of t as observed in loc, represented as
// midnight UTC. A nil loc means UTC.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
