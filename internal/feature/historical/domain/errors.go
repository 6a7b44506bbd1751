// Package domain defines domain-level errors for the historical feature.
package domain

import (
	"encoding/json"
	"fmt"
)

// UpstreamHTTPError is returned when the historical data provider answers with a
// non-success status, including 429 after the retry budget is exhausted.
// The status and raw body are kept for diagnostics.
type UpstreamHTTPError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("upstream returned http %d", e.StatusCode)
}

// MalformedPayloadError is returned when the provider response decodes as JSON
// but lacks the "prices" field.
type MalformedPayloadError struct {
	Raw json.RawMessage
}

func (e *MalformedPayloadError) Error() string {
	return "upstream payload has no prices field"
}
