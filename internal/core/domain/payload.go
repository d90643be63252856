package domain

import "strings"

// Payload is a backend success body exactly as it was received.
// Value holds the decoded JSON document for JSON responses and the body text otherwise.
type Payload struct {
	ContentType string `json:"content_type"`
	Raw         []byte `json:"-"`
	Value       any    `json:"value"`
}

func (p Payload) IsJSON() bool {
	return IsJSONContentType(p.ContentType)
}

func IsJSONContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}
