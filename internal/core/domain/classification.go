package domain

import "fmt"

// ImageFile is a user-selected image to be classified.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (f ImageFile) IsEmpty() bool {
	return len(f.Data) == 0
}

type ClassificationResult struct {
	Label             string  `json:"label"`
	Confidence        float64 `json:"confidence"`
	ConfidenceDisplay string  `json:"confidence_display"`
}

// ConfidenceText renders the confidence as a percentage with two decimals.
func (r ClassificationResult) ConfidenceText() string {
	return fmt.Sprintf("%.2f%%", r.Confidence*100)
}
