package domain

import "fmt"

type RecommendationMode string

const (
	RecommendByUser    RecommendationMode = "user"
	RecommendByHistory RecommendationMode = "history"
	RecommendPopular   RecommendationMode = "popular"
)

const DefaultRecommendationCount = 5

func ParseRecommendationMode(raw string) (RecommendationMode, error) {
	switch mode := RecommendationMode(raw); mode {
	case RecommendByUser, RecommendByHistory, RecommendPopular:
		return mode, nil
	case "":
		return RecommendByUser, nil
	default:
		return "", NewValidationError("mode", fmt.Sprintf("unknown recommendation mode %q", raw))
	}
}

// RecommendationQuery carries exactly the payload relevant to Mode.
type RecommendationQuery struct {
	Mode           RecommendationMode
	UserID         int
	ProductHistory []int
	Count          int
}

type RecommendationItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
