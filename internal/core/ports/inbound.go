package ports

import (
	"context"

	"github.com/kirillkom/retail-insights/internal/core/domain"
)

// DashboardReader is the inbound read model of the dashboard session.
type DashboardReader interface {
	Snapshot() domain.DashboardSnapshot
}

// DashboardNavigator changes the active screen and recommendation sub-tab.
type DashboardNavigator interface {
	Navigate(tab domain.Tab)
	SelectRecommendationMode(mode domain.RecommendationMode)
}

// DashboardActions is the inbound contract for the three user-facing actions.
type DashboardActions interface {
	PredictSales(ctx context.Context, form domain.PredictionForm) (domain.PredictionResult, error)
	ClassifyImage(ctx context.Context, file domain.ImageFile) (domain.ClassificationResult, error)
	Recommend(ctx context.Context, form domain.RecommendationForm) ([]domain.RecommendationItem, error)
	CheckBackends(ctx context.Context) (domain.Payload, error)
}

// DashboardService combines everything the outer adapters need.
type DashboardService interface {
	DashboardReader
	DashboardNavigator
	DashboardActions
}
