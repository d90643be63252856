package ports

import (
	"context"
	"time"

	"github.com/kirillkom/retail-insights/internal/core/domain"
)

// SalesPredictor calls the sales prediction service.
type SalesPredictor interface {
	PredictSales(ctx context.Context, req domain.PredictionRequest) (domain.Payload, error)
}

// ImageClassifier calls the image classification service.
type ImageClassifier interface {
	ClassifyImage(ctx context.Context, file domain.ImageFile) (domain.Payload, error)
}

// Recommender calls the recommendation service.
type Recommender interface {
	GetRecommendations(ctx context.Context, query domain.RecommendationQuery) (domain.Payload, error)
}

// ValidationMetadataFetcher returns the raw validation metadata document.
type ValidationMetadataFetcher interface {
	FetchValidationMetadata(ctx context.Context) (domain.Payload, error)
}

// ValidationSource resolves the bounds used to validate prediction input.
type ValidationSource interface {
	ValidationMetadata(ctx context.Context) (domain.ValidationMetadata, error)
}

// HealthChecker reports backend liveness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) (domain.Payload, error)
}

// BackendObserver receives one observation per backend call.
type BackendObserver interface {
	ObserveBackendCall(service, operation string, status int, err error, duration time.Duration)
}

// ActionObserver receives one observation per finished user action.
type ActionObserver interface {
	ObserveAction(action string, phase domain.Phase, class domain.ErrorClass, duration time.Duration)
}

// ChartExporter renders the sales chart series into a downloadable document.
type ChartExporter interface {
	ExportChart(series []domain.ChartPoint, result *domain.PredictionResult) ([]byte, error)
}
