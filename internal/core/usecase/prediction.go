package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/kirillkom/retail-insights/internal/core/ports"
)

const msgFillAllFields = "please fill in all fields"

// PredictionScreen runs sales predictions and publishes the chart series.
type PredictionScreen struct {
	action    *Action[domain.PredictionResult]
	predictor ports.SalesPredictor
	metadata  func() domain.ValidationMetadata
	onChart   func([]domain.ChartPoint)
}

func NewPredictionScreen(
	predictor ports.SalesPredictor,
	metadata func() domain.ValidationMetadata,
	onChart func([]domain.ChartPoint),
	observer ports.ActionObserver,
	logger *slog.Logger,
) *PredictionScreen {
	if metadata == nil {
		metadata = func() domain.ValidationMetadata { return domain.ValidationMetadata{} }
	}
	return &PredictionScreen{
		action:    NewAction[domain.PredictionResult]("predict_sales", observer, logger),
		predictor: predictor,
		metadata:  metadata,
		onChart:   onChart,
	}
}

func (s *PredictionScreen) State() domain.ActionState[domain.PredictionResult] {
	return s.action.Snapshot()
}

// Submit validates form against the current metadata and requests a prediction.
// A successful result triggers exactly one chart update.
func (s *PredictionScreen) Submit(ctx context.Context, form domain.PredictionForm) (domain.PredictionResult, error) {
	var req domain.PredictionRequest
	result, err := s.action.Run(ctx,
		func() error {
			parsed, err := ValidatePredictionForm(form, s.metadata())
			req = parsed
			return err
		},
		func(ctx context.Context) (domain.PredictionResult, error) {
			payload, err := s.predictor.PredictSales(ctx, req)
			if err != nil {
				return domain.PredictionResult{}, err
			}
			return parsePrediction(payload, req), nil
		},
	)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	if s.onChart != nil {
		s.onChart(result.ChartSeries())
	}
	return result, nil
}

// ValidatePredictionForm checks presence first, then the metadata ranges.
// Empty metadata sets do not restrict input.
func ValidatePredictionForm(form domain.PredictionForm, metadata domain.ValidationMetadata) (domain.PredictionRequest, error) {
	storeRaw := strings.TrimSpace(form.Store)
	deptRaw := strings.TrimSpace(form.Department)
	dateRaw := strings.TrimSpace(form.Date)
	if storeRaw == "" || deptRaw == "" || dateRaw == "" {
		return domain.PredictionRequest{}, domain.NewValidationError("form", msgFillAllFields)
	}

	store, err := strconv.Atoi(storeRaw)
	if err != nil || store <= 0 {
		return domain.PredictionRequest{}, domain.NewValidationError("store", "store must be a positive integer")
	}
	dept, err := strconv.Atoi(deptRaw)
	if err != nil {
		return domain.PredictionRequest{}, domain.NewValidationError("dept", "department must be an integer")
	}
	date, err := time.Parse(domain.DateLayout, dateRaw)
	if err != nil {
		return domain.PredictionRequest{}, domain.NewValidationError("date", "date must use the YYYY-MM-DD format")
	}

	if len(metadata.Stores) > 0 && !metadata.HasStore(store) {
		return domain.PredictionRequest{}, domain.NewValidationError("store", fmt.Sprintf("store %d is not available", store))
	}
	if len(metadata.Departments) > 0 && !metadata.HasDepartment(dept) {
		return domain.PredictionRequest{}, domain.NewValidationError("dept", fmt.Sprintf("department %d is not available", dept))
	}
	minDate, maxDate, err := metadata.DateBounds()
	if err == nil {
		if (!minDate.IsZero() && date.Before(minDate)) || (!maxDate.IsZero() && date.After(maxDate)) {
			return domain.PredictionRequest{}, domain.NewValidationError("date",
				fmt.Sprintf("date must be between %s and %s", metadata.DateRange.Min, metadata.DateRange.Max))
		}
	}

	return domain.PredictionRequest{
		Store:      store,
		Department: dept,
		Date:       date.Format(domain.DateLayout),
	}, nil
}
