package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/kirillkom/retail-insights/internal/core/ports"
)

const msgInitialDataFailed = "failed to load initial data"

var errNoHealthChecker = errors.New("health checker is not configured")

type Dependencies struct {
	Predictor   ports.SalesPredictor
	Classifier  ports.ImageClassifier
	Recommender ports.Recommender
	Validation  ports.ValidationSource
	Health      ports.HealthChecker
	Observer    ports.ActionObserver
	Logger      *slog.Logger
}

type Options struct {
	MaxImageBytes       int64
	RecommendationCount int
}

// Dashboard is the session state behind the three screens. Screens are
// independent: each may have one request outstanding at the same time.
type Dashboard struct {
	nav        *navigator
	validation ports.ValidationSource
	health     ports.HealthChecker
	logger     *slog.Logger

	mu       sync.RWMutex
	metadata domain.ValidationMetadata
	loadErr  string
	recMode  domain.RecommendationMode
	chart    []domain.ChartPoint

	sales           *PredictionScreen
	classification  *ClassificationScreen
	recommendations *RecommendationScreen
}

func NewDashboard(deps Dependencies, opts Options) *Dashboard {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	validation := deps.Validation
	if validation == nil {
		validation = BuiltinValidationSource{}
	}

	d := &Dashboard{
		nav:        newNavigator(domain.TabSales),
		validation: validation,
		health:     deps.Health,
		logger:     logger,
		metadata:   domain.DefaultValidationMetadata(),
		recMode:    domain.RecommendByUser,
	}

	d.sales = NewPredictionScreen(deps.Predictor, d.validationMetadata, d.setChart, deps.Observer, logger)
	d.sales.action.guardedBy(d.nav)
	d.classification = NewClassificationScreen(deps.Classifier, opts.MaxImageBytes, deps.Observer, logger)
	d.classification.action.guardedBy(d.nav)
	d.recommendations = NewRecommendationScreen(deps.Recommender, opts.RecommendationCount, deps.Observer, logger)
	d.recommendations.action.guardedBy(d.nav)
	return d
}

// LoadValidation fetches the validation metadata once. On failure the built-in
// metadata stays in place and the dashboard shows an initial-data error.
func (d *Dashboard) LoadValidation(ctx context.Context) error {
	metadata, err := d.validation.ValidationMetadata(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.loadErr = msgInitialDataFailed
		d.metadata = domain.DefaultValidationMetadata()
		d.logger.Warn("validation_metadata_load_failed", "error", err)
		return fmt.Errorf("load validation metadata: %w", err)
	}
	d.loadErr = ""
	d.metadata = metadata
	d.logger.Info("validation_metadata_loaded",
		"stores", len(metadata.Stores),
		"departments", len(metadata.Departments),
		"min_date", metadata.DateRange.Min,
		"max_date", metadata.DateRange.Max,
	)
	return nil
}

func (d *Dashboard) Navigate(tab domain.Tab) {
	if d.nav.navigate(tab) {
		d.logger.Debug("dashboard_navigated", "tab", string(tab))
	}
}

// SelectRecommendationMode switches the recommendations sub-tab. A response
// requested under another sub-tab is discarded when it arrives.
func (d *Dashboard) SelectRecommendationMode(mode domain.RecommendationMode) {
	d.Navigate(domain.TabRecommendations)
	d.mu.Lock()
	changed := d.recMode != mode
	d.recMode = mode
	d.mu.Unlock()
	if changed {
		d.nav.invalidate()
	}
}

func (d *Dashboard) PredictSales(ctx context.Context, form domain.PredictionForm) (domain.PredictionResult, error) {
	d.Navigate(domain.TabSales)
	return d.sales.Submit(ctx, form)
}

func (d *Dashboard) ClassifyImage(ctx context.Context, file domain.ImageFile) (domain.ClassificationResult, error) {
	d.Navigate(domain.TabClassification)
	return d.classification.Submit(ctx, file)
}

// Recommend uses the selected sub-tab when form.Mode is empty and remembers an explicit one.
func (d *Dashboard) Recommend(ctx context.Context, form domain.RecommendationForm) ([]domain.RecommendationItem, error) {
	if form.Mode == "" {
		d.mu.RLock()
		form.Mode = d.recMode
		d.mu.RUnlock()
		d.Navigate(domain.TabRecommendations)
	} else if mode, err := domain.ParseRecommendationMode(string(form.Mode)); err == nil {
		d.SelectRecommendationMode(mode)
	} else {
		d.Navigate(domain.TabRecommendations)
	}
	return d.recommendations.Submit(ctx, form)
}

func (d *Dashboard) CheckBackends(ctx context.Context) (domain.Payload, error) {
	if d.health == nil {
		return domain.Payload{}, errNoHealthChecker
	}
	return d.health.HealthCheck(ctx)
}

func (d *Dashboard) Snapshot() domain.DashboardSnapshot {
	d.mu.RLock()
	snapshot := domain.DashboardSnapshot{
		RecommendationMode: d.recMode,
		Validation:         d.metadata,
		Error:              d.loadErr,
		SalesChart:         append([]domain.ChartPoint{}, d.chart...),
	}
	d.mu.RUnlock()

	snapshot.ActiveTab = d.nav.active()
	snapshot.Sales = d.sales.State()
	snapshot.Classification = d.classification.State()
	snapshot.Recommendations = d.recommendations.State()
	return snapshot
}

func (d *Dashboard) validationMetadata() domain.ValidationMetadata {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.metadata
}

func (d *Dashboard) setChart(points []domain.ChartPoint) {
	d.mu.Lock()
	d.chart = points
	d.mu.Unlock()
}
