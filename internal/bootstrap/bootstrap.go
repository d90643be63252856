package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/retail-insights/internal/config"
	"github.com/kirillkom/retail-insights/internal/core/ports"
	"github.com/kirillkom/retail-insights/internal/core/usecase"
	"github.com/kirillkom/retail-insights/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/retail-insights/internal/infrastructure/mlapi"
	"github.com/kirillkom/retail-insights/internal/infrastructure/resilience"
	"github.com/kirillkom/retail-insights/internal/infrastructure/validfile"
	"github.com/kirillkom/retail-insights/internal/observability/metrics"
)

const metricsService = "retail-api"

type App struct {
	Config config.Config

	Client    *mlapi.Client
	Dashboard *usecase.Dashboard
	Exporter  ports.ChartExporter
	// Metrics is nil when METRICS_ENABLED is false.
	Metrics *metrics.HTTPServerMetrics
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var serverMetrics *metrics.HTTPServerMetrics
	var backendObserver ports.BackendObserver
	var actionObserver ports.ActionObserver
	if cfg.MetricsEnabled {
		serverMetrics = metrics.NewHTTPServerMetrics(metricsService)
		backendObserver = serverMetrics
		actionObserver = serverMetrics
	}

	executor := resilience.NewExecutor(resilience.Config{
		BreakerEnabled:      cfg.BreakerEnabled,
		BreakerMinRequests:  uint32(max(cfg.BreakerMinRequests, 0)),
		BreakerFailureRatio: cfg.BreakerFailureRatio,
		BreakerOpenTimeout:  cfg.BreakerOpenTimeout(),
	})

	clientOpts := []mlapi.Option{
		mlapi.WithExecutor(executor),
		mlapi.WithLogger(logger),
	}
	if backendObserver != nil {
		clientOpts = append(clientOpts, mlapi.WithObserver(backendObserver))
	}
	client := mlapi.New(mlapi.Config{
		RecommenderBaseURL: cfg.RecommenderBaseURL,
		ClassifierBaseURL:  cfg.ClassifierBaseURL,
		SalesBaseURL:       cfg.SalesBaseURL,
		Timeout:            cfg.BackendTimeout(),
	}, clientOpts...)

	validation, err := newValidationSource(cfg, client)
	if err != nil {
		return nil, err
	}

	dashboard := usecase.NewDashboard(usecase.Dependencies{
		Predictor:   client,
		Classifier:  client,
		Recommender: client,
		Validation:  validation,
		Health:      client,
		Observer:    actionObserver,
		Logger:      logger,
	}, usecase.Options{
		MaxImageBytes:       cfg.MaxImageBytes,
		RecommendationCount: cfg.RecommendationCount,
	})

	// A failed or slow load keeps the built-in metadata and surfaces on the dashboard.
	loadCtx, cancel := context.WithTimeout(ctx, cfg.ValidationLoadTimeout())
	_ = dashboard.LoadValidation(loadCtx)
	cancel()

	return &App{
		Config:    cfg,
		Client:    client,
		Dashboard: dashboard,
		Exporter:  xlsx.NewChartExporter(),
		Metrics:   serverMetrics,
	}, nil
}

func newValidationSource(cfg config.Config, client *mlapi.Client) (ports.ValidationSource, error) {
	switch cfg.ValidationSource {
	case config.ValidationSourceRemote, "":
		return usecase.NewRemoteValidationSource(client), nil
	case config.ValidationSourceBuiltin:
		return usecase.BuiltinValidationSource{}, nil
	case config.ValidationSourceFile:
		if cfg.ValidationFile == "" {
			return nil, fmt.Errorf("VALIDATION_FILE is required when VALIDATION_SOURCE=%s", config.ValidationSourceFile)
		}
		return validfile.New(cfg.ValidationFile), nil
	default:
		return nil, fmt.Errorf("unknown VALIDATION_SOURCE %q", cfg.ValidationSource)
	}
}
