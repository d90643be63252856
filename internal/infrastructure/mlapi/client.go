package mlapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/kirillkom/retail-insights/internal/core/ports"
	"github.com/kirillkom/retail-insights/internal/infrastructure/resilience"
)

const (
	serviceRecommender = "recommender"
	serviceClassifier  = "classifier"
	serviceSales       = "sales"
)

// Config holds the base URLs of the three backend services.
type Config struct {
	RecommenderBaseURL string
	ClassifierBaseURL  string
	SalesBaseURL       string
	// Timeout bounds a whole call; zero leaves calls unbounded.
	Timeout time.Duration
}

// Client is the access layer to the sales, classifier and recommender services.
// It keeps no state between calls.
type Client struct {
	recommenderURL string
	classifierURL  string
	salesURL       string

	httpClient *http.Client
	executor   *resilience.Executor
	observer   ports.BackendObserver
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithExecutor(executor *resilience.Executor) Option {
	return func(c *Client) {
		c.executor = executor
	}
}

func WithObserver(observer ports.BackendObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		recommenderURL: strings.TrimRight(cfg.RecommenderBaseURL, "/"),
		classifierURL:  strings.TrimRight(cfg.ClassifierBaseURL, "/"),
		salesURL:       strings.TrimRight(cfg.SalesBaseURL, "/"),
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchValidationMetadata reads the selectable stores, departments and date range.
func (c *Client) FetchValidationMetadata(ctx context.Context) (domain.Payload, error) {
	return c.getJSON(ctx, serviceRecommender, "valid_data", c.recommenderURL+"/valid-data")
}

// PredictSales asks the sales service for a prediction. Input ranges are not checked here.
func (c *Client) PredictSales(ctx context.Context, req domain.PredictionRequest) (domain.Payload, error) {
	body := predictSalesRequest{
		Store: req.Store,
		Dept:  req.Department,
		Date:  req.Date,
	}
	return c.postJSON(ctx, serviceSales, "predict_sales", c.salesURL+"/predict-sales", body)
}

// ClassifyImage uploads file as the multipart field "file".
func (c *Client) ClassifyImage(ctx context.Context, file domain.ImageFile) (domain.Payload, error) {
	return c.postMultipart(ctx, serviceClassifier, "classify_image", c.classifierURL+"/classify-image", "file", file)
}

// GetRecommendations sends one uniform request body; fields of the inactive mode are null.
// Count is advisory to the service and defaults to 5.
func (c *Client) GetRecommendations(ctx context.Context, query domain.RecommendationQuery) (domain.Payload, error) {
	return c.postJSON(ctx, serviceRecommender, "recommend", c.recommenderURL+"/recommend", newRecommendRequest(query))
}

func (c *Client) RecommendForUser(ctx context.Context, userID, count int) (domain.Payload, error) {
	return c.GetRecommendations(ctx, domain.RecommendationQuery{
		Mode:   domain.RecommendByUser,
		UserID: userID,
		Count:  count,
	})
}

func (c *Client) RecommendFromHistory(ctx context.Context, productHistory []int, count int) (domain.Payload, error) {
	return c.GetRecommendations(ctx, domain.RecommendationQuery{
		Mode:           domain.RecommendByHistory,
		ProductHistory: productHistory,
		Count:          count,
	})
}

func (c *Client) PopularProducts(ctx context.Context, count int) (domain.Payload, error) {
	return c.GetRecommendations(ctx, domain.RecommendationQuery{
		Mode:  domain.RecommendPopular,
		Count: count,
	})
}

// HealthCheck calls the recommender root endpoint.
func (c *Client) HealthCheck(ctx context.Context) (domain.Payload, error) {
	return c.getJSON(ctx, serviceRecommender, "health", c.recommenderURL+"/")
}

type predictSalesRequest struct {
	Store int    `json:"store"`
	Dept  int    `json:"dept"`
	Date  string `json:"date"`
}

type recommendRequest struct {
	UserID           *int  `json:"user_id"`
	ProductHistory   []int `json:"product_history"`
	NRecommendations int   `json:"n_recommendations"`
}

func newRecommendRequest(query domain.RecommendationQuery) recommendRequest {
	count := query.Count
	if count <= 0 {
		count = domain.DefaultRecommendationCount
	}
	out := recommendRequest{NRecommendations: count}

	mode := query.Mode
	if mode == "" {
		switch {
		case query.UserID != 0:
			mode = domain.RecommendByUser
		case len(query.ProductHistory) > 0:
			mode = domain.RecommendByHistory
		default:
			mode = domain.RecommendPopular
		}
	}

	switch mode {
	case domain.RecommendByUser:
		if query.UserID != 0 {
			userID := query.UserID
			out.UserID = &userID
		}
	case domain.RecommendByHistory:
		if len(query.ProductHistory) > 0 {
			out.ProductHistory = append([]int(nil), query.ProductHistory...)
		}
	}
	return out
}
