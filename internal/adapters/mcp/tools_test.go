package mcpadapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kirillkom/retail-insights/internal/core/domain"
)

type dashboardFake struct {
	form       domain.PredictionForm
	image      domain.ImageFile
	recForm    domain.RecommendationForm
	err        error
	prediction domain.PredictionResult
	items      []domain.RecommendationItem
	ctxErrs    []error
}

func (f *dashboardFake) Snapshot() domain.DashboardSnapshot { return domain.DashboardSnapshot{} }

func (f *dashboardFake) Navigate(domain.Tab) {}

func (f *dashboardFake) SelectRecommendationMode(domain.RecommendationMode) {}

func (f *dashboardFake) PredictSales(ctx context.Context, form domain.PredictionForm) (domain.PredictionResult, error) {
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.form = form
	return f.prediction, f.err
}

func (f *dashboardFake) ClassifyImage(ctx context.Context, file domain.ImageFile) (domain.ClassificationResult, error) {
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.image = file
	if f.err != nil {
		return domain.ClassificationResult{}, f.err
	}
	return domain.ClassificationResult{Label: "shirt", Confidence: 0.5, ConfidenceDisplay: "50.00%"}, nil
}

func (f *dashboardFake) Recommend(ctx context.Context, form domain.RecommendationForm) ([]domain.RecommendationItem, error) {
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.recForm = form
	return f.items, f.err
}

func (f *dashboardFake) CheckBackends(context.Context) (domain.Payload, error) {
	if f.err != nil {
		return domain.Payload{}, f.err
	}
	return domain.Payload{Value: "ok"}, nil
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("expected tool content, got %+v", result)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestPredictSalesToolAcceptsNumericArguments(t *testing.T) {
	fake := &dashboardFake{prediction: domain.PredictionResult{Store: 1, Department: 5, Final: 120}}
	handlers := NewToolHandlers(fake)

	result, err := handlers.PredictSales(context.Background(), callRequest(map[string]any{
		"store": float64(1),
		"dept":  "5",
		"date":  "2012-03-02",
	}))
	if err != nil {
		t.Fatalf("PredictSales() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error %s", resultText(t, result))
	}
	if fake.form != (domain.PredictionForm{Store: "1", Department: "5", Date: "2012-03-02"}) {
		t.Fatalf("unexpected form %+v", fake.form)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &body); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if chart, ok := body["chart"].([]any); !ok || len(chart) != 3 {
		t.Fatalf("expected three chart points, got %v", body["chart"])
	}
}

func TestToolErrorsCarryUserMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "validation", err: domain.NewValidationError("form", "please fill in all fields"), want: "please fill in all fields"},
		{name: "transport", err: &domain.APIError{Message: domain.TransportErrorMessage}, want: domain.TransportErrorMessage},
		{name: "protocol", err: &domain.APIError{Message: "Store 99 not found", Status: 404}, want: "Store 99 not found (status 404)"},
		{name: "in flight", err: domain.WrapError(domain.ErrActionInFlight, "predict_sales", errors.New("busy")), want: "action already in progress"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handlers := NewToolHandlers(&dashboardFake{err: tc.err})
			result, err := handlers.PredictSales(context.Background(), callRequest(map[string]any{}))
			if err != nil {
				t.Fatalf("PredictSales() error = %v", err)
			}
			if !result.IsError {
				t.Fatalf("expected tool error")
			}
			if got := resultText(t, result); got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyImageToolDecodesBase64(t *testing.T) {
	fake := &dashboardFake{}
	handlers := NewToolHandlers(fake)

	data := []byte("\x89PNG\r\n\x1a\n")
	result, err := handlers.ClassifyImage(context.Background(), callRequest(map[string]any{
		"image_base64": base64.StdEncoding.EncodeToString(data),
		"filename":     "shirt.png",
	}))
	if err != nil {
		t.Fatalf("ClassifyImage() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error %s", resultText(t, result))
	}
	if fake.image.Filename != "shirt.png" || string(fake.image.Data) != string(data) {
		t.Fatalf("unexpected image %+v", fake.image)
	}

	bad, _ := handlers.ClassifyImage(context.Background(), callRequest(map[string]any{"image_base64": "%%%"}))
	if !bad.IsError {
		t.Fatalf("expected error for invalid base64")
	}
}

func TestRecommendationsToolJoinsHistoryArray(t *testing.T) {
	fake := &dashboardFake{items: []domain.RecommendationItem{{ID: "7", Name: "Lamp"}}}
	handlers := NewToolHandlers(fake)

	result, err := handlers.GetRecommendations(context.Background(), callRequest(map[string]any{
		"mode":            "history",
		"product_history": []any{float64(1), "2"},
		"count":           float64(3),
	}))
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if fake.recForm.ProductHistory != "1,2" || fake.recForm.Count != 3 || fake.recForm.Mode != domain.RecommendByHistory {
		t.Fatalf("unexpected form %+v", fake.recForm)
	}
	if !strings.Contains(resultText(t, result), `"Lamp"`) {
		t.Fatalf("expected item in result, got %s", resultText(t, result))
	}
}

func TestActionToolsIgnoreCallerCancellation(t *testing.T) {
	fake := &dashboardFake{}
	handlers := NewToolHandlers(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _ = handlers.PredictSales(ctx, callRequest(map[string]any{"store": "1", "dept": "5", "date": "2012-03-02"}))
	_, _ = handlers.ClassifyImage(ctx, callRequest(map[string]any{
		"filename":     "shirt.png",
		"image_base64": base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n")),
	}))
	_, _ = handlers.GetRecommendations(ctx, callRequest(map[string]any{"mode": "popular"}))

	if len(fake.ctxErrs) != 3 {
		t.Fatalf("expected 3 dashboard calls, got %d", len(fake.ctxErrs))
	}
	for i, err := range fake.ctxErrs {
		if err != nil {
			t.Fatalf("call %d saw cancelled context: %v", i, err)
		}
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(&dashboardFake{})
	tools := s.ListTools()
	for _, name := range []string{"predict_sales", "classify_image", "get_recommendations", "backend_health"} {
		if _, ok := tools[name]; !ok {
			t.Fatalf("tool %s not registered", name)
		}
	}
}
