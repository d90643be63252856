package mcpadapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/kirillkom/retail-insights/internal/core/ports"
)

// ToolHandlers implements the MCP tool handlers on top of the dashboard.
type ToolHandlers struct {
	dashboard ports.DashboardService
}

func NewToolHandlers(dashboard ports.DashboardService) *ToolHandlers {
	return &ToolHandlers{dashboard: dashboard}
}

func (t *ToolHandlers) PredictSales(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	result, err := t.dashboard.PredictSales(context.WithoutCancel(ctx), domain.PredictionForm{
		Store:      argString(args, "store"),
		Department: argString(args, "dept"),
		Date:       argString(args, "date"),
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]any{
		"prediction": result,
		"chart":      result.ChartSeries(),
	})
}

func (t *ToolHandlers) ClassifyImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	encoded := argString(args, "image_base64")
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return mcp.NewToolResultError("image_base64 must be standard base64"), nil
	}
	filename := argString(args, "filename")
	if filename == "" {
		filename = "image"
	}

	result, err := t.dashboard.ClassifyImage(context.WithoutCancel(ctx), domain.ImageFile{Filename: filename, Data: data})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(result)
}

func (t *ToolHandlers) GetRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	form := domain.RecommendationForm{
		Mode:           domain.RecommendationMode(argString(args, "mode")),
		UserID:         argString(args, "user_id"),
		ProductHistory: argString(args, "product_history"),
	}
	if count, ok := args["count"].(float64); ok {
		form.Count = int(count)
	}

	items, err := t.dashboard.Recommend(context.WithoutCancel(ctx), form)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]any{"recommendations": items})
}

func (t *ToolHandlers) BackendHealth(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := t.dashboard.CheckBackends(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]any{"status": "ok", "backend": payload.Value})
}

// argString reads a string argument. Numbers are accepted because clients
// often send ids unquoted.
func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			switch item := item.(type) {
			case float64:
				parts = append(parts, strconv.FormatFloat(item, 'f', -1, 64))
			default:
				parts = append(parts, fmt.Sprint(item))
			}
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

func toolError(err error) *mcp.CallToolResult {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return mcp.NewToolResultError(validationErr.Message)
	case domain.IsKind(err, domain.ErrActionInFlight):
		return mcp.NewToolResultError("action already in progress")
	case domain.IsKind(err, domain.ErrStaleResult):
		return mcp.NewToolResultError("result discarded after navigation")
	}
	if apiErr, ok := domain.AsAPIError(err); ok {
		if apiErr.IsTransport() {
			return mcp.NewToolResultError(apiErr.Message)
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s (status %d)", apiErr.Message, apiErr.Status))
	}
	return mcp.NewToolResultError("internal error")
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
