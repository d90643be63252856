package mcpadapter

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/retail-insights/internal/core/ports"
)

const (
	serverName    = "retail-insights-mcp"
	serverVersion = "1.0.0"
)

// NewServer exposes the dashboard actions as MCP tools. Calls run through the
// same screens as the HTTP API, so validation and error handling are shared.
func NewServer(dashboard ports.DashboardService) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	registerTools(s, NewToolHandlers(dashboard))
	return s
}

func registerTools(s *server.MCPServer, t *ToolHandlers) {
	predictSales := mcp.NewTool("predict_sales",
		mcp.WithDescription("Predict weekly sales for a store and department on a date. Returns base, adjusted and final predictions."),
		mcp.WithString("store",
			mcp.Required(),
			mcp.Description("Store number, e.g. '1'"),
		),
		mcp.WithString("dept",
			mcp.Required(),
			mcp.Description("Department number, e.g. '5'"),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Week date in YYYY-MM-DD format"),
		),
	)
	s.AddTool(predictSales, t.PredictSales)

	classifyImage := mcp.NewTool("classify_image",
		mcp.WithDescription("Classify a product image and return the predicted label with its confidence"),
		mcp.WithString("image_base64",
			mcp.Required(),
			mcp.Description("Image bytes encoded as standard base64"),
		),
		mcp.WithString("filename",
			mcp.Description("Uploaded file name, e.g. 'shirt.png'"),
		),
	)
	s.AddTool(classifyImage, t.ClassifyImage)

	recommend := mcp.NewTool("get_recommendations",
		mcp.WithDescription("Recommend products for a user, from a product history, or list popular products"),
		mcp.WithString("mode",
			mcp.Description("One of 'user', 'history' or 'popular'. Defaults to 'user'"),
			mcp.Enum("user", "history", "popular"),
		),
		mcp.WithString("user_id",
			mcp.Description("User id, required for mode 'user'"),
		),
		mcp.WithString("product_history",
			mcp.Description("Comma separated product ids, required for mode 'history'"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of recommendations to request (default 5)"),
		),
	)
	s.AddTool(recommend, t.GetRecommendations)

	backendHealth := mcp.NewTool("backend_health",
		mcp.WithDescription("Check whether the recommender service is reachable"),
	)
	s.AddTool(backendHealth, t.BackendHealth)
}
