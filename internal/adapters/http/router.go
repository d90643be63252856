package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/kirillkom/retail-insights/internal/config"
	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/kirillkom/retail-insights/internal/core/ports"
	"github.com/kirillkom/retail-insights/internal/core/usecase"
	"github.com/kirillkom/retail-insights/internal/observability/metrics"
)

const (
	serviceName = "retail-api"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Router struct {
	cfg       config.Config
	dashboard ports.DashboardService
	exporter  ports.ChartExporter
	metrics   *metrics.HTTPServerMetrics
}

// NewRouter builds the dashboard API. serverMetrics may be nil.
func NewRouter(
	cfg config.Config,
	dashboard ports.DashboardService,
	exporter ports.ChartExporter,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = usecase.DefaultMaxImageBytes
	}
	return &Router{
		cfg:       cfg,
		dashboard: dashboard,
		exporter:  exporter,
		metrics:   serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", rt.openAPI)
	mux.HandleFunc("GET /v1/dashboard", rt.getDashboard)
	mux.HandleFunc("POST /v1/dashboard/tab", rt.navigate)
	mux.HandleFunc("POST /v1/sales/predictions", rt.predictSales)
	mux.HandleFunc("GET /v1/sales/chart.xlsx", rt.exportChart)
	mux.HandleFunc("POST /v1/classifications", rt.classifyImage)
	mux.HandleFunc("POST /v1/recommendations", rt.recommend)
	mux.HandleFunc("GET /v1/backends/health", rt.backendHealth)

	var onLimited func(string)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
		onLimited = func(path string) { rt.metrics.RecordRateLimited(serviceName, path) }
	}

	var handler http.Handler = rateLimitMiddleware(mux, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, onLimited)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

type actionResponse struct {
	Dashboard domain.DashboardSnapshot `json:"dashboard"`
	Error     string                   `json:"error,omitempty"`
}

type navigationRequest struct {
	Tab                string `json:"tab"`
	RecommendationMode string `json:"recommendation_mode"`
}

type predictionRequest struct {
	Store      formValue `json:"store"`
	Department formValue `json:"dept"`
	Date       formValue `json:"date"`
}

type recommendationRequest struct {
	Mode           string       `json:"mode"`
	UserID         formValue    `json:"user_id"`
	ProductHistory historyValue `json:"product_history"`
	Count          int          `json:"count"`
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDocument)
}

func (rt *Router) getDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rt.dashboard.Snapshot())
}

func (rt *Router) navigate(w http.ResponseWriter, r *http.Request) {
	var req navigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	if req.RecommendationMode != "" {
		if req.Tab != "" && req.Tab != string(domain.TabRecommendations) {
			rt.writeAction(w, domain.NewValidationError("tab", "recommendation_mode requires the recommendations tab"))
			return
		}
		mode, err := domain.ParseRecommendationMode(req.RecommendationMode)
		if err != nil {
			rt.writeAction(w, err)
			return
		}
		rt.dashboard.SelectRecommendationMode(mode)
		rt.writeAction(w, nil)
		return
	}

	tab, err := domain.ParseTab(req.Tab)
	if err != nil {
		rt.writeAction(w, err)
		return
	}
	rt.dashboard.Navigate(tab)
	rt.writeAction(w, nil)
}

func (rt *Router) predictSales(w http.ResponseWriter, r *http.Request) {
	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	// A dispatched action outlives the client connection.
	_, err := rt.dashboard.PredictSales(context.WithoutCancel(r.Context()), domain.PredictionForm{
		Store:      string(req.Store),
		Department: string(req.Department),
		Date:       string(req.Date),
	})
	rt.writeAction(w, err)
}

func (rt *Router) exportChart(w http.ResponseWriter, _ *http.Request) {
	snapshot := rt.dashboard.Snapshot()
	if len(snapshot.SalesChart) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no prediction chart yet"})
		return
	}

	workbook, err := rt.exporter.ExportChart(snapshot.SalesChart, snapshot.Sales.Result)
	if err != nil {
		slog.Error("chart_export_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "chart export failed"})
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="sales-prediction.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

func (rt *Router) classifyImage(w http.ResponseWriter, r *http.Request) {
	reader, err := r.MultipartReader()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "multipart body with field 'file' is required"})
		return
	}

	file, err := readImagePart(reader, rt.cfg.MaxImageBytes)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed multipart body"})
		return
	}

	_, err = rt.dashboard.ClassifyImage(context.WithoutCancel(r.Context()), file)
	rt.writeAction(w, err)
}

func (rt *Router) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	_, err := rt.dashboard.Recommend(context.WithoutCancel(r.Context()), domain.RecommendationForm{
		Mode:           domain.RecommendationMode(req.Mode),
		UserID:         string(req.UserID),
		ProductHistory: string(req.ProductHistory),
		Count:          req.Count,
	})
	rt.writeAction(w, err)
}

func (rt *Router) backendHealth(w http.ResponseWriter, r *http.Request) {
	payload, err := rt.dashboard.CheckBackends(r.Context())
	if err != nil {
		resp := errorResponse{Error: publicErrorMessage(err)}
		if apiErr, ok := domain.AsAPIError(err); ok {
			resp.Status = apiErr.Status
		}
		writeJSON(w, mapErrorToHTTPStatus(err), resp)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "backend": payload.Value})
}

// writeAction answers with the dashboard snapshot taken after the action settled.
func (rt *Router) writeAction(w http.ResponseWriter, err error) {
	resp := actionResponse{Dashboard: rt.dashboard.Snapshot()}
	status := http.StatusOK
	if err != nil {
		resp.Error = publicErrorMessage(err)
		status = mapErrorToHTTPStatus(err)
	}
	writeJSON(w, status, resp)
}

// readImagePart returns the first "file" part, read up to limit+1 bytes so the
// size check downstream can still reject it. A body without that part yields an
// empty file.
func readImagePart(reader *multipart.Reader, limit int64) (domain.ImageFile, error) {
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return domain.ImageFile{}, nil
		}
		if err != nil {
			return domain.ImageFile{}, err
		}
		if part.FormName() != "file" || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, limit+1))
		_ = part.Close()
		if err != nil {
			return domain.ImageFile{}, err
		}
		return domain.ImageFile{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
