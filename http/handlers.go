package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"neowatch/ml"
	"neowatch/monitoring"
	"neowatch/service"
)

// HealthSource 提供模型健康信息
type HealthSource interface {
	Stats() ml.ClassifierStats
	Healthy(threshold int64) bool
}

var (
	predictionService    *service.PredictionService
	visualizationService *service.VisualizationService
	metrics              *monitoring.MetricsCollector
	pages                *PageLoader

	healthSource     HealthSource
	modelName        string
	failureThreshold int64
)

// SetPredictionService 设置预测服务
func SetPredictionService(s *service.PredictionService) {
	predictionService = s
}

// SetVisualizationService 设置图表服务
func SetVisualizationService(s *service.VisualizationService) {
	visualizationService = s
}

// SetMetrics 设置指标收集器
func SetMetrics(mc *monitoring.MetricsCollector) {
	metrics = mc
}

// SetPageLoader 设置首页加载器
func SetPageLoader(p *PageLoader) {
	pages = p
}

// SetHealthSource 设置模型健康信息来源；threshold 为连续失败阈值
func SetHealthSource(src HealthSource, model string, threshold int64) {
	healthSource = src
	modelName = model
	failureThreshold = threshold
}

func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /metrics", handleMetrics)
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status              string `json:"status"`
	DatasetSize         int    `json:"dataset_size"`
	Model               string `json:"model"`
	Predictions         int64  `json:"predictions"`
	InferenceFailures   int64  `json:"inference_failures"`
	ConsecutiveFailures int64  `json:"consecutive_failures"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Model: modelName}
	if visualizationService != nil {
		resp.DatasetSize = visualizationService.DatasetSize()
	}
	if healthSource != nil {
		stats := healthSource.Stats()
		resp.Predictions = stats.Predictions
		resp.InferenceFailures = stats.Failures
		resp.ConsecutiveFailures = stats.ConsecutiveFailures
		if !healthSource.Healthy(failureThreshold) {
			resp.Status = "degraded"
		}
	}
	respondJSON(w, resp)
}

func handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if pages == nil {
		w.Write(fallbackIndex)
		return
	}
	w.Write(pages.Index())
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	if metrics == nil {
		http.Error(w, "metrics not enabled", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.Write([]byte(metrics.ExportPrometheus()))
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}
