package http

import (
	"net/http"

	"neowatch/service"
)

func RegisterPredictHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", handlePredict)
}

// handlePredict 返回预测标签或错误信息；两种情况都使用200状态码
func handlePredict(w http.ResponseWriter, r *http.Request) {
	if predictionService == nil {
		respondJSON(w, service.PredictResponse{Error: "model not loaded"})
		return
	}
	respondJSON(w, predictionService.HandlePredict(r.Body))
}
