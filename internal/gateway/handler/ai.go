package handler

import (
	"encoding/json"
	"net/http"

	"propalytiq/internal/analysis"
	llmclient "propalytiq/internal/llmClient"
)

// AIHandler serves the model-backed endpoints. It delegates everything
// to the analysis service; no business logic lives at this layer.
type AIHandler struct {
	svc       *analysis.Service
	chat      llmclient.Client
	chatModel string
}

func NewAIHandler(svc *analysis.Service, chat llmclient.Client, chatModel string) *AIHandler {
	return &AIHandler{svc: svc, chat: chat, chatModel: chatModel}
}

func (h *AIHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	resp, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type propertyInfoRequest struct {
	URL string `json:"url"`
}

func (h *AIHandler) HandlePropertyInfo(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req propertyInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "url is required"})
		return
	}
	result, err := h.svc.PropertyInfo(r.Context(), req.URL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
