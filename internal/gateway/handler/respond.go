package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"propalytiq/internal/analysis"
	llmclient "propalytiq/internal/llmClient"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeError maps the pipeline error taxonomy onto HTTP statuses.
// Caller-input errors and malformed model output are 400s; upstream
// failures become generic 5xx bodies with the detail kept in the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *llmclient.UpstreamError
	switch {
	case errors.Is(err, context.Canceled):
		// Caller is gone; nothing useful to write.
		return
	case errors.Is(err, analysis.ErrMissingStrategy),
		errors.Is(err, analysis.ErrConflictingInput),
		errors.Is(err, analysis.ErrUnsupportedStrategy):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, analysis.ErrMalformedOutput):
		log.Printf("%s: %v", r.URL.Path, err)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "analysis output could not be parsed, please try again"})
	case errors.As(err, &upstream):
		log.Printf("%s: upstream status %d: %s", r.URL.Path, upstream.Status, upstream.Body)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "analysis temporarily unavailable"})
	case errors.Is(err, llmclient.ErrUpstreamUnavailable):
		log.Printf("%s: %v", r.URL.Path, err)
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "analysis temporarily unavailable"})
	default:
		log.Printf("%s: %v", r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
		return false
	}
	return true
}
