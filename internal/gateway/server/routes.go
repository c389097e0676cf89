package server

import (
	"net/http"

	"propalytiq/internal/gateway/handler"
	"propalytiq/internal/gateway/middleware"
)

func NewMux(
	aiHandler *handler.AIHandler,
	reportHandler *handler.ReportHandler,
	verifier *middleware.SupabaseVerifier,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ai/analysis", aiHandler.HandleAnalysis)
	mux.HandleFunc("/api/ai/property-info", aiHandler.HandlePropertyInfo)
	mux.HandleFunc("/api/ai/chat", aiHandler.HandleChat)
	mux.HandleFunc("/api/report/all", reportHandler.HandleAll)
	mux.HandleFunc("/api/report/create", reportHandler.HandleCreate)

	// Auth inside CORS so preflight requests pass without a token.
	return middleware.CORS(middleware.Auth(verifier)(mux))
}
