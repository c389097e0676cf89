package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"propalytiq/internal/gateway/middleware"
	"propalytiq/internal/gateway/repository/report"
)

const defaultReportPageSize = 8

// ReportHandler serves saved-report CRUD. The verified user from the
// auth middleware wins over any user_id the caller supplies.
type ReportHandler struct {
	store report.Store
}

func NewReportHandler(store report.Store) *ReportHandler {
	return &ReportHandler{store: store}
}

func (h *ReportHandler) HandleAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
		return
	}
	userID := callerUserID(r, r.URL.Query().Get("user_id"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "user_id is required"})
		return
	}
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", defaultReportPageSize)

	reports, err := h.store.ListByUser(r.Context(), userID, offset, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if reports == nil {
		reports = []report.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

type createReportRequest struct {
	Report report.Report `json:"report"`
	UserID string        `json:"user_id"`
}

func (h *ReportHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	userID := callerUserID(r, req.UserID)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "user_id is required"})
		return
	}
	saved, err := h.store.Create(r.Context(), userID, req.Report)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func callerUserID(r *http.Request, fallback string) string {
	if user, ok := middleware.UserFrom(r.Context()); ok {
		return user.ID
	}
	return strings.TrimSpace(fallback)
}

func queryInt(r *http.Request, name string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
