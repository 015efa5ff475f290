package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"overcooked-pos/analytics-svc/internal/service"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	Analytics service.AnalyticsInterface
}

func NewHandler(svc service.AnalyticsInterface) *Handler {
	return &Handler{Analytics: svc}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "healthy",
			"service":   "analytics-svc",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}).Methods("GET")

	r.HandleFunc("/api/reports/daily-revenue", h.getDailyRevenue).Methods("GET")
	r.HandleFunc("/api/reports/top-menu-items", h.getTopMenuItems).Methods("GET")
	r.HandleFunc("/api/reports/top-customers", h.getTopCustomers).Methods("GET")

	r.HandleFunc("/daily-revenue", h.getDailyRevenue).Methods("GET")
	r.HandleFunc("/top-menu-items", h.getTopMenuItems).Methods("GET")
	r.HandleFunc("/top-customers", h.getTopCustomers).Methods("GET")
}

func (h *Handler) getDailyRevenue(w http.ResponseWriter, r *http.Request) {
	data, err := h.Analytics.DailyRevenue(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) getTopMenuItems(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	data, err := h.Analytics.TopMenuItems(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) getTopCustomers(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	data, err := h.Analytics.TopCustomers(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return service.DefaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return 0, false
	}
	return limit, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log.WithField("path", r.URL.Path).WithError(err).Error("report failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
