package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tableside/analytics-svc/internal/domain"
	"tableside/analytics-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Analytics service.AnalyticsInterface
	Log       *zap.Logger
}

func NewHandler(svc service.AnalyticsInterface, log *zap.Logger) *Handler {
	return &Handler{Analytics: svc, Log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/admin/summary", h.getSummary).Methods("GET")
	r.HandleFunc("/api/admin/top-dishes", h.getTopDishes).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "analytics-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Analytics.Summary(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) getTopDishes(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, errors.Join(domain.ErrInvalidLimit, err))
			return
		}
		limit = n
	}

	dishes, err := h.Analytics.TopDishes(r.Context(), r.URL.Query().Get("date"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if dishes == nil {
		dishes = []domain.DishStat{}
	}
	writeJSON(w, http.StatusOK, dishes)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrInvalidDate) || errors.Is(err, domain.ErrInvalidLimit) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if h.Log != nil {
		h.Log.Error("request_failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	http.Error(w, "analytics unavailable", http.StatusInternalServerError)
}
