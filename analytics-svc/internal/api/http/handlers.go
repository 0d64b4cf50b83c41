package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"dietmap/analytics-svc/internal/domain"
	"dietmap/analytics-svc/internal/service"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

type Handler struct {
	Analytics service.AnalyticsInterface
}

func NewHandler(svc service.AnalyticsInterface) *Handler {
	return &Handler{Analytics: svc}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "analytics-svc"})
	}).Methods("GET")
	r.HandleFunc("/api/analytics/top-items", h.getTopItems).Methods("GET")
	r.HandleFunc("/api/analytics/top-restaurants", h.getTopRestaurants).Methods("GET")
	r.HandleFunc("/api/analytics/users/{userId:[0-9]+}/intake", h.getUserIntake).Methods("GET")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrStoreUnavailable) {
		status = http.StatusServiceUnavailable
	}
	log.WithError(err).Error("Analytics request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// dayAndLimit reads ?date= (default today) and ?limit= (1..50, default 10).
func (h *Handler) dayAndLimit(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	q := r.URL.Query()
	day := q.Get("date")
	if day == "" {
		day = h.Analytics.Today()
	} else if _, err := time.Parse(time.DateOnly, day); err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return "", 0, false
	}

	limit := defaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return "", 0, false
		}
		limit = min(n, maxLimit)
	}
	return day, limit, true
}

func (h *Handler) getTopItems(w http.ResponseWriter, r *http.Request) {
	day, limit, ok := h.dayAndLimit(w, r)
	if !ok {
		return
	}
	ranking, err := h.Analytics.TopItems(r.Context(), day, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

func (h *Handler) getTopRestaurants(w http.ResponseWriter, r *http.Request) {
	day, limit, ok := h.dayAndLimit(w, r)
	if !ok {
		return
	}
	ranking, err := h.Analytics.TopRestaurants(r.Context(), day, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

func (h *Handler) getUserIntake(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(mux.Vars(r)["userId"])
	day, _, ok := h.dayAndLimit(w, r)
	if !ok {
		return
	}
	intake, err := h.Analytics.UserIntake(r.Context(), userID, day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intake)
}
