package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spendsense/spendsense/internal/repository"
	"github.com/spendsense/spendsense/internal/service"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// GetInsights handles GET /insights/{user_id}?window=30
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	window := 30
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "window must be an integer", http.StatusBadRequest)
			return
		}
		window = parsed
	}

	resp, err := h.svc.InsightsForUser(r.Context(), userID, window)
	if err != nil {
		h.writeError(w, userID, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GetPersonaHistory handles GET /personas/{user_id}/history
func (h *Handler) GetPersonaHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	assignments, err := h.svc.PersonaHistory(r.Context(), userID, limit)
	if err != nil {
		h.writeError(w, userID, err)
		return
	}
	h.writeJSON(w, http.StatusOK, assignments)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidWindow):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Errorf("Request failed for user %s: %v", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}
