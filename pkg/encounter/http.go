package encounter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/medscribe-ai/platform/pkg/auth"
	"github.com/medscribe-ai/platform/pkg/common/logger"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/encounters", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/encounters", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/encounters/{id}", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/encounters/{id}", h.handleUpdate).Methods(http.MethodPatch)
	r.HandleFunc("/encounters/{id}", h.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/encounters/{id}/status", h.handleUpdateStatus).Methods(http.MethodPatch)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEncounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.PatientName == "" {
		http.Error(w, "patient_name is required", http.StatusBadRequest)
		return
	}

	enc, err := h.service.Create(r.Context(), auth.ProviderID(r.Context()), req)
	if err != nil {
		logger.Log.WithError(err).Error("failed to create encounter")
		http.Error(w, "failed to create encounter", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"encounter": enc})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	encounters, err := h.service.List(
		r.Context(),
		auth.ProviderID(r.Context()),
		r.URL.Query().Get("status"),
		parseLimit(r, 50),
	)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list encounters")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": encounters})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	enc, err := h.service.Get(r.Context(), auth.ProviderID(r.Context()), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "encounter not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get encounter")
		http.Error(w, "failed to get encounter", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"encounter": enc})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	var patch models.EncounterPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	enc, err := h.service.Update(r.Context(), auth.ProviderID(r.Context()), id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "encounter not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update encounter")
		http.Error(w, "failed to update encounter", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"encounter": enc})
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if payload.Status == "" {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	enc, err := h.service.UpdateStatus(r.Context(), auth.ProviderID(r.Context()), id, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "encounter not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			logger.Log.WithError(err).Error("failed to update encounter status")
			http.Error(w, "failed to update status", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"encounter": enc})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), auth.ProviderID(r.Context()), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "encounter not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete encounter")
		http.Error(w, "failed to delete encounter", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
