package note

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
	r.HandleFunc("/notes", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/notes", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/notes/{id}", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/notes/{id}/sections/{sectionId}", h.handleUpdateSection).Methods(http.MethodPatch)
	r.HandleFunc("/notes/{id}/status", h.handleUpdateStatus).Methods(http.MethodPatch)
	r.HandleFunc("/encounters/{id}/note", h.handleGetByEncounter).Methods(http.MethodGet)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	note, err := h.service.Create(r.Context(), auth.ProviderID(r.Context()), req)
	if err != nil {
		logger.Log.WithError(err).Error("failed to create note")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"note": note})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	notes, err := h.service.List(r.Context(), auth.ProviderID(r.Context()), limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list notes")
		http.Error(w, "failed to list notes", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": notes})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return
	}
	note, err := h.service.Get(r.Context(), auth.ProviderID(r.Context()), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get note")
		http.Error(w, "failed to get note", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

func (h *Handler) handleGetByEncounter(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	note, err := h.service.GetByEncounter(r.Context(), auth.ProviderID(r.Context()), encounterID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get note")
		http.Error(w, "failed to get note", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

func (h *Handler) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return
	}
	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	note, err := h.service.UpdateSection(r.Context(), auth.ProviderID(r.Context()), id, mux.Vars(r)["sectionId"], payload.Content)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	note, err := h.service.UpdateStatus(r.Context(), auth.ProviderID(r.Context()), id, payload.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
