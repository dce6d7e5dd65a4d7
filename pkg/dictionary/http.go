package dictionary

import (
	"encoding/json"
	"errors"
	"net/http"

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
	r.HandleFunc("/dictionary", h.handleAdd).Methods(http.MethodPost)
	r.HandleFunc("/dictionary", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/dictionary/{id}", h.handleUpdate).Methods(http.MethodPatch)
	r.HandleFunc("/dictionary/{id}", h.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/dictionary/correct", h.handleCorrect).Methods(http.MethodPost)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req models.AddDictionaryEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	entry, err := h.service.Add(r.Context(), auth.ProviderID(r.Context()), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"entry": entry})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context(), auth.ProviderID(r.Context()), r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": entries})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}
	var patch models.DictionaryEntryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Update(r.Context(), auth.ProviderID(r.Context()), id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entry": entry})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), auth.ProviderID(r.Context()), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete dictionary entry")
		http.Error(w, "failed to delete entry", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCorrect runs a text fragment through the caller's enabled
// dictionary, mostly for settings-page preview.
func (h *Handler) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	corrected, err := h.service.CorrectForProvider(r.Context(), auth.ProviderID(r.Context()), payload.Text)
	if err != nil {
		logger.Log.WithError(err).Error("failed to apply dictionary corrections")
		http.Error(w, "failed to apply corrections", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"text": corrected})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
