package voice

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
	r.HandleFunc("/voice/profile", h.handleGetProfile).Methods(http.MethodGet)
	r.HandleFunc("/voice/profile/reset", h.handleReset).Methods(http.MethodPost)
	r.HandleFunc("/voice/samples", h.handleAddSample).Methods(http.MethodPost)
	r.HandleFunc("/voice/samples", h.handleListSamples).Methods(http.MethodGet)
	r.HandleFunc("/voice/samples/{id}", h.handleDeleteSample).Methods(http.MethodDelete)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetOrCreateProfile(r.Context(), auth.ProviderID(r.Context()))
	if err != nil {
		logger.Log.WithError(err).Error("failed to load voice profile")
		http.Error(w, "failed to load voice profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

func (h *Handler) handleAddSample(w http.ResponseWriter, r *http.Request) {
	var req models.AddVoiceSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	sample, profile, err := h.service.AddSample(r.Context(), auth.ProviderID(r.Context()), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"sample":  sample,
		"profile": profile,
	})
}

func (h *Handler) handleListSamples(w http.ResponseWriter, r *http.Request) {
	samples, err := h.service.ListSamples(r.Context(), auth.ProviderID(r.Context()))
	if err != nil {
		logger.Log.WithError(err).Error("failed to list voice samples")
		http.Error(w, "failed to list voice samples", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": samples})
}

func (h *Handler) handleDeleteSample(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid sample id", http.StatusBadRequest)
		return
	}
	profile, err := h.service.DeleteSample(r.Context(), auth.ProviderID(r.Context()), id)
	if err != nil {
		if errors.Is(err, ErrSampleNotFound) || errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "sample not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete voice sample")
		http.Error(w, "failed to delete voice sample", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.ResetProfile(r.Context(), auth.ProviderID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "voice profile not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to reset voice profile")
		http.Error(w, "failed to reset voice profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
