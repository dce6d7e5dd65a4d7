package notegen

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/medscribe-ai/platform/pkg/auth"
	"github.com/medscribe-ai/platform/pkg/common/logger"
	"github.com/medscribe-ai/platform/pkg/encounter"
	"github.com/medscribe-ai/platform/pkg/template"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/encounters/{id}/generate-note", h.handleGenerate).Methods(http.MethodPost)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	var payload struct {
		TemplateID uuid.UUID `json:"template_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if payload.TemplateID == uuid.Nil {
		http.Error(w, "template_id is required", http.StatusBadRequest)
		return
	}

	generated, err := h.service.Generate(r.Context(), auth.ProviderID(r.Context()), encounterID, payload.TemplateID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoTranscript):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, encounter.ErrNotFound):
			http.Error(w, "encounter not found", http.StatusNotFound)
		case errors.Is(err, template.ErrNotFound):
			http.Error(w, "template not found", http.StatusNotFound)
		case errors.Is(err, encounter.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			logger.Log.WithError(err).Error("note generation failed")
			http.Error(w, "note generation failed", http.StatusBadGateway)
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"note": generated})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
