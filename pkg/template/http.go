package template

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
	r.HandleFunc("/templates", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/templates", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/templates/{id}", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/templates/{id}", h.handleUpdate).Methods(http.MethodPatch)
	r.HandleFunc("/templates/{id}", h.handleDelete).Methods(http.MethodDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	tpl, err := h.service.Create(r.Context(), auth.ProviderID(r.Context()), req)
	if err != nil {
		logger.Log.WithError(err).Error("failed to create template")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"template": tpl})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	providerID := auth.ProviderID(r.Context())

	var (
		templates []models.Template
		err       error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		templates, err = h.service.ListByCategory(r.Context(), providerID, category)
	} else {
		templates, err = h.service.List(r.Context(), providerID)
	}
	if err != nil {
		logger.Log.WithError(err).Error("failed to list templates")
		http.Error(w, "failed to list templates", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": templates})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid template id", http.StatusBadRequest)
		return
	}
	tpl, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get template")
		http.Error(w, "failed to get template", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"template": tpl})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid template id", http.StatusBadRequest)
		return
	}
	var patch models.TemplatePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	tpl, err := h.service.Update(r.Context(), auth.ProviderID(r.Context()), id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update template")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"template": tpl})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid template id", http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), auth.ProviderID(r.Context()), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete template")
		http.Error(w, "failed to delete template", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
