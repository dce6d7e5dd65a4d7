package todo

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
	r.HandleFunc("/todos", h.handleCreateProvider).Methods(http.MethodPost)
	r.HandleFunc("/todos", h.handleListProvider).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id}", h.handleUpdateProvider).Methods(http.MethodPatch)
	r.HandleFunc("/todos/{id}/toggle", h.handleToggleProvider).Methods(http.MethodPost)
	r.HandleFunc("/todos/{id}", h.handleDeleteProvider).Methods(http.MethodDelete)

	r.HandleFunc("/encounters/{id}/todos", h.handleCreateEncounter).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/todos", h.handleListEncounter).Methods(http.MethodGet)
	r.HandleFunc("/encounter-todos/{id}", h.handleUpdateEncounter).Methods(http.MethodPatch)
	r.HandleFunc("/encounter-todos/{id}/toggle", h.handleToggleEncounter).Methods(http.MethodPost)
	r.HandleFunc("/encounter-todos/{id}", h.handleDeleteEncounter).Methods(http.MethodDelete)
}

func (h *Handler) handleCreateProvider(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProviderTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	item, err := h.service.CreateProviderTodo(r.Context(), auth.ProviderID(r.Context()), req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "encounter not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"todo": item})
}

func (h *Handler) handleListProvider(w http.ResponseWriter, r *http.Request) {
	includeDone := r.URL.Query().Get("include_done") == "true"
	items, err := h.service.ListProviderTodos(r.Context(), auth.ProviderID(r.Context()), includeDone)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list todos")
		http.Error(w, "failed to list todos", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) handleUpdateProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch models.TodoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	item, err := h.service.UpdateProviderTodo(r.Context(), auth.ProviderID(r.Context()), id, patch)
	if err != nil {
		respondTodoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"todo": item})
}

func (h *Handler) handleToggleProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	item, err := h.service.ToggleProviderTodo(r.Context(), auth.ProviderID(r.Context()), id)
	if err != nil {
		respondTodoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"todo": item})
}

func (h *Handler) handleDeleteProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteProviderTodo(r.Context(), auth.ProviderID(r.Context()), id); err != nil {
		respondTodoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateEncounter(w http.ResponseWriter, r *http.Request) {
	encounterID, ok := parseID(w, r)
	if !ok {
		return
	}
	var req models.CreateEncounterTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	item, err := h.service.CreateEncounterTodo(r.Context(), auth.ProviderID(r.Context()), encounterID, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "encounter not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"todo": item})
}

func (h *Handler) handleListEncounter(w http.ResponseWriter, r *http.Request) {
	encounterID, ok := parseID(w, r)
	if !ok {
		return
	}
	items, err := h.service.ListEncounterTodos(r.Context(), auth.ProviderID(r.Context()), encounterID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "encounter not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to list encounter todos")
		http.Error(w, "failed to list todos", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) handleUpdateEncounter(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch models.TodoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	item, err := h.service.UpdateEncounterTodo(r.Context(), auth.ProviderID(r.Context()), id, patch)
	if err != nil {
		respondTodoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"todo": item})
}

func (h *Handler) handleToggleEncounter(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	item, err := h.service.ToggleEncounterTodo(r.Context(), auth.ProviderID(r.Context()), id)
	if err != nil {
		respondTodoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"todo": item})
}

func (h *Handler) handleDeleteEncounter(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteEncounterTodo(r.Context(), auth.ProviderID(r.Context()), id); err != nil {
		respondTodoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func respondTodoError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "todo not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
