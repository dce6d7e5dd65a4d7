package provider

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/medscribe-ai/platform/pkg/auth"
	"github.com/medscribe-ai/platform/pkg/common/logger"
	"github.com/medscribe-ai/platform/pkg/common/models"
	"github.com/medscribe-ai/platform/pkg/middleware"
)

type Handler struct {
	service *Service
	tokens  *auth.JWTManager
	oidc    *auth.OIDCAuthenticator // nil when OIDC is not configured
}

func NewHandler(service *Service, tokens *auth.JWTManager, oidc *auth.OIDCAuthenticator) *Handler {
	return &Handler{service: service, tokens: tokens, oidc: oidc}
}

// RegisterAuth mounts the unauthenticated login surface.
func (h *Handler) RegisterAuth(r *mux.Router) {
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/oidc/start", h.handleOIDCStart).Methods(http.MethodGet)
	r.HandleFunc("/oidc/callback", h.handleOIDCCallback).Methods(http.MethodGet)
}

// Register mounts the session-scoped provider surface.
func (h *Handler) Register(r *mux.Router) {
	r.Use(middleware.Authenticate(h.tokens))
	r.HandleFunc("/me", h.handleMe).Methods(http.MethodGet)
	r.HandleFunc("/me", h.handleUpdateMe).Methods(http.MethodPatch)
}

type authResponse struct {
	Token    string          `json:"token"`
	Provider models.Provider `json:"provider"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.GetOrCreateProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Name == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}

	prov, err := h.service.GetOrCreate(r.Context(), req)
	if err != nil {
		logger.Log.WithError(err).Error("failed to resolve provider")
		http.Error(w, "failed to resolve provider", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.IssueToken(prov)
	if err != nil {
		logger.Log.WithError(err).Error("failed to issue token")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, Provider: prov})
}

func (h *Handler) handleOIDCStart(w http.ResponseWriter, r *http.Request) {
	if h.oidc == nil {
		http.Error(w, "OIDC not configured", http.StatusNotFound)
		return
	}
	state := uuid.NewString()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authorize_url": h.oidc.AuthCodeURL(state),
		"state":         state,
	})
}

func (h *Handler) handleOIDCCallback(w http.ResponseWriter, r *http.Request) {
	if h.oidc == nil {
		http.Error(w, "OIDC not configured", http.StatusNotFound)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	info, err := h.oidc.Exchange(r.Context(), code)
	if err != nil {
		logger.Log.WithError(err).Warn("oidc exchange failed")
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	prov, err := h.service.GetOrCreate(r.Context(), models.GetOrCreateProviderRequest{
		Name:  info.Name,
		Email: info.Email,
	})
	if err != nil {
		logger.Log.WithError(err).Error("failed to resolve provider after oidc login")
		http.Error(w, "failed to resolve provider", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.IssueToken(prov)
	if err != nil {
		logger.Log.WithError(err).Error("failed to issue token")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, Provider: prov})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	prov, err := h.service.Get(r.Context(), auth.ProviderID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "provider not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get provider")
		http.Error(w, "failed to get provider", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"provider": prov})
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var patch models.ProviderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	prov, err := h.service.Update(r.Context(), auth.ProviderID(r.Context()), patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "provider not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update provider")
		http.Error(w, "failed to update provider", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"provider": prov})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
