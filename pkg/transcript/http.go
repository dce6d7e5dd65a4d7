package transcript

import (
	"encoding/base64"
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
	service  *Service
	sessions *SessionManager
}

func NewHandler(service *Service, sessions *SessionManager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/encounters/{id}/segments", h.handleAdd).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/segments/batch", h.handleAddBatch).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/segments", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/encounters/{id}/transcript", h.handleTranscript).Methods(http.MethodGet)
	r.HandleFunc("/segments/{id}", h.handleUpdate).Methods(http.MethodPatch)

	r.HandleFunc("/encounters/{id}/recording/start", h.handleSessionStart).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/recording/result", h.handleSessionResult).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/recording/speaker", h.handleSessionSpeaker).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/recording/pause", h.handleSessionPause).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/recording/resume", h.handleSessionResume).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/recording/audio", h.handleSessionAudio).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/recording/stop", h.handleSessionStop).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/recording", h.handleSessionStatus).Methods(http.MethodGet)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	var req models.AddSegmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	segment, err := h.service.Add(r.Context(), auth.ProviderID(r.Context()), encounterID, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "encounter not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to add transcript segment")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"segment": segment})
}

func (h *Handler) handleAddBatch(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	var payload struct {
		Segments []models.AddSegmentRequest `json:"segments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if len(payload.Segments) == 0 {
		http.Error(w, "segments is required", http.StatusBadRequest)
		return
	}

	segments, err := h.service.AddBatch(r.Context(), auth.ProviderID(r.Context()), encounterID, payload.Segments)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "encounter not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to add transcript segments")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"items": segments})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	segments, err := h.service.List(r.Context(), auth.ProviderID(r.Context()), encounterID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "encounter not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to list transcript segments")
		http.Error(w, "failed to list segments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": segments})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	transcript, err := h.service.FullTranscript(r.Context(), auth.ProviderID(r.Context()), encounterID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "encounter not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to render transcript")
		http.Error(w, "failed to render transcript", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transcript": transcript})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	segmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid segment id", http.StatusBadRequest)
		return
	}
	var patch models.SegmentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	segment, err := h.service.Update(r.Context(), auth.ProviderID(r.Context()), segmentID, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "segment not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update transcript segment")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"segment": segment})
}

func (h *Handler) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	enc, err := h.service.EncounterFor(r.Context(), auth.ProviderID(r.Context()), encounterID)
	if err != nil {
		http.Error(w, "encounter not found", http.StatusNotFound)
		return
	}
	if err := h.sessions.Start(r.Context(), enc); err != nil {
		if errors.Is(err, ErrSessionExists) {
			http.Error(w, "recording session already active", http.StatusConflict)
			return
		}
		logger.Log.WithError(err).Error("failed to start recording session")
		http.Error(w, "failed to start recording session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, h.sessions.Status(encounterID))
}

func (h *Handler) handleSessionResult(w http.ResponseWriter, r *http.Request) {
	encounterID, ok := h.sessionFor(w, r)
	if !ok {
		return
	}
	var input ResultInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if input.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	output, err := h.sessions.Result(r.Context(), encounterID, input)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			http.Error(w, "no active recording session", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to process recognition result")
		http.Error(w, "failed to process result", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) handleSessionSpeaker(w http.ResponseWriter, r *http.Request) {
	encounterID, ok := h.sessionFor(w, r)
	if !ok {
		return
	}
	var payload struct {
		Speaker     string `json:"speaker"`
		SpeakerName string `json:"speaker_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.sessions.SetSpeaker(encounterID, payload.Speaker, payload.SpeakerName); err != nil {
		if errors.Is(err, ErrNoSession) {
			http.Error(w, "no active recording session", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.sessions.Status(encounterID))
}

func (h *Handler) handleSessionPause(w http.ResponseWriter, r *http.Request) {
	h.togglePause(w, r, h.sessions.Pause)
}

func (h *Handler) handleSessionResume(w http.ResponseWriter, r *http.Request) {
	h.togglePause(w, r, h.sessions.Resume)
}

func (h *Handler) togglePause(w http.ResponseWriter, r *http.Request, fn func(uuid.UUID) error) {
	encounterID, ok := h.sessionFor(w, r)
	if !ok {
		return
	}
	if err := fn(encounterID); err != nil {
		http.Error(w, "no active recording session", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.sessions.Status(encounterID))
}

func (h *Handler) handleSessionAudio(w http.ResponseWriter, r *http.Request) {
	encounterID, ok := h.sessionFor(w, r)
	if !ok {
		return
	}
	var payload struct {
		AudioData string  `json:"audio_data"`
		Duration  float64 `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	chunk, err := base64.StdEncoding.DecodeString(payload.AudioData)
	if err != nil {
		http.Error(w, "audio_data must be base64", http.StatusBadRequest)
		return
	}
	if err := h.sessions.AppendAudio(encounterID, chunk, payload.Duration); err != nil {
		http.Error(w, "no active recording session", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSessionStop(w http.ResponseWriter, r *http.Request) {
	encounterID, ok := h.sessionFor(w, r)
	if !ok {
		return
	}
	result, err := h.sessions.Stop(encounterID)
	if err != nil {
		http.Error(w, "no active recording session", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.sessions.Status(encounterID))
}

// sessionFor parses the encounter id and verifies the caller owns the
// active session for it.
func (h *Handler) sessionFor(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	owner, ok := h.sessions.ProviderFor(encounterID)
	if !ok {
		http.Error(w, "no active recording session", http.StatusNotFound)
		return uuid.Nil, false
	}
	if owner != auth.ProviderID(r.Context()) {
		http.Error(w, "no active recording session", http.StatusNotFound)
		return uuid.Nil, false
	}
	return encounterID, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
