package transcript

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/logger"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

var (
	ErrNoSession     = errors.New("no active recording session")
	ErrSessionExists = errors.New("recording session already active")
)

// Corrector applies the provider's dictionary to a text fragment.
type Corrector interface {
	CorrectForProvider(ctx context.Context, providerID uuid.UUID, text string) (string, error)
}

// SessionManager tracks live recording sessions, one per encounter. Final
// recognition results are dictionary-corrected and persisted as segments;
// interim results are corrected and held as ephemeral text, replaced by the
// next result and never persisted. Audio chunks accumulate into a single
// payload returned base64-encoded on stop.
type SessionManager struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*session
	store     Store
	corrector Corrector
}

type session struct {
	encounterID uuid.UUID
	providerID  uuid.UUID
	speaker     string
	speakerName string
	paused      bool
	interim     string
	nextOrder   int
	segments    int
	audio       bytes.Buffer
	duration    float64
}

func NewSessionManager(store Store, corrector Corrector) *SessionManager {
	return &SessionManager{
		sessions:  make(map[uuid.UUID]*session),
		store:     store,
		corrector: corrector,
	}
}

func (m *SessionManager) Start(ctx context.Context, enc models.Encounter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[enc.ID]; exists {
		return ErrSessionExists
	}

	nextOrder, err := m.store.NextOrder(ctx, enc.ID)
	if err != nil {
		return err
	}

	m.sessions[enc.ID] = &session{
		encounterID: enc.ID,
		providerID:  enc.ProviderID,
		speaker:     "provider",
		nextOrder:   nextOrder,
	}
	logger.Log.WithField("encounter_id", enc.ID).Info("Recording session started")
	return nil
}

type ResultInput struct {
	Text       string   `json:"text"`
	IsFinal    bool     `json:"is_final"`
	StartTime  float64  `json:"start_time"`
	EndTime    float64  `json:"end_time"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type ResultOutput struct {
	InterimText string                    `json:"interim_text,omitempty"`
	Segment     *models.TranscriptSegment `json:"segment,omitempty"`
}

// Result processes one recognition result. Results arriving while paused are
// dropped: pausing stops recognition, anything still in flight is discarded.
func (m *SessionManager) Result(ctx context.Context, encounterID uuid.UUID, input ResultInput) (ResultOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[encounterID]
	if !ok {
		return ResultOutput{}, ErrNoSession
	}
	if sess.paused {
		return ResultOutput{InterimText: sess.interim}, nil
	}

	corrected, err := m.corrector.CorrectForProvider(ctx, sess.providerID, input.Text)
	if err != nil {
		logger.Log.WithError(err).Warn("dictionary correction failed, using raw text")
		corrected = input.Text
	}

	if !input.IsFinal {
		sess.interim = corrected
		return ResultOutput{InterimText: corrected}, nil
	}

	segment, err := m.store.Add(ctx, encounterID, models.AddSegmentRequest{
		Speaker:     sess.speaker,
		SpeakerName: sess.speakerName,
		Text:        corrected,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Confidence:  input.Confidence,
		Order:       sess.nextOrder,
	})
	if err != nil {
		return ResultOutput{}, err
	}
	sess.nextOrder++
	sess.segments++
	sess.interim = ""
	return ResultOutput{Segment: &segment}, nil
}

// SetSpeaker records the manual speaker toggle; it applies to subsequent
// final results only.
func (m *SessionManager) SetSpeaker(encounterID uuid.UUID, speaker, speakerName string) error {
	if !validSpeakers[speaker] {
		return errors.New("unknown speaker")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[encounterID]
	if !ok {
		return ErrNoSession
	}
	sess.speaker = speaker
	sess.speakerName = speakerName
	return nil
}

func (m *SessionManager) Pause(encounterID uuid.UUID) error {
	return m.setPaused(encounterID, true)
}

func (m *SessionManager) Resume(encounterID uuid.UUID) error {
	return m.setPaused(encounterID, false)
}

func (m *SessionManager) setPaused(encounterID uuid.UUID, paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[encounterID]
	if !ok {
		return ErrNoSession
	}
	sess.paused = paused
	if paused {
		sess.interim = ""
	}
	return nil
}

// AppendAudio accumulates one captured chunk. Audio keeps flowing while
// recognition is paused.
func (m *SessionManager) AppendAudio(encounterID uuid.UUID, chunk []byte, duration float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[encounterID]
	if !ok {
		return ErrNoSession
	}
	sess.audio.Write(chunk)
	sess.duration += duration
	return nil
}

type StopResult struct {
	AudioData string  `json:"audio_data"` // base64 encoded
	Duration  float64 `json:"duration"`
	Segments  int     `json:"segments"`
}

// Stop finalizes the session and returns the accumulated audio payload.
// Persisting the payload is the caller's decision; the final segments were
// already written as they arrived.
func (m *SessionManager) Stop(encounterID uuid.UUID) (StopResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[encounterID]
	if !ok {
		return StopResult{}, ErrNoSession
	}
	delete(m.sessions, encounterID)

	logger.Log.WithFields(map[string]interface{}{
		"encounter_id": encounterID,
		"segments":     sess.segments,
		"duration":     sess.duration,
	}).Info("Recording session stopped")

	return StopResult{
		AudioData: base64.StdEncoding.EncodeToString(sess.audio.Bytes()),
		Duration:  sess.duration,
		Segments:  sess.segments,
	}, nil
}

type SessionStatus struct {
	Active      bool    `json:"active"`
	Paused      bool    `json:"paused"`
	Speaker     string  `json:"speaker,omitempty"`
	SpeakerName string  `json:"speaker_name,omitempty"`
	InterimText string  `json:"interim_text,omitempty"`
	Segments    int     `json:"segments"`
	Duration    float64 `json:"duration"`
}

func (m *SessionManager) Status(encounterID uuid.UUID) SessionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[encounterID]
	if !ok {
		return SessionStatus{}
	}
	return SessionStatus{
		Active:      true,
		Paused:      sess.paused,
		Speaker:     sess.speaker,
		SpeakerName: sess.speakerName,
		InterimText: sess.interim,
		Segments:    sess.segments,
		Duration:    sess.duration,
	}
}

// ProviderFor reports the session owner, for handler-level ownership checks.
func (m *SessionManager) ProviderFor(encounterID uuid.UUID) (uuid.UUID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[encounterID]
	if !ok {
		return uuid.Nil, false
	}
	return sess.providerID, true
}
