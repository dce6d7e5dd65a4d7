package transcript

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

type fakeSegmentStore struct {
	segments []models.TranscriptSegment
}

func (s *fakeSegmentStore) Add(ctx context.Context, encounterID uuid.UUID, req models.AddSegmentRequest) (models.TranscriptSegment, error) {
	segment := models.TranscriptSegment{
		ID:          uuid.New(),
		EncounterID: encounterID,
		Speaker:     req.Speaker,
		SpeakerName: req.SpeakerName,
		Text:        req.Text,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Confidence:  req.Confidence,
		Order:       req.Order,
	}
	s.segments = append(s.segments, segment)
	return segment, nil
}

func (s *fakeSegmentStore) AddBatch(ctx context.Context, encounterID uuid.UUID, reqs []models.AddSegmentRequest) ([]models.TranscriptSegment, error) {
	var out []models.TranscriptSegment
	for _, req := range reqs {
		segment, _ := s.Add(ctx, encounterID, req)
		out = append(out, segment)
	}
	return out, nil
}

func (s *fakeSegmentStore) Get(ctx context.Context, id uuid.UUID) (models.TranscriptSegment, error) {
	for _, segment := range s.segments {
		if segment.ID == id {
			return segment, nil
		}
	}
	return models.TranscriptSegment{}, ErrNotFound
}

func (s *fakeSegmentStore) ListByEncounter(ctx context.Context, encounterID uuid.UUID) ([]models.TranscriptSegment, error) {
	var out []models.TranscriptSegment
	for _, segment := range s.segments {
		if segment.EncounterID == encounterID {
			out = append(out, segment)
		}
	}
	return out, nil
}

func (s *fakeSegmentStore) NextOrder(ctx context.Context, encounterID uuid.UUID) (int, error) {
	return len(s.segments), nil
}

func (s *fakeSegmentStore) Update(ctx context.Context, id uuid.UUID, patch models.SegmentPatch) error {
	return nil
}

func (s *fakeSegmentStore) DeleteByEncounter(ctx context.Context, encounterID uuid.UUID) error {
	s.segments = nil
	return nil
}

type upperCorrector struct{}

func (upperCorrector) CorrectForProvider(ctx context.Context, providerID uuid.UUID, text string) (string, error) {
	// stand-in for dictionary correction, just visible in output
	return "corrected " + text, nil
}

func newTestSession(t *testing.T) (*SessionManager, *fakeSegmentStore, models.Encounter) {
	t.Helper()
	store := &fakeSegmentStore{}
	manager := NewSessionManager(store, upperCorrector{})
	enc := models.Encounter{ID: uuid.New(), ProviderID: uuid.New()}
	if err := manager.Start(context.Background(), enc); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return manager, store, enc
}

func TestSessionInterimResultsAreNotPersisted(t *testing.T) {
	manager, store, enc := newTestSession(t)

	out, err := manager.Result(context.Background(), enc.ID, ResultInput{Text: "patient rep", IsFinal: false})
	if err != nil {
		t.Fatalf("result failed: %v", err)
	}
	if out.InterimText != "corrected patient rep" {
		t.Fatalf("interim not corrected: %q", out.InterimText)
	}
	if len(store.segments) != 0 {
		t.Fatal("interim result was persisted")
	}
}

func TestSessionFinalResultPersistsSegment(t *testing.T) {
	manager, store, enc := newTestSession(t)

	out, err := manager.Result(context.Background(), enc.ID, ResultInput{Text: "patient reports pain", IsFinal: true, StartTime: 1.5, EndTime: 4.0})
	if err != nil {
		t.Fatalf("result failed: %v", err)
	}
	if out.Segment == nil {
		t.Fatal("expected a persisted segment")
	}
	if out.Segment.Text != "corrected patient reports pain" {
		t.Fatalf("final text not corrected: %q", out.Segment.Text)
	}
	if out.Segment.Speaker != "provider" {
		t.Fatalf("default speaker should be provider, got %s", out.Segment.Speaker)
	}
	if len(store.segments) != 1 {
		t.Fatalf("expected one segment, got %d", len(store.segments))
	}
}

func TestSessionSpeakerToggleAppliesToLaterResults(t *testing.T) {
	manager, store, enc := newTestSession(t)

	if err := manager.SetSpeaker(enc.ID, "patient", "Jane Doe"); err != nil {
		t.Fatalf("set speaker failed: %v", err)
	}
	if _, err := manager.Result(context.Background(), enc.ID, ResultInput{Text: "it hurts at night", IsFinal: true}); err != nil {
		t.Fatalf("result failed: %v", err)
	}

	segment := store.segments[0]
	if segment.Speaker != "patient" || segment.SpeakerName != "Jane Doe" {
		t.Fatalf("speaker toggle not applied: %s/%s", segment.Speaker, segment.SpeakerName)
	}
}

func TestSessionPauseDropsResults(t *testing.T) {
	manager, store, enc := newTestSession(t)

	if err := manager.Pause(enc.ID); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if _, err := manager.Result(context.Background(), enc.ID, ResultInput{Text: "should be dropped", IsFinal: true}); err != nil {
		t.Fatalf("result failed: %v", err)
	}
	if len(store.segments) != 0 {
		t.Fatal("result persisted while paused")
	}

	if err := manager.Resume(enc.ID); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if _, err := manager.Result(context.Background(), enc.ID, ResultInput{Text: "kept", IsFinal: true}); err != nil {
		t.Fatalf("result failed: %v", err)
	}
	if len(store.segments) != 1 {
		t.Fatal("result after resume not persisted")
	}
}

func TestSessionStopReturnsAccumulatedAudio(t *testing.T) {
	manager, _, enc := newTestSession(t)

	if err := manager.AppendAudio(enc.ID, []byte("chunk-one"), 2.5); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := manager.AppendAudio(enc.ID, []byte("chunk-two"), 1.5); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	result, err := manager.Stop(enc.ID)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(result.AudioData)
	if err != nil {
		t.Fatalf("audio not base64: %v", err)
	}
	if string(decoded) != "chunk-onechunk-two" {
		t.Fatalf("unexpected audio payload: %q", decoded)
	}
	if result.Duration != 4.0 {
		t.Fatalf("duration %v, want 4.0", result.Duration)
	}

	if _, err := manager.Stop(enc.ID); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession after stop, got %v", err)
	}
}

func TestSessionStartTwiceFails(t *testing.T) {
	manager, _, enc := newTestSession(t)
	if err := manager.Start(context.Background(), enc); err != ErrSessionExists {
		t.Fatalf("expected ErrSessionExists, got %v", err)
	}
}
