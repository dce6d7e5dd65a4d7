package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

var validSpeakers = map[string]bool{
	"provider": true,
	"patient":  true,
	"unknown":  true,
}

// Store is the segment persistence contract.
type Store interface {
	Add(ctx context.Context, encounterID uuid.UUID, req models.AddSegmentRequest) (models.TranscriptSegment, error)
	AddBatch(ctx context.Context, encounterID uuid.UUID, reqs []models.AddSegmentRequest) ([]models.TranscriptSegment, error)
	Get(ctx context.Context, id uuid.UUID) (models.TranscriptSegment, error)
	ListByEncounter(ctx context.Context, encounterID uuid.UUID) ([]models.TranscriptSegment, error)
	NextOrder(ctx context.Context, encounterID uuid.UUID) (int, error)
	Update(ctx context.Context, id uuid.UUID, patch models.SegmentPatch) error
	DeleteByEncounter(ctx context.Context, encounterID uuid.UUID) error
}

// EncounterSource resolves encounters for ownership checks.
type EncounterSource interface {
	Get(ctx context.Context, id uuid.UUID) (models.Encounter, error)
}

type Service struct {
	store      Store
	encounters EncounterSource
}

func NewService(store Store, encounters EncounterSource) *Service {
	return &Service{store: store, encounters: encounters}
}

func (s *Service) Add(ctx context.Context, providerID, encounterID uuid.UUID, req models.AddSegmentRequest) (models.TranscriptSegment, error) {
	if err := s.checkOwnership(ctx, providerID, encounterID); err != nil {
		return models.TranscriptSegment{}, err
	}
	if err := validateSegment(req); err != nil {
		return models.TranscriptSegment{}, err
	}
	return s.store.Add(ctx, encounterID, req)
}

func (s *Service) AddBatch(ctx context.Context, providerID, encounterID uuid.UUID, reqs []models.AddSegmentRequest) ([]models.TranscriptSegment, error) {
	if err := s.checkOwnership(ctx, providerID, encounterID); err != nil {
		return nil, err
	}
	for i, req := range reqs {
		if err := validateSegment(req); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return s.store.AddBatch(ctx, encounterID, reqs)
}

func (s *Service) List(ctx context.Context, providerID, encounterID uuid.UUID) ([]models.TranscriptSegment, error) {
	if err := s.checkOwnership(ctx, providerID, encounterID); err != nil {
		return nil, err
	}
	return s.store.ListByEncounter(ctx, encounterID)
}

// FullTranscript renders the encounter's segments as "<speaker>: <text>"
// lines in sequence order. Empty string means no transcript.
func (s *Service) FullTranscript(ctx context.Context, providerID, encounterID uuid.UUID) (string, error) {
	segments, err := s.List(ctx, providerID, encounterID)
	if err != nil {
		return "", err
	}
	return RenderTranscript(segments), nil
}

func (s *Service) Update(ctx context.Context, providerID, segmentID uuid.UUID, patch models.SegmentPatch) (models.TranscriptSegment, error) {
	segment, err := s.store.Get(ctx, segmentID)
	if err != nil {
		return models.TranscriptSegment{}, err
	}
	if err := s.checkOwnership(ctx, providerID, segment.EncounterID); err != nil {
		return models.TranscriptSegment{}, err
	}
	if patch.Speaker != nil && !validSpeakers[*patch.Speaker] {
		return models.TranscriptSegment{}, fmt.Errorf("unknown speaker %q", *patch.Speaker)
	}
	if err := s.store.Update(ctx, segmentID, patch); err != nil {
		return models.TranscriptSegment{}, err
	}
	return s.store.Get(ctx, segmentID)
}

// DeleteByEncounter implements the encounter cascade contract.
func (s *Service) DeleteByEncounter(ctx context.Context, encounterID uuid.UUID) error {
	return s.store.DeleteByEncounter(ctx, encounterID)
}

// EncounterFor resolves an encounter owned by the provider. Foreign
// encounters surface as ErrNotFound.
func (s *Service) EncounterFor(ctx context.Context, providerID, encounterID uuid.UUID) (models.Encounter, error) {
	enc, err := s.encounters.Get(ctx, encounterID)
	if err != nil {
		return models.Encounter{}, err
	}
	if enc.ProviderID != providerID {
		return models.Encounter{}, ErrNotFound
	}
	return enc, nil
}

func (s *Service) checkOwnership(ctx context.Context, providerID, encounterID uuid.UUID) error {
	enc, err := s.encounters.Get(ctx, encounterID)
	if err != nil {
		return err
	}
	if enc.ProviderID != providerID {
		return ErrNotFound
	}
	return nil
}

func validateSegment(req models.AddSegmentRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("text is required")
	}
	if !validSpeakers[req.Speaker] {
		return fmt.Errorf("unknown speaker %q", req.Speaker)
	}
	return nil
}

// RenderTranscript joins segments into the canonical transcript text. The
// speaker display name wins over the role label when present.
func RenderTranscript(segments []models.TranscriptSegment) string {
	lines := make([]string, 0, len(segments))
	for _, segment := range segments {
		label := segment.Speaker
		if segment.SpeakerName != "" {
			label = segment.SpeakerName
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, segment.Text))
	}
	return strings.Join(lines, "\n")
}
