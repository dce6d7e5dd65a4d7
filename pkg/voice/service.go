package voice

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

// enrollmentThreshold is the sample count at which a profile counts as
// enrolled.
const enrollmentThreshold = 3

// Store is the voice enrollment persistence contract.
type Store interface {
	CreateProfile(ctx context.Context, providerID uuid.UUID) (models.VoiceProfile, error)
	GetProfileByProvider(ctx context.Context, providerID uuid.UUID) (models.VoiceProfile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, sampleIDs []uuid.UUID, count int, complete bool) error
	AddSample(ctx context.Context, profileID uuid.UUID, req models.AddVoiceSampleRequest) (models.VoiceSample, error)
	GetSample(ctx context.Context, id uuid.UUID) (models.VoiceSample, error)
	ListSamples(ctx context.Context, profileID uuid.UUID) ([]models.VoiceSample, error)
	DeleteSample(ctx context.Context, id uuid.UUID) error
	DeleteSamplesByProfile(ctx context.Context, profileID uuid.UUID) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetOrCreateProfile returns the provider's voice profile, creating an
// empty one on first access.
func (s *Service) GetOrCreateProfile(ctx context.Context, providerID uuid.UUID) (models.VoiceProfile, error) {
	profile, err := s.store.GetProfileByProvider(ctx, providerID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return models.VoiceProfile{}, err
	}
	return s.store.CreateProfile(ctx, providerID)
}

// AddSample stores one enrollment recording and recomputes the profile's
// enrollment state.
func (s *Service) AddSample(ctx context.Context, providerID uuid.UUID, req models.AddVoiceSampleRequest) (models.VoiceSample, models.VoiceProfile, error) {
	if req.AudioData == "" {
		return models.VoiceSample{}, models.VoiceProfile{}, fmt.Errorf("audio_data is required")
	}
	if _, err := base64.StdEncoding.DecodeString(req.AudioData); err != nil {
		return models.VoiceSample{}, models.VoiceProfile{}, fmt.Errorf("audio_data must be base64")
	}
	if req.Duration <= 0 {
		return models.VoiceSample{}, models.VoiceProfile{}, fmt.Errorf("duration must be positive")
	}

	profile, err := s.GetOrCreateProfile(ctx, providerID)
	if err != nil {
		return models.VoiceSample{}, models.VoiceProfile{}, err
	}

	sample, err := s.store.AddSample(ctx, profile.ID, req)
	if err != nil {
		return models.VoiceSample{}, models.VoiceProfile{}, err
	}

	sampleIDs := append(profile.VoiceSampleIDs, sample.ID)
	count := profile.SampleCount + 1
	if err := s.store.UpdateProfile(ctx, profile.ID, sampleIDs, count, count >= enrollmentThreshold); err != nil {
		return models.VoiceSample{}, models.VoiceProfile{}, err
	}

	updated, err := s.store.GetProfileByProvider(ctx, providerID)
	if err != nil {
		return models.VoiceSample{}, models.VoiceProfile{}, err
	}
	return sample, updated, nil
}

func (s *Service) ListSamples(ctx context.Context, providerID uuid.UUID) ([]models.VoiceSample, error) {
	profile, err := s.store.GetProfileByProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return []models.VoiceSample{}, nil
		}
		return nil, err
	}
	return s.store.ListSamples(ctx, profile.ID)
}

// DeleteSample removes one recording and recomputes enrollment, which can
// drop a completed profile back below the threshold.
func (s *Service) DeleteSample(ctx context.Context, providerID, sampleID uuid.UUID) (models.VoiceProfile, error) {
	profile, err := s.store.GetProfileByProvider(ctx, providerID)
	if err != nil {
		return models.VoiceProfile{}, err
	}
	sample, err := s.store.GetSample(ctx, sampleID)
	if err != nil {
		return models.VoiceProfile{}, err
	}
	if sample.ProfileID != profile.ID {
		return models.VoiceProfile{}, ErrSampleNotFound
	}

	if err := s.store.DeleteSample(ctx, sampleID); err != nil {
		return models.VoiceProfile{}, err
	}

	sampleIDs := make([]uuid.UUID, 0, len(profile.VoiceSampleIDs))
	for _, id := range profile.VoiceSampleIDs {
		if id != sampleID {
			sampleIDs = append(sampleIDs, id)
		}
	}
	count := profile.SampleCount - 1
	if count < 0 {
		count = 0
	}
	if err := s.store.UpdateProfile(ctx, profile.ID, sampleIDs, count, count >= enrollmentThreshold); err != nil {
		return models.VoiceProfile{}, err
	}
	return s.store.GetProfileByProvider(ctx, providerID)
}

// ResetProfile deletes every sample and returns the profile to its
// unenrolled state.
func (s *Service) ResetProfile(ctx context.Context, providerID uuid.UUID) (models.VoiceProfile, error) {
	profile, err := s.store.GetProfileByProvider(ctx, providerID)
	if err != nil {
		return models.VoiceProfile{}, err
	}
	if err := s.store.DeleteSamplesByProfile(ctx, profile.ID); err != nil {
		return models.VoiceProfile{}, err
	}
	if err := s.store.UpdateProfile(ctx, profile.ID, []uuid.UUID{}, 0, false); err != nil {
		return models.VoiceProfile{}, err
	}
	return s.store.GetProfileByProvider(ctx, providerID)
}
