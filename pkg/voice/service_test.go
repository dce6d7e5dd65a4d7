package voice

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

type fakeStore struct {
	profiles map[uuid.UUID]models.VoiceProfile // keyed by provider id
	samples  map[uuid.UUID]models.VoiceSample
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: make(map[uuid.UUID]models.VoiceProfile),
		samples:  make(map[uuid.UUID]models.VoiceSample),
	}
}

func (f *fakeStore) CreateProfile(ctx context.Context, providerID uuid.UUID) (models.VoiceProfile, error) {
	profile := models.VoiceProfile{ID: uuid.New(), ProviderID: providerID, VoiceSampleIDs: []uuid.UUID{}}
	f.profiles[providerID] = profile
	return profile, nil
}

func (f *fakeStore) GetProfileByProvider(ctx context.Context, providerID uuid.UUID) (models.VoiceProfile, error) {
	profile, ok := f.profiles[providerID]
	if !ok {
		return models.VoiceProfile{}, ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeStore) UpdateProfile(ctx context.Context, id uuid.UUID, sampleIDs []uuid.UUID, count int, complete bool) error {
	for providerID, profile := range f.profiles {
		if profile.ID == id {
			profile.VoiceSampleIDs = sampleIDs
			profile.SampleCount = count
			profile.EnrollmentComplete = complete
			f.profiles[providerID] = profile
			return nil
		}
	}
	return ErrProfileNotFound
}

func (f *fakeStore) AddSample(ctx context.Context, profileID uuid.UUID, req models.AddVoiceSampleRequest) (models.VoiceSample, error) {
	sample := models.VoiceSample{ID: uuid.New(), ProfileID: profileID, AudioData: req.AudioData, Duration: req.Duration}
	f.samples[sample.ID] = sample
	return sample, nil
}

func (f *fakeStore) GetSample(ctx context.Context, id uuid.UUID) (models.VoiceSample, error) {
	sample, ok := f.samples[id]
	if !ok {
		return models.VoiceSample{}, ErrSampleNotFound
	}
	return sample, nil
}

func (f *fakeStore) ListSamples(ctx context.Context, profileID uuid.UUID) ([]models.VoiceSample, error) {
	var out []models.VoiceSample
	for _, sample := range f.samples {
		if sample.ProfileID == profileID {
			out = append(out, sample)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteSample(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.samples[id]; !ok {
		return ErrSampleNotFound
	}
	delete(f.samples, id)
	return nil
}

func (f *fakeStore) DeleteSamplesByProfile(ctx context.Context, profileID uuid.UUID) error {
	for id, sample := range f.samples {
		if sample.ProfileID == profileID {
			delete(f.samples, id)
		}
	}
	return nil
}

func sampleRequest() models.AddVoiceSampleRequest {
	return models.AddVoiceSampleRequest{
		AudioData: base64.StdEncoding.EncodeToString([]byte("audio")),
		Duration:  2.5,
	}
}

func TestEnrollmentCompletesOnThirdSample(t *testing.T) {
	service := NewService(newFakeStore())
	providerID := uuid.New()

	for i := 1; i <= 3; i++ {
		_, profile, err := service.AddSample(context.Background(), providerID, sampleRequest())
		if err != nil {
			t.Fatalf("sample %d failed: %v", i, err)
		}
		if profile.SampleCount != i {
			t.Fatalf("after sample %d count is %d", i, profile.SampleCount)
		}
		wantComplete := i >= 3
		if profile.EnrollmentComplete != wantComplete {
			t.Fatalf("after sample %d enrollment_complete = %v, want %v", i, profile.EnrollmentComplete, wantComplete)
		}
	}
}

func TestDeleteBelowThresholdRevertsEnrollment(t *testing.T) {
	service := NewService(newFakeStore())
	providerID := uuid.New()

	var lastSample models.VoiceSample
	for i := 0; i < 3; i++ {
		sample, _, err := service.AddSample(context.Background(), providerID, sampleRequest())
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		lastSample = sample
	}

	profile, err := service.DeleteSample(context.Background(), providerID, lastSample.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if profile.SampleCount != 2 {
		t.Fatalf("count is %d after delete, want 2", profile.SampleCount)
	}
	if profile.EnrollmentComplete {
		t.Fatal("enrollment_complete must revert below three samples")
	}
	if len(profile.VoiceSampleIDs) != 2 {
		t.Fatalf("profile still references %d samples", len(profile.VoiceSampleIDs))
	}
}

func TestDeleteSampleChecksOwnership(t *testing.T) {
	store := newFakeStore()
	service := NewService(store)
	owner := uuid.New()
	other := uuid.New()

	sample, _, err := service.AddSample(context.Background(), owner, sampleRequest())
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, _, err := service.AddSample(context.Background(), other, sampleRequest()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if _, err := service.DeleteSample(context.Background(), other, sample.ID); err != ErrSampleNotFound {
		t.Fatalf("foreign delete returned %v, want ErrSampleNotFound", err)
	}
	if _, ok := store.samples[sample.ID]; !ok {
		t.Fatal("foreign delete must not remove the sample")
	}
}

func TestAddSampleValidatesInput(t *testing.T) {
	service := NewService(newFakeStore())
	providerID := uuid.New()

	if _, _, err := service.AddSample(context.Background(), providerID, models.AddVoiceSampleRequest{AudioData: "not base64!!", Duration: 1}); err == nil {
		t.Fatal("expected invalid base64 to be rejected")
	}
	if _, _, err := service.AddSample(context.Background(), providerID, models.AddVoiceSampleRequest{AudioData: sampleRequest().AudioData, Duration: 0}); err == nil {
		t.Fatal("expected non-positive duration to be rejected")
	}
}

func TestResetProfileClearsEnrollment(t *testing.T) {
	store := newFakeStore()
	service := NewService(store)
	providerID := uuid.New()

	for i := 0; i < 3; i++ {
		if _, _, err := service.AddSample(context.Background(), providerID, sampleRequest()); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	profile, err := service.ResetProfile(context.Background(), providerID)
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if profile.SampleCount != 0 || profile.EnrollmentComplete || len(profile.VoiceSampleIDs) != 0 {
		t.Fatalf("profile not cleared: %+v", profile)
	}
	if len(store.samples) != 0 {
		t.Fatalf("%d samples survived reset", len(store.samples))
	}
}
