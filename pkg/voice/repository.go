package voice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("voice profile not found")
	ErrSampleNotFound  = errors.New("voice sample not found")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type profileModel struct {
	ID                 uuid.UUID      `gorm:"primaryKey;column:id"`
	ProviderID         uuid.UUID      `gorm:"column:provider_id;uniqueIndex"`
	VoiceSampleIDs     datatypes.JSON `gorm:"column:voice_sample_ids"`
	SampleCount        int            `gorm:"column:sample_count"`
	EnrollmentComplete bool           `gorm:"column:enrollment_complete"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
}

func (profileModel) TableName() string { return "voice_profiles" }

type sampleModel struct {
	ID        uuid.UUID `gorm:"primaryKey;column:id"`
	ProfileID uuid.UUID `gorm:"column:profile_id;index"`
	AudioData string    `gorm:"column:audio_data;type:text"`
	Duration  float64   `gorm:"column:duration"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (sampleModel) TableName() string { return "voice_samples" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&profileModel{}, &sampleModel{})
}

func (r *Repository) CreateProfile(ctx context.Context, providerID uuid.UUID) (models.VoiceProfile, error) {
	now := time.Now().UTC()
	row := &profileModel{
		ID:             uuid.New(),
		ProviderID:     providerID,
		VoiceSampleIDs: datatypes.JSON("[]"),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.VoiceProfile{}, err
	}
	return toProfile(row)
}

func (r *Repository) GetProfileByProvider(ctx context.Context, providerID uuid.UUID) (models.VoiceProfile, error) {
	var row profileModel
	if err := r.db.WithContext(ctx).First(&row, "provider_id = ?", providerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.VoiceProfile{}, ErrProfileNotFound
		}
		return models.VoiceProfile{}, err
	}
	return toProfile(&row)
}

func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, sampleIDs []uuid.UUID, count int, complete bool) error {
	raw, err := json.Marshal(sampleIDs)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&profileModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"voice_sample_ids":    datatypes.JSON(raw),
		"sample_count":        count,
		"enrollment_complete": complete,
		"updated_at":          time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *Repository) AddSample(ctx context.Context, profileID uuid.UUID, req models.AddVoiceSampleRequest) (models.VoiceSample, error) {
	row := &sampleModel{
		ID:        uuid.New(),
		ProfileID: profileID,
		AudioData: req.AudioData,
		Duration:  req.Duration,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.VoiceSample{}, err
	}
	return toSample(row), nil
}

func (r *Repository) GetSample(ctx context.Context, id uuid.UUID) (models.VoiceSample, error) {
	var row sampleModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.VoiceSample{}, ErrSampleNotFound
		}
		return models.VoiceSample{}, err
	}
	return toSample(&row), nil
}

func (r *Repository) ListSamples(ctx context.Context, profileID uuid.UUID) ([]models.VoiceSample, error) {
	var rows []sampleModel
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	samples := make([]models.VoiceSample, 0, len(rows))
	for i := range rows {
		samples = append(samples, toSample(&rows[i]))
	}
	return samples, nil
}

func (r *Repository) DeleteSample(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&sampleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSampleNotFound
	}
	return nil
}

func (r *Repository) DeleteSamplesByProfile(ctx context.Context, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&sampleModel{}, "profile_id = ?", profileID).Error
}

func toProfile(row *profileModel) (models.VoiceProfile, error) {
	var sampleIDs []uuid.UUID
	if len(row.VoiceSampleIDs) > 0 {
		if err := json.Unmarshal(row.VoiceSampleIDs, &sampleIDs); err != nil {
			return models.VoiceProfile{}, err
		}
	}
	return models.VoiceProfile{
		ID:                 row.ID,
		ProviderID:         row.ProviderID,
		VoiceSampleIDs:     sampleIDs,
		SampleCount:        row.SampleCount,
		EnrollmentComplete: row.EnrollmentComplete,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}, nil
}

func toSample(row *sampleModel) models.VoiceSample {
	return models.VoiceSample{
		ID:        row.ID,
		ProfileID: row.ProfileID,
		AudioData: row.AudioData,
		Duration:  row.Duration,
		CreatedAt: row.CreatedAt,
	}
}
