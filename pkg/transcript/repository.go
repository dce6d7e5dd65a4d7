package transcript

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("transcript segment not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type segmentModel struct {
	ID           uuid.UUID `gorm:"primaryKey;column:id"`
	EncounterID  uuid.UUID `gorm:"column:encounter_id;index;index:idx_segments_encounter_order,priority:1"`
	Speaker      string    `gorm:"column:speaker"`
	SpeakerName  string    `gorm:"column:speaker_name"`
	Text         string    `gorm:"column:text"`
	StartTime    float64   `gorm:"column:start_time"`
	EndTime      float64   `gorm:"column:end_time"`
	Confidence   *float64  `gorm:"column:confidence"`
	SegmentOrder int       `gorm:"column:segment_order;index:idx_segments_encounter_order,priority:2"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (segmentModel) TableName() string { return "transcript_segments" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&segmentModel{})
}

func (r *Repository) Add(ctx context.Context, encounterID uuid.UUID, req models.AddSegmentRequest) (models.TranscriptSegment, error) {
	row := &segmentModel{
		ID:           uuid.New(),
		EncounterID:  encounterID,
		Speaker:      req.Speaker,
		SpeakerName:  req.SpeakerName,
		Text:         req.Text,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Confidence:   req.Confidence,
		SegmentOrder: req.Order,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.TranscriptSegment{}, err
	}
	return toSegment(row), nil
}

func (r *Repository) AddBatch(ctx context.Context, encounterID uuid.UUID, reqs []models.AddSegmentRequest) ([]models.TranscriptSegment, error) {
	segments := make([]models.TranscriptSegment, 0, len(reqs))
	for _, req := range reqs {
		segment, err := r.Add(ctx, encounterID, req)
		if err != nil {
			return segments, err
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.TranscriptSegment, error) {
	var row segmentModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TranscriptSegment{}, ErrNotFound
		}
		return models.TranscriptSegment{}, err
	}
	return toSegment(&row), nil
}

// ListByEncounter returns segments in read order.
func (r *Repository) ListByEncounter(ctx context.Context, encounterID uuid.UUID) ([]models.TranscriptSegment, error) {
	var rows []segmentModel
	err := r.db.WithContext(ctx).
		Where("encounter_id = ?", encounterID).
		Order("segment_order").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	segments := make([]models.TranscriptSegment, 0, len(rows))
	for i := range rows {
		segments = append(segments, toSegment(&rows[i]))
	}
	return segments, nil
}

// NextOrder returns the sequence value for the next segment of an encounter.
func (r *Repository) NextOrder(ctx context.Context, encounterID uuid.UUID) (int, error) {
	var max struct {
		Max *int
	}
	err := r.db.WithContext(ctx).
		Model(&segmentModel{}).
		Select("MAX(segment_order) AS max").
		Where("encounter_id = ?", encounterID).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max.Max == nil {
		return 0, nil
	}
	return *max.Max + 1, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch models.SegmentPatch) error {
	updates := map[string]interface{}{}
	if patch.Text != nil {
		updates["text"] = *patch.Text
	}
	if patch.Speaker != nil {
		updates["speaker"] = *patch.Speaker
	}
	if patch.SpeakerName != nil {
		updates["speaker_name"] = *patch.SpeakerName
	}
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&segmentModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteByEncounter(ctx context.Context, encounterID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&segmentModel{}, "encounter_id = ?", encounterID).Error
}

func toSegment(row *segmentModel) models.TranscriptSegment {
	return models.TranscriptSegment{
		ID:          row.ID,
		EncounterID: row.EncounterID,
		Speaker:     row.Speaker,
		SpeakerName: row.SpeakerName,
		Text:        row.Text,
		StartTime:   row.StartTime,
		EndTime:     row.EndTime,
		Confidence:  row.Confidence,
		Order:       row.SegmentOrder,
		CreatedAt:   row.CreatedAt,
	}
}
