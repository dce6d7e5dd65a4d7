package note

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

var ErrNotFound = errors.New("note not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type noteModel struct {
	ID          uuid.UUID      `gorm:"primaryKey;column:id"`
	EncounterID uuid.UUID      `gorm:"column:encounter_id;index"`
	TemplateID  uuid.UUID      `gorm:"column:template_id"`
	ProviderID  uuid.UUID      `gorm:"column:provider_id;index"`
	Sections    datatypes.JSON `gorm:"column:sections"`
	Diagnoses   datatypes.JSON `gorm:"column:diagnoses"`
	FullText    string         `gorm:"column:full_text"`
	Status      string         `gorm:"column:status"`
	SignedAt    *time.Time     `gorm:"column:signed_at"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (noteModel) TableName() string { return "notes" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&noteModel{})
}

func (r *Repository) Create(ctx context.Context, providerID uuid.UUID, req models.CreateNoteRequest) (models.Note, error) {
	sections, err := json.Marshal(req.Sections)
	if err != nil {
		return models.Note{}, err
	}
	diagnoses, err := json.Marshal(req.Diagnoses)
	if err != nil {
		return models.Note{}, err
	}
	now := time.Now().UTC()
	row := &noteModel{
		ID:          uuid.New(),
		EncounterID: req.EncounterID,
		TemplateID:  req.TemplateID,
		ProviderID:  providerID,
		Sections:    sections,
		Diagnoses:   diagnoses,
		FullText:    req.FullText,
		Status:      req.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.Note{}, err
	}
	return toNote(row)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Note, error) {
	var row noteModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNotFound
		}
		return models.Note{}, err
	}
	return toNote(&row)
}

// GetByEncounter returns the encounter's note; one note per encounter.
func (r *Repository) GetByEncounter(ctx context.Context, encounterID uuid.UUID) (models.Note, error) {
	var row noteModel
	err := r.db.WithContext(ctx).
		Where("encounter_id = ?", encounterID).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNotFound
		}
		return models.Note{}, err
	}
	return toNote(&row)
}

func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit int) ([]models.Note, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []noteModel
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	notes := make([]models.Note, 0, len(rows))
	for i := range rows {
		note, err := toNote(&rows[i])
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func (r *Repository) UpdateSections(ctx context.Context, id uuid.UUID, sections []models.NoteSection, fullText string) error {
	raw, err := json.Marshal(sections)
	if err != nil {
		return err
	}
	return r.update(ctx, id, map[string]interface{}{
		"sections":  datatypes.JSON(raw),
		"full_text": fullText,
	})
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, signedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if signedAt != nil {
		updates["signed_at"] = *signedAt
	}
	return r.update(ctx, id, updates)
}

func (r *Repository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&noteModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteByEncounter(ctx context.Context, encounterID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&noteModel{}, "encounter_id = ?", encounterID).Error
}

func toNote(row *noteModel) (models.Note, error) {
	var sections []models.NoteSection
	if len(row.Sections) > 0 {
		if err := json.Unmarshal(row.Sections, &sections); err != nil {
			return models.Note{}, err
		}
	}
	var diagnoses []models.Diagnosis
	if len(row.Diagnoses) > 0 {
		if err := json.Unmarshal(row.Diagnoses, &diagnoses); err != nil {
			return models.Note{}, err
		}
	}
	return models.Note{
		ID:          row.ID,
		EncounterID: row.EncounterID,
		TemplateID:  row.TemplateID,
		ProviderID:  row.ProviderID,
		Sections:    sections,
		Diagnoses:   diagnoses,
		FullText:    row.FullText,
		Status:      row.Status,
		SignedAt:    row.SignedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
