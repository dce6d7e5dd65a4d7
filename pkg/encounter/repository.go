package encounter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("encounter not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type encounterModel struct {
	ID             uuid.UUID  `gorm:"primaryKey;column:id"`
	ProviderID     uuid.UUID  `gorm:"column:provider_id;index"`
	TemplateID     *uuid.UUID `gorm:"column:template_id"`
	PatientName    string     `gorm:"column:patient_name"`
	PatientID      string     `gorm:"column:patient_id"`
	ChiefComplaint string     `gorm:"column:chief_complaint"`
	Status         string     `gorm:"column:status;index"`
	DateOfService  time.Time  `gorm:"column:date_of_service;index"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (encounterModel) TableName() string { return "encounters" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&encounterModel{})
}

func (r *Repository) Create(ctx context.Context, providerID uuid.UUID, req models.CreateEncounterRequest) (models.Encounter, error) {
	now := time.Now().UTC()
	row := &encounterModel{
		ID:             uuid.New(),
		ProviderID:     providerID,
		TemplateID:     req.TemplateID,
		PatientName:    req.PatientName,
		PatientID:      req.PatientID,
		ChiefComplaint: req.ChiefComplaint,
		Status:         StatusRecording,
		DateOfService:  now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.Encounter{}, err
	}
	return toEncounter(row), nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Encounter, error) {
	var row encounterModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Encounter{}, ErrNotFound
		}
		return models.Encounter{}, err
	}
	return toEncounter(&row), nil
}

// ListByProvider returns the provider's encounters newest first, optionally
// filtered by status.
func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID, status string, limit int) ([]models.Encounter, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var rows []encounterModel
	if err := query.Order("date_of_service DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	encounters := make([]models.Encounter, 0, len(rows))
	for i := range rows {
		encounters = append(encounters, toEncounter(&rows[i]))
	}
	return encounters, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch models.EncounterPatch) error {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if patch.PatientName != nil {
		updates["patient_name"] = *patch.PatientName
	}
	if patch.PatientID != nil {
		updates["patient_id"] = *patch.PatientID
	}
	if patch.ChiefComplaint != nil {
		updates["chief_complaint"] = *patch.ChiefComplaint
	}
	if patch.TemplateID != nil {
		updates["template_id"] = *patch.TemplateID
	}
	result := r.db.WithContext(ctx).Model(&encounterModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).Model(&encounterModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&encounterModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func toEncounter(row *encounterModel) models.Encounter {
	return models.Encounter{
		ID:             row.ID,
		ProviderID:     row.ProviderID,
		TemplateID:     row.TemplateID,
		PatientName:    row.PatientName,
		PatientID:      row.PatientID,
		ChiefComplaint: row.ChiefComplaint,
		Status:         row.Status,
		DateOfService:  row.DateOfService,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
