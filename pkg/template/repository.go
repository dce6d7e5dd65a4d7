package template

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

var ErrNotFound = errors.New("template not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type templateModel struct {
	ID          uuid.UUID      `gorm:"primaryKey;column:id"`
	ProviderID  *uuid.UUID     `gorm:"column:provider_id;index"`
	Name        string         `gorm:"column:name"`
	Description string         `gorm:"column:description"`
	Category    string         `gorm:"column:category;index"`
	Sections    datatypes.JSON `gorm:"column:sections"`
	IsDefault   bool           `gorm:"column:is_default"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (templateModel) TableName() string { return "templates" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&templateModel{})
}

func (r *Repository) Create(ctx context.Context, providerID *uuid.UUID, req models.CreateTemplateRequest) (models.Template, error) {
	now := time.Now().UTC()
	row := &templateModel{
		ID:          uuid.New(),
		ProviderID:  providerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IsDefault:   req.IsDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if data, err := json.Marshal(sortedSections(req.Sections)); err == nil {
		row.Sections = datatypes.JSON(data)
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.Template{}, err
	}
	return toTemplate(row), nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Template, error) {
	var row templateModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Template{}, ErrNotFound
		}
		return models.Template{}, err
	}
	return toTemplate(&row), nil
}

// List returns system templates plus the provider's own, oldest first.
func (r *Repository) List(ctx context.Context, providerID uuid.UUID) ([]models.Template, error) {
	var rows []templateModel
	err := r.db.WithContext(ctx).
		Where("provider_id IS NULL OR provider_id = ?", providerID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toTemplates(rows), nil
}

func (r *Repository) ListByCategory(ctx context.Context, providerID uuid.UUID, category string) ([]models.Template, error) {
	var rows []templateModel
	err := r.db.WithContext(ctx).
		Where("category = ? AND (provider_id IS NULL OR provider_id = ?)", category, providerID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toTemplates(rows), nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch models.TemplatePatch) error {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.IsDefault != nil {
		updates["is_default"] = *patch.IsDefault
	}
	if patch.Sections != nil {
		data, err := json.Marshal(sortedSections(*patch.Sections))
		if err != nil {
			return err
		}
		updates["sections"] = datatypes.JSON(data)
	}
	result := r.db.WithContext(ctx).Model(&templateModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&templateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CountSystemTemplates(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&templateModel{}).Where("provider_id IS NULL").Count(&count).Error
	return count, err
}

func toTemplates(rows []templateModel) []models.Template {
	templates := make([]models.Template, 0, len(rows))
	for i := range rows {
		templates = append(templates, toTemplate(&rows[i]))
	}
	return templates
}

func toTemplate(row *templateModel) models.Template {
	tpl := models.Template{
		ID:          row.ID,
		ProviderID:  row.ProviderID,
		Name:        row.Name,
		Description: row.Description,
		Category:    row.Category,
		IsDefault:   row.IsDefault,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if len(row.Sections) > 0 {
		var sections []models.TemplateSection
		_ = json.Unmarshal(row.Sections, &sections)
		tpl.Sections = sortedSections(sections)
	}
	return tpl
}
