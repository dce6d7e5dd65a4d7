package todo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("todo not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type providerTodoModel struct {
	ID             uuid.UUID  `gorm:"primaryKey;column:id"`
	ProviderID     uuid.UUID  `gorm:"column:provider_id;index"`
	EncounterID    *uuid.UUID `gorm:"column:encounter_id;index"`
	Text           string     `gorm:"column:text"`
	EncounterLabel string     `gorm:"column:encounter_label"`
	Done           bool       `gorm:"column:done"`
	CompletedAt    *time.Time `gorm:"column:completed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
}

func (providerTodoModel) TableName() string { return "provider_todos" }

type encounterTodoModel struct {
	ID          uuid.UUID  `gorm:"primaryKey;column:id"`
	EncounterID uuid.UUID  `gorm:"column:encounter_id;index"`
	Text        string     `gorm:"column:text"`
	Category    string     `gorm:"column:category"`
	Done        bool       `gorm:"column:done"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (encounterTodoModel) TableName() string { return "encounter_todos" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&providerTodoModel{}, &encounterTodoModel{})
}

func (r *Repository) CreateProviderTodo(ctx context.Context, providerID uuid.UUID, req models.CreateProviderTodoRequest) (models.ProviderTodo, error) {
	row := &providerTodoModel{
		ID:             uuid.New(),
		ProviderID:     providerID,
		EncounterID:    req.EncounterID,
		Text:           req.Text,
		EncounterLabel: req.EncounterLabel,
		CreatedAt:      time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.ProviderTodo{}, err
	}
	return toProviderTodo(row), nil
}

func (r *Repository) GetProviderTodo(ctx context.Context, id uuid.UUID) (models.ProviderTodo, error) {
	var row providerTodoModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProviderTodo{}, ErrNotFound
		}
		return models.ProviderTodo{}, err
	}
	return toProviderTodo(&row), nil
}

func (r *Repository) ListProviderTodos(ctx context.Context, providerID uuid.UUID, includeDone bool) ([]models.ProviderTodo, error) {
	query := r.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if !includeDone {
		query = query.Where("done = ?", false)
	}
	var rows []providerTodoModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	todos := make([]models.ProviderTodo, 0, len(rows))
	for i := range rows {
		todos = append(todos, toProviderTodo(&rows[i]))
	}
	return todos, nil
}

func (r *Repository) UpdateProviderTodo(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.applyUpdates(ctx, &providerTodoModel{}, id, updates)
}

func (r *Repository) DeleteProviderTodo(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&providerTodoModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CreateEncounterTodo(ctx context.Context, encounterID uuid.UUID, req models.CreateEncounterTodoRequest) (models.EncounterTodo, error) {
	row := &encounterTodoModel{
		ID:          uuid.New(),
		EncounterID: encounterID,
		Text:        req.Text,
		Category:    req.Category,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.EncounterTodo{}, err
	}
	return toEncounterTodo(row), nil
}

func (r *Repository) GetEncounterTodo(ctx context.Context, id uuid.UUID) (models.EncounterTodo, error) {
	var row encounterTodoModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.EncounterTodo{}, ErrNotFound
		}
		return models.EncounterTodo{}, err
	}
	return toEncounterTodo(&row), nil
}

func (r *Repository) ListEncounterTodos(ctx context.Context, encounterID uuid.UUID) ([]models.EncounterTodo, error) {
	var rows []encounterTodoModel
	err := r.db.WithContext(ctx).
		Where("encounter_id = ?", encounterID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	todos := make([]models.EncounterTodo, 0, len(rows))
	for i := range rows {
		todos = append(todos, toEncounterTodo(&rows[i]))
	}
	return todos, nil
}

func (r *Repository) UpdateEncounterTodo(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.applyUpdates(ctx, &encounterTodoModel{}, id, updates)
}

func (r *Repository) DeleteEncounterTodo(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&encounterTodoModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByEncounter removes both todo variants tied to an encounter.
func (r *Repository) DeleteByEncounter(ctx context.Context, encounterID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&encounterTodoModel{}, "encounter_id = ?", encounterID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&providerTodoModel{}, "encounter_id = ?", encounterID).Error
}

func (r *Repository) applyUpdates(ctx context.Context, model interface{}, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func toProviderTodo(row *providerTodoModel) models.ProviderTodo {
	return models.ProviderTodo{
		ID:             row.ID,
		ProviderID:     row.ProviderID,
		EncounterID:    row.EncounterID,
		Text:           row.Text,
		EncounterLabel: row.EncounterLabel,
		Done:           row.Done,
		CompletedAt:    row.CompletedAt,
		CreatedAt:      row.CreatedAt,
	}
}

func toEncounterTodo(row *encounterTodoModel) models.EncounterTodo {
	return models.EncounterTodo{
		ID:          row.ID,
		EncounterID: row.EncounterID,
		Text:        row.Text,
		Category:    row.Category,
		Done:        row.Done,
		CompletedAt: row.CompletedAt,
		CreatedAt:   row.CreatedAt,
	}
}
