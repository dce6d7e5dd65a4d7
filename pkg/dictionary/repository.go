package dictionary

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

var ErrNotFound = errors.New("dictionary entry not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type entryModel struct {
	ID            uuid.UUID      `gorm:"primaryKey;column:id"`
	ProviderID    uuid.UUID      `gorm:"column:provider_id;index;index:idx_dictionary_provider_category,priority:1"`
	Term          string         `gorm:"column:term"`
	Alternatives  datatypes.JSON `gorm:"column:alternatives"`
	Category      string         `gorm:"column:category;index:idx_dictionary_provider_category,priority:2"`
	Pronunciation string         `gorm:"column:pronunciation"`
	Enabled       bool           `gorm:"column:enabled"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
}

func (entryModel) TableName() string { return "dictionary_entries" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&entryModel{})
}

func (r *Repository) Add(ctx context.Context, providerID uuid.UUID, req models.AddDictionaryEntryRequest) (models.DictionaryEntry, error) {
	alternatives, err := json.Marshal(req.Alternatives)
	if err != nil {
		return models.DictionaryEntry{}, err
	}
	row := &entryModel{
		ID:            uuid.New(),
		ProviderID:    providerID,
		Term:          req.Term,
		Alternatives:  alternatives,
		Category:      req.Category,
		Pronunciation: req.Pronunciation,
		Enabled:       true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.DictionaryEntry{}, err
	}
	return toEntry(row)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.DictionaryEntry, error) {
	var row entryModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DictionaryEntry{}, ErrNotFound
		}
		return models.DictionaryEntry{}, err
	}
	return toEntry(&row)
}

func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID, category string) ([]models.DictionaryEntry, error) {
	query := r.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var rows []entryModel
	if err := query.Order("term").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntries(rows)
}

// ListEnabled returns the correction set applied to live transcription.
func (r *Repository) ListEnabled(ctx context.Context, providerID uuid.UUID) ([]models.DictionaryEntry, error) {
	var rows []entryModel
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND enabled = ?", providerID, true).
		Order("term").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEntries(rows)
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch models.DictionaryEntryPatch) error {
	updates := map[string]interface{}{}
	if patch.Term != nil {
		updates["term"] = *patch.Term
	}
	if patch.Alternatives != nil {
		alternatives, err := json.Marshal(*patch.Alternatives)
		if err != nil {
			return err
		}
		updates["alternatives"] = datatypes.JSON(alternatives)
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Pronunciation != nil {
		updates["pronunciation"] = *patch.Pronunciation
	}
	if patch.Enabled != nil {
		updates["enabled"] = *patch.Enabled
	}
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entryModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CountByProvider(ctx context.Context, providerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entryModel{}).
		Where("provider_id = ?", providerID).
		Count(&count).Error
	return count, err
}

func toEntry(row *entryModel) (models.DictionaryEntry, error) {
	var alternatives []string
	if len(row.Alternatives) > 0 {
		if err := json.Unmarshal(row.Alternatives, &alternatives); err != nil {
			return models.DictionaryEntry{}, err
		}
	}
	return models.DictionaryEntry{
		ID:            row.ID,
		ProviderID:    row.ProviderID,
		Term:          row.Term,
		Alternatives:  alternatives,
		Category:      row.Category,
		Pronunciation: row.Pronunciation,
		Enabled:       row.Enabled,
		CreatedAt:     row.CreatedAt,
	}, nil
}

func toEntries(rows []entryModel) ([]models.DictionaryEntry, error) {
	entries := make([]models.DictionaryEntry, 0, len(rows))
	for i := range rows {
		entry, err := toEntry(&rows[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
