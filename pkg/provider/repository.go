package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("provider not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type providerModel struct {
	ID          uuid.UUID `gorm:"primaryKey;column:id"`
	Name        string    `gorm:"column:name"`
	Email       string    `gorm:"column:email;uniqueIndex"`
	Specialty   string    `gorm:"column:specialty"`
	Credentials string    `gorm:"column:credentials"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (providerModel) TableName() string { return "providers" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&providerModel{})
}

func (r *Repository) Create(ctx context.Context, req models.GetOrCreateProviderRequest) (models.Provider, error) {
	now := time.Now().UTC()
	row := &providerModel{
		ID:          uuid.New(),
		Name:        req.Name,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Specialty:   req.Specialty,
		Credentials: req.Credentials,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.Provider{}, err
	}
	return toProvider(row), nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Provider, error) {
	var row providerModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Provider{}, ErrNotFound
		}
		return models.Provider{}, err
	}
	return toProvider(&row), nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (models.Provider, error) {
	var row providerModel
	err := r.db.WithContext(ctx).First(&row, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Provider{}, ErrNotFound
		}
		return models.Provider{}, err
	}
	return toProvider(&row), nil
}

func (r *Repository) List(ctx context.Context) ([]models.Provider, error) {
	var rows []providerModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	providers := make([]models.Provider, 0, len(rows))
	for i := range rows {
		providers = append(providers, toProvider(&rows[i]))
	}
	return providers, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch models.ProviderPatch) error {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Specialty != nil {
		updates["specialty"] = *patch.Specialty
	}
	if patch.Credentials != nil {
		updates["credentials"] = *patch.Credentials
	}
	result := r.db.WithContext(ctx).Model(&providerModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func toProvider(row *providerModel) models.Provider {
	return models.Provider{
		ID:          row.ID,
		Name:        row.Name,
		Email:       row.Email,
		Specialty:   row.Specialty,
		Credentials: row.Credentials,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
