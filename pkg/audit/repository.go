package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/medscribe-ai/platform/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type auditLogModel struct {
	ID        int64          `gorm:"primaryKey;column:id"`
	Actor     string         `gorm:"column:actor"`
	Action    string         `gorm:"column:action;index"`
	Entity    string         `gorm:"column:entity;index"`
	EntityID  string         `gorm:"column:entity_id"`
	Payload   datatypes.JSON `gorm:"column:payload"`
	CreatedAt time.Time      `gorm:"column:created_at"`
}

func (auditLogModel) TableName() string { return "scribe_audit_logs" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&auditLogModel{})
}

// Record appends one audit row. Rows are append-only; nothing updates or
// deletes them.
func (r *Repository) Record(ctx context.Context, entry models.AuditLog) error {
	row := &auditLogModel{
		Actor:     entry.Actor,
		Action:    entry.Action,
		Entity:    entry.Entity,
		EntityID:  entry.EntityID,
		CreatedAt: time.Now().UTC(),
	}
	if entry.Payload != nil {
		if data, err := json.Marshal(entry.Payload); err == nil {
			row.Payload = data
		}
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) List(ctx context.Context, entity string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if entity != "" {
		query = query.Where("entity = ?", entity)
	}
	var rows []auditLogModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	logs := make([]models.AuditLog, 0, len(rows))
	for _, row := range rows {
		entry := models.AuditLog{
			ID:        row.ID,
			Actor:     row.Actor,
			Action:    row.Action,
			Entity:    row.Entity,
			EntityID:  row.EntityID,
			CreatedAt: row.CreatedAt,
		}
		if len(row.Payload) > 0 {
			var payload map[string]interface{}
			if err := json.Unmarshal(row.Payload, &payload); err == nil {
				entry.Payload = payload
			}
		}
		logs = append(logs, entry)
	}
	return logs, nil
}
