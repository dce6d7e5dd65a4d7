package encounter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/logger"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

// Store is the encounter persistence contract.
type Store interface {
	Create(ctx context.Context, providerID uuid.UUID, req models.CreateEncounterRequest) (models.Encounter, error)
	Get(ctx context.Context, id uuid.UUID) (models.Encounter, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, status string, limit int) ([]models.Encounter, error)
	Update(ctx context.Context, id uuid.UUID, patch models.EncounterPatch) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Purger removes all rows owned by an encounter. Transcript segments, notes,
// and encounter todos each register one.
type Purger interface {
	DeleteByEncounter(ctx context.Context, encounterID uuid.UUID) error
}

// EventPublisher emits lifecycle events to the event bus. Best effort.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

const eventSource = "encounter-service"

type Service struct {
	store   Store
	purgers []Purger
	events  EventPublisher // nil when the event bus is disabled
}

func NewService(store Store, events EventPublisher, purgers ...Purger) *Service {
	return &Service{store: store, purgers: purgers, events: events}
}

func (s *Service) Create(ctx context.Context, providerID uuid.UUID, req models.CreateEncounterRequest) (models.Encounter, error) {
	if strings.TrimSpace(req.PatientName) == "" {
		return models.Encounter{}, fmt.Errorf("patient_name is required")
	}
	enc, err := s.store.Create(ctx, providerID, req)
	if err != nil {
		return models.Encounter{}, err
	}
	s.publish(ctx, "encounter.created", map[string]interface{}{
		"encounter_id": enc.ID.String(),
		"provider_id":  enc.ProviderID.String(),
		"patient_name": enc.PatientName,
	})
	return enc, nil
}

func (s *Service) Get(ctx context.Context, providerID, id uuid.UUID) (models.Encounter, error) {
	return s.owned(ctx, providerID, id)
}

func (s *Service) List(ctx context.Context, providerID uuid.UUID, status string, limit int) ([]models.Encounter, error) {
	if status != "" && !IsValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	return s.store.ListByProvider(ctx, providerID, status, limit)
}

func (s *Service) Update(ctx context.Context, providerID, id uuid.UUID, patch models.EncounterPatch) (models.Encounter, error) {
	if _, err := s.owned(ctx, providerID, id); err != nil {
		return models.Encounter{}, err
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		return models.Encounter{}, err
	}
	return s.store.Get(ctx, id)
}

// UpdateStatus drives the lifecycle state machine. Transitions outside the
// legal edge set are rejected with ErrInvalidTransition.
func (s *Service) UpdateStatus(ctx context.Context, providerID, id uuid.UUID, status string) (models.Encounter, error) {
	enc, err := s.owned(ctx, providerID, id)
	if err != nil {
		return models.Encounter{}, err
	}
	if err := ValidateTransition(enc.Status, status); err != nil {
		return models.Encounter{}, err
	}
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return models.Encounter{}, err
	}
	s.publish(ctx, "encounter.status_changed", map[string]interface{}{
		"encounter_id": id.String(),
		"provider_id":  providerID.String(),
		"from":         enc.Status,
		"to":           status,
	})
	return s.store.Get(ctx, id)
}

// Delete removes the encounter and everything it owns. The purges and the
// final delete are independent sequential statements, not a transaction; a
// crash partway can orphan rows, which the data model accepts.
func (s *Service) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	if _, err := s.owned(ctx, providerID, id); err != nil {
		return err
	}
	for _, purger := range s.purgers {
		if err := purger.DeleteByEncounter(ctx, id); err != nil {
			return fmt.Errorf("cascade delete failed: %w", err)
		}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "encounter.deleted", map[string]interface{}{
		"encounter_id": id.String(),
		"provider_id":  providerID.String(),
	})
	return nil
}

// owned fetches the encounter and verifies it belongs to the session
// provider. Foreign encounters are reported as not found.
func (s *Service) owned(ctx context.Context, providerID, id uuid.UUID) (models.Encounter, error) {
	enc, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Encounter{}, err
	}
	if enc.ProviderID != providerID {
		return models.Encounter{}, ErrNotFound
	}
	return enc, nil
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, eventType, eventSource, data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("event publish failed")
	}
}
