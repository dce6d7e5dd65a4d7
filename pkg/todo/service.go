package todo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

var validCategories = map[string]bool{
	"imaging":  true,
	"referral": true,
	"rx":       true,
	"lab":      true,
	"followup": true,
	"general":  true,
}

// EncounterSource resolves encounters for ownership checks.
type EncounterSource interface {
	Get(ctx context.Context, id uuid.UUID) (models.Encounter, error)
}

type Service struct {
	repo       *Repository
	encounters EncounterSource
}

func NewService(repo *Repository, encounters EncounterSource) *Service {
	return &Service{repo: repo, encounters: encounters}
}

func (s *Service) CreateProviderTodo(ctx context.Context, providerID uuid.UUID, req models.CreateProviderTodoRequest) (models.ProviderTodo, error) {
	if strings.TrimSpace(req.Text) == "" {
		return models.ProviderTodo{}, fmt.Errorf("text is required")
	}
	if req.EncounterID != nil {
		if err := s.checkEncounter(ctx, providerID, *req.EncounterID); err != nil {
			return models.ProviderTodo{}, err
		}
	}
	return s.repo.CreateProviderTodo(ctx, providerID, req)
}

func (s *Service) ListProviderTodos(ctx context.Context, providerID uuid.UUID, includeDone bool) ([]models.ProviderTodo, error) {
	return s.repo.ListProviderTodos(ctx, providerID, includeDone)
}

// ToggleProviderTodo flips the done flag. Completing stamps completed_at
// with the toggle time; un-completing clears it.
func (s *Service) ToggleProviderTodo(ctx context.Context, providerID, id uuid.UUID) (models.ProviderTodo, error) {
	current, err := s.ownedProviderTodo(ctx, providerID, id)
	if err != nil {
		return models.ProviderTodo{}, err
	}
	if err := s.repo.UpdateProviderTodo(ctx, id, toggleUpdates(current.Done)); err != nil {
		return models.ProviderTodo{}, err
	}
	return s.repo.GetProviderTodo(ctx, id)
}

func (s *Service) UpdateProviderTodo(ctx context.Context, providerID, id uuid.UUID, patch models.TodoPatch) (models.ProviderTodo, error) {
	if _, err := s.ownedProviderTodo(ctx, providerID, id); err != nil {
		return models.ProviderTodo{}, err
	}
	updates, err := textUpdates(patch)
	if err != nil {
		return models.ProviderTodo{}, err
	}
	if err := s.repo.UpdateProviderTodo(ctx, id, updates); err != nil {
		return models.ProviderTodo{}, err
	}
	return s.repo.GetProviderTodo(ctx, id)
}

func (s *Service) DeleteProviderTodo(ctx context.Context, providerID, id uuid.UUID) error {
	if _, err := s.ownedProviderTodo(ctx, providerID, id); err != nil {
		return err
	}
	return s.repo.DeleteProviderTodo(ctx, id)
}

func (s *Service) CreateEncounterTodo(ctx context.Context, providerID, encounterID uuid.UUID, req models.CreateEncounterTodoRequest) (models.EncounterTodo, error) {
	if strings.TrimSpace(req.Text) == "" {
		return models.EncounterTodo{}, fmt.Errorf("text is required")
	}
	if req.Category == "" {
		req.Category = "general"
	}
	if !validCategories[req.Category] {
		return models.EncounterTodo{}, fmt.Errorf("unknown category %q", req.Category)
	}
	if err := s.checkEncounter(ctx, providerID, encounterID); err != nil {
		return models.EncounterTodo{}, err
	}
	return s.repo.CreateEncounterTodo(ctx, encounterID, req)
}

func (s *Service) ListEncounterTodos(ctx context.Context, providerID, encounterID uuid.UUID) ([]models.EncounterTodo, error) {
	if err := s.checkEncounter(ctx, providerID, encounterID); err != nil {
		return nil, err
	}
	return s.repo.ListEncounterTodos(ctx, encounterID)
}

func (s *Service) ToggleEncounterTodo(ctx context.Context, providerID, id uuid.UUID) (models.EncounterTodo, error) {
	current, err := s.ownedEncounterTodo(ctx, providerID, id)
	if err != nil {
		return models.EncounterTodo{}, err
	}
	if err := s.repo.UpdateEncounterTodo(ctx, id, toggleUpdates(current.Done)); err != nil {
		return models.EncounterTodo{}, err
	}
	return s.repo.GetEncounterTodo(ctx, id)
}

func (s *Service) UpdateEncounterTodo(ctx context.Context, providerID, id uuid.UUID, patch models.TodoPatch) (models.EncounterTodo, error) {
	if _, err := s.ownedEncounterTodo(ctx, providerID, id); err != nil {
		return models.EncounterTodo{}, err
	}
	updates, err := textUpdates(patch)
	if err != nil {
		return models.EncounterTodo{}, err
	}
	if err := s.repo.UpdateEncounterTodo(ctx, id, updates); err != nil {
		return models.EncounterTodo{}, err
	}
	return s.repo.GetEncounterTodo(ctx, id)
}

func (s *Service) DeleteEncounterTodo(ctx context.Context, providerID, id uuid.UUID) error {
	if _, err := s.ownedEncounterTodo(ctx, providerID, id); err != nil {
		return err
	}
	return s.repo.DeleteEncounterTodo(ctx, id)
}

// DeleteByEncounter implements the encounter cascade contract.
func (s *Service) DeleteByEncounter(ctx context.Context, encounterID uuid.UUID) error {
	return s.repo.DeleteByEncounter(ctx, encounterID)
}

func toggleUpdates(done bool) map[string]interface{} {
	if done {
		return map[string]interface{}{
			"done":         false,
			"completed_at": nil,
		}
	}
	return map[string]interface{}{
		"done":         true,
		"completed_at": time.Now().UTC(),
	}
}

func textUpdates(patch models.TodoPatch) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if patch.Text != nil {
		if strings.TrimSpace(*patch.Text) == "" {
			return nil, fmt.Errorf("text cannot be empty")
		}
		updates["text"] = *patch.Text
	}
	return updates, nil
}

func (s *Service) ownedProviderTodo(ctx context.Context, providerID, id uuid.UUID) (models.ProviderTodo, error) {
	item, err := s.repo.GetProviderTodo(ctx, id)
	if err != nil {
		return models.ProviderTodo{}, err
	}
	if item.ProviderID != providerID {
		return models.ProviderTodo{}, ErrNotFound
	}
	return item, nil
}

func (s *Service) ownedEncounterTodo(ctx context.Context, providerID, id uuid.UUID) (models.EncounterTodo, error) {
	item, err := s.repo.GetEncounterTodo(ctx, id)
	if err != nil {
		return models.EncounterTodo{}, err
	}
	if err := s.checkEncounter(ctx, providerID, item.EncounterID); err != nil {
		return models.EncounterTodo{}, err
	}
	return item, nil
}

func (s *Service) checkEncounter(ctx context.Context, providerID, encounterID uuid.UUID) error {
	enc, err := s.encounters.Get(ctx, encounterID)
	if err != nil {
		return ErrNotFound
	}
	if enc.ProviderID != providerID {
		return ErrNotFound
	}
	return nil
}
