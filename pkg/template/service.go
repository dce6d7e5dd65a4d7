package template

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

var validCategories = map[string]bool{
	"soap":      true,
	"hp":        true,
	"progress":  true,
	"procedure": true,
	"custom":    true,
	"doxgpt":    true,
}

// Store is the template persistence contract.
type Store interface {
	Create(ctx context.Context, providerID *uuid.UUID, req models.CreateTemplateRequest) (models.Template, error)
	Get(ctx context.Context, id uuid.UUID) (models.Template, error)
	List(ctx context.Context, providerID uuid.UUID) ([]models.Template, error)
	ListByCategory(ctx context.Context, providerID uuid.UUID, category string) ([]models.Template, error)
	Update(ctx context.Context, id uuid.UUID, patch models.TemplatePatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountSystemTemplates(ctx context.Context) (int64, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, providerID uuid.UUID, req models.CreateTemplateRequest) (models.Template, error) {
	if req.Name == "" {
		return models.Template{}, fmt.Errorf("name is required")
	}
	if !validCategories[req.Category] {
		return models.Template{}, fmt.Errorf("unknown category %q", req.Category)
	}
	if err := validateSections(req.Sections); err != nil {
		return models.Template{}, err
	}

	owner := &providerID
	if req.System {
		owner = nil
	}
	return s.store.Create(ctx, owner, req)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (models.Template, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, providerID uuid.UUID) ([]models.Template, error) {
	return s.store.List(ctx, providerID)
}

func (s *Service) ListByCategory(ctx context.Context, providerID uuid.UUID, category string) ([]models.Template, error) {
	return s.store.ListByCategory(ctx, providerID, category)
}

func (s *Service) Update(ctx context.Context, providerID, id uuid.UUID, patch models.TemplatePatch) (models.Template, error) {
	if patch.Category != nil && !validCategories[*patch.Category] {
		return models.Template{}, fmt.Errorf("unknown category %q", *patch.Category)
	}
	if patch.Sections != nil {
		if err := validateSections(*patch.Sections); err != nil {
			return models.Template{}, err
		}
	}
	if _, err := s.owned(ctx, providerID, id); err != nil {
		return models.Template{}, err
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		return models.Template{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	if _, err := s.owned(ctx, providerID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// owned resolves a template the provider may mutate. System templates and
// other providers' templates surface as not found.
func (s *Service) owned(ctx context.Context, providerID, id uuid.UUID) (models.Template, error) {
	tpl, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Template{}, err
	}
	if tpl.ProviderID == nil || *tpl.ProviderID != providerID {
		return models.Template{}, ErrNotFound
	}
	return tpl, nil
}

// validateSections enforces unique section ids within a template.
func validateSections(sections []models.TemplateSection) error {
	seen := make(map[string]bool, len(sections))
	for _, section := range sections {
		if section.ID == "" {
			return fmt.Errorf("section id is required")
		}
		if section.Title == "" {
			return fmt.Errorf("section %q title is required", section.ID)
		}
		if seen[section.ID] {
			return fmt.Errorf("duplicate section id %q", section.ID)
		}
		seen[section.ID] = true
	}
	return nil
}

// sortedSections orders sections by their declared order field, which defines
// both display and generation sequence.
func sortedSections(sections []models.TemplateSection) []models.TemplateSection {
	sorted := make([]models.TemplateSection, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}
