package dictionary

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

var validCategories = map[string]bool{
	"medication": true,
	"diagnosis":  true,
	"procedure":  true,
	"anatomy":    true,
	"custom":     true,
}

type Service struct {
	repo  *Repository
	cache *Cache
}

func NewService(repo *Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) Add(ctx context.Context, providerID uuid.UUID, req models.AddDictionaryEntryRequest) (models.DictionaryEntry, error) {
	if strings.TrimSpace(req.Term) == "" {
		return models.DictionaryEntry{}, fmt.Errorf("term is required")
	}
	if req.Category == "" {
		req.Category = "custom"
	}
	if !validCategories[req.Category] {
		return models.DictionaryEntry{}, fmt.Errorf("unknown category %q", req.Category)
	}

	entry, err := s.repo.Add(ctx, providerID, req)
	if err != nil {
		return models.DictionaryEntry{}, err
	}
	s.cache.Invalidate(ctx, providerID)
	return entry, nil
}

func (s *Service) List(ctx context.Context, providerID uuid.UUID, category string) ([]models.DictionaryEntry, error) {
	if category != "" && !validCategories[category] {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return s.repo.ListByProvider(ctx, providerID, category)
}

func (s *Service) Update(ctx context.Context, providerID, id uuid.UUID, patch models.DictionaryEntryPatch) (models.DictionaryEntry, error) {
	if _, err := s.owned(ctx, providerID, id); err != nil {
		return models.DictionaryEntry{}, err
	}
	if patch.Term != nil && strings.TrimSpace(*patch.Term) == "" {
		return models.DictionaryEntry{}, fmt.Errorf("term cannot be empty")
	}
	if patch.Category != nil && !validCategories[*patch.Category] {
		return models.DictionaryEntry{}, fmt.Errorf("unknown category %q", *patch.Category)
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return models.DictionaryEntry{}, err
	}
	s.cache.Invalidate(ctx, providerID)
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	if _, err := s.owned(ctx, providerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, providerID)
	return nil
}

// EnabledEntries returns the provider's active correction set, cache first.
func (s *Service) EnabledEntries(ctx context.Context, providerID uuid.UUID) ([]models.DictionaryEntry, error) {
	if entries, ok := s.cache.GetEnabled(ctx, providerID); ok {
		return entries, nil
	}
	entries, err := s.repo.ListEnabled(ctx, providerID)
	if err != nil {
		return nil, err
	}
	s.cache.SetEnabled(ctx, providerID, entries)
	return entries, nil
}

// CorrectForProvider applies the provider's enabled dictionary to a text
// fragment. This is the hook live transcription calls per result.
func (s *Service) CorrectForProvider(ctx context.Context, providerID uuid.UUID, text string) (string, error) {
	entries, err := s.EnabledEntries(ctx, providerID)
	if err != nil {
		return text, err
	}
	return Correct(text, entries), nil
}

func (s *Service) owned(ctx context.Context, providerID, id uuid.UUID) (models.DictionaryEntry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.DictionaryEntry{}, err
	}
	if entry.ProviderID != providerID {
		return models.DictionaryEntry{}, ErrNotFound
	}
	return entry, nil
}
