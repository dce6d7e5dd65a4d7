package note

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

var validStatuses = map[string]bool{
	"draft":    true,
	"reviewed": true,
	"signed":   true,
	"amended":  true,
}

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, providerID uuid.UUID, req models.CreateNoteRequest) (models.Note, error) {
	if req.EncounterID == uuid.Nil {
		return models.Note{}, fmt.Errorf("encounter_id is required")
	}
	if req.TemplateID == uuid.Nil {
		return models.Note{}, fmt.Errorf("template_id is required")
	}
	if req.Status == "" {
		req.Status = "draft"
	}
	if !validStatuses[req.Status] {
		return models.Note{}, fmt.Errorf("unknown status %q", req.Status)
	}
	if req.FullText == "" {
		req.FullText = RenderFullText(req.Sections)
	}
	return s.repo.Create(ctx, providerID, req)
}

func (s *Service) Get(ctx context.Context, providerID, id uuid.UUID) (models.Note, error) {
	return s.owned(ctx, providerID, id)
}

func (s *Service) GetByEncounter(ctx context.Context, providerID, encounterID uuid.UUID) (models.Note, error) {
	note, err := s.repo.GetByEncounter(ctx, encounterID)
	if err != nil {
		return models.Note{}, err
	}
	if note.ProviderID != providerID {
		return models.Note{}, ErrNotFound
	}
	return note, nil
}

func (s *Service) List(ctx context.Context, providerID uuid.UUID, limit int) ([]models.Note, error) {
	return s.repo.ListByProvider(ctx, providerID, limit)
}

// UpdateSection replaces one section's content and recomputes the full
// text from the updated section list.
func (s *Service) UpdateSection(ctx context.Context, providerID, id uuid.UUID, sectionID, content string) (models.Note, error) {
	note, err := s.owned(ctx, providerID, id)
	if err != nil {
		return models.Note{}, err
	}

	found := false
	for i := range note.Sections {
		if note.Sections[i].SectionID == sectionID {
			note.Sections[i].Content = content
			found = true
			break
		}
	}
	if !found {
		return models.Note{}, fmt.Errorf("section %q not found in note", sectionID)
	}

	if err := s.repo.UpdateSections(ctx, id, note.Sections, RenderFullText(note.Sections)); err != nil {
		return models.Note{}, err
	}
	return s.repo.Get(ctx, id)
}

// UpdateStatus moves the note through its review lifecycle. The signed
// timestamp is stamped once, on the transition into signed.
func (s *Service) UpdateStatus(ctx context.Context, providerID, id uuid.UUID, status string) (models.Note, error) {
	if !validStatuses[status] {
		return models.Note{}, fmt.Errorf("unknown status %q", status)
	}
	if _, err := s.owned(ctx, providerID, id); err != nil {
		return models.Note{}, err
	}

	var signedAt *time.Time
	if status == "signed" {
		now := time.Now().UTC()
		signedAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, status, signedAt); err != nil {
		return models.Note{}, err
	}
	return s.repo.Get(ctx, id)
}

// DeleteByEncounter implements the encounter cascade contract.
func (s *Service) DeleteByEncounter(ctx context.Context, encounterID uuid.UUID) error {
	return s.repo.DeleteByEncounter(ctx, encounterID)
}

func (s *Service) owned(ctx context.Context, providerID, id uuid.UUID) (models.Note, error) {
	note, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	if note.ProviderID != providerID {
		return models.Note{}, ErrNotFound
	}
	return note, nil
}
