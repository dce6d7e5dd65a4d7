package notegen

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/logger"
	"github.com/medscribe-ai/platform/pkg/common/models"
	"github.com/medscribe-ai/platform/pkg/note"
)

var ErrNoTranscript = errors.New("encounter has no transcript")

const placeholderExcerptLen = 200

type TranscriptSource interface {
	FullTranscript(ctx context.Context, providerID, encounterID uuid.UUID) (string, error)
}

type TemplateSource interface {
	Get(ctx context.Context, id uuid.UUID) (models.Template, error)
}

type DictionarySource interface {
	EnabledEntries(ctx context.Context, providerID uuid.UUID) ([]models.DictionaryEntry, error)
}

type EncounterUpdater interface {
	Get(ctx context.Context, providerID, id uuid.UUID) (models.Encounter, error)
	UpdateStatus(ctx context.Context, providerID, id uuid.UUID, status string) (models.Encounter, error)
}

type NoteWriter interface {
	Create(ctx context.Context, providerID uuid.UUID, req models.CreateNoteRequest) (models.Note, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

const eventSource = "notegen-service"

// Service orchestrates one generation run: transcript, template and
// dictionary in, one completion call out, a draft note persisted. No
// retries, no partial writes.
type Service struct {
	transcripts TranscriptSource
	templates   TemplateSource
	dictionary  DictionarySource
	encounters  EncounterUpdater
	notes       NoteWriter
	client      CompletionClient
	events      EventPublisher
}

func NewService(
	transcripts TranscriptSource,
	templates TemplateSource,
	dictionary DictionarySource,
	encounters EncounterUpdater,
	notes NoteWriter,
	client CompletionClient,
	events EventPublisher,
) *Service {
	return &Service{
		transcripts: transcripts,
		templates:   templates,
		dictionary:  dictionary,
		encounters:  encounters,
		notes:       notes,
		client:      client,
		events:      events,
	}
}

// Generate produces the encounter's draft note from its transcript. Without
// a completion client it writes a deterministic placeholder note instead, so
// the review flow works in environments without an API credential. Either
// way the encounter lands in review.
func (s *Service) Generate(ctx context.Context, providerID, encounterID, templateID uuid.UUID) (models.Note, error) {
	if _, err := s.encounters.Get(ctx, providerID, encounterID); err != nil {
		return models.Note{}, err
	}

	transcript, err := s.transcripts.FullTranscript(ctx, providerID, encounterID)
	if err != nil {
		return models.Note{}, err
	}
	if transcript == "" {
		return models.Note{}, ErrNoTranscript
	}

	template, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return models.Note{}, err
	}

	dictionary, err := s.dictionary.EnabledEntries(ctx, providerID)
	if err != nil {
		return models.Note{}, err
	}

	if s.client == nil {
		return s.persist(ctx, providerID, encounterID, template, placeholderSections(template, transcript))
	}

	if _, err := s.encounters.UpdateStatus(ctx, providerID, encounterID, "generating"); err != nil {
		return models.Note{}, err
	}

	content, err := s.client.Complete(ctx, BuildPrompt(template, transcript, dictionary))
	if err != nil {
		if _, revertErr := s.encounters.UpdateStatus(ctx, providerID, encounterID, "review"); revertErr != nil {
			logger.Log.WithError(revertErr).WithField("encounter_id", encounterID).
				Error("failed to revert encounter after generation failure")
		}
		return models.Note{}, fmt.Errorf("note generation failed: %w", err)
	}

	return s.persist(ctx, providerID, encounterID, template, ParseSections(content, template))
}

func (s *Service) persist(ctx context.Context, providerID, encounterID uuid.UUID, template models.Template, sections []models.NoteSection) (models.Note, error) {
	created, err := s.notes.Create(ctx, providerID, models.CreateNoteRequest{
		EncounterID: encounterID,
		TemplateID:  template.ID,
		Sections:    sections,
		FullText:    note.RenderFullText(sections),
		Status:      "draft",
	})
	if err != nil {
		return models.Note{}, err
	}

	// Placeholder runs never leave review, so only transition when needed.
	if enc, err := s.encounters.Get(ctx, providerID, encounterID); err == nil && enc.Status != "review" {
		if _, err := s.encounters.UpdateStatus(ctx, providerID, encounterID, "review"); err != nil {
			logger.Log.WithError(err).WithField("encounter_id", encounterID).
				Error("note persisted but encounter status update failed")
		}
	}

	if s.events != nil {
		if err := s.events.PublishEvent(ctx, "note.generated", eventSource, map[string]interface{}{
			"note_id":      created.ID.String(),
			"encounter_id": encounterID.String(),
			"template_id":  template.ID.String(),
			"provider_id":  providerID.String(),
		}); err != nil {
			logger.Log.WithError(err).Warn("failed to publish note.generated event")
		}
	}
	return created, nil
}

// placeholderSections builds the no-credential note: each template section
// carries the same truncated transcript excerpt so the provider sees what
// generation would have worked from.
func placeholderSections(template models.Template, transcript string) []models.NoteSection {
	excerpt := transcript
	if len(excerpt) > placeholderExcerptLen {
		cut := placeholderExcerptLen
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		excerpt = excerpt[:cut]
	}
	sections := make([]models.NoteSection, 0, len(template.Sections))
	for _, s := range template.Sections {
		sections = append(sections, models.NoteSection{
			SectionID: s.ID,
			Title:     s.Title,
			Content:   fmt.Sprintf("[AI generation requires an API key] Based on transcript:\n%s...", excerpt),
		})
	}
	return sections
}
