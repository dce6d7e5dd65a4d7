package notegen

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

type fakeTranscripts struct {
	transcript string
}

func (f *fakeTranscripts) FullTranscript(ctx context.Context, providerID, encounterID uuid.UUID) (string, error) {
	return f.transcript, nil
}

type fakeTemplates struct {
	template models.Template
}

func (f *fakeTemplates) Get(ctx context.Context, id uuid.UUID) (models.Template, error) {
	return f.template, nil
}

type fakeDictionary struct {
	entries []models.DictionaryEntry
}

func (f *fakeDictionary) EnabledEntries(ctx context.Context, providerID uuid.UUID) ([]models.DictionaryEntry, error) {
	return f.entries, nil
}

type fakeEncounters struct {
	status      string
	transitions []string
}

func (f *fakeEncounters) Get(ctx context.Context, providerID, id uuid.UUID) (models.Encounter, error) {
	return models.Encounter{ID: id, ProviderID: providerID, Status: f.status}, nil
}

func (f *fakeEncounters) UpdateStatus(ctx context.Context, providerID, id uuid.UUID, status string) (models.Encounter, error) {
	f.status = status
	f.transitions = append(f.transitions, status)
	return models.Encounter{ID: id, ProviderID: providerID, Status: status}, nil
}

type fakeNotes struct {
	created []models.CreateNoteRequest
}

func (f *fakeNotes) Create(ctx context.Context, providerID uuid.UUID, req models.CreateNoteRequest) (models.Note, error) {
	f.created = append(f.created, req)
	return models.Note{ID: uuid.New(), EncounterID: req.EncounterID, TemplateID: req.TemplateID, ProviderID: providerID, Sections: req.Sections, FullText: req.FullText, Status: req.Status}, nil
}

type fakeCompletion struct {
	response string
	err      error
	prompt   string
}

func (f *fakeCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

type fakeEvents struct {
	types []string
}

func (f *fakeEvents) PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error {
	f.types = append(f.types, eventType)
	return nil
}

var genTemplate = models.Template{
	ID:   uuid.New(),
	Name: "SOAP Note",
	Sections: []models.TemplateSection{
		{ID: "subjective", Title: "Subjective", Order: 0},
		{ID: "plan", Title: "Plan", Order: 1},
	},
}

func TestGenerateWithCompletionClient(t *testing.T) {
	encounters := &fakeEncounters{status: "review"}
	notes := &fakeNotes{}
	completion := &fakeCompletion{response: `[{"sectionId":"subjective","title":"Subjective","content":"Pain."},{"sectionId":"plan","title":"Plan","content":"Rest."}]`}
	events := &fakeEvents{}

	svc := NewService(
		&fakeTranscripts{transcript: "provider: hello"},
		&fakeTemplates{template: genTemplate},
		&fakeDictionary{},
		encounters, notes, completion, events,
	)

	generated, err := svc.Generate(context.Background(), uuid.New(), uuid.New(), genTemplate.ID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if len(notes.created) != 1 {
		t.Fatalf("expected one note, got %d", len(notes.created))
	}
	if notes.created[0].Status != "draft" {
		t.Fatalf("note must be draft, got %s", notes.created[0].Status)
	}
	if len(generated.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(generated.Sections))
	}
	if !strings.Contains(generated.FullText, "## Subjective\nPain.") {
		t.Fatalf("full text not rendered: %q", generated.FullText)
	}
	if !strings.Contains(completion.prompt, "provider: hello") {
		t.Fatal("transcript missing from prompt")
	}

	want := []string{"generating", "review"}
	if len(encounters.transitions) != 2 || encounters.transitions[0] != want[0] || encounters.transitions[1] != want[1] {
		t.Fatalf("status transitions %v, want %v", encounters.transitions, want)
	}
	if len(events.types) != 1 || events.types[0] != "note.generated" {
		t.Fatalf("expected note.generated event, got %v", events.types)
	}
}

func TestGenerateRevertsOnCompletionFailure(t *testing.T) {
	encounters := &fakeEncounters{status: "review"}
	notes := &fakeNotes{}
	completion := &fakeCompletion{err: errors.New("upstream timeout")}

	svc := NewService(
		&fakeTranscripts{transcript: "provider: hello"},
		&fakeTemplates{template: genTemplate},
		&fakeDictionary{},
		encounters, notes, completion, nil,
	)

	_, err := svc.Generate(context.Background(), uuid.New(), uuid.New(), genTemplate.ID)
	if err == nil {
		t.Fatal("expected generation to fail")
	}
	if len(notes.created) != 0 {
		t.Fatal("no note may be written on failure")
	}
	if encounters.status != "review" {
		t.Fatalf("encounter not reverted to review, status %s", encounters.status)
	}
}

func TestGeneratePlaceholderWithoutClient(t *testing.T) {
	transcript := strings.Repeat("provider: patient reports intermittent chest pain. ", 10)
	encounters := &fakeEncounters{status: "review"}
	notes := &fakeNotes{}

	svc := NewService(
		&fakeTranscripts{transcript: transcript},
		&fakeTemplates{template: genTemplate},
		&fakeDictionary{},
		encounters, notes, nil, nil,
	)

	generated, err := svc.Generate(context.Background(), uuid.New(), uuid.New(), genTemplate.ID)
	if err != nil {
		t.Fatalf("placeholder generation failed: %v", err)
	}
	if len(generated.Sections) != len(genTemplate.Sections) {
		t.Fatalf("expected one placeholder section per template section, got %d", len(generated.Sections))
	}
	excerpt := transcript[:placeholderExcerptLen]
	for _, s := range generated.Sections {
		if !strings.Contains(s.Content, excerpt) {
			t.Fatalf("placeholder missing transcript excerpt: %q", s.Content)
		}
	}
	if len(encounters.transitions) != 0 {
		t.Fatalf("placeholder run must not transition an encounter already in review: %v", encounters.transitions)
	}
}

func TestGenerateRequiresTranscript(t *testing.T) {
	svc := NewService(
		&fakeTranscripts{transcript: ""},
		&fakeTemplates{template: genTemplate},
		&fakeDictionary{},
		&fakeEncounters{status: "review"}, &fakeNotes{}, nil, nil,
	)

	_, err := svc.Generate(context.Background(), uuid.New(), uuid.New(), genTemplate.ID)
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
}

func TestPlaceholderExcerptKeepsRunesIntact(t *testing.T) {
	// A two-byte rune straddles the truncation point.
	transcript := strings.Repeat("a", placeholderExcerptLen-1) + "é" + strings.Repeat("b", 40)
	template := models.Template{Sections: []models.TemplateSection{{ID: "subjective", Title: "Subjective"}}}

	sections := placeholderSections(template, transcript)
	if len(sections) != 1 {
		t.Fatalf("got %d sections", len(sections))
	}
	content := sections[0].Content
	if !utf8.ValidString(content) {
		t.Fatalf("placeholder content is not valid UTF-8: %q", content)
	}
	if strings.Contains(content, "�") {
		t.Fatalf("placeholder content carries a replacement rune: %q", content)
	}
	if !strings.Contains(content, strings.Repeat("a", placeholderExcerptLen-1)) {
		t.Fatal("excerpt lost text before the truncation point")
	}
}
