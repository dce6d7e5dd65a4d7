package notegen

import (
	"testing"

	"github.com/medscribe-ai/platform/pkg/common/models"
)

var parseTemplate = models.Template{
	Sections: []models.TemplateSection{
		{ID: "subjective", Title: "Subjective"},
		{ID: "objective", Title: "Objective"},
	},
}

func TestParseSectionsFromCleanJSON(t *testing.T) {
	content := `[{"sectionId":"subjective","title":"Subjective","content":"Pain for 3 days."}]`
	sections := ParseSections(content, parseTemplate)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].SectionID != "subjective" || sections[0].Content != "Pain for 3 days." {
		t.Fatalf("unexpected section: %+v", sections[0])
	}
}

func TestParseSectionsExtractsEmbeddedArray(t *testing.T) {
	content := "Here is the note:\n```json\n[{\"sectionId\":\"subjective\",\"title\":\"Subjective\",\"content\":\"ok\"}]\n```\nDone."
	sections := ParseSections(content, parseTemplate)
	if len(sections) != 1 || sections[0].SectionID != "subjective" {
		t.Fatalf("embedded array not extracted: %+v", sections)
	}
}

func TestParseSectionsFallsBackToRawText(t *testing.T) {
	content := "The patient presented with chest pain."
	sections := ParseSections(content, parseTemplate)
	if len(sections) != len(parseTemplate.Sections) {
		t.Fatalf("expected one section per template section, got %d", len(sections))
	}
	for i, s := range sections {
		if s.SectionID != parseTemplate.Sections[i].ID {
			t.Fatalf("fallback section ids wrong: %+v", sections)
		}
		if s.Content != content {
			t.Fatalf("fallback must carry raw response, got %q", s.Content)
		}
	}
}

func TestParseSectionsEmptyResponse(t *testing.T) {
	sections := ParseSections("", parseTemplate)
	if len(sections) != 2 {
		t.Fatalf("expected template fallback, got %d sections", len(sections))
	}
	if sections[0].Content != "Failed to generate content" {
		t.Fatalf("unexpected placeholder content: %q", sections[0].Content)
	}
}
