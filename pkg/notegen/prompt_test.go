package notegen

import (
	"strings"
	"testing"

	"github.com/medscribe-ai/platform/pkg/common/models"
)

func TestBuildPromptOrdersSections(t *testing.T) {
	template := models.Template{
		Name: "SOAP Note",
		Sections: []models.TemplateSection{
			{ID: "plan", Title: "Plan", Description: "Treatment plan", Placeholder: "Document the plan", Order: 3},
			{ID: "subjective", Title: "Subjective", Description: "Patient's story", Placeholder: "Document HPI", Order: 0},
		},
	}

	prompt := BuildPrompt(template, "provider: hello", nil)

	subjIdx := strings.Index(prompt, "### Subjective (ID: subjective)")
	planIdx := strings.Index(prompt, "### Plan (ID: plan)")
	if subjIdx < 0 || planIdx < 0 {
		t.Fatalf("section headers missing from prompt:\n%s", prompt)
	}
	if subjIdx > planIdx {
		t.Fatal("sections not sorted by display order")
	}
	if !strings.Contains(prompt, "## Template: SOAP Note") {
		t.Fatal("template name missing")
	}
	if !strings.Contains(prompt, "provider: hello") {
		t.Fatal("transcript missing")
	}
	if strings.Contains(prompt, "Custom Medical Dictionary") {
		t.Fatal("dictionary block must be omitted when empty")
	}
}

func TestBuildPromptIncludesDictionary(t *testing.T) {
	template := models.Template{Name: "SOAP Note"}
	dictionary := []models.DictionaryEntry{
		{Term: "metformin", Alternatives: []string{"met formin", "metforman"}},
	}

	prompt := BuildPrompt(template, "transcript", dictionary)
	if !strings.Contains(prompt, "Custom Medical Dictionary (use these exact spellings):") {
		t.Fatal("dictionary header missing")
	}
	if !strings.Contains(prompt, "- metformin (alternatives: met formin, metforman)") {
		t.Fatal("dictionary entry missing")
	}
}
