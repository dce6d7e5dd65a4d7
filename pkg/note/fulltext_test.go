package note

import (
	"testing"

	"github.com/medscribe-ai/platform/pkg/common/models"
)

func TestRenderFullText(t *testing.T) {
	sections := []models.NoteSection{
		{SectionID: "subjective", Title: "Subjective", Content: "Chest pain for three days."},
		{SectionID: "objective", Title: "Objective", Content: "BP 128/84, HR 72."},
	}

	got := RenderFullText(sections)
	want := "## Subjective\nChest pain for three days.\n\n## Objective\nBP 128/84, HR 72."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderFullTextEmpty(t *testing.T) {
	if got := RenderFullText(nil); got != "" {
		t.Fatalf("expected empty full text, got %q", got)
	}
}
