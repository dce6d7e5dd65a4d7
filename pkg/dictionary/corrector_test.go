package dictionary

import (
	"testing"

	"github.com/medscribe-ai/platform/pkg/common/models"
)

func TestCorrectReplacesWholeWords(t *testing.T) {
	entries := []models.DictionaryEntry{
		{Term: "metformin", Alternatives: []string{"met formin", "metforman"}},
		{Term: "hypertension", Alternatives: []string{"hyper tension"}},
	}

	got := Correct("patient takes met formin for hyper tension", entries)
	want := "patient takes metformin for hypertension"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCorrectIsCaseInsensitive(t *testing.T) {
	entries := []models.DictionaryEntry{
		{Term: "gastroesophageal reflux", Alternatives: []string{"GERD"}},
	}

	got := Correct("history of gerd since 2019", entries)
	if got != "history of gastroesophageal reflux since 2019" {
		t.Fatalf("unexpected correction: %q", got)
	}
}

func TestCorrectDoesNotMatchSubstrings(t *testing.T) {
	entries := []models.DictionaryEntry{
		{Term: "echocardiogram", Alternatives: []string{"echo"}},
	}

	got := Correct("echoing symptoms, ordered an echo", entries)
	want := "echoing symptoms, ordered an echocardiogram"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCorrectLeavesUnmatchedTextUntouched(t *testing.T) {
	entries := []models.DictionaryEntry{
		{Term: "lisinopril", Alternatives: []string{"lisinipril"}},
	}

	input := "no relevant medications discussed"
	if got := Correct(input, entries); got != input {
		t.Fatalf("expected text unchanged, got %q", got)
	}
}

func TestCorrectSkipsSelfReferencingAlternatives(t *testing.T) {
	entries := []models.DictionaryEntry{
		{Term: "bilateral", Alternatives: []string{"Bilateral", "by lateral"}},
	}

	got := Correct("by lateral edema", entries)
	if got != "bilateral edema" {
		t.Fatalf("unexpected correction: %q", got)
	}
}

func TestCorrectWithNoEntries(t *testing.T) {
	if got := Correct("anything", nil); got != "anything" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
