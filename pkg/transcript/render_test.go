package transcript

import (
	"testing"

	"github.com/medscribe-ai/platform/pkg/common/models"
)

func TestRenderTranscriptPrefersSpeakerName(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Speaker: "provider", SpeakerName: "Dr. Smith", Text: "What brings you in today?"},
		{Speaker: "patient", Text: "Chest pain since Tuesday."},
	}

	got := RenderTranscript(segments)
	want := "Dr. Smith: What brings you in today?\npatient: Chest pain since Tuesday."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderTranscriptEmpty(t *testing.T) {
	if got := RenderTranscript(nil); got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}
