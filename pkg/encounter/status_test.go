package encounter

import (
	"errors"
	"testing"
)

func TestStatusMachineAllowsForwardFlow(t *testing.T) {
	path := []string{StatusRecording, StatusTranscribing, StatusReview, StatusGenerating, StatusReview, StatusComplete}
	for i := 0; i < len(path)-1; i++ {
		if err := ValidateTransition(path[i], path[i+1]); err != nil {
			t.Fatalf("expected %s -> %s to be legal: %v", path[i], path[i+1], err)
		}
	}
}

func TestStatusMachineRejectsSkips(t *testing.T) {
	cases := [][2]string{
		{StatusRecording, StatusReview},
		{StatusRecording, StatusComplete},
		{StatusTranscribing, StatusGenerating},
		{StatusReview, StatusRecording},
		{StatusGenerating, StatusComplete},
	}
	for _, c := range cases {
		err := ValidateTransition(c[0], c[1])
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected %s -> %s to be rejected, got %v", c[0], c[1], err)
		}
	}
}

func TestCompleteIsTerminal(t *testing.T) {
	for _, to := range []string{StatusRecording, StatusTranscribing, StatusReview, StatusGenerating, StatusComplete} {
		if CanTransition(StatusComplete, to) {
			t.Fatalf("complete must be terminal, but transition to %s allowed", to)
		}
	}
}

func TestValidateTransitionRejectsUnknownStatus(t *testing.T) {
	if err := ValidateTransition(StatusReview, "archived"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected unknown status to be rejected, got %v", err)
	}
}
