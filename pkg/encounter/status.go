package encounter

import (
	"errors"
	"fmt"
)

// Encounter lifecycle statuses.
const (
	StatusRecording    = "recording"
	StatusTranscribing = "transcribing"
	StatusGenerating   = "generating"
	StatusReview       = "review"
	StatusComplete     = "complete"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// transitions is the legal edge set. review -> generating starts note
// generation; generating -> review covers both success and the failure
// recovery path. complete is terminal.
var transitions = map[string][]string{
	StatusRecording:    {StatusTranscribing},
	StatusTranscribing: {StatusReview},
	StatusReview:       {StatusGenerating, StatusComplete},
	StatusGenerating:   {StatusReview},
	StatusComplete:     {},
}

func IsValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidateTransition(from, to string) error {
	if !IsValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
