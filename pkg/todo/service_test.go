package todo

import (
	"testing"
	"time"

	"github.com/medscribe-ai/platform/pkg/common/models"
)

func TestToggleUpdatesCompletion(t *testing.T) {
	before := time.Now().UTC()
	updates := toggleUpdates(false)

	if updates["done"] != true {
		t.Fatalf("expected done true, got %v", updates["done"])
	}
	completedAt, ok := updates["completed_at"].(time.Time)
	if !ok {
		t.Fatalf("completed_at must be a timestamp, got %T", updates["completed_at"])
	}
	if completedAt.Before(before) {
		t.Fatal("completed_at must be the toggle time")
	}
}

func TestToggleUpdatesRevert(t *testing.T) {
	updates := toggleUpdates(true)
	if updates["done"] != false {
		t.Fatalf("expected done false, got %v", updates["done"])
	}
	if updates["completed_at"] != nil {
		t.Fatalf("completed_at must be cleared, got %v", updates["completed_at"])
	}
}

func TestTextUpdatesRejectsEmptyText(t *testing.T) {
	empty := "   "
	if _, err := textUpdates(models.TodoPatch{Text: &empty}); err == nil {
		t.Fatal("expected empty text to be rejected")
	}
}

func TestTextUpdatesNoopWithoutFields(t *testing.T) {
	updates, err := textUpdates(models.TodoPatch{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 0 {
		t.Fatalf("expected no updates, got %v", updates)
	}
}
