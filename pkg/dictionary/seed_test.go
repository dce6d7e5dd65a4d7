package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinTermsAreValid(t *testing.T) {
	terms := builtinTerms()
	if len(terms) != 16 {
		t.Fatalf("expected 16 starter terms, got %d", len(terms))
	}
	seen := map[string]bool{}
	for _, term := range terms {
		if term.Term == "" || len(term.Alternatives) == 0 {
			t.Fatalf("starter term %+v incomplete", term)
		}
		if !validCategories[term.Category] {
			t.Fatalf("starter term %q has unknown category %q", term.Term, term.Category)
		}
		if seen[term.Term] {
			t.Fatalf("duplicate starter term %q", term.Term)
		}
		seen[term.Term] = true
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `entries:
  - term: warfarin
    alternatives: ["war farin", "coumadin"]
    category: medication
  - term: ""
    alternatives: ["skipped"]
    category: medication
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	entries, err := loadSeedFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected termless entries to be skipped, got %d entries", len(entries))
	}
	if entries[0].Term != "warfarin" || len(entries[0].Alternatives) != 2 {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	if _, err := loadSeedFile("/nonexistent/seed.yaml"); err == nil {
		t.Fatal("expected error for missing seed file")
	}
}
