package template

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

func TestValidateSectionsRejectsDuplicates(t *testing.T) {
	sections := []models.TemplateSection{
		{ID: "subjective", Title: "Subjective"},
		{ID: "subjective", Title: "Subjective Again"},
	}
	if err := validateSections(sections); err == nil {
		t.Fatal("expected duplicate section id to be rejected")
	}
}

func TestValidateSectionsRequiresIDAndTitle(t *testing.T) {
	if err := validateSections([]models.TemplateSection{{Title: "No ID"}}); err == nil {
		t.Fatal("expected missing id to be rejected")
	}
	if err := validateSections([]models.TemplateSection{{ID: "x"}}); err == nil {
		t.Fatal("expected missing title to be rejected")
	}
}

func TestSortedSectionsIsStableByOrder(t *testing.T) {
	sections := []models.TemplateSection{
		{ID: "c", Title: "C", Order: 2},
		{ID: "a", Title: "A", Order: 0},
		{ID: "b", Title: "B", Order: 1},
	}
	sorted := sortedSections(sections)
	for i, want := range []string{"a", "b", "c"} {
		if sorted[i].ID != want {
			t.Fatalf("position %d is %s, want %s", i, sorted[i].ID, want)
		}
	}
	if sections[0].ID != "c" {
		t.Fatal("input slice must not be reordered")
	}
}

func TestDefaultTemplatesAreWellFormed(t *testing.T) {
	defaults := defaultTemplates()
	if len(defaults) != 4 {
		t.Fatalf("expected 4 starter templates, got %d", len(defaults))
	}
	names := map[string]bool{}
	for _, tmpl := range defaults {
		if names[tmpl.Name] {
			t.Fatalf("duplicate template name %q", tmpl.Name)
		}
		names[tmpl.Name] = true
		if len(tmpl.Sections) == 0 {
			t.Fatalf("starter template %q has no sections", tmpl.Name)
		}
		if err := validateSections(tmpl.Sections); err != nil {
			t.Fatalf("template %q has invalid sections: %v", tmpl.Name, err)
		}
	}
	if !names["SOAP Note"] || !names["History & Physical"] {
		t.Fatalf("core templates missing: %v", names)
	}
}

type fakeStore struct {
	templates map[uuid.UUID]models.Template
	updated   map[uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		templates: make(map[uuid.UUID]models.Template),
		updated:   make(map[uuid.UUID]bool),
	}
}

func (f *fakeStore) put(providerID *uuid.UUID, name string) models.Template {
	tpl := models.Template{ID: uuid.New(), ProviderID: providerID, Name: name, Category: "custom"}
	f.templates[tpl.ID] = tpl
	return tpl
}

func (f *fakeStore) Create(ctx context.Context, providerID *uuid.UUID, req models.CreateTemplateRequest) (models.Template, error) {
	return f.put(providerID, req.Name), nil
}

func (f *fakeStore) Get(ctx context.Context, id uuid.UUID) (models.Template, error) {
	tpl, ok := f.templates[id]
	if !ok {
		return models.Template{}, ErrNotFound
	}
	return tpl, nil
}

func (f *fakeStore) List(ctx context.Context, providerID uuid.UUID) ([]models.Template, error) {
	return nil, nil
}

func (f *fakeStore) ListByCategory(ctx context.Context, providerID uuid.UUID, category string) ([]models.Template, error) {
	return nil, nil
}

func (f *fakeStore) Update(ctx context.Context, id uuid.UUID, patch models.TemplatePatch) error {
	tpl, ok := f.templates[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Name != nil {
		tpl.Name = *patch.Name
	}
	f.templates[id] = tpl
	f.updated[id] = true
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.templates[id]; !ok {
		return ErrNotFound
	}
	delete(f.templates, id)
	return nil
}

func (f *fakeStore) CountSystemTemplates(ctx context.Context) (int64, error) {
	var n int64
	for _, tpl := range f.templates {
		if tpl.ProviderID == nil {
			n++
		}
	}
	return n, nil
}

func TestUpdateScopedToOwningProvider(t *testing.T) {
	store := newFakeStore()
	owner := uuid.New()
	intruder := uuid.New()
	tpl := store.put(&owner, "My Custom Note")
	service := NewService(store)

	name := "Renamed"
	if _, err := service.Update(context.Background(), intruder, tpl.ID, models.TemplatePatch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign update returned %v, want ErrNotFound", err)
	}
	if store.updated[tpl.ID] {
		t.Fatal("foreign update must not reach the store")
	}

	got, err := service.Update(context.Background(), owner, tpl.ID, models.TemplatePatch{Name: &name})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if got.Name != "Renamed" {
		t.Fatalf("name is %q after update", got.Name)
	}
}

func TestSystemTemplatesAreImmutable(t *testing.T) {
	store := newFakeStore()
	tpl := store.put(nil, "SOAP Note")
	service := NewService(store)
	providerID := uuid.New()

	name := "Defaced"
	if _, err := service.Update(context.Background(), providerID, tpl.ID, models.TemplatePatch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("system template update returned %v, want ErrNotFound", err)
	}
	if err := service.Delete(context.Background(), providerID, tpl.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("system template delete returned %v, want ErrNotFound", err)
	}
	if _, ok := store.templates[tpl.ID]; !ok {
		t.Fatal("system template row must survive")
	}
}

func TestDeleteScopedToOwningProvider(t *testing.T) {
	store := newFakeStore()
	owner := uuid.New()
	tpl := store.put(&owner, "My Custom Note")
	service := NewService(store)

	if err := service.Delete(context.Background(), uuid.New(), tpl.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete returned %v, want ErrNotFound", err)
	}
	if err := service.Delete(context.Background(), owner, tpl.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, ok := store.templates[tpl.ID]; ok {
		t.Fatal("template row must be gone after owner delete")
	}
}
