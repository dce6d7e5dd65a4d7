package encounter

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

type fakeStore struct {
	encounters map[uuid.UUID]models.Encounter
	deleted    []uuid.UUID
}

func newFakeStore(encs ...models.Encounter) *fakeStore {
	s := &fakeStore{encounters: map[uuid.UUID]models.Encounter{}}
	for _, e := range encs {
		s.encounters[e.ID] = e
	}
	return s
}

func (s *fakeStore) Create(ctx context.Context, providerID uuid.UUID, req models.CreateEncounterRequest) (models.Encounter, error) {
	enc := models.Encounter{ID: uuid.New(), ProviderID: providerID, PatientName: req.PatientName, Status: StatusRecording}
	s.encounters[enc.ID] = enc
	return enc, nil
}

func (s *fakeStore) Get(ctx context.Context, id uuid.UUID) (models.Encounter, error) {
	enc, ok := s.encounters[id]
	if !ok {
		return models.Encounter{}, ErrNotFound
	}
	return enc, nil
}

func (s *fakeStore) ListByProvider(ctx context.Context, providerID uuid.UUID, status string, limit int) ([]models.Encounter, error) {
	var out []models.Encounter
	for _, e := range s.encounters {
		if e.ProviderID == providerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeStore) Update(ctx context.Context, id uuid.UUID, patch models.EncounterPatch) error {
	enc, ok := s.encounters[id]
	if !ok {
		return ErrNotFound
	}
	if patch.PatientName != nil {
		enc.PatientName = *patch.PatientName
	}
	s.encounters[id] = enc
	return nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	enc, ok := s.encounters[id]
	if !ok {
		return ErrNotFound
	}
	enc.Status = status
	s.encounters[id] = enc
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.encounters[id]; !ok {
		return ErrNotFound
	}
	delete(s.encounters, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type fakePurger struct {
	name   string
	log    *[]string
	fail   bool
	called int
}

func (p *fakePurger) DeleteByEncounter(ctx context.Context, encounterID uuid.UUID) error {
	p.called++
	*p.log = append(*p.log, p.name)
	if p.fail {
		return errors.New("purge failed")
	}
	return nil
}

func TestDeleteCascadesInOrder(t *testing.T) {
	providerID := uuid.New()
	enc := models.Encounter{ID: uuid.New(), ProviderID: providerID, Status: StatusReview}
	store := newFakeStore(enc)

	var order []string
	segments := &fakePurger{name: "segments", log: &order}
	notes := &fakePurger{name: "notes", log: &order}
	todos := &fakePurger{name: "todos", log: &order}

	svc := NewService(store, nil, segments, notes, todos)
	if err := svc.Delete(context.Background(), providerID, enc.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	want := []string{"segments", "notes", "todos"}
	if len(order) != len(want) {
		t.Fatalf("expected %d purges, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("purge order %v, want %v", order, want)
		}
	}
	if len(store.deleted) != 1 || store.deleted[0] != enc.ID {
		t.Fatalf("encounter row not deleted: %v", store.deleted)
	}
}

func TestDeleteStopsWhenPurgeFails(t *testing.T) {
	providerID := uuid.New()
	enc := models.Encounter{ID: uuid.New(), ProviderID: providerID, Status: StatusReview}
	store := newFakeStore(enc)

	var order []string
	segments := &fakePurger{name: "segments", log: &order, fail: true}
	notes := &fakePurger{name: "notes", log: &order}

	svc := NewService(store, nil, segments, notes)
	if err := svc.Delete(context.Background(), providerID, enc.ID); err == nil {
		t.Fatal("expected delete to fail")
	}

	if notes.called != 0 {
		t.Fatal("later purger ran after earlier failure")
	}
	if len(store.deleted) != 0 {
		t.Fatal("encounter row deleted despite purge failure")
	}
}

func TestDeleteRejectsForeignEncounter(t *testing.T) {
	enc := models.Encounter{ID: uuid.New(), ProviderID: uuid.New(), Status: StatusReview}
	store := newFakeStore(enc)
	svc := NewService(store, nil)

	err := svc.Delete(context.Background(), uuid.New(), enc.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign encounter, got %v", err)
	}
}

func TestUpdateStatusEnforcesMachine(t *testing.T) {
	providerID := uuid.New()
	enc := models.Encounter{ID: uuid.New(), ProviderID: providerID, Status: StatusRecording}
	store := newFakeStore(enc)
	svc := NewService(store, nil)

	if _, err := svc.UpdateStatus(context.Background(), providerID, enc.ID, StatusComplete); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), providerID, enc.ID, StatusTranscribing)
	if err != nil {
		t.Fatalf("legal transition failed: %v", err)
	}
	if updated.Status != StatusTranscribing {
		t.Fatalf("status not persisted: %s", updated.Status)
	}
}
