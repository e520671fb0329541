package consultation

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeSuggester struct {
	calls   int32
	started chan struct{}
	release chan struct{}
	result  []string
	err     error
}

func (f *fakeSuggester) SuggestDiagnoses(ctx context.Context, notes string) ([]string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

type fakeStore struct {
	saved []Consultation
}

func (f *fakeStore) Save(ctx context.Context, c *Consultation) error {
	f.saved = append(f.saved, *c)
	return nil
}

func newTestService(suggester SuggestionProvider, store SnapshotStore) *Service {
	clock := func() time.Time { return testNow }
	return NewService(suggester, store, zerolog.Nop(), clock, rand.New(rand.NewSource(1)))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestRequestSuggestionsRequiresNotes(t *testing.T) {
	suggester := &fakeSuggester{}
	svc := newTestService(suggester, &fakeStore{})

	if err := svc.RequestSuggestions(context.Background()); !errors.Is(err, ErrEmptyNotes) {
		t.Fatalf("expected ErrEmptyNotes, got %v", err)
	}
	if atomic.LoadInt32(&suggester.calls) != 0 {
		t.Error("provider called despite empty notes")
	}
}

func TestRequestSuggestionsAtMostOneInFlight(t *testing.T) {
	suggester := &fakeSuggester{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		result:  []string{"I10 - Hipertensión esencial", "E11.9 - DM2 sin complicaciones"},
	}
	svc := newTestService(suggester, &fakeStore{})
	if err := svc.SetField("subjetivo", "cefalea y mareo"); err != nil {
		t.Fatal(err)
	}

	if err := svc.RequestSuggestions(context.Background()); err != nil {
		t.Fatalf("first request: %v", err)
	}
	<-suggester.started

	if err := svc.RequestSuggestions(context.Background()); !errors.Is(err, ErrSuggestionInFlight) {
		t.Fatalf("expected ErrSuggestionInFlight, got %v", err)
	}
	if got := atomic.LoadInt32(&suggester.calls); got != 1 {
		t.Fatalf("expected 1 external call, got %d", got)
	}

	close(suggester.release)
	waitFor(t, func() bool { return !svc.SuggestionPending() })

	snap := svc.Snapshot()
	want := "I10 - Hipertensión esencial\nE11.9 - DM2 sin complicaciones"
	if snap.Diagnoses != want {
		t.Errorf("diagnoses = %q, want %q", snap.Diagnoses, want)
	}

	// Flag cleared: a new request goes through.
	if err := svc.RequestSuggestions(context.Background()); err != nil {
		t.Fatalf("request after completion: %v", err)
	}
	waitFor(t, func() bool { return !svc.SuggestionPending() })
}

func TestRequestSuggestionsFailureDegradesToNone(t *testing.T) {
	suggester := &fakeSuggester{err: errors.New("api unreachable")}
	svc := newTestService(suggester, &fakeStore{})
	if err := svc.SetField("subjetivo", "tos seca"); err != nil {
		t.Fatal(err)
	}
	svc.AppendDiagnosis("J06 - Infección vías resp. sup.")

	if err := svc.RequestSuggestions(context.Background()); err != nil {
		t.Fatalf("RequestSuggestions: %v", err)
	}
	waitFor(t, func() bool { return !svc.SuggestionPending() })

	snap := svc.Snapshot()
	if snap.Diagnoses != "J06 - Infección vías resp. sup." {
		t.Errorf("diagnoses changed on provider failure: %q", snap.Diagnoses)
	}
}

func TestSuggestionsAppendAfterConcurrentEdit(t *testing.T) {
	suggester := &fakeSuggester{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		result:  []string{"M54.5 - Lumbalgia"},
	}
	svc := newTestService(suggester, &fakeStore{})
	if err := svc.SetField("subjetivo", "dolor lumbar"); err != nil {
		t.Fatal(err)
	}

	if err := svc.RequestSuggestions(context.Background()); err != nil {
		t.Fatal(err)
	}
	<-suggester.started

	// The user keeps typing while the call is outstanding; their text must
	// survive, with the suggestions landing after it.
	if err := svc.SetField("diagnoses", "impresión diagnóstica propia"); err != nil {
		t.Fatal(err)
	}
	close(suggester.release)
	waitFor(t, func() bool { return !svc.SuggestionPending() })

	snap := svc.Snapshot()
	if snap.Diagnoses != "impresión diagnóstica propia\nM54.5 - Lumbalgia" {
		t.Errorf("diagnoses = %q", snap.Diagnoses)
	}
}

func TestAutofillMedicationUnknownName(t *testing.T) {
	svc := newTestService(&fakeSuggester{}, &fakeStore{})
	if err := svc.AutofillMedication(0, "No Existe 10 mg"); !errors.Is(err, ErrCatalogNotFound) {
		t.Fatalf("expected ErrCatalogNotFound, got %v", err)
	}
}

func TestSaveWritesSnapshot(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeSuggester{}, store)
	if err := svc.SetField("name", "Juan Pérez"); err != nil {
		t.Fatal(err)
	}

	if err := svc.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 save, got %d", len(store.saved))
	}

	// Later mutations must not leak into the stored snapshot.
	if err := svc.UpdateMedication(0, "name", "Metformina 850 mg"); err != nil {
		t.Fatal(err)
	}
	if store.saved[0].Meds[0].Name != "" {
		t.Errorf("saved snapshot mutated after the fact: %q", store.saved[0].Meds[0].Name)
	}

	// Overwrite semantics live in the store; a second save just hands over a
	// fresh copy.
	if err := svc.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(store.saved[1].Meds[0].Name, "Metformina") {
		t.Errorf("second save missed the edit: %+v", store.saved[1].Meds[0])
	}
}
