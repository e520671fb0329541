package consultation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"receta-digital/internal/catalog"
)

// SuggestionProvider turns free-text subjective notes into diagnosis
// suggestions. Defined here to decouple from the concrete AI client.
type SuggestionProvider interface {
	SuggestDiagnoses(ctx context.Context, notes string) ([]string, error)
}

// SnapshotStore persists a best-effort copy of the consultation to a single
// slot; each save overwrites the previous one.
type SnapshotStore interface {
	Save(ctx context.Context, c *Consultation) error
}

var (
	// ErrEmptyNotes rejects a suggestion request made before any subjective
	// notes were written; no external call is issued.
	ErrEmptyNotes = errors.New("subjective notes are empty")

	// ErrSuggestionInFlight rejects a second suggestion request while one is
	// still outstanding (at-most-one-in-flight).
	ErrSuggestionInFlight = errors.New("a suggestion request is already in flight")

	// ErrCatalogNotFound reports an autofill request for a name the
	// medication catalog does not have.
	ErrCatalogNotFound = errors.New("medication not in catalog")
)

// Service owns the session's single consultation. All mutations go through
// it; the mutex is there because HTTP handlers may overlap even with one
// user at the keyboard.
type Service struct {
	mu              sync.Mutex
	current         *Consultation
	suggester       SuggestionProvider
	store           SnapshotStore
	log             zerolog.Logger
	clock           func() time.Time
	suggestInFlight bool
}

func NewService(suggester SuggestionProvider, store SnapshotStore, log zerolog.Logger, clock func() time.Time, rnd *rand.Rand) *Service {
	return &Service{
		current:   New(clock(), rnd),
		suggester: suggester,
		store:     store,
		log:       log,
		clock:     clock,
	}
}

// Snapshot returns a deep copy of the current consultation.
func (s *Service) Snapshot() Consultation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// SetField routes a single field write: consultation-level free text and
// scheduling fields are handled here, everything else goes to the patient
// setter so vitals derivation triggers.
func (s *Service) SetField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch field {
	case "subjetivo":
		s.current.Subjective = value
	case "diagnoses":
		s.current.Diagnoses = value
	case "exams":
		s.current.Exams = value
	case "apptDate":
		s.current.ApptDate = value
	case "apptTime":
		s.current.ApptTime = value
	case "apptNotes":
		s.current.ApptNotes = value
	default:
		return s.current.Patient.SetField(field, value, s.clock())
	}
	return nil
}

// AppendDiagnosis adds a picked or suggested diagnosis as a new line.
func (s *Service) AppendDiagnosis(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.AppendDiagnosis(text)
}

// AppendExam adds a picked exam/indication as a new line.
func (s *Service) AppendExam(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.AppendExam(text)
}

func (s *Service) AddMedication() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.AddMedication()
}

func (s *Service) RemoveMedication(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.RemoveMedication(index)
}

func (s *Service) UpdateMedication(index int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.UpdateMedication(index, field, value)
}

// AutofillMedication looks up name in the static catalog and merges the
// matching item onto the entry at index.
func (s *Service) AutofillMedication(index int, name string) error {
	item, ok := catalog.FindMedication(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrCatalogNotFound, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.ApplyCatalogEntry(index, item)
}

// RequestSuggestions kicks off an asynchronous diagnosis-suggestion call.
// The caller gets an immediate answer: accepted, notes missing, or one
// already running. On success the suggestions are appended to whatever the
// diagnoses text is when the call completes (last writer wins); on failure
// the error is logged and the user sees nothing appended.
func (s *Service) RequestSuggestions(ctx context.Context) error {
	s.mu.Lock()
	if s.suggestInFlight {
		s.mu.Unlock()
		return ErrSuggestionInFlight
	}
	notes := strings.TrimSpace(s.current.Subjective)
	if notes == "" {
		s.mu.Unlock()
		return ErrEmptyNotes
	}
	s.suggestInFlight = true
	s.mu.Unlock()

	go func() {
		// Detached context: the HTTP request that triggered this has
		// already been answered.
		suggestions, err := s.suggester.SuggestDiagnoses(context.Background(), notes)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.suggestInFlight = false
		if err != nil {
			s.log.Error().Err(err).Msg("diagnosis suggestion failed")
			return
		}
		for _, sug := range suggestions {
			s.current.AppendDiagnosis(sug)
		}
		s.log.Info().Int("count", len(suggestions)).Msg("diagnosis suggestions appended")
	}()
	return nil
}

// SuggestionPending reports whether a suggestion call is outstanding.
func (s *Service) SuggestionPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestInFlight
}

// Save writes a snapshot to the single-slot store. Best effort: failure is
// reported to the caller but the session keeps going.
func (s *Service) Save(ctx context.Context) error {
	snap := s.Snapshot()
	if err := s.store.Save(ctx, &snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
