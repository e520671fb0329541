package consultation

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Medication is one line of the treatment list. Everything is free text; the
// practitioner types partial entries all the time and that is fine.
type Medication struct {
	Name         string `json:"name"`
	Trade        string `json:"trade"`
	Quantity     string `json:"quantity"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

// Patient holds identity and raw vital-sign text plus the derived fields.
// Age, BMI and BMIClass are read-only: they are recomputed by SetField and
// never written directly.
type Patient struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	DOB   string `json:"dob"`
	Age   string `json:"age"`

	SystolicBP  string `json:"ta_sis"`
	DiastolicBP string `json:"ta_dia"`
	HeartRate   string `json:"fc"`
	Temperature string `json:"temp"`
	Glucose     string `json:"glucose"`
	Weight      string `json:"weight"`
	Height      string `json:"height"`

	BMI      string `json:"imc"`
	BMIClass string `json:"imc_class"`
}

// FirstName returns the text before the first space of the full name, or ""
// for an empty name.
func (p *Patient) FirstName() string {
	if p.Name == "" {
		return ""
	}
	return strings.SplitN(p.Name, " ", 2)[0]
}

// Consultation is the aggregate root: one per session, mutated in place while
// the form is edited. Folio and Date are generated at construction and never
// change afterwards.
type Consultation struct {
	Folio      string       `json:"folio"`
	Date       string       `json:"date"`
	Patient    Patient      `json:"patient"`
	Subjective string       `json:"subjetivo"`
	Diagnoses  string       `json:"diagnoses"`
	Meds       []Medication `json:"meds"`
	Exams      string       `json:"exams"`
	ApptDate   string       `json:"apptDate,omitempty"`
	ApptTime   string       `json:"apptTime,omitempty"`
	ApptNotes  string       `json:"apptNotes,omitempty"`
}

const folioSuffixChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// New builds a fresh consultation with a generated folio and the formatted
// visit date. The treatment list starts with one blank entry so the form has
// a row to type into.
func New(now time.Time, rnd *rand.Rand) *Consultation {
	return &Consultation{
		Folio: newFolio(now, rnd),
		Date:  formatVisitDate(now),
		Meds:  []Medication{{}},
	}
}

// newFolio composes a human-shareable code: REC-YYYYMMDD-XXXX. The suffix is
// a non-cryptographic label, not an identity; collisions across sessions are
// accepted.
func newFolio(now time.Time, rnd *rand.Rand) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = folioSuffixChars[rnd.Intn(len(folioSuffixChars))]
	}
	return fmt.Sprintf("REC-%s-%s", now.Format("20060102"), suffix)
}

var (
	weekdaysES = [...]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}
	monthsES   = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}
)

// formatVisitDate renders now the way the printed recipe shows it: short
// Spanish weekday, 2-digit day, short month, year ("mié, 03 sep 2025").
// Stored as display text, never recomputed.
func formatVisitDate(now time.Time) string {
	return fmt.Sprintf("%s, %02d %s %d",
		weekdaysES[now.Weekday()], now.Day(), monthsES[now.Month()-1], now.Year())
}

// AppendDiagnosis adds text as a new line of the diagnoses block, keeping
// whatever is already typed. No deduplication.
func (c *Consultation) AppendDiagnosis(text string) {
	c.Diagnoses = appendLine(c.Diagnoses, text)
}

// AppendExam behaves like AppendDiagnosis for the exams/indications block.
func (c *Consultation) AppendExam(text string) {
	c.Exams = appendLine(c.Exams, text)
}

func appendLine(existing, text string) string {
	if existing == "" {
		return text
	}
	return existing + "\n" + text
}

// Clone returns a deep copy for the renderers; they must never observe later
// mutations.
func (c *Consultation) Clone() Consultation {
	out := *c
	out.Meds = make([]Medication, len(c.Meds))
	copy(out.Meds, c.Meds)
	return out
}
