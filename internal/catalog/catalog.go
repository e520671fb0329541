package catalog

import "strings"

// Item is one entry of the medication catalog. Every field except Name is
// optional; autofill only copies the fields an entry actually carries.
type Item struct {
	Name         string `json:"name"`
	Trade        string `json:"trade,omitempty"`
	Quantity     string `json:"quantity,omitempty"`
	Frequency    string `json:"frequency,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

var Medications = []Item{
	{Name: "Paracetamol 500 mg", Trade: "Tempra", Quantity: "1 tableta", Frequency: "cada 8 h", Duration: "3 días", Instructions: "Después de alimentos"},
	{Name: "Ibuprofeno 400 mg", Quantity: "1 tableta", Frequency: "cada 8 h", Duration: "3 días", Instructions: "Si persiste dolor o fiebre"},
	{Name: "Amoxicilina 500 mg", Quantity: "1 cápsula", Frequency: "cada 8 h", Duration: "7 días", Instructions: "Completar tratamiento"},
	{Name: "Losartán 50 mg", Quantity: "1 tableta", Frequency: "cada 24 h", Duration: "30 días", Instructions: "Control de TA"},
	{Name: "Metformina 850 mg", Quantity: "1 tableta", Frequency: "cada 12 h", Duration: "30 días", Instructions: "Con alimentos"},
}

// Diagnoses is the CIE-10 autocomplete source, "code - description" per entry.
var Diagnoses = []string{
	"I10 - Hipertensión esencial",
	"E11.9 - DM2 sin complicaciones",
	"J06 - Infección vías resp. sup.",
	"M54.5 - Lumbalgia",
	"K21.9 - Reflujo gastroesofágico",
}

var Exams = []string{
	"Biometría Hemática Completa (BH)",
	"Química Sanguínea (6)",
	"Examen General de Orina (EGO)",
	"Perfil de Lípidos",
	"Ultrasonido Abdominal",
}

// Search returns the entries containing partial, case-insensitively. An empty
// partial matches nothing.
func Search(entries []string, partial string) []string {
	if partial == "" {
		return nil
	}
	needle := strings.ToLower(partial)
	var out []string
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e), needle) {
			out = append(out, e)
		}
	}
	return out
}

// SearchMedications searches the medication catalog by generic name.
func SearchMedications(partial string) []string {
	names := make([]string, len(Medications))
	for i, m := range Medications {
		names[i] = m.Name
	}
	return Search(names, partial)
}

// FindMedication looks up a catalog item by its exact generic name.
func FindMedication(name string) (Item, bool) {
	for _, m := range Medications {
		if m.Name == name {
			return m, true
		}
	}
	return Item{}, false
}
