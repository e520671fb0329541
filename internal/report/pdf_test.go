package report

import (
	"bytes"
	"testing"

	"receta-digital/internal/consultation"
)

func TestTreatmentTitle(t *testing.T) {
	withTrade := consultation.Medication{Name: "Paracetamol 500 mg", Trade: "Tempra"}
	if got := treatmentTitle(1, withTrade); got != "1. Paracetamol 500 mg (Tempra)" {
		t.Errorf("treatmentTitle = %q", got)
	}

	without := consultation.Medication{Name: "Ibuprofeno 400 mg"}
	if got := treatmentTitle(2, without); got != "2. Ibuprofeno 400 mg" {
		t.Errorf("treatmentTitle = %q", got)
	}
}

func TestTreatmentDetailsOmitsBlanks(t *testing.T) {
	m := consultation.Medication{Quantity: "1 tableta", Duration: "3 días"}
	if got := treatmentDetails(m); got != "1 tableta • 3 días" {
		t.Errorf("treatmentDetails = %q", got)
	}

	if got := treatmentDetails(consultation.Medication{}); got != "" {
		t.Errorf("blank entry produced details: %q", got)
	}

	full := consultation.Medication{
		Quantity: "1 tableta", Frequency: "cada 8 h", Duration: "3 días", Instructions: "Después de alimentos",
	}
	want := "1 tableta • cada 8 h • 3 días • Después de alimentos"
	if got := treatmentDetails(full); got != want {
		t.Errorf("treatmentDetails = %q, want %q", got, want)
	}
}

func TestVitalsLine(t *testing.T) {
	p := consultation.Patient{
		SystolicBP: "120", DiastolicBP: "80", HeartRate: "72",
		Temperature: "36.5", Glucose: "95", BMI: "24.2", BMIClass: "Peso normal",
	}
	got := vitalsLine(p)
	want := "TA: 120/80 mmHg    FC: 72 lpm    T°: 36.5 °C    GLUCOSA: 95 mg/dL    IMC: 24.2 (Peso normal)"
	if got != want {
		t.Errorf("vitalsLine = %q, want %q", got, want)
	}
}

func TestVitalsLineWithoutBMI(t *testing.T) {
	got := vitalsLine(consultation.Patient{SystolicBP: "120", DiastolicBP: "80"})
	if bytes.Contains([]byte(got), []byte("(")) {
		t.Errorf("empty classification rendered parentheses: %q", got)
	}
}

func TestOrDash(t *testing.T) {
	if orDash("") != "---" || orDash("x") != "x" {
		t.Error("orDash placeholder broken")
	}
}

// RecipePDF needs a DejaVuSans on disk; when absent the renderer reports it
// instead of producing a broken document.
func TestRecipePDF(t *testing.T) {
	c := consultation.Consultation{
		Folio: "REC-20240101-AB12",
		Date:  "lun, 01 ene 2024",
		Patient: consultation.Patient{
			Name: "Juan Pérez", Phone: "5512345678", DOB: "1990-06-15", Age: "33",
			Weight: "80", Height: "1.75", BMI: "26.1", BMIClass: "Sobrepeso",
		},
		Diagnoses: "I10 - Hipertensión esencial",
		Meds: []consultation.Medication{
			{Name: "Losartán 50 mg", Quantity: "1 tableta", Frequency: "cada 24 h", Duration: "30 días"},
		},
		Exams:    "Química Sanguínea (6)",
		ApptDate: "2024-02-01",
		ApptTime: "10:30",
	}

	data, err := testRenderer().RecipePDF(c)
	if err != nil {
		t.Skipf("recipe font unavailable on this machine: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output is not a PDF (starts with %q)", data[:min(8, len(data))])
	}
}
