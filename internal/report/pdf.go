package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/signintech/gopdf"

	"receta-digital/internal/consultation"
)

// vitalsReportURL is the fixed site patients use to log their vitals at home;
// its address is printed in the recipe footer next to the contact QR target.
const vitalsReportURL = "https://signos-vitales-reporte.netlify.app/"

// Practitioner is the fixed identity block printed on every recipe.
type Practitioner struct {
	Name        string
	ShortName   string
	Specialty   string
	Credentials string
	Address     string
	Phones      []string
}

// Renderer projects a consultation snapshot into the two share formats. It
// holds no state beyond the practitioner block: same snapshot in, same
// document out.
type Renderer struct {
	practitioner Practitioner
}

func NewRenderer(p Practitioner) *Renderer {
	return &Renderer{practitioner: p}
}

// Font paths probed in order; DejaVuSans covers the accented characters.
var fontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// RecipePDF renders the printable recipe: header, patient identification,
// vitals strip, diagnoses (when present), numbered treatment, indications
// (when present), signature and appointment, contact footer with the folio.
func (r *Renderer) RecipePDF(c consultation.Consultation) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load recipe font, is ttf-dejavu installed? last error: %w", fontErr)
	}

	// Header
	if err := pdf.SetFont("DejaVu", "", 18); err != nil {
		return nil, err
	}
	pdf.Cell(nil, r.practitioner.Name)
	pdf.Br(22)
	if err := pdf.SetFont("DejaVu", "", 13); err != nil {
		return nil, err
	}
	pdf.Cell(nil, r.practitioner.Specialty)
	pdf.Br(16)
	if err := pdf.SetFont("DejaVu", "", 8); err != nil {
		return nil, err
	}
	pdf.Cell(nil, strings.ToUpper(r.practitioner.Credentials))
	pdf.Br(10)
	pdf.SetLineWidth(1.5)
	pdf.Line(pdf.GetX(), pdf.GetY(), 565, pdf.GetY())
	pdf.Br(18)

	// Patient identification
	if err := pdf.SetFont("DejaVu", "", 10); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("PACIENTE: %s", strings.ToUpper(orDash(c.Patient.Name))))
	pdf.SetX(430)
	pdf.Cell(nil, fmt.Sprintf("FECHA: %s", c.Date))
	pdf.Br(14)
	pdf.Cell(nil, fmt.Sprintf("CELULAR: %s    F. NAC: %s    EDAD: %s años",
		orDash(c.Patient.Phone), orDash(c.Patient.DOB), c.Patient.Age))
	pdf.Br(16)

	// Vitals strip
	if err := pdf.SetFont("DejaVu", "", 9); err != nil {
		return nil, err
	}
	pdf.Cell(nil, vitalsLine(c.Patient))
	pdf.Br(8)
	pdf.SetLineWidth(0.5)
	pdf.Line(pdf.GetX(), pdf.GetY(), 565, pdf.GetY())
	pdf.Br(16)

	// Diagnoses (only when non-empty)
	if c.Diagnoses != "" {
		if err := r.writeBlock(&pdf, "Diagnósticos", c.Diagnoses); err != nil {
			return nil, err
		}
	}

	// Treatment
	if err := pdf.SetFont("DejaVu", "", 13); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Tratamiento")
	pdf.Br(18)
	for i, m := range c.Meds {
		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return nil, err
		}
		pdf.Cell(nil, treatmentTitle(i+1, m))
		pdf.Br(14)
		if details := treatmentDetails(m); details != "" {
			if err := pdf.SetFont("DejaVu", "", 10); err != nil {
				return nil, err
			}
			pdf.SetX(55)
			lines, _ := pdf.SplitText(details, 480)
			for _, l := range lines {
				pdf.Cell(nil, l)
				pdf.Br(12)
				pdf.SetX(55)
			}
		}
		pdf.Br(6)
	}
	pdf.Br(10)

	// Indications / exams (only when non-empty)
	if c.Exams != "" {
		if err := r.writeBlock(&pdf, "Indicaciones y Exámenes", c.Exams); err != nil {
			return nil, err
		}
	}

	// Signature and appointment
	pdf.SetY(700)
	pdf.SetX(190)
	pdf.SetLineWidth(0.8)
	pdf.Line(190, pdf.GetY(), 400, pdf.GetY())
	pdf.Br(10)
	if err := pdf.SetFont("DejaVu", "", 10); err != nil {
		return nil, err
	}
	pdf.SetX(190)
	pdf.Cell(nil, r.practitioner.Name)
	pdf.Br(16)
	if c.ApptDate != "" {
		pdf.SetX(190)
		appt := fmt.Sprintf("PRÓXIMA CITA: %s", c.ApptDate)
		if c.ApptTime != "" {
			appt += fmt.Sprintf(" a las %s", c.ApptTime)
		}
		pdf.Cell(nil, appt)
	}

	// Contact footer
	pdf.SetY(760)
	pdf.SetLineWidth(1.5)
	pdf.Line(40, pdf.GetY(), 565, pdf.GetY())
	pdf.Br(10)
	if err := pdf.SetFont("DejaVu", "", 7); err != nil {
		return nil, err
	}
	pdf.SetX(40)
	pdf.Cell(nil, r.practitioner.Address)
	pdf.Br(10)
	pdf.SetX(40)
	pdf.Cell(nil, fmt.Sprintf("Tels: %s", strings.Join(r.practitioner.Phones, " / ")))
	pdf.Br(10)
	pdf.SetX(40)
	pdf.Cell(nil, fmt.Sprintf("WhatsApp: https://wa.me/52%s    Registra tus signos: %s", firstOrEmpty(r.practitioner.Phones), vitalsReportURL))
	pdf.Br(12)
	if err := pdf.SetFont("DejaVu", "", 9); err != nil {
		return nil, err
	}
	pdf.SetX(430)
	pdf.Cell(nil, fmt.Sprintf("FOLIO: %s", c.Folio))

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// writeBlock prints a titled free-text block, wrapping each line to the page.
func (r *Renderer) writeBlock(pdf *gopdf.GoPdf, title, text string) error {
	if err := pdf.SetFont("DejaVu", "", 13); err != nil {
		return err
	}
	pdf.Cell(nil, title)
	pdf.Br(18)
	if err := pdf.SetFont("DejaVu", "", 10); err != nil {
		return err
	}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			pdf.Br(12)
			continue
		}
		wrapped, _ := pdf.SplitText(line, 500)
		for _, l := range wrapped {
			pdf.Cell(nil, l)
			pdf.Br(13)
		}
	}
	pdf.Br(8)
	return nil
}

// treatmentTitle is the bold line of one treatment entry: sequence number,
// generic name, and the trade name in parentheses when present.
func treatmentTitle(n int, m consultation.Medication) string {
	if m.Trade != "" {
		return fmt.Sprintf("%d. %s (%s)", n, m.Name, m.Trade)
	}
	return fmt.Sprintf("%d. %s", n, m.Name)
}

// treatmentDetails joins the entry's sub-fields, omitting blanks.
func treatmentDetails(m consultation.Medication) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{m.Quantity, m.Frequency, m.Duration, m.Instructions} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " • ")
}

// vitalsLine is the one-line vitals summary under the patient block.
func vitalsLine(p consultation.Patient) string {
	imc := p.BMI
	if p.BMIClass != "" {
		imc += fmt.Sprintf(" (%s)", p.BMIClass)
	}
	return fmt.Sprintf("TA: %s/%s mmHg    FC: %s lpm    T°: %s °C    GLUCOSA: %s mg/dL    IMC: %s",
		p.SystolicBP, p.DiastolicBP, p.HeartRate, p.Temperature, p.Glucose, imc)
}

func orDash(s string) string {
	if s == "" {
		return "---"
	}
	return s
}

func firstOrEmpty(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}
