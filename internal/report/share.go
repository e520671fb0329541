package report

import (
	"fmt"
	"strings"

	"receta-digital/internal/consultation"
)

// ShareText builds the WhatsApp message summary: the patient's first name,
// one bullet per medication, the folio, and the next appointment date or
// "Pendiente" when none is set. Pure function of the snapshot; the deep link
// around it is built by the whatsapp package.
func (r *Renderer) ShareText(c consultation.Consultation) string {
	bullets := make([]string, 0, len(c.Meds))
	for _, m := range c.Meds {
		if m.Trade != "" {
			bullets = append(bullets, fmt.Sprintf("• *%s* (%s) - %s / %s", m.Name, m.Trade, m.Quantity, m.Frequency))
		} else {
			bullets = append(bullets, fmt.Sprintf("• *%s* - %s / %s", m.Name, m.Quantity, m.Frequency))
		}
	}

	appt := c.ApptDate
	if appt == "" {
		appt = "Pendiente"
	}

	return fmt.Sprintf("Hola *%s*, %s le envía su resumen clínico:\n\n*Tratamiento:*\n%s\n\n*Folio:* %s\n*Próxima Cita:* %s",
		c.Patient.FirstName(), r.practitioner.ShortName, strings.Join(bullets, "\n"), c.Folio, appt)
}
