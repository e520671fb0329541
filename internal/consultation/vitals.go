package consultation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SetField stores raw text verbatim on the patient and recomputes the derived
// fields whose inputs changed: weight/height drive BMI, dob drives age.
// Invalid text is not an error; the derived values just keep their previous
// state until the inputs parse.
func (p *Patient) SetField(field, value string, now time.Time) error {
	switch field {
	case "name":
		p.Name = value
	case "phone":
		p.Phone = value
	case "dob":
		p.DOB = value
		p.recomputeAge(now)
	case "ta_sis":
		p.SystolicBP = value
	case "ta_dia":
		p.DiastolicBP = value
	case "fc":
		p.HeartRate = value
	case "temp":
		p.Temperature = value
	case "glucose":
		p.Glucose = value
	case "weight":
		p.Weight = value
		p.recomputeBMI()
	case "height":
		p.Height = value
		p.recomputeBMI()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// recomputeBMI derives BMI and its classification from the current weight and
// height. Height is ambiguous-unit: values above 3 are centimeters.
func (p *Patient) recomputeBMI() {
	w, errW := strconv.ParseFloat(strings.TrimSpace(p.Weight), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(p.Height), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return
	}
	if h > 3 {
		h /= 100
	}
	bmi := w / (h * h)
	p.BMI = strconv.FormatFloat(bmi, 'f', 1, 64)
	p.BMIClass = classifyBMI(bmi)
}

func classifyBMI(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Bajo peso"
	case bmi <= 24.9:
		return "Peso normal"
	case bmi <= 29.9:
		return "Sobrepeso"
	default:
		return "Obesidad"
	}
}

// recomputeAge derives whole years from the date of birth. A future date
// yields a negative age; the form tolerates it like any other odd input.
func (p *Patient) recomputeAge(now time.Time) {
	dob, err := time.Parse("2006-01-02", strings.TrimSpace(p.DOB))
	if err != nil {
		return
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() ||
		(now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	p.Age = strconv.Itoa(years)
}
