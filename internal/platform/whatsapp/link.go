package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// Link builds a wa.me deep link: fixed country calling code, the patient's
// phone digits, and the URL-encoded message. Opening it is the host
// environment's job.
func Link(countryCode, phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s%s?text=%s",
		countryCode, digits(phone), url.QueryEscape(text))
}

// digits strips everything but 0-9 so "228 837-0103" style input still dials.
func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
