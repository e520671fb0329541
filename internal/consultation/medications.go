package consultation

import (
	"errors"
	"fmt"

	"receta-digital/internal/catalog"
)

var (
	// ErrIndexOutOfRange reports a medication index that does not exist.
	// This is a caller bug, not user input, so it fails loudly.
	ErrIndexOutOfRange = errors.New("medication index out of range")

	// ErrUnknownField reports a field name no setter recognizes.
	ErrUnknownField = errors.New("unknown field")
)

// AddMedication appends a blank entry and returns its index.
func (c *Consultation) AddMedication() int {
	c.Meds = append(c.Meds, Medication{})
	return len(c.Meds) - 1
}

// RemoveMedication deletes the entry at index; later entries shift to close
// the gap. An empty treatment list is valid.
func (c *Consultation) RemoveMedication(index int) error {
	if index < 0 || index >= len(c.Meds) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	c.Meds = append(c.Meds[:index], c.Meds[index+1:]...)
	return nil
}

// UpdateMedication replaces one field of the entry at index.
func (c *Consultation) UpdateMedication(index int, field, value string) error {
	if index < 0 || index >= len(c.Meds) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	m := &c.Meds[index]
	switch field {
	case "name":
		m.Name = value
	case "trade":
		m.Trade = value
	case "quantity":
		m.Quantity = value
	case "frequency":
		m.Frequency = value
	case "duration":
		m.Duration = value
	case "instructions":
		m.Instructions = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// ApplyCatalogEntry copies the catalog item onto the entry at index. This is
// a merge, not a replace: fields the catalog item leaves unspecified keep
// whatever the practitioner already typed.
func (c *Consultation) ApplyCatalogEntry(index int, item catalog.Item) error {
	if index < 0 || index >= len(c.Meds) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	m := &c.Meds[index]
	m.Name = item.Name
	if item.Trade != "" {
		m.Trade = item.Trade
	}
	if item.Quantity != "" {
		m.Quantity = item.Quantity
	}
	if item.Frequency != "" {
		m.Frequency = item.Frequency
	}
	if item.Duration != "" {
		m.Duration = item.Duration
	}
	if item.Instructions != "" {
		m.Instructions = item.Instructions
	}
	return nil
}
