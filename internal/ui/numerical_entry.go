package ui

import (
	"errors"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// NumericalEntry is an Entry that only accepts digits when typed.
// Pasted text is not filtered; attach a validator such as RangeValidator.
type NumericalEntry struct {
	widget.Entry
}

// NewNumericalEntry creates a new instance of NumericalEntry.
func NewNumericalEntry() *NumericalEntry {
	entry := &NumericalEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedRune drops anything but 0-9.
func (e *NumericalEntry) TypedRune(r rune) {
	if r >= '0' && r <= '9' {
		e.Entry.TypedRune(r)
	}
}

// Keyboard requests the numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

// IntValue parses the entry text. ok is false when the text is empty or not a number.
func (e *NumericalEntry) IntValue() (v int, ok bool) {
	v, err := strconv.Atoi(e.Text)
	return v, err == nil
}

// RangeValidator accepts integers in [lo, hi]. The messages are shown as is.
func RangeValidator(lo, hi int, msgRequired, msgNumber, msgRange string) fyne.StringValidator {
	return func(s string) error {
		if s == "" {
			return errors.New(msgRequired)
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return errors.New(msgNumber)
		}
		if v < lo || v > hi {
			return errors.New(msgRange)
		}
		return nil
	}
}
