package ui_test

import (
	"testing"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/contact-birthday/internal/ui"
)

func TestNumericalEntry_TypedRune(t *testing.T) {
	// Initialize the custom widget using Fyne's test infrastructure.
	entry := ui.NewNumericalEntry()
	window := test.NewWindow(entry)
	defer window.Close()

	tests := []struct {
		name     string
		input    rune
		accepted bool
	}{
		{"Digit_Zero", '0', true},
		{"Digit_Nine", '9', true},
		{"Digit_Five", '5', true},
		{"Letter_a", 'a', false},
		{"Letter_Z", 'Z', false},
		{"Symbol_Dash", '-', false},
		{"Symbol_Space", ' ', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear previous content
			entry.SetText("")

			// Simulate typing
			test.Type(entry, string(tt.input))

			got := entry.Text
			if tt.accepted {
				if got != string(tt.input) {
					t.Errorf("expected input %q to be accepted, got text %q", tt.input, got)
				}
			} else {
				if got != "" {
					t.Errorf("expected input %q to be rejected, got text %q", tt.input, got)
				}
			}
		})
	}
}

func TestNumericalEntry_Keyboard(t *testing.T) {
	entry := ui.NewNumericalEntry()

	// Verify it requests the Number keyboard on mobile devices
	if got := entry.Keyboard(); got != mobile.NumberKeyboard {
		t.Errorf("expected keyboard type %v, got %v", mobile.NumberKeyboard, got)
	}
}

// TestNumericalEntry_DirectSetText documents that SetText bypasses the rune filter;
// the validator catches what paste lets through.
func TestNumericalEntry_DirectSetText(t *testing.T) {
	entry := ui.NewNumericalEntry()
	entry.Validator = ui.RangeValidator(1, 10, "required", "number", "range")

	entry.SetText("abc")
	assert.Equal(t, "abc", entry.Text)
	assert.EqualError(t, entry.Validate(), "number")

	_, ok := entry.IntValue()
	assert.False(t, ok)
}

func TestNumericalEntry_IntValue(t *testing.T) {
	entry := ui.NewNumericalEntry()

	entry.SetText("")
	_, ok := entry.IntValue()
	assert.False(t, ok, "Empty text has no value")

	entry.SetText("42")
	v, ok := entry.IntValue()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestRangeValidator(t *testing.T) {
	validate := ui.RangeValidator(1, 366, "required", "number", "range")

	tests := []struct {
		input   string
		wantErr string
	}{
		{"", "required"},
		{"x1", "number"},
		{"0", "range"},
		{"1", ""},
		{"366", ""},
		{"367", "range"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validate(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
