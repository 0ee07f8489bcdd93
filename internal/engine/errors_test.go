package engine_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/contact-birthday/internal/engine"
)

// TestErrorMessage covers the message extraction policy of fetch failures.
func TestErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"List body is joined", &engine.FetchError{Messages: []string{"a", "b", "c"}}, "a, b, c"},
		{"List wins over message", &engine.FetchError{Messages: []string{"x"}, Message: "ignored"}, "x"},
		{"Empty list body", &engine.FetchError{Messages: []string{}}, ""},
		{"Single message", &engine.FetchError{Message: "boom"}, "boom"},
		{"Empty body", &engine.FetchError{}, "Unknown error"},
		{"Wrapped fetch error", fmt.Errorf("load: %w", &engine.FetchError{Message: "inner"}), "inner"},
		{"Plain error", cause, "connection refused"},
		{"Nil error", nil, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ErrorMessage(tt.err))
		})
	}
}

func TestFetchError_Unwrap(t *testing.T) {
	err := &engine.FetchError{Message: "not found", Err: engine.ErrRecordNotFound}
	assert.ErrorIs(t, err, engine.ErrRecordNotFound)
}
