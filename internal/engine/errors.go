package engine

import (
	"errors"
	"strings"

	"github.com/tartampluch/contact-birthday/internal/config"
)

var (
	// ErrNotLoaded is returned when an action is triggered before contact data arrived.
	ErrNotLoaded = errors.New(config.ErrNotLoaded)

	// ErrAlreadySent is returned when an action is triggered a second time.
	ErrAlreadySent = errors.New(config.ErrAlreadySent)

	// ErrHidden is returned when an action is triggered while the component is not shown.
	ErrHidden = errors.New(config.ErrHidden)

	// ErrRecordNotFound is returned by sources when no contact matches the identifier.
	ErrRecordNotFound = errors.New(config.ErrRecordNotFound)
)

// FetchError is the failure payload of a RecordSource.
// The body is either an ordered list of messages or a single message.
type FetchError struct {
	// Messages is the list body. A non-nil slice takes precedence, even when empty.
	Messages []string

	// Message is the single-message body.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Text extracts the human-readable message of the body.
func (e *FetchError) Text() string {
	if e.Messages != nil {
		return strings.Join(e.Messages, config.FallbackMessageSep)
	}
	if e.Message != "" {
		return e.Message
	}
	return config.FallbackUnknownError
}

func (e *FetchError) Error() string {
	return e.Text()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// newFetchError wraps a cause as a single-message FetchError.
func newFetchError(prefix string, err error) *FetchError {
	return &FetchError{Message: prefix + ": " + err.Error(), Err: err}
}

// ErrorMessage applies the FetchError message policy to any error.
// Plain errors are treated as a single-message body.
func ErrorMessage(err error) string {
	if err == nil {
		return config.FallbackUnknownError
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Text()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return config.FallbackUnknownError
}
