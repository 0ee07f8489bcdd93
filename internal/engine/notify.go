package engine

import (
	"context"
	"log/slog"

	"github.com/tartampluch/contact-birthday/internal/config"
)

// Severity is the variant of a transient notification.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Notification is a transient message for the user.
type Notification struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier displays notifications. Delivery is fire-and-forget.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier writes notifications to the structured log. It is the sink of
// the headless -once mode.
type LogNotifier struct{}

// Notify logs n at Error or Info level depending on its severity.
func (LogNotifier) Notify(n Notification) {
	level := slog.LevelInfo
	if n.Severity == SeverityError {
		level = slog.LevelError
	}
	slog.Log(context.Background(), level, n.Message,
		config.LogKeyComponent, config.CompWidget,
		config.LogKeyTitle, n.Title,
		config.LogKeySeverity, string(n.Severity),
	)
}
