package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/contact-birthday/internal/config"
	"github.com/tartampluch/contact-birthday/internal/engine"
)

// FyneNotifier shows widget notifications as desktop notifications.
type FyneNotifier struct {
	App fyne.App
}

// Notify implements engine.Notifier.
func (n *FyneNotifier) Notify(note engine.Notification) {
	slog.Info(config.MsgNotify,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyTitle, note.Title,
		config.LogKeySeverity, string(note.Severity),
	)
	n.App.SendNotification(fyne.NewNotification(note.Title, note.Message))
}
