package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/contact-birthday/internal/config"
)

// Settings are the configuration inputs of the widget. They are read-only to
// the widget: invalid values are replaced by defaults at evaluation time.
type Settings struct {
	RecordID           string
	WithinDays         int
	EmoticonCode       string
	BackgroundColorHex string
	BorderColorHex     string

	// Labels holds the unbound templates.
	Labels LabelSet
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	return Settings{
		WithinDays:         config.DefaultWithinDays,
		EmoticonCode:       config.DefaultEmoticonCode,
		BackgroundColorHex: config.DefaultBackgroundColor,
		BorderColorHex:     config.DefaultBorderColor,
		Labels:             DefaultLabels(),
	}
}

// normalized replaces an out-of-range window and missing templates with defaults.
func (s Settings) normalized() Settings {
	if s.WithinDays < config.MinWithinDays {
		s.WithinDays = config.DefaultWithinDays
	}
	labels := DefaultLabels()
	for k, v := range s.Labels {
		labels[k] = v
	}
	s.Labels = labels
	return s
}

// View is everything a renderer needs once contact data has arrived.
type View struct {
	RecordID       string       `json:"recordId"`
	FirstName      string       `json:"firstName"`
	Birthday       string       `json:"birthday"`
	ShowComponent  bool         `json:"showComponent"`
	NextOccurrence time.Time    `json:"nextOccurrence"`
	Labels         LabelSet     `json:"labels"`
	Emoticon       string       `json:"emoticon"`
	Theme          Theme        `json:"theme"`
	Buttons        ButtonStates `json:"buttons"`
}

// Widget drives one birthday announcement: it evaluates contact data on
// arrival and handles the two button actions.
//
// Data arrival and clicks may come from different goroutines (tray, HTTP
// surface, scheduler); the mutex makes each handler run to completion before
// the next one observes the state.
type Widget struct {
	Clock    Clock
	Notifier Notifier

	// ButtonTitle localizes the hover title of a button. Nil uses DefaultButtonTitle.
	ButtonTitle func(a Action, firstName string) string

	// OnChange is called, outside the lock, after the view changed or was cleared.
	OnChange func()

	mu       sync.Mutex
	source   RecordSource
	settings Settings
	view     *View
}

// NewWidget returns a widget using the real clock.
func NewWidget(source RecordSource, notifier Notifier, settings Settings) *Widget {
	return &Widget{
		Clock:    RealClock{},
		Notifier: notifier,
		source:   source,
		settings: settings,
	}
}

// Configure replaces the record source and settings. The current view stays
// until the next Load.
func (w *Widget) Configure(source RecordSource, settings Settings) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.source = source
	w.settings = settings
}

// Settings returns the active settings.
func (w *Widget) Settings() Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// Load fetches the configured record and dispatches the result to
// HandleRecord or HandleError. The fetch error, if any, is returned.
func (w *Widget) Load(ctx context.Context) error {
	start := time.Now()

	w.mu.Lock()
	src, recordID := w.source, w.settings.RecordID
	w.mu.Unlock()

	log := slog.With(
		config.LogKeyComponent, config.CompWidget,
		config.LogKeyRecord, recordID,
	)
	log.InfoContext(ctx, config.MsgLoadStarted)

	if src == nil {
		err := &FetchError{Message: config.ErrSourceMissing}
		w.HandleError(err)
		return err
	}

	snap, err := src.FetchContact(ctx, recordID)
	if err != nil {
		log.ErrorContext(ctx, config.MsgLoadFailed, config.LogKeyError, err)
		w.HandleError(err)
		return err
	}

	view := w.HandleRecord(snap)
	log.InfoContext(ctx, config.MsgLoadSuccess,
		config.LogKeyBirthday, view.Birthday,
		config.LogKeyUpcoming, view.ShowComponent,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return nil
}

// HandleRecord evaluates a freshly delivered snapshot and installs the new view.
// When the snapshot belongs to the record already displayed, buttons that were
// sent stay sent.
func (w *Widget) HandleRecord(snap ContactSnapshot) View {
	w.mu.Lock()
	now := w.clock().Now()
	s := w.settings.normalized()

	birthday := FormatBirthday(snap.Birthdate, false, now)
	labels := BindLabels(s.Labels, snap.FirstName, birthday)
	buttons := NewButtonStates(labels, snap.FirstName, w.ButtonTitle)
	if w.view != nil && w.view.RecordID == snap.RecordID {
		buttons = buttons.carrySent(w.view.Buttons)
	}

	view := View{
		RecordID:       snap.RecordID,
		FirstName:      snap.FirstName,
		Birthday:       birthday,
		ShowComponent:  IsUpcoming(snap.Birthdate, s.WithinDays, now),
		NextOccurrence: NextOccurrence(snap.Birthdate, now),
		Labels:         labels,
		Emoticon:       SanitizeEmoticon(s.EmoticonCode),
		Theme:          NewTheme(s.BackgroundColorHex, s.BorderColorHex),
		Buttons:        buttons,
	}
	w.view = &view
	w.mu.Unlock()

	w.changed()
	return view
}

// HandleError clears the view and emits a single error notification.
func (w *Widget) HandleError(err error) {
	w.mu.Lock()
	w.view = nil
	w.mu.Unlock()

	w.notify(Notification{
		Title:    config.TitleLoadError,
		Message:  ErrorMessage(err),
		Severity: SeverityError,
	})
	w.changed()
}

// Trigger sends action a. It fails with ErrNotLoaded before data arrival,
// with ErrHidden when the birthday is outside the window and with
// ErrAlreadySent when the action already reached its terminal state.
// On failure nothing changes and nothing is notified.
func (w *Widget) Trigger(a Action) (ButtonStates, error) {
	w.mu.Lock()
	if w.view == nil {
		w.mu.Unlock()
		return ButtonStates{}, ErrNotLoaded
	}
	if !w.view.ShowComponent {
		buttons := w.view.Buttons
		w.mu.Unlock()
		return buttons, ErrHidden
	}

	next, ok := w.view.Buttons.Trigger(a)
	if !ok {
		w.mu.Unlock()
		slog.Debug(config.MsgActionIgnored,
			config.LogKeyComponent, config.CompWidget,
			config.LogKeyAction, a.String())
		return next, ErrAlreadySent
	}

	// Replace the view rather than mutating the one handed out by View().
	view := *w.view
	view.Buttons = next
	w.view = &view
	header, message := a.ToastKeys()
	n := Notification{
		Title:    view.Labels.Get(header),
		Message:  view.Labels.Get(message),
		Severity: SeveritySuccess,
	}
	w.mu.Unlock()

	slog.Info(config.MsgActionSent,
		config.LogKeyComponent, config.CompWidget,
		config.LogKeyRecord, view.RecordID,
		config.LogKeyAction, a.String())

	w.notify(n)
	w.changed()
	return next, nil
}

// View returns the current view and whether data has arrived.
func (w *Widget) View() (View, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.view == nil {
		return View{}, false
	}
	return *w.view, true
}

func (w *Widget) clock() Clock {
	if w.Clock == nil {
		return RealClock{}
	}
	return w.Clock
}

func (w *Widget) notify(n Notification) {
	if w.Notifier == nil {
		return
	}
	w.Notifier.Notify(n)
}

func (w *Widget) changed() {
	if w.OnChange != nil {
		w.OnChange()
	}
}
