package ui

import (
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/contact-birthday/internal/config"
	"github.com/tartampluch/contact-birthday/internal/engine"
	"github.com/zalando/go-keyring"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	modeSelect     *widget.Select
	urlEntry       *widget.Entry
	userEntry      *widget.Entry
	passEntry      *widget.Entry
	pathEntry      *widget.Entry
	recordEntry    *widget.Entry
	entryWithin    *NumericalEntry
	emoticonEntry  *widget.Entry
	bgEntry        *widget.Entry
	borderEntry    *widget.Entry
	labelEntries   map[engine.LabelKey]*widget.Entry
	entryInterval  *NumericalEntry
	entryPort      *NumericalEntry
	modeByLabel    map[string]string
	labelByMode    map[string]string
	sourceWebForm  *widget.Form
	sourceLocalRow *fyne.Container
}

// ShowSettingsWindow displays the configuration dialog.
func (app *ContactBirthdayApp) ShowSettingsWindow() {
	if app.Window != nil {
		slog.Debug("Settings window already open, requesting focus", config.LogKeyComponent, config.CompUISet)
		app.Window.RequestFocus()
		return
	}

	slog.Info("Opening settings window", config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.Window = w

	sw := app.newSettingsWidgets()

	var refreshLayout func()
	onLayoutChange := func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	}

	sourceCard := app.buildSourceCard(w, sw, onLayoutChange)
	widgetCard := app.buildWidgetCard(sw)
	labelsCard := app.buildLabelsCard(sw)

	// --- General Section (Interval & Port) ---
	widInterval := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblMinutes)), sw.entryInterval)
	itemInterval := widget.NewFormItem(app.GetMsg(config.TKeyLblRefresh), widInterval)
	itemInterval.HintText = app.GetMsg(config.TKeyHelpInterval)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemInterval, itemPort))

	// --- Actions ---
	saveAction := func() {
		// Port and window length block saving; every other field falls back silently.
		for _, e := range []*NumericalEntry{sw.entryPort, sw.entryWithin} {
			if err := e.Validate(); err != nil {
				dialog.ShowError(err, w)
				return
			}
		}
		app.saveSettings(sw)
		w.Close()
		go app.performLoad(true)
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		sourceCard,
		widgetCard,
		labelsCard,
		generalCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	refreshLayout = func() {
		paddedContent.Refresh()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, paddedContent.MinSize().Height))
	}

	w.SetContent(container.NewVScroll(paddedContent))
	w.SetOnClosed(func() { app.Window = nil })

	refreshLayout()
	w.Show()
}

// newSettingsWidgets creates every input, pre-filled from the preferences.
func (app *ContactBirthdayApp) newSettingsWidgets() *settingsWidgets {
	settings := app.loadSettings()
	sw := &settingsWidgets{
		labelEntries: make(map[engine.LabelKey]*widget.Entry, len(engine.LabelKeys)),
		modeByLabel: map[string]string{
			app.GetMsg(config.TKeyModeCardDAV):  config.SourceModeCardDAV,
			app.GetMsg(config.TKeyModeVCardURL): config.SourceModeWeb,
			app.GetMsg(config.TKeyModeLocal):    config.SourceModeLocal,
		},
	}
	sw.labelByMode = make(map[string]string, len(sw.modeByLabel))
	for label, mode := range sw.modeByLabel {
		sw.labelByMode[mode] = label
	}

	// --- Source ---
	sw.modeSelect = widget.NewSelect([]string{
		sw.labelByMode[config.SourceModeCardDAV],
		sw.labelByMode[config.SourceModeWeb],
		sw.labelByMode[config.SourceModeLocal],
	}, nil)

	sw.urlEntry = widget.NewEntry()
	sw.urlEntry.SetText(app.Preferences.String(config.PrefSourceURL))
	sw.urlEntry.PlaceHolder = config.PlaceholderURL

	sw.userEntry = widget.NewEntry()
	sw.userEntry.SetText(app.Preferences.String(config.PrefUsername))

	sw.passEntry = widget.NewPasswordEntry()
	if user := sw.userEntry.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			sw.passEntry.SetText(pwd)
		}
	}

	sw.pathEntry = widget.NewEntry()
	sw.pathEntry.SetText(app.Preferences.String(config.PrefLocalPath))

	// --- Widget ---
	sw.recordEntry = widget.NewEntry()
	sw.recordEntry.SetText(settings.RecordID)
	sw.recordEntry.PlaceHolder = config.PlaceholderRecord

	sw.entryWithin = NewNumericalEntry()
	sw.entryWithin.SetText(strconv.Itoa(settings.WithinDays))
	withinErr := app.GetMsgWith(config.TKeyErrWithinRange, nil, config.ErrWithinRange)
	sw.entryWithin.Validator = RangeValidator(config.MinWithinDays, config.MaxWithinDays, withinErr, withinErr, withinErr)

	sw.emoticonEntry = widget.NewEntry()
	sw.emoticonEntry.SetText(settings.EmoticonCode)
	sw.emoticonEntry.PlaceHolder = config.DefaultEmoticonCode

	sw.bgEntry = widget.NewEntry()
	sw.bgEntry.SetText(settings.BackgroundColorHex)
	sw.bgEntry.PlaceHolder = config.DefaultBackgroundColor

	sw.borderEntry = widget.NewEntry()
	sw.borderEntry.SetText(settings.BorderColorHex)
	sw.borderEntry.PlaceHolder = config.DefaultBorderColor

	for _, key := range engine.LabelKeys {
		e := widget.NewEntry()
		e.SetText(settings.Labels.Get(key))
		sw.labelEntries[key] = e
	}

	// --- General ---
	// Interval: empty or 0 disables periodic refresh, so no validator.
	sw.entryInterval = NewNumericalEntry()
	sw.entryInterval.SetText(strconv.Itoa(app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)))

	sw.entryPort = NewNumericalEntry()
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = RangeValidator(config.MinPort, config.MaxPort,
		app.GetMsg(config.TKeyErrPortReq),
		app.GetMsg(config.TKeyErrPortNum),
		app.GetMsg(config.TKeyErrPortRange))

	return sw
}

// buildSourceCard constructs the source selection UI.
func (app *ContactBirthdayApp) buildSourceCard(w fyne.Window, sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	browseBtn := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				sw.pathEntry.SetText(r.URI().Path())
				_ = r.Close()
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), sw.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpURL)

	sw.sourceWebForm = widget.NewForm(
		itemURL,
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), sw.userEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPass), sw.passEntry),
	)
	sw.sourceLocalRow = container.NewBorder(nil, nil, nil, browseBtn, sw.pathEntry)

	sw.modeSelect.OnChanged = func(string) {
		sw.applySourceVisibility()
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}

	mode := app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeCardDAV)
	if _, ok := sw.labelByMode[mode]; !ok {
		mode = config.SourceModeCardDAV
	}
	sw.modeSelect.SetSelected(sw.labelByMode[mode])
	sw.applySourceVisibility()

	return widget.NewCard(app.GetMsg(config.TKeyLblSource), "",
		container.NewVBox(sw.modeSelect, sw.sourceWebForm, sw.sourceLocalRow))
}

// applySourceVisibility shows the fields relevant to the selected mode.
func (sw *settingsWidgets) applySourceVisibility() {
	if sw.sourceWebForm == nil || sw.sourceLocalRow == nil {
		return
	}
	if sw.modeByLabel[sw.modeSelect.Selected] == config.SourceModeLocal {
		sw.sourceWebForm.Hide()
		sw.sourceLocalRow.Show()
		return
	}
	sw.sourceWebForm.Show()
	sw.sourceLocalRow.Hide()
}

// buildWidgetCard groups the record, window and appearance settings.
func (app *ContactBirthdayApp) buildWidgetCard(sw *settingsWidgets) *widget.Card {
	itemRecord := widget.NewFormItem(app.GetMsg(config.TKeyLblRecord), sw.recordEntry)
	itemRecord.HintText = app.GetMsg(config.TKeyHelpRecord)

	widWithin := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblDays)), sw.entryWithin)
	itemWithin := widget.NewFormItem(app.GetMsg(config.TKeyLblWithin), widWithin)
	itemWithin.HintText = app.GetMsg(config.TKeyHelpWithin)

	itemEmoticon := widget.NewFormItem(app.GetMsg(config.TKeyLblEmoticon), sw.emoticonEntry)
	itemEmoticon.HintText = app.GetMsg(config.TKeyHelpEmoticon)

	form := widget.NewForm(
		itemRecord,
		itemWithin,
		itemEmoticon,
		widget.NewFormItem(app.GetMsg(config.TKeyLblBackground), sw.bgEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblBorder), sw.borderEntry),
	)
	return widget.NewCard(app.GetMsg(config.TKeyLblWidget), "", form)
}

// buildLabelsCard lists one entry per label template.
func (app *ContactBirthdayApp) buildLabelsCard(sw *settingsWidgets) *widget.Card {
	form := widget.NewForm()
	for _, key := range engine.LabelKeys {
		form.Append(string(key), sw.labelEntries[key])
	}
	return widget.NewCard(app.GetMsg(config.TKeyLblLabels), app.GetMsg(config.TKeyHelpLabels), form)
}

// saveSettings persists the form into the preferences and the keyring.
// Values are stored as typed; sanitization happens when the widget evaluates them.
func (app *ContactBirthdayApp) saveSettings(sw *settingsWidgets) {
	slog.Info("Saving preferences", config.LogKeyComponent, config.CompUISet)

	mode, ok := sw.modeByLabel[sw.modeSelect.Selected]
	if !ok {
		mode = config.SourceModeCardDAV
	}
	app.Preferences.SetString(config.PrefSourceMode, mode)
	app.Preferences.SetString(config.PrefSourceURL, sw.urlEntry.Text)
	app.Preferences.SetString(config.PrefUsername, sw.userEntry.Text)
	app.Preferences.SetString(config.PrefLocalPath, sw.pathEntry.Text)

	// Save password to Keyring only if provided
	if sw.userEntry.Text != "" && sw.passEntry.Text != "" {
		if err := keyring.Set(config.KeyringService, sw.userEntry.Text, sw.passEntry.Text); err != nil {
			slog.Error("Failed to save credentials to keyring", config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		}
	}

	app.Preferences.SetString(config.PrefRecordID, sw.recordEntry.Text)
	if v, ok := sw.entryWithin.IntValue(); ok {
		app.Preferences.SetInt(config.PrefWithinDays, v)
	}
	app.Preferences.SetString(config.PrefEmoticon, sw.emoticonEntry.Text)
	app.Preferences.SetString(config.PrefBackground, sw.bgEntry.Text)
	app.Preferences.SetString(config.PrefBorder, sw.borderEntry.Text)

	for key, e := range sw.labelEntries {
		pref := config.PrefLabelPrefix + string(key)
		if e.Text == "" {
			// An empty template restores the default.
			app.Preferences.RemoveValue(pref)
			continue
		}
		app.Preferences.SetString(pref, e.Text)
	}

	// Empty or 0 disables periodic refresh.
	interval, ok := sw.entryInterval.IntValue()
	if !ok {
		interval = config.DisabledInterval
	}
	if interval == config.DisabledInterval {
		slog.Info("Auto-refresh disabled via settings", config.LogKeyComponent, config.CompUISet)
	}
	app.Preferences.SetInt(config.PrefInterval, interval)

	if sw.entryPort.Text != "" {
		app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)
	}
}
