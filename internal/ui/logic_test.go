package ui

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/contact-birthday/internal/config"
	"github.com/tartampluch/contact-birthday/internal/engine"
	"github.com/zalando/go-keyring"
)

// -----------------------------------------------------------------------------
// Configuration & Preferences Tests
// -----------------------------------------------------------------------------

func TestConfiguration_SourceMapping(t *testing.T) {
	app, _, _ := setupTestApp(t)

	app.Preferences.SetString(config.PrefSourceMode, config.SourceModeCardDAV)
	app.Preferences.SetString(config.PrefSourceURL, "https://dav.example.com/addressbooks/me/")
	app.Preferences.SetString(config.PrefUsername, "admin")
	require.NoError(t, keyring.Set(config.KeyringService, "admin", "s3cret"))

	cfg := app.loadSourceConfig()

	assert.Equal(t, engine.SourceConfig{
		Mode:  config.SourceModeCardDAV,
		URL:   "https://dav.example.com/addressbooks/me/",
		Creds: engine.Credentials{User: "admin", Pass: "s3cret"},
	}, cfg)
}

func TestConfiguration_DefaultSourceMode(t *testing.T) {
	app, _, _ := setupTestApp(t)
	assert.Equal(t, config.SourceModeCardDAV, app.loadSourceConfig().Mode)
}

func TestConfiguration_Settings(t *testing.T) {
	app, _, _ := setupTestApp(t)

	// Case 1: Nothing stored, every default applies.
	settings := app.loadSettings()
	assert.Equal(t, config.DefaultWithinDays, settings.WithinDays)
	assert.Equal(t, config.DefaultEmoticonCode, settings.EmoticonCode)
	assert.Equal(t, config.DefaultBackgroundColor, settings.BackgroundColorHex)
	assert.Equal(t, config.DefaultBorderColor, settings.BorderColorHex)
	assert.Equal(t, engine.DefaultLabels(), settings.Labels)

	// Case 2: Stored values are passed through unsanitized.
	app.Preferences.SetString(config.PrefRecordID, "sam")
	app.Preferences.SetInt(config.PrefWithinDays, 30)
	app.Preferences.SetString(config.PrefEmoticon, "1F-89")
	app.Preferences.SetString(config.PrefLabelPrefix+string(engine.LabelCardButton), "Post a card")

	settings = app.loadSettings()
	assert.Equal(t, "sam", settings.RecordID)
	assert.Equal(t, 30, settings.WithinDays)
	assert.Equal(t, "1F-89", settings.EmoticonCode)
	assert.Equal(t, "Post a card", settings.Labels.Get(engine.LabelCardButton))
	assert.Equal(t, config.DefaultEmailButtonLabel, settings.Labels.Get(engine.LabelEmailButton))
}

func TestConfiguration_WorkerSignal(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.watchPreferences()

	signalReceived := make(chan bool)
	go func() {
		select {
		case key := <-app.configChan:
			signalReceived <- key == config.PrefInterval
		case <-time.After(500 * time.Millisecond):
			signalReceived <- false
		}
	}()

	app.Preferences.SetInt(config.PrefInterval, 120)

	assert.True(t, <-signalReceived, "Changing interval should notify background worker")
}

// -----------------------------------------------------------------------------
// Scheduler Tests
// -----------------------------------------------------------------------------

func TestScheduleRefresh(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.scheduler = cron.New()

	// Default interval
	app.scheduleRefresh()
	require.Len(t, app.scheduler.Entries(), 1)
	first := app.refreshEntry
	assert.Equal(t, config.DefaultRefreshMin, app.refreshEvery)

	// Same interval keeps the entry
	app.scheduleRefresh()
	assert.Equal(t, first, app.refreshEntry)

	// New interval replaces it
	app.Preferences.SetInt(config.PrefInterval, 15)
	app.scheduleRefresh()
	require.Len(t, app.scheduler.Entries(), 1)
	assert.NotEqual(t, first, app.refreshEntry)
	assert.Equal(t, 15, app.refreshEvery)

	// Zero disables periodic refresh
	app.Preferences.SetInt(config.PrefInterval, config.DisabledInterval)
	app.scheduleRefresh()
	assert.Empty(t, app.scheduler.Entries())
	assert.Equal(t, cron.EntryID(0), app.refreshEntry)
}

// -----------------------------------------------------------------------------
// Settings Window Tests
// -----------------------------------------------------------------------------

func TestSettings_SaveRoundTrip(t *testing.T) {
	app, _, _ := setupTestApp(t)
	sw := app.newSettingsWidgets()

	sw.modeSelect.SetSelected(sw.labelByMode[config.SourceModeLocal])
	sw.pathEntry.SetText("/tmp/contacts.vcf")
	sw.userEntry.SetText("admin")
	sw.passEntry.SetText("s3cret")
	sw.recordEntry.SetText("Sam Carter")
	sw.entryWithin.SetText("14")
	sw.emoticonEntry.SetText("1F382")
	sw.bgEntry.SetText("#ffffff")
	sw.borderEntry.SetText("#000000")
	sw.labelEntries[engine.LabelEmailButton].SetText("Mail {FirstName}")
	sw.labelEntries[engine.LabelCardButton].SetText("")
	sw.entryInterval.SetText("")
	sw.entryPort.SetText("18090")

	app.saveSettings(sw)

	assert.Equal(t, config.SourceModeLocal, app.Preferences.String(config.PrefSourceMode))
	assert.Equal(t, "/tmp/contacts.vcf", app.Preferences.String(config.PrefLocalPath))
	assert.Equal(t, "18090", app.Preferences.String(config.PrefServerPort))
	assert.Equal(t, config.DisabledInterval, app.Preferences.Int(config.PrefInterval))

	pass, err := keyring.Get(config.KeyringService, "admin")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pass)

	settings := app.loadSettings()
	assert.Equal(t, engine.Settings{
		RecordID:           "Sam Carter",
		WithinDays:         14,
		EmoticonCode:       "1F382",
		BackgroundColorHex: "#ffffff",
		BorderColorHex:     "#000000",
		Labels: func() engine.LabelSet {
			l := engine.DefaultLabels()
			l[engine.LabelEmailButton] = "Mail {FirstName}"
			return l
		}(),
	}, settings, "An emptied template falls back to the default")
}

func TestSettings_Validation(t *testing.T) {
	app, _, _ := setupTestApp(t)
	sw := app.newSettingsWidgets()

	assert.NoError(t, sw.entryWithin.Validate())
	assert.NoError(t, sw.entryPort.Validate())

	sw.entryWithin.SetText("0")
	assert.EqualError(t, sw.entryWithin.Validate(), "Days must be between 1 and 366")

	sw.entryPort.SetText("")
	assert.EqualError(t, sw.entryPort.Validate(), "Port is required")
	sw.entryPort.SetText("70000")
	assert.EqualError(t, sw.entryPort.Validate(), "Port must be between 1 and 65535")
}

func TestSettings_WindowSingleton(t *testing.T) {
	app, _, _ := setupTestApp(t)

	app.ShowSettingsWindow()
	require.NotNil(t, app.Window)
	first := app.Window

	app.ShowSettingsWindow()
	assert.Same(t, first, app.Window)

	first.Close()
	assert.Nil(t, app.Window)
}
