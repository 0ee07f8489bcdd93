package ui

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/robfig/cron/v3"
	"github.com/tartampluch/contact-birthday/internal/config"
	"github.com/tartampluch/contact-birthday/internal/engine"
	"github.com/tartampluch/contact-birthday/internal/server"
	"github.com/zalando/go-keyring"
)

//go:embed Icon.png
var appIconData []byte

// ContactBirthdayApp encapsulates the UI state, preferences, and background logic.
type ContactBirthdayApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Widget  *engine.Widget
	Server  *server.BirthdayServer
	Fetcher engine.VCardFetcher
	Clock   engine.Clock // Injected clock for testability (e.g. mocking time travel)

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayShowItem     *fyne.MenuItem
	TrayRefreshItem  *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string
	configChan         chan string

	// Scheduler state, owned by the background worker.
	scheduler    *cron.Cron
	refreshEntry cron.EntryID
	refreshEvery int

	// loadMu keeps a Configure/Load pair from interleaving with another one.
	loadMu sync.Mutex

	cardWindow fyne.Window
	card       *birthdayCard
}

// clockFunc adapts a function to engine.Clock.
type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }

// NewContactBirthdayApp constructs the application and wires dependencies.
// The widget is shared with srv; its notifier and change hook are bound to the UI here.
func NewContactBirthdayApp(a fyne.App, ctx context.Context, srv *server.BirthdayServer, widget *engine.Widget, fetcher engine.VCardFetcher) *ContactBirthdayApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	app := &ContactBirthdayApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Widget:             widget,
		Server:             srv,
		Fetcher:            fetcher,
		Clock:              engine.RealClock{}, // Default to real clock in production
		SupportedLanguages: []string{config.DefaultLanguage},
		configChan:         make(chan string, config.ChannelBufferSize),
	}

	widget.Clock = clockFunc(func() time.Time { return app.Clock.Now() })
	widget.Notifier = &FyneNotifier{App: a}
	widget.ButtonTitle = app.buttonTitle
	widget.OnChange = app.onWidgetChange

	return app
}

// Run launches the application services and the main UI loop.
func (app *ContactBirthdayApp) Run() {
	app.SetupI18n()
	app.watchPreferences()

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	go app.backgroundWorker()
	app.App.Run()
}

// watchPreferences monitors changes to settings to reschedule the refresh.
func (app *ContactBirthdayApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefInterval:
		default:
		}
	})
}

// setupTrayMenu constructs the system tray menu.
func (app *ContactBirthdayApp) setupTrayMenu() {
	// The status line opens the card, like Show.
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, func() {
		app.ShowCardWindow()
	})

	app.TrayShowItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuShow), func() {
		app.ShowCardWindow()
	})

	app.TrayRefreshItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuRefresh), func() {
		go app.performLoad(true)
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayShowItem,
		app.TrayRefreshItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
	app.updateTrayStatus()
}

// backgroundWorker loads once, then keeps the refresh schedule in line with the preferences.
func (app *ContactBirthdayApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performLoad(false)

	app.scheduler = cron.New()
	// The daily run keeps "now" fresh even when periodic refresh is disabled.
	if _, err := app.scheduler.AddFunc(config.CronDaily, func() { app.performLoad(false) }); err != nil {
		log.Error(config.ErrCronSchedule, config.LogKeyError, err)
	}
	app.scheduleRefresh()
	app.scheduler.Start()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, app.refreshEvery)

	for {
		select {
		case <-app.Ctx.Done():
			stopped := app.scheduler.Stop()
			<-stopped.Done()
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			app.scheduleRefresh()
		}
	}
}

// scheduleRefresh replaces the periodic refresh job when the interval preference changed.
// An interval of zero disables it.
func (app *ContactBirthdayApp) scheduleRefresh() {
	minutes := app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)
	if minutes < 0 {
		minutes = config.DefaultRefreshMin
	}
	if app.refreshEntry != 0 && minutes == app.refreshEvery {
		return
	}

	log := slog.With(config.LogKeyComponent, config.CompWorker)
	if app.refreshEntry != 0 {
		log.Info(config.MsgUpdateSchedule, config.LogKeyOld, app.refreshEvery, config.LogKeyNew, minutes)
		app.scheduler.Remove(app.refreshEntry)
		app.refreshEntry = 0
	}
	app.refreshEvery = minutes

	if minutes == config.DisabledInterval {
		return
	}

	id, err := app.scheduler.AddFunc(fmt.Sprintf(config.CronEveryMinutes, minutes), func() { app.performLoad(false) })
	if err != nil {
		log.Error(config.ErrCronSchedule, config.LogKeyError, err)
		return
	}
	app.refreshEntry = id
}

// performLoad runs the pipeline: preferences -> source -> widget -> feed.
// Failures are reported by the widget through the notifier.
func (app *ContactBirthdayApp) performLoad(manual bool) {
	app.loadMu.Lock()
	defer app.loadMu.Unlock()

	slog.Info(config.MsgLoadReq,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyManual, manual)

	settings := app.loadSettings()
	src, err := engine.NewRecordSource(app.loadSourceConfig(), app.Fetcher)
	if err != nil {
		slog.Error(config.MsgLoadFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		app.Widget.Configure(nil, settings)
		app.Widget.HandleError(err)
		app.publishFeed()
		return
	}

	app.Widget.Configure(src, settings)
	_ = app.Widget.Load(app.Ctx) // Reported by the widget
	app.publishFeed()
}

// publishFeed renders the current view into the served calendar.
func (app *ContactBirthdayApp) publishFeed() {
	if app.Server == nil {
		return
	}
	view, ok := app.Widget.View()
	if !ok {
		app.Server.Update([]byte(config.StubVCalendar))
		return
	}
	data, err := engine.BuildFeed(view, app.Clock.Now())
	if err != nil {
		slog.Error(config.ErrICalEncode, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		return
	}
	app.Server.Update(data)
}

// onWidgetChange mirrors the widget state into the tray and the card window.
func (app *ContactBirthdayApp) onWidgetChange() {
	fyne.Do(func() {
		app.updateTrayStatus()
		app.refreshCard()
	})
}

// updateTrayStatus shows the upcoming birthday, if any, in the top menu item.
func (app *ContactBirthdayApp) updateTrayStatus() {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	label := config.FallbackTrayLabel
	if view, ok := app.Widget.View(); ok {
		if view.ShowComponent {
			label = app.GetMsgWith(config.TKeyTrayUpcoming,
				map[string]any{"Name": view.FirstName, "Birthday": view.Birthday},
				fmt.Sprintf(config.FallbackTrayUpcoming, view.FirstName, view.Birthday))
		} else {
			label = app.GetMsgWith(config.TKeyTrayNone, nil, config.FallbackTrayNone)
		}
	}

	app.TrayStatusItem.Label = label
	app.Menu.Refresh()
}

// loadSettings assembles the widget settings from the preferences.
func (app *ContactBirthdayApp) loadSettings() engine.Settings {
	defaults := app.defaultLabels()
	labels := make(engine.LabelSet, len(engine.LabelKeys))
	for _, key := range engine.LabelKeys {
		labels[key] = app.Preferences.StringWithFallback(config.PrefLabelPrefix+string(key), defaults.Get(key))
	}

	return engine.Settings{
		RecordID:           app.Preferences.String(config.PrefRecordID),
		WithinDays:         app.Preferences.IntWithFallback(config.PrefWithinDays, config.DefaultWithinDays),
		EmoticonCode:       app.Preferences.StringWithFallback(config.PrefEmoticon, config.DefaultEmoticonCode),
		BackgroundColorHex: app.Preferences.StringWithFallback(config.PrefBackground, config.DefaultBackgroundColor),
		BorderColorHex:     app.Preferences.StringWithFallback(config.PrefBorder, config.DefaultBorderColor),
		Labels:             labels,
	}
}

// loadSourceConfig assembles the source configuration from preferences and Keyring.
func (app *ContactBirthdayApp) loadSourceConfig() engine.SourceConfig {
	cfg := engine.SourceConfig{
		Mode:      app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeCardDAV),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		URL:       app.Preferences.String(config.PrefSourceURL),
		Creds:     engine.Credentials{User: app.Preferences.String(config.PrefUsername)},
	}

	if cfg.Creds.User != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.Creds.User); err == nil {
			cfg.Creds.Pass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.Creds.User,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}

	return cfg
}

// buttonTitle localizes the hover title of an action button.
func (app *ContactBirthdayApp) buttonTitle(a engine.Action, firstName string) string {
	key := config.TKeyTitleEmail
	if a == engine.ActionCard {
		key = config.TKeyTitleCard
	}
	return app.GetMsgWith(key, map[string]any{"Name": firstName}, engine.DefaultButtonTitle(a, firstName))
}
