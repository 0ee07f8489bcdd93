package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/contact-birthday/internal/config"
	"github.com/tartampluch/contact-birthday/internal/engine"
	"github.com/tartampluch/contact-birthday/internal/server"
	"github.com/tartampluch/contact-birthday/internal/ui"
)

// main is the application entry point.
// It delegates to runMain so that deferred calls (closing the log file,
// cancelling the root context) run before the process terminates.
// os.Exit() skips defers, so runMain returns the exit code instead.
func main() {
	os.Exit(runMain())
}

// onceOptions configure the headless evaluation.
type onceOptions struct {
	record string
	vcard  string
	within int
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
// Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	// Headless mode: evaluate the widget once and print the view.
	once := flag.Bool(config.FlagOnce, false, config.FlagDescOnce)
	var opts onceOptions
	flag.StringVar(&opts.record, config.FlagRecord, "", config.FlagDescRecord)
	flag.StringVar(&opts.vcard, config.FlagVCard, "", config.FlagDescVCard)
	flag.IntVar(&opts.within, config.FlagWithin, config.DefaultWithinDays, config.FlagDescWithin)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// Structured logging (slog) is set up early to capture startup issues.
	// In -once mode stdout carries the JSON view, so logs go to stderr.
	console := io.Writer(os.Stdout)
	if *once {
		console = os.Stderr
	}
	logCloser := setupLogging(console, *debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	// Root context, cancelled on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	// The tray application and the headless run share the same exit path.
	var err error
	if *once {
		err = runOnce(ctx, opts, os.Stdout)
	} else {
		err = run(ctx)
	}
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run initializes the Fyne application, wires dependencies, and starts the UI loop.
func run(ctx context.Context) error {
	// Initialize Fyne App.
	a := app.NewWithID(config.AppID)

	// Record the version for potential migration logic in future updates.
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	// Dependency Injection.
	// The widget controller is shared by the local server and the UI.
	port := a.Preferences().StringWithFallback(config.PrefServerPort, config.DefaultPort)
	widget := engine.NewWidget(nil, nil, engine.DefaultSettings())
	srv := server.NewBirthdayServer(port, widget)
	fetcher := engine.NewHTTPFetcher()

	// Initialize the UI controller. It configures and loads the widget.
	gui := ui.NewContactBirthdayApp(a, ctx, srv, widget, fetcher)

	// Lifecycle Bridge:
	// Quit the UI gracefully when the root context is cancelled.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	// Start the Application (blocks until the application quits).
	gui.Run()

	return nil
}

// runOnce evaluates the widget a single time against a vCard file or URL and
// writes the view to out. Notifications go to the log.
func runOnce(ctx context.Context, opts onceOptions, out io.Writer) error {
	// An http(s) location is fetched as a vCard URL, anything else is a local path.
	cfg := engine.SourceConfig{Mode: config.SourceModeLocal, LocalPath: opts.vcard}
	if strings.HasPrefix(opts.vcard, config.SchemeHTTP+"://") || strings.HasPrefix(opts.vcard, config.SchemeHTTPS+"://") {
		cfg = engine.SourceConfig{Mode: config.SourceModeWeb, URL: opts.vcard}
	}

	src, err := engine.NewRecordSource(cfg, engine.NewHTTPFetcher())
	if err != nil {
		return err
	}

	settings := engine.DefaultSettings()
	settings.RecordID = opts.record
	settings.WithinDays = opts.within

	// No desktop here: notifications are written to the log.
	w := engine.NewWidget(src, engine.LogNotifier{}, settings)
	if err := w.Load(ctx); err != nil {
		return err
	}

	// The output mirrors the /view endpoint payload.
	view, _ := w.View()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		engine.View
		WrapperStyles string `json:"wrapperStyles"`
	}{view, view.Theme.CSS()})
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger on console plus a log file.
func setupLogging(console io.Writer, debugMode bool) io.Closer {
	var logFile *os.File

	// 1. Always write to the console.
	writers := []io.Writer{console}

	// 2. Attempt to set up a file writer in the user's cache directory.
	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
