package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/tartampluch/contact-birthday/internal/config"
	"github.com/tartampluch/contact-birthday/internal/engine"
)

// WidgetController is the part of engine.Widget the server drives.
type WidgetController interface {
	View() (engine.View, bool)
	Trigger(a engine.Action) (engine.ButtonStates, error)
}

// feedItem stores the rendered calendar and its metadata for HTTP caching.
type feedItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// BirthdayServer exposes the widget on the loopback interface: the calendar
// feed, the render model as JSON and the two actions.
type BirthdayServer struct {
	// feed is read on every request and written once per load, so reads stay lock-free.
	feed   atomic.Pointer[feedItem]
	Port   string
	Widget WidgetController
}

// viewResponse adds the wrapper inline style to the render model.
type viewResponse struct {
	engine.View
	WrapperStyles string `json:"wrapperStyles"`
}

// NewBirthdayServer creates a new instance of the server.
func NewBirthdayServer(port string, widget WidgetController) *BirthdayServer {
	return &BirthdayServer{
		Port:   port,
		Widget: widget,
	}
}

// Handler returns the router of the server.
func (s *BirthdayServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(config.RouteRoot, s.handleFeed).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(config.RouteFeed, s.handleFeed).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(config.RouteView, s.handleView).Methods(http.MethodGet)
	r.HandleFunc(config.RouteAction, s.handleAction).Methods(http.MethodPost)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	})
	return r
}

// Start serves until ctx is cancelled.
func (s *BirthdayServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served calendar.
func (s *BirthdayServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.feed.Store(&feedItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgFeedUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// handleFeed serves the ICS content with HTTP caching support.
func (s *BirthdayServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	item := s.feed.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// handleView returns the render model. Before data arrival there is nothing to render.
func (s *BirthdayServer) handleView(w http.ResponseWriter, _ *http.Request) {
	view, ok := s.Widget.View()
	if !ok {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, viewResponse{View: view, WrapperStyles: view.Theme.CSS()})
}

// handleAction triggers the action named in the path.
func (s *BirthdayServer) handleAction(w http.ResponseWriter, r *http.Request) {
	action, err := engine.ParseAction(mux.Vars(r)[config.RouteVarAction])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	buttons, err := s.Widget.Trigger(action)
	switch {
	case errors.Is(err, engine.ErrNotLoaded):
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, engine.ErrAlreadySent), errors.Is(err, engine.ErrHidden):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
	default:
		writeJSON(w, buttons)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
