// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the two views of the application: the waitlist landing
// page at "/" and the scraper application at "/scraper". The scraper view is
// rendered on the server from a per-visitor app.Session; downloads are sent
// as HTTP attachments.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pdiddy/docsend-scraper/internal/app"
	"github.com/pdiddy/docsend-scraper/internal/scripts"
	"github.com/pdiddy/docsend-scraper/pkg/types"
)

const (
	defaultAddr        = ":3000"
	defaultSessionTTL  = 30 * time.Minute
	defaultMaxSessions = 1024
)

// Server is the web front end.
type Server struct {
	router       *mux.Router
	sessions     *sessionCache
	scripts      *scripts.Registry
	addr         string
	widgetScript string
	widgetKey    string
}

// NewServer builds the router. Every visitor session talks to backend and,
// when recorder is non-nil, records its downloads there.
func NewServer(cfg types.ServerConfig, backend app.Backend, recorder app.Recorder) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	maxSessions := cfg.MaxSessions
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	widgetScript := cfg.WidgetScript
	if widgetScript == "" {
		widgetScript = defaultWidgetScript
	}
	widgetKey := cfg.WidgetKey
	if widgetKey == "" {
		widgetKey = defaultWidgetKey
	}

	var opts []app.Option
	if recorder != nil {
		opts = append(opts, app.WithRecorder(recorder))
	}

	s := &Server{
		addr:         addr,
		scripts:      scripts.NewRegistry(),
		widgetScript: widgetScript,
		widgetKey:    widgetKey,
		sessions: newSessionCache(maxSessions, ttl, func() *app.Session {
			return app.NewSession(backend, opts...)
		}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover, RequestLogger)

	r.HandleFunc("/", s.handleLanding).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	sr := r.PathPrefix("/scraper").Subrouter()
	sr.HandleFunc("", s.handleScraper).Methods(http.MethodGet)
	sr.HandleFunc("/scrape", s.handleScrape).Methods(http.MethodPost)
	sr.HandleFunc("/convert", s.handleConvert).Methods(http.MethodPost)
	sr.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	sr.HandleFunc("/select/{id}", s.handleSelect).Methods(http.MethodPost)
	sr.HandleFunc("/clear", s.handleClear).Methods(http.MethodPost)
	sr.HandleFunc("/presentations/{id}/export.{format:json|txt|yaml}", s.handleExport).Methods(http.MethodGet)

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully. Shutdown
// waits at most as long as a PDF conversion may take.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	slog.Info("shutting down")
	err := srv.Shutdown(shutdownCtx)
	s.sessions.purge()
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
