// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package app implements the scraper application: the per-visitor state
// behind the scraper view and the operations that change it.
//
// Each operation moves through idle, loading, and then success or error.
// Failures become a user-facing message on the session; they never escape
// the operation that caused them and never touch already-loaded state.
package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/docsend-scraper/internal/history"
	"github.com/pdiddy/docsend-scraper/internal/presentations"
	"github.com/pdiddy/docsend-scraper/internal/scraperapi"
	"github.com/pdiddy/docsend-scraper/pkg/types"
)

var (
	// ErrMissingURL is returned when an operation needs a DocSend URL and
	// none was given.
	ErrMissingURL = errors.New("docsend URL is required")
	// ErrBusy is returned when a scrape or conversion is already in flight.
	ErrBusy = errors.New("another request is in progress")
	// ErrNotFound is returned when a presentation id is not in the list.
	ErrNotFound = errors.New("presentation not found")
	// ErrClosed is returned by operations started after Close.
	ErrClosed = errors.New("session closed")
)

// Backend is the scraper service as seen by a session.
type Backend interface {
	presentations.Lister
	Scrape(ctx context.Context, req types.ScrapeRequest) error
	ConvertToPDF(ctx context.Context, docURL string) ([]byte, error)
}

// Recorder stores a record of each file handed to the user.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Operation names the request a session is waiting on.
type Operation string

const (
	OpNone    Operation = ""
	OpScrape  Operation = "scrape"
	OpConvert Operation = "convert"
)

// Form holds the scrape form inputs.
type Form struct {
	URL      string
	Password string
}

// Session is the state of one visitor's scraper view. It is safe for
// concurrent use; the lock is never held across a network call.
type Session struct {
	backend  Backend
	store    *presentations.Store
	recorder Recorder
	now      func() time.Time

	mu          sync.Mutex
	form        Form
	searchTerm  string
	selected    *types.Presentation
	op          Operation
	listLoading bool
	errMsg      string
	statusMsg   string
	closed      bool
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder records every download the session produces.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithClock overrides the time source used for download filenames.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession returns an idle session with an empty, stale presentation list.
func NewSession(backend Backend, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		store:   presentations.NewStore(backend),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount performs the initial list fetch.
func (s *Session) Mount(ctx context.Context) error {
	return s.FetchPresentations(ctx)
}

// Close unmounts the session. Requests still in flight run to completion,
// but their results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// update applies fn to the session state unless the session was closed.
func (s *Session) update(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	fn()
	return true
}

// FetchPresentations reloads the full presentation list. On failure the
// current list is kept and an error message is set.
func (s *Session) FetchPresentations(ctx context.Context) error {
	if !s.update(func() { s.listLoading = true }) {
		return nil
	}

	s.store.Invalidate()
	items, err := s.store.Fetch(ctx)

	s.update(func() {
		s.listLoading = false
		if err != nil {
			s.errMsg = describe(err, MsgFetchFailed)
			return
		}
		s.store.Replace(items)
	})
	if err != nil {
		slog.WarnContext(ctx, "fetching presentations failed", "kind", scraperapi.KindOf(err), "err", err)
	}
	return err
}

// begin moves the session into the loading state for op. It fails with
// ErrBusy while another scrape or conversion is in flight.
func (s *Session) begin(op Operation, form Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.op != OpNone {
		s.errMsg = MsgBusy
		return ErrBusy
	}
	s.form = form
	s.op = op
	s.errMsg = ""
	s.statusMsg = ""
	return nil
}

// SubmitScrape asks the service to scrape docURL. On success the form is
// cleared, a success message is set, and the list is reloaded once. On
// failure the form keeps the submitted values.
func (s *Session) SubmitScrape(ctx context.Context, docURL, password string) error {
	if strings.TrimSpace(docURL) == "" {
		s.update(func() {
			s.form = Form{URL: docURL, Password: password}
			s.errMsg = MsgMissingURL
			s.statusMsg = ""
		})
		return ErrMissingURL
	}
	if err := s.begin(OpScrape, Form{URL: docURL, Password: password}); err != nil {
		return err
	}

	err := s.backend.Scrape(ctx, types.ScrapeRequest{URL: strings.TrimSpace(docURL), Password: password})

	live := s.update(func() {
		s.op = OpNone
		if err != nil {
			s.errMsg = describe(err, MsgScrapeFailed)
			return
		}
		s.form = Form{}
		s.errMsg = ""
		s.statusMsg = MsgScrapeSuccess
	})
	if err != nil {
		slog.WarnContext(ctx, "scrape failed", "url", docURL, "kind", scraperapi.KindOf(err), "err", err)
		return err
	}
	if !live {
		return nil
	}
	// The scrape succeeded; a failed reload only affects the list.
	_ = s.FetchPresentations(ctx)
	return nil
}

// ConvertToPDF asks the service to render docURL as a PDF and returns it as
// a download. An empty URL is a no-op returning a nil download. The
// presentation list is not reloaded: conversion does not change it.
func (s *Session) ConvertToPDF(ctx context.Context, docURL string) (*presentations.Download, error) {
	if strings.TrimSpace(docURL) == "" {
		return nil, nil
	}
	s.mu.Lock()
	form := s.form
	s.mu.Unlock()
	form.URL = docURL
	if err := s.begin(OpConvert, form); err != nil {
		return nil, err
	}

	pdf, err := s.backend.ConvertToPDF(ctx, strings.TrimSpace(docURL))

	var d *presentations.Download
	if err == nil {
		d = &presentations.Download{
			Filename:    presentations.PDFFilename(docURL, s.now()),
			ContentType: presentations.ContentTypePDF,
			Body:        pdf,
		}
	}
	s.update(func() {
		s.op = OpNone
		switch {
		case err == nil:
			s.errMsg = ""
			s.statusMsg = MsgConvertSuccess
		case scraperapi.KindOf(err) == scraperapi.KindTimeout:
			s.errMsg = MsgConvertTimeout
		default:
			s.errMsg = describe(err, MsgConvertFailed)
		}
	})
	if err != nil {
		slog.WarnContext(ctx, "pdf conversion failed", "url", docURL, "kind", scraperapi.KindOf(err), "err", err)
		return nil, err
	}
	s.record(ctx, history.KindPDF, docURL, *d)
	return d, nil
}

// SetForm updates the form inputs without submitting them.
func (s *Session) SetForm(f Form) {
	s.update(func() { s.form = f })
}

// Search sets the search term used to filter the list view.
func (s *Session) Search(term string) {
	s.update(func() { s.searchTerm = term })
}

// Select switches to the detail view of p. No request is made.
func (s *Session) Select(p types.Presentation) {
	s.update(func() { s.selected = &p })
}

// SelectByID switches to the detail view of the presentation with the given
// id from the current list.
func (s *Session) SelectByID(id string) error {
	p, ok := s.store.Get(id)
	if !ok {
		return ErrNotFound
	}
	s.Select(p)
	return nil
}

// ClearSelection returns to the list view.
func (s *Session) ClearSelection() {
	s.update(func() { s.selected = nil })
}

// Presentation returns a presentation from the current list.
func (s *Session) Presentation(id string) (types.Presentation, bool) {
	return s.store.Get(id)
}

// Export renders the presentation with the given id in format. It makes no
// request to the service.
func (s *Session) Export(ctx context.Context, id string, format presentations.Format) (presentations.Download, error) {
	p, ok := s.store.Get(id)
	if !ok {
		s.mu.Lock()
		if s.selected != nil && s.selected.ID == id {
			p, ok = *s.selected, true
		}
		s.mu.Unlock()
	}
	if !ok {
		return presentations.Download{}, ErrNotFound
	}
	d, err := presentations.Export(p, format, s.now())
	if err != nil {
		return presentations.Download{}, err
	}
	s.record(ctx, history.Kind(format), p.ID, d)
	return d, nil
}

// ExportJSON renders the presentation as JSON.
func (s *Session) ExportJSON(ctx context.Context, id string) (presentations.Download, error) {
	return s.Export(ctx, id, presentations.FormatJSON)
}

// ExportText renders the presentation as a plain-text document.
func (s *Session) ExportText(ctx context.Context, id string) (presentations.Download, error) {
	return s.Export(ctx, id, presentations.FormatText)
}

func (s *Session) record(ctx context.Context, kind history.Kind, subject string, d presentations.Download) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(ctx, history.Entry{
		Kind:      kind,
		Filename:  d.Filename,
		Subject:   subject,
		Bytes:     len(d.Body),
		CreatedAt: s.now(),
	})
	if err != nil {
		slog.WarnContext(ctx, "recording download failed", "file", d.Filename, "err", err)
	}
}
