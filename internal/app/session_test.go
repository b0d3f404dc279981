// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docsend-scraper/internal/history"
	"github.com/pdiddy/docsend-scraper/internal/presentations"
	"github.com/pdiddy/docsend-scraper/internal/scraperapi"
	"github.com/pdiddy/docsend-scraper/pkg/types"
)

// fakeBackend records calls and returns canned results. When gate is set,
// Scrape and ConvertToPDF block until it is closed.
type fakeBackend struct {
	mu          sync.Mutex
	list        []types.Presentation
	listErr     error
	scrapeErr   error
	convertErr  error
	pdf         []byte
	gate        chan struct{}
	started     chan struct{}
	listCalls   int
	scrapeReqs  []types.ScrapeRequest
	convertURLs []string
}

func (f *fakeBackend) ListPresentations(context.Context) ([]types.Presentation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeBackend) wait() {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeBackend) Scrape(_ context.Context, req types.ScrapeRequest) error {
	f.mu.Lock()
	f.scrapeReqs = append(f.scrapeReqs, req)
	f.mu.Unlock()
	f.wait()
	return f.scrapeErr
}

func (f *fakeBackend) ConvertToPDF(_ context.Context, docURL string) ([]byte, error) {
	f.mu.Lock()
	f.convertURLs = append(f.convertURLs, docURL)
	f.mu.Unlock()
	f.wait()
	if f.convertErr != nil {
		return nil, f.convertErr
	}
	return f.pdf, nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type memRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
	err     error
}

func (m *memRecorder) Record(_ context.Context, e history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return m.err
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, b *fakeBackend, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	s := NewSession(b, opts...)
	t.Cleanup(s.Close)
	return s
}

func validationErr(msg string) error {
	return &scraperapi.Error{Op: "scrape", Kind: scraperapi.KindValidation, Status: 400, Message: msg}
}

func TestMount_FetchesOnce(t *testing.T) {
	b := &fakeBackend{list: []types.Presentation{{ID: "a"}, {ID: "b"}}}
	s := newTestSession(t, b)

	require.NoError(t, s.Mount(context.Background()))
	assert.Equal(t, 1, b.calls())

	v := s.View()
	assert.Len(t, v.Presentations, 2)
	assert.Equal(t, 2, v.Total)
	assert.False(t, v.ListLoading)
	assert.Empty(t, v.Placeholder)
}

func TestFetchPresentations_FailureKeepsList(t *testing.T) {
	b := &fakeBackend{list: []types.Presentation{{ID: "a"}}}
	s := newTestSession(t, b)
	require.NoError(t, s.Mount(context.Background()))

	b.listErr = &scraperapi.Error{Op: "list", Kind: scraperapi.KindConnectivity, Err: errors.New("dial tcp: refused")}
	err := s.FetchPresentations(context.Background())
	require.Error(t, err)

	v := s.View()
	assert.Equal(t, []types.Presentation{{ID: "a"}}, v.Presentations)
	assert.Equal(t, MsgConnectivity, v.Error)
}

func TestFetchPresentations_GenericFailureMessage(t *testing.T) {
	b := &fakeBackend{listErr: &scraperapi.Error{Op: "list", Kind: scraperapi.KindUnknown, Status: 500}}
	s := newTestSession(t, b)

	require.Error(t, s.Mount(context.Background()))
	assert.Equal(t, MsgFetchFailed, s.View().Error)
}

func TestSubmitScrape_Success(t *testing.T) {
	b := &fakeBackend{}
	s := newTestSession(t, b)
	require.NoError(t, s.Mount(context.Background()))
	before := b.calls()

	b.list = []types.Presentation{{ID: "new", Title: "Fresh"}}
	err := s.SubmitScrape(context.Background(), "https://docsend.com/view/abc", "pw")
	require.NoError(t, err)

	assert.Equal(t, before+1, b.calls(), "list fetched exactly once after scrape")
	require.Len(t, b.scrapeReqs, 1)
	assert.Equal(t, types.ScrapeRequest{URL: "https://docsend.com/view/abc", Password: "pw"}, b.scrapeReqs[0])

	v := s.View()
	assert.Equal(t, Form{}, v.Form)
	assert.Equal(t, MsgScrapeSuccess, v.Status)
	assert.Empty(t, v.Error)
	assert.False(t, v.Loading)
	assert.Equal(t, "new", v.Presentations[0].ID)
}

func TestSubmitScrape_FailureKeepsForm(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"server message surfaced", validationErr("Invalid DocSend link"), "Invalid DocSend link"},
		{"validation without message uses fallback", validationErr(""), MsgScrapeFailed},
		{"connectivity", &scraperapi.Error{Op: "scrape", Kind: scraperapi.KindConnectivity}, MsgConnectivity},
		{"unknown error type", errors.New("boom"), MsgScrapeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{scrapeErr: tt.err}
			s := newTestSession(t, b)

			err := s.SubmitScrape(context.Background(), "https://docsend.com/view/abc", "secret")
			require.Error(t, err)
			assert.Equal(t, 0, b.calls(), "no list fetch after a failed scrape")

			v := s.View()
			assert.False(t, v.Loading)
			assert.Equal(t, Form{URL: "https://docsend.com/view/abc", Password: "secret"}, v.Form)
			assert.Equal(t, tt.wantMsg, v.Error)
			assert.Empty(t, v.Status)
		})
	}
}

func TestSubmitScrape_EmptyURL(t *testing.T) {
	b := &fakeBackend{}
	s := newTestSession(t, b)

	err := s.SubmitScrape(context.Background(), "   ", "pw")
	require.ErrorIs(t, err, ErrMissingURL)
	assert.Empty(t, b.scrapeReqs)
	v := s.View()
	assert.Equal(t, MsgMissingURL, v.Error)
	assert.Equal(t, "pw", v.Form.Password)
	assert.False(t, v.Loading)
}

func TestSubmitScrape_ClearsPreviousMessages(t *testing.T) {
	b := &fakeBackend{scrapeErr: validationErr("nope")}
	s := newTestSession(t, b)
	require.Error(t, s.SubmitScrape(context.Background(), "https://docsend.com/view/a", ""))

	b.scrapeErr = nil
	require.NoError(t, s.SubmitScrape(context.Background(), "https://docsend.com/view/a", ""))
	v := s.View()
	assert.Empty(t, v.Error)
	assert.Equal(t, MsgScrapeSuccess, v.Status)
}

func TestSubmitScrape_BusyWhileInFlight(t *testing.T) {
	b := &fakeBackend{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	s := newTestSession(t, b)

	done := make(chan error, 1)
	go func() { done <- s.SubmitScrape(context.Background(), "https://docsend.com/view/a", "") }()
	<-b.started

	v := s.View()
	assert.True(t, v.Loading)
	assert.Equal(t, OpScrape, v.Operation)

	err := s.SubmitScrape(context.Background(), "https://docsend.com/view/b", "")
	assert.ErrorIs(t, err, ErrBusy)
	_, err = s.ConvertToPDF(context.Background(), "https://docsend.com/view/b")
	assert.ErrorIs(t, err, ErrBusy)

	close(b.gate)
	require.NoError(t, <-done)
	assert.False(t, s.View().Loading)
	assert.Len(t, b.scrapeReqs, 1)
}

func TestConvertToPDF_Success(t *testing.T) {
	b := &fakeBackend{pdf: []byte("%PDF-1.7")}
	rec := &memRecorder{}
	s := newTestSession(t, b, WithRecorder(rec))
	require.NoError(t, s.Mount(context.Background()))
	before := b.calls()

	d, err := s.ConvertToPDF(context.Background(), "https://docsend.com/view/abc123")
	require.NoError(t, err)
	require.NotNil(t, d)

	assert.Equal(t, "docsend_abc123_1748779200000.pdf", d.Filename)
	assert.Equal(t, presentations.ContentTypePDF, d.ContentType)
	assert.Equal(t, []byte("%PDF-1.7"), d.Body)
	assert.Equal(t, before, b.calls(), "conversion never reloads the list")

	v := s.View()
	assert.Equal(t, MsgConvertSuccess, v.Status)
	assert.False(t, v.Loading)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, history.KindPDF, rec.entries[0].Kind)
	assert.Equal(t, "https://docsend.com/view/abc123", rec.entries[0].Subject)
	assert.Equal(t, 8, rec.entries[0].Bytes)
}

func TestConvertToPDF_EmptyURLIsNoop(t *testing.T) {
	b := &fakeBackend{}
	s := newTestSession(t, b)

	d, err := s.ConvertToPDF(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, d)
	assert.Empty(t, b.convertURLs)
	assert.Equal(t, View{Placeholder: PlaceholderEmpty}, s.View())
}

func TestConvertToPDF_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"timeout", &scraperapi.Error{Op: "convert", Kind: scraperapi.KindTimeout, Err: context.DeadlineExceeded}, MsgConvertTimeout},
		{"timeout with server message still tailored", &scraperapi.Error{Op: "convert", Kind: scraperapi.KindTimeout, Status: 504, Message: "upstream timed out"}, MsgConvertTimeout},
		{"server message", &scraperapi.Error{Op: "convert", Kind: scraperapi.KindValidation, Status: 400, Message: "Unsupported document"}, "Unsupported document"},
		{"generic", &scraperapi.Error{Op: "convert", Kind: scraperapi.KindUnknown, Status: 500}, MsgConvertFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{convertErr: tt.err}
			s := newTestSession(t, b)

			d, err := s.ConvertToPDF(context.Background(), "https://docsend.com/view/x")
			require.Error(t, err)
			assert.Nil(t, d)

			v := s.View()
			assert.Equal(t, tt.wantMsg, v.Error)
			assert.False(t, v.Loading)
			assert.Equal(t, "https://docsend.com/view/x", v.Form.URL)
		})
	}
}

func TestClose_DiscardsInFlightResult(t *testing.T) {
	b := &fakeBackend{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	s := newTestSession(t, b)

	done := make(chan error, 1)
	go func() { done <- s.SubmitScrape(context.Background(), "https://docsend.com/view/a", "pw") }()
	<-b.started

	s.Close()
	close(b.gate)
	require.NoError(t, <-done)

	v := s.View()
	assert.Empty(t, v.Status, "state is not updated after unmount")
	assert.Equal(t, Form{URL: "https://docsend.com/view/a", Password: "pw"}, v.Form)
	assert.Equal(t, 0, b.calls(), "no reload after unmount")
}

// slowLister blocks list fetches until release is closed.
type slowLister struct {
	*fakeBackend
	started chan struct{}
	release chan struct{}
}

func (l *slowLister) ListPresentations(ctx context.Context) ([]types.Presentation, error) {
	l.started <- struct{}{}
	<-l.release
	return l.fakeBackend.ListPresentations(ctx)
}

func TestClose_DiscardsInFlightList(t *testing.T) {
	b := &slowLister{
		fakeBackend: &fakeBackend{list: []types.Presentation{{ID: "a", Title: "Alpha"}}},
		started:     make(chan struct{}, 1),
		release:     make(chan struct{}),
	}
	s := NewSession(b)

	done := make(chan error, 1)
	go func() { done <- s.FetchPresentations(context.Background()) }()
	<-b.started

	s.Close()
	close(b.release)
	require.NoError(t, <-done)

	v := s.View()
	assert.Zero(t, v.Total, "list is not replaced after unmount")
	_, ok := s.Presentation("a")
	assert.False(t, ok)
}

func TestSelectAndClear(t *testing.T) {
	b := &fakeBackend{list: []types.Presentation{{ID: "a", Title: "Alpha"}}}
	s := newTestSession(t, b)
	require.NoError(t, s.Mount(context.Background()))
	calls := b.calls()

	require.NoError(t, s.SelectByID("a"))
	v := s.View()
	require.True(t, v.Detail())
	assert.Equal(t, "Alpha", v.Selected.Title)

	s.ClearSelection()
	assert.False(t, s.View().Detail())

	assert.ErrorIs(t, s.SelectByID("zzz"), ErrNotFound)
	assert.Equal(t, calls, b.calls(), "selection makes no requests")
}

func TestView_Placeholders(t *testing.T) {
	b := &fakeBackend{}
	s := newTestSession(t, b)
	require.NoError(t, s.Mount(context.Background()))

	assert.Equal(t, PlaceholderEmpty, s.View().Placeholder)

	s.Search("anything")
	assert.Equal(t, PlaceholderNoMatch, s.View().Placeholder)

	b.list = []types.Presentation{{ID: "a", Title: "Pitch"}}
	require.NoError(t, s.FetchPresentations(context.Background()))
	s.Search("pitch")
	v := s.View()
	assert.Empty(t, v.Placeholder)
	assert.Len(t, v.Presentations, 1)

	s.Search("board")
	assert.Equal(t, PlaceholderNoMatch, s.View().Placeholder)
	s.Search("")
	assert.Empty(t, s.View().Placeholder)
}

func TestExport(t *testing.T) {
	extracted := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)
	p := types.Presentation{
		ID: "p1", Title: "T", ExtractedAt: &extracted, Status: types.StatusCompleted,
		Slides: []types.Slide{{Number: 1, Text: "A"}, {Number: 2, Text: "B"}},
	}
	b := &fakeBackend{list: []types.Presentation{p}}
	rec := &memRecorder{err: errors.New("disk full")}
	s := newTestSession(t, b, WithRecorder(rec))
	require.NoError(t, s.Mount(context.Background()))
	calls := b.calls()

	txt, err := s.ExportText(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Title: T\nExtracted: 2025-05-30T00:00:00Z\n\nSlide 1:\nA\n\nSlide 2:\nB\n\n", string(txt.Body))

	js, err := s.ExportJSON(context.Background(), "p1")
	require.NoError(t, err)
	var back types.Presentation
	require.NoError(t, json.Unmarshal(js.Body, &back))
	assert.Equal(t, "p1", back.ID)

	_, err = s.ExportJSON(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, calls, b.calls(), "exports make no requests")
	require.Len(t, rec.entries, 2, "recording failures do not fail the export")
	assert.Equal(t, history.KindText, rec.entries[0].Kind)
	assert.Equal(t, history.KindJSON, rec.entries[1].Kind)
}

func TestExport_FallsBackToSelection(t *testing.T) {
	b := &fakeBackend{}
	s := newTestSession(t, b)
	s.Select(types.Presentation{ID: "gone", Title: "Gone"})

	d, err := s.ExportText(context.Background(), "gone")
	require.NoError(t, err)
	assert.Contains(t, string(d.Body), "Title: Gone")
}
