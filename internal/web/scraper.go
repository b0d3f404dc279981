// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pdiddy/docsend-scraper/internal/app"
	"github.com/pdiddy/docsend-scraper/internal/presentations"
)

type scraperPage struct {
	page
	View app.View
}

// session returns the visitor's session, mounting it if it is new.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *app.Session {
	sess, created := s.sessions.get(w, r)
	if created {
		// Mount failures are shown in the view.
		_ = sess.Mount(r.Context())
	}
	return sess
}

// detached keeps a request running after the browser goes away; a submitted
// scrape or conversion is never abandoned midway.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func backToScraper(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/scraper", http.StatusSeeOther)
}

func (s *Server) handleScraper(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Search(r.URL.Query().Get("q"))
	render(w, r, scraperTmpl, scraperPage{
		page: page{Title: "DocSend Scraper"},
		View: sess.View(),
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	// Failures are reported through the session's view.
	_ = sess.SubmitScrape(detached(r), r.PostForm.Get("url"), r.PostForm.Get("password"))
	backToScraper(w, r)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	d, err := sess.ConvertToPDF(detached(r), r.PostForm.Get("url"))
	if err != nil || d == nil {
		backToScraper(w, r)
		return
	}
	writeDownload(w, *d)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	_ = sess.FetchPresentations(r.Context())
	backToScraper(w, r)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := sess.SelectByID(mux.Vars(r)["id"]); err != nil {
		http.NotFound(w, r)
		return
	}
	backToScraper(w, r)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.ClearSelection()
	backToScraper(w, r)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	vars := mux.Vars(r)
	format, err := presentations.ParseFormat(vars["format"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := sess.Export(r.Context(), vars["id"], format)
	switch {
	case errors.Is(err, app.ErrNotFound):
		http.NotFound(w, r)
	case err != nil:
		http.Error(w, "export failed", http.StatusInternalServerError)
	default:
		writeDownload(w, d)
	}
}
