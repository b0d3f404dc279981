// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pdiddy/docsend-scraper/internal/presentations"
	"github.com/pdiddy/docsend-scraper/internal/scripts"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"fmtTime": fmtTime,
}

// page is the data every template receives through the layout.
type page struct {
	Title   string
	Scripts []scripts.Script
}

var (
	landingTmpl = parsePage("landing.html")
	scraperTmpl = parsePage("scraper.html")
)

func parsePage(name string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

// render executes the layout into a buffer first so a template error never
// leaves a half-written page.
func render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.ErrorContext(r.Context(), "rendering template", "template", tmpl.Name(), "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Pages can echo form input, including the document password.
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// writeDownload sends d as a file attachment.
func writeDownload(w http.ResponseWriter, d presentations.Download) {
	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(d.Body)))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(d.Body)
}

func fmtTime(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("Jan 2, 2006 3:04 PM")
	case *time.Time:
		if t == nil {
			return ""
		}
		return fmtTime(*t)
	}
	return ""
}
