// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"net/http"

	"github.com/pdiddy/docsend-scraper/internal/scripts"
)

const (
	defaultWidgetScript = "https://getlaunchlist.com/js/widget.js"
	defaultWidgetKey    = "MryCoB"
	landingHeadline     = "Join the course waitlist."
)

// waitlistWidget is one placement of the waitlist embed. Mounting it makes
// sure the widget script is in the document; unmounting releases it.
type waitlistWidget struct {
	Key    string
	Height string

	handle *scripts.Handle
}

func mountWaitlist(doc *scripts.Registry, src, key string) *waitlistWidget {
	h := doc.Acquire(scripts.Script{Src: src, Defer: true})
	return &waitlistWidget{Key: key, Height: "180px", handle: h}
}

func (w *waitlistWidget) unmount() {
	w.handle.Release()
}

type landingPage struct {
	page
	Headline string
	Widgets  []*waitlistWidget
}

// handleLanding mounts the waitlist widget on the server-wide registry for
// the duration of the render, so concurrent landing renders share one entry.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	widget := mountWaitlist(s.scripts, s.widgetScript, s.widgetKey)
	defer widget.unmount()

	render(w, r, landingTmpl, landingPage{
		page:     page{Title: "Join the waitlist", Scripts: s.scripts.Scripts()},
		Headline: landingHeadline,
		Widgets:  []*waitlistWidget{widget},
	})
}
