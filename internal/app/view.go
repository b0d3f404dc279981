package app

import (
	"github.com/pdiddy/docsend-scraper/internal/presentations"
	"github.com/pdiddy/docsend-scraper/pkg/types"
)

// View is a point-in-time snapshot of a session for rendering.
type View struct {
	Form       Form
	SearchTerm string

	// Loading is true while a scrape or conversion is in flight; form
	// controls are disabled while it is set.
	Loading     bool
	Operation   Operation
	ListLoading bool

	Error  string
	Status string

	// Presentations is the list filtered by SearchTerm.
	Presentations []types.Presentation
	// Total is the size of the unfiltered list.
	Total int

	// Selected is non-nil in the detail view.
	Selected *types.Presentation

	// Placeholder is the message shown instead of an empty list, or "".
	Placeholder string
}

// Detail reports whether the view shows a single presentation.
func (v View) Detail() bool { return v.Selected != nil }

// View returns a snapshot of the session.
func (s *Session) View() View {
	all := s.store.List()

	s.mu.Lock()
	v := View{
		Form:        s.form,
		SearchTerm:  s.searchTerm,
		Loading:     s.op != OpNone,
		Operation:   s.op,
		ListLoading: s.listLoading,
		Error:       s.errMsg,
		Status:      s.statusMsg,
		Total:       len(all),
	}
	if s.selected != nil {
		sel := *s.selected
		v.Selected = &sel
	}
	s.mu.Unlock()

	v.Presentations = presentations.Filter(all, v.SearchTerm)
	v.Placeholder = placeholder(len(all), len(v.Presentations), v.SearchTerm)
	return v
}

func placeholder(total, shown int, term string) string {
	switch {
	case shown == 0 && term != "":
		return PlaceholderNoMatch
	case total == 0:
		return PlaceholderEmpty
	}
	return ""
}
