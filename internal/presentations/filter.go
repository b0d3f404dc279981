// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package presentations

import (
	"strings"

	"github.com/pdiddy/docsend-scraper/pkg/types"
)

// Filter returns the presentations whose title or any slide text contains
// term, ignoring case. An empty term returns list unchanged.
func Filter(list []types.Presentation, term string) []types.Presentation {
	if term == "" {
		return list
	}
	needle := strings.ToLower(term)
	var out []types.Presentation
	for _, p := range list {
		if matches(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p's title or any slide text contains term,
// ignoring case. Every presentation matches the empty term.
func Matches(p types.Presentation, term string) bool {
	return matches(p, strings.ToLower(term))
}

func matches(p types.Presentation, needle string) bool {
	if strings.Contains(strings.ToLower(p.Title), needle) {
		return true
	}
	for _, s := range p.Slides {
		if strings.Contains(strings.ToLower(s.Text), needle) {
			return true
		}
	}
	return false
}
