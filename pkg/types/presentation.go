// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// PresentationStatus is the processing state reported by the scraper service.
// The client never computes or changes it.
type PresentationStatus string

const (
	StatusPending    PresentationStatus = "pending"
	StatusProcessing PresentationStatus = "processing"
	StatusCompleted  PresentationStatus = "completed"
	StatusFailed     PresentationStatus = "failed"
)

// Known reports whether s is one of the statuses the service documents.
func (s PresentationStatus) Known() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Slide is one page of extracted text and its image references.
type Slide struct {
	// Number is the 1-based position of the slide in the deck.
	Number int `json:"slide_number" yaml:"slide_number"`

	// Text is the extracted text content of the slide.
	Text string `json:"text_content" yaml:"text_content"`

	// Images lists image URLs in the order the service returned them.
	Images []string `json:"images,omitempty" yaml:"images,omitempty"`
}

// Presentation is the scraped representation of a DocSend document.
type Presentation struct {
	// ID is the opaque identifier assigned by the scraper service.
	ID string `json:"id" yaml:"id"`

	// Title is the document title, when the service could extract one.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// SlideCount is the number of slides the service found.
	SlideCount int `json:"slide_count" yaml:"slide_count"`

	// Status is authoritative from the service.
	Status PresentationStatus `json:"status" yaml:"status"`

	// CreatedAt is when the scrape request was accepted.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// ExtractedAt is when content extraction finished; nil until then.
	ExtractedAt *time.Time `json:"extracted_at,omitempty" yaml:"extracted_at,omitempty"`

	// ScrapingMethod names the extraction strategy the service used.
	ScrapingMethod string `json:"scraping_method,omitempty" yaml:"scraping_method,omitempty"`

	// Slides holds the extracted slides ordered by Number.
	Slides []Slide `json:"slides,omitempty" yaml:"slides,omitempty"`

	// Raw is the object exactly as the service sent it, including fields
	// this type does not model. It is empty for values built in code.
	Raw json.RawMessage `json:"-" yaml:"-"`
}

// UnmarshalJSON decodes a presentation from the service and keeps a copy of
// the raw object. Timestamps the service formats without a zone are read as
// UTC; unparseable ones are left zero instead of failing the decode.
func (p *Presentation) UnmarshalJSON(data []byte) error {
	type plain Presentation
	var aux struct {
		plain
		CreatedAt   looseTime  `json:"created_at"`
		ExtractedAt *looseTime `json:"extracted_at"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*p = Presentation(aux.plain)
	p.CreatedAt = time.Time(aux.CreatedAt)
	p.ExtractedAt = nil
	if aux.ExtractedAt != nil && !time.Time(*aux.ExtractedAt).IsZero() {
		t := time.Time(*aux.ExtractedAt)
		p.ExtractedAt = &t
	}
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// timeLayouts are tried in order when reading service timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

type looseTime time.Time

func (t *looseTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// null or a non-string value
		*t = looseTime{}
		return nil
	}
	*t = looseTime(ParseTime(s))
	return nil
}

// ParseTime reads a service timestamp. It accepts RFC 3339 and the same
// layouts without a zone, which are taken as UTC. It returns the zero time
// for anything else.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// SortSlides orders the slides by slide number. Slides sharing a number keep
// their relative order.
func (p *Presentation) SortSlides() {
	sort.SliceStable(p.Slides, func(i, j int) bool {
		return p.Slides[i].Number < p.Slides[j].Number
	})
}

// DisplayTitle returns the title, or the ID when the service reported none.
func (p Presentation) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.ID
}

// ScrapeRequest is the body of a scrape submission. Password may be blank.
type ScrapeRequest struct {
	URL      string `json:"url"`
	Password string `json:"password"`
}

// ConvertRequest is the body of a PDF conversion request. The password is
// deliberately not sent with conversions.
type ConvertRequest struct {
	URL string `json:"url"`
}
