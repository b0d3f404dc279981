// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package presentations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docsend-scraper/pkg/types"
)

// Content types of the files this package produces.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeYAML = "application/yaml"
	ContentTypePDF  = "application/pdf"
)

// Format names an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "txt"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, txt, or yaml)", s)
}

// Download is a file ready to be handed to the user.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Export renders p in the given format.
func Export(p types.Presentation, format Format, now time.Time) (Download, error) {
	switch format {
	case FormatJSON:
		return ExportJSON(p, now)
	case FormatText:
		return ExportText(p, now), nil
	case FormatYAML:
		return ExportYAML(p, now)
	}
	return Download{}, fmt.Errorf("unknown export format %q", format)
}

// ExportJSON serialises the whole presentation as indented JSON. A
// presentation decoded from the service is written exactly as the service
// sent it, including fields this package does not model.
func ExportJSON(p types.Presentation, now time.Time) (Download, error) {
	var data []byte
	if len(p.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, p.Raw, "", "  "); err != nil {
			return Download{}, fmt.Errorf("indenting JSON: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = json.MarshalIndent(p, "", "  "); err != nil {
			return Download{}, fmt.Errorf("marshaling JSON: %w", err)
		}
	}
	return Download{
		Filename:    exportFilename(p, now, "json"),
		ContentType: ContentTypeJSON,
		Body:        data,
	}, nil
}

// ExportYAML serialises the whole presentation as YAML.
func ExportYAML(p types.Presentation, now time.Time) (Download, error) {
	data, err := yaml.Marshal(&p)
	if err != nil {
		return Download{}, fmt.Errorf("marshaling YAML: %w", err)
	}
	return Download{
		Filename:    exportFilename(p, now, "yaml"),
		ContentType: ContentTypeYAML,
		Body:        data,
	}, nil
}

// ExportText renders the presentation as a plain-text document.
func ExportText(p types.Presentation, now time.Time) Download {
	return Download{
		Filename:    exportFilename(p, now, "txt"),
		ContentType: ContentTypeText,
		Body:        []byte(RenderText(p)),
	}
}

// RenderText renders a header with the title and extraction time, then
// each slide as "Slide <n>:" followed by its text, separated by blank lines.
func RenderText(p types.Presentation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	fmt.Fprintf(&b, "Extracted: %s\n\n", extractedStamp(p))
	for _, s := range p.Slides {
		fmt.Fprintf(&b, "Slide %d:\n%s\n\n", s.Number, s.Text)
	}
	return b.String()
}

func extractedStamp(p types.Presentation) string {
	if p.ExtractedAt == nil {
		return "unknown"
	}
	return p.ExtractedAt.UTC().Format(time.RFC3339)
}

// PDFFilename names a converted PDF: a fixed prefix, the document id taken
// from the URL, and the current time in milliseconds.
func PDFFilename(docURL string, now time.Time) string {
	return fmt.Sprintf("docsend_%s_%d.pdf", DocumentID(docURL), now.UnixMilli())
}

// DocumentID returns the trailing path segment of a DocSend URL, e.g. "abc123"
// for https://docsend.com/view/abc123. It falls back to "document".
func DocumentID(docURL string) string {
	u, err := url.Parse(strings.TrimSpace(docURL))
	if err != nil {
		return "document"
	}
	seg := path.Base(strings.TrimRight(u.Path, "/"))
	if seg = sanitize(seg); seg == "" {
		return "document"
	}
	return seg
}

func exportFilename(p types.Presentation, now time.Time, ext string) string {
	base := sanitize(p.Title)
	if base == "" {
		base = sanitize(p.ID)
	}
	if base == "" {
		base = "presentation"
	}
	return fmt.Sprintf("%s_%d.%s", base, now.UnixMilli(), ext)
}

// sanitize keeps letters, digits, '-' and '_', collapsing everything else
// into single underscores.
func sanitize(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}
