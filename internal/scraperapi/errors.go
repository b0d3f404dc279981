// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scraperapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifies a failed call to the scraper service.
type Kind string

const (
	// KindConnectivity means the service could not be reached.
	KindConnectivity Kind = "connectivity"
	// KindValidation means the service rejected the request (HTTP 4xx).
	KindValidation Kind = "validation"
	// KindTimeout means the client gave up waiting for a response.
	KindTimeout Kind = "timeout"
	// KindUnknown covers every other failure, including HTTP 5xx.
	KindUnknown Kind = "unknown"
)

// Error is the single error type returned by Client. It is constructed once,
// at the network boundary, so callers never inspect response shapes.
type Error struct {
	// Op names the call that failed ("list", "scrape", "convert").
	Op string
	// Kind classifies the failure.
	Kind Kind
	// Status is the HTTP status code, or 0 when no response arrived.
	Status int
	// Message is the server-supplied error message, if any.
	Message string
	// Err is the underlying transport or decoding error, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scraper %s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// ServerMessage returns the server-supplied message carried by err, or "".
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// transportError classifies an error raised before any response arrived.
func transportError(op string, err error) *Error {
	kind := KindConnectivity
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// statusError classifies a non-2xx response.
func statusError(op string, status int, body []byte) *Error {
	kind := KindUnknown
	switch {
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = KindTimeout
	case status >= 400 && status < 500:
		kind = KindValidation
	}
	return &Error{Op: op, Kind: kind, Status: status, Message: messageFromBody(body)}
}

// messageFromBody extracts an error message from a JSON error body. The
// service is not consistent about the field name, so the common ones are
// tried in order. Non-JSON bodies yield "".
func messageFromBody(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"error", "message", "detail"} {
		switch v := payload[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case map[string]any:
			if s, ok := v["message"].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
