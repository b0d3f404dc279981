// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scraperapi is the HTTP client for the remote DocSend scraper
// service. The service is an opaque collaborator: it lists presentations,
// accepts scrape submissions, and renders DocSend documents to PDF.
//
// Every failure is returned as an *Error carrying a Kind, so callers decide
// what to show the user without looking at response bodies.
package scraperapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pdiddy/docsend-scraper/pkg/types"
)

const (
	listPath    = "/api/scraper/presentations"
	scrapePath  = "/api/scraper/scrape"
	convertPath = "/api/pdf/convert"

	defaultTimeout        = 30 * time.Second
	defaultConvertTimeout = 240 * time.Second
	defaultUserAgent      = "docsend-scraper/0.1"
)

// Client calls the scraper service. It is safe for concurrent use.
type Client struct {
	http           *resty.Client
	timeout        time.Duration
	convertTimeout time.Duration
	tracer         trace.Tracer
}

// NewClient builds a Client from cfg, filling in defaults for zero values.
func NewClient(cfg types.APIConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = types.DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	convertTimeout := cfg.ConvertTimeout
	if convertTimeout <= 0 {
		convertTimeout = defaultConvertTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent)
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}
	instrument(httpClient)

	return &Client{
		http:           httpClient,
		timeout:        timeout,
		convertTimeout: convertTimeout,
		tracer:         otel.Tracer("github.com/pdiddy/docsend-scraper/internal/scraperapi"),
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.http.BaseURL }

// ListPresentations fetches every presentation the service knows about.
// Slides of each presentation are returned ordered by slide number.
func (c *Client) ListPresentations(ctx context.Context) (_ []types.Presentation, err error) {
	ctx, span := c.tracer.Start(ctx, "scraperapi.list")
	defer func() { endSpan(span, err) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(listPath)
	if err != nil {
		return nil, transportError("list", err)
	}
	if resp.IsError() {
		return nil, statusError("list", resp.StatusCode(), resp.Body())
	}

	var presentations []types.Presentation
	if err := json.Unmarshal(resp.Body(), &presentations); err != nil {
		return nil, &Error{Op: "list", Kind: KindUnknown, Status: resp.StatusCode(), Err: fmt.Errorf("parsing presentation list: %w", err)}
	}
	for i := range presentations {
		presentations[i].SortSlides()
	}
	span.SetAttributes(attribute.Int("presentations.count", len(presentations)))
	return presentations, nil
}

// Scrape asks the service to scrape the DocSend document at req.URL. The
// response body is not interpreted beyond success or failure.
func (c *Client) Scrape(ctx context.Context, req types.ScrapeRequest) (err error) {
	ctx, span := c.tracer.Start(ctx, "scraperapi.scrape", trace.WithAttributes(
		attribute.String("docsend.url", req.URL),
	))
	defer func() { endSpan(span, err) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetBody(req).
		Post(scrapePath)
	if err != nil {
		return transportError("scrape", err)
	}
	if resp.IsError() {
		return statusError("scrape", resp.StatusCode(), resp.Body())
	}
	return nil
}

// ConvertToPDF asks the service to render the DocSend document at docURL to
// PDF and returns the PDF bytes. The call is bounded by the convert timeout
// rather than the regular request timeout; conversions routinely take minutes.
func (c *Client) ConvertToPDF(ctx context.Context, docURL string) (_ []byte, err error) {
	ctx, span := c.tracer.Start(ctx, "scraperapi.convert", trace.WithAttributes(
		attribute.String("docsend.url", docURL),
	))
	defer func() { endSpan(span, err) }()

	ctx, cancel := context.WithTimeout(ctx, c.convertTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/pdf").
		SetBody(types.ConvertRequest{URL: docURL}).
		Post(convertPath)
	if err != nil {
		return nil, transportError("convert", err)
	}
	if resp.IsError() {
		return nil, statusError("convert", resp.StatusCode(), resp.Body())
	}
	span.SetAttributes(attribute.Int("pdf.bytes", len(resp.Body())))
	return resp.Body(), nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("scraper.error_kind", string(KindOf(err))))
	}
	span.End()
}

// instrument attaches debug logging to every request the client makes.
func instrument(client *resty.Client) {
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		slog.DebugContext(req.Context(), "start request", "method", req.Method, "url", req.URL)
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		slog.DebugContext(resp.Request.Context(), "finish request",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"bytes", len(resp.Body()),
			"duration", resp.Time(),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		slog.DebugContext(req.Context(), "request failed", "method", req.Method, "url", req.URL, "err", err)
	})
}
