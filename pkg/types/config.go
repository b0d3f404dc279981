package types

import "time"

// DefaultBaseURL is the scraper service used when no base URL is configured.
const DefaultBaseURL = "https://docsend-scraper-api.onrender.com"

// HTTPConfig holds shared HTTP settings used by every call to the scraper service.
type HTTPConfig struct {
	// Timeout is the request timeout for list and scrape calls.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "docsend-scraper/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// APIConfig holds settings for the scraper service client.
type APIConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the root of the scraper service, without a trailing slash.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// ConvertTimeout bounds a single PDF conversion (default 240s).
	ConvertTimeout time.Duration `json:"convert_timeout" yaml:"convert_timeout"`

	// Token is an optional bearer token for the scraper service.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// ServerConfig holds settings for the web front end.
type ServerConfig struct {
	// Addr is the listen address (default ":3000").
	Addr string `json:"addr" yaml:"addr"`

	// SessionTTL is how long an idle visitor session is kept (default 30m).
	SessionTTL time.Duration `json:"session_ttl" yaml:"session_ttl"`

	// MaxSessions caps the number of live visitor sessions (default 1024).
	MaxSessions int `json:"max_sessions" yaml:"max_sessions"`

	// WidgetScript is the waitlist widget embedded on the landing page.
	WidgetScript string `json:"widget_script" yaml:"widget_script"`

	// WidgetKey is the data-key-id of the waitlist widget.
	WidgetKey string `json:"widget_key" yaml:"widget_key"`
}

// DownloadsConfig holds settings for files the CLI writes and the ledger
// recording them.
type DownloadsConfig struct {
	// Dir is where the CLI saves exports and PDFs (default "downloads").
	Dir string `json:"dir" yaml:"dir"`

	// HistoryDB is the SQLite ledger path (default "downloads/history.db").
	HistoryDB string `json:"history_db" yaml:"history_db"`
}

// Config groups all settings.
type Config struct {
	API       APIConfig       `json:"api" yaml:"api"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Downloads DownloadsConfig `json:"downloads" yaml:"downloads"`
}
