// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/docsend-scraper/internal/secrets"
	"github.com/pdiddy/docsend-scraper/pkg/types"
)

const defaultUserAgent = "docsend-scraper/0.1"

// configure sets defaults and environment bindings on v. Every key can be
// set as DOCSEND_SCRAPER_<SECTION>_<KEY>; the service URL also honours
// API_URL.
func configure(v *viper.Viper) {
	v.SetDefault("api.base_url", types.DefaultBaseURL)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.convert_timeout", 240*time.Second)
	v.SetDefault("api.user_agent", defaultUserAgent)
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("server.max_sessions", 1024)
	v.SetDefault("server.widget_script", "https://getlaunchlist.com/js/widget.js")
	v.SetDefault("server.widget_key", "MryCoB")
	v.SetDefault("downloads.dir", "downloads")
	v.SetDefault("downloads.history_db", "downloads/history.db")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api.base_url", envPrefix+"_API_BASE_URL", "API_URL")
}

// loadConfig reads the effective configuration from v. The API token comes
// from the config, or else from the secrets directory.
func loadConfig(v *viper.Viper, s secrets.Set) types.Config {
	cfg := types.Config{
		API: types.APIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("api.timeout"),
				UserAgent: v.GetString("api.user_agent"),
			},
			BaseURL:        strings.TrimRight(v.GetString("api.base_url"), "/"),
			ConvertTimeout: v.GetDuration("api.convert_timeout"),
			Token:          v.GetString("api.token"),
		},
		Server: types.ServerConfig{
			Addr:         v.GetString("server.addr"),
			SessionTTL:   v.GetDuration("server.session_ttl"),
			MaxSessions:  v.GetInt("server.max_sessions"),
			WidgetScript: v.GetString("server.widget_script"),
			WidgetKey:    v.GetString("server.widget_key"),
		},
		Downloads: types.DownloadsConfig{
			Dir:       v.GetString("downloads.dir"),
			HistoryDB: v.GetString("downloads.history_db"),
		},
	}
	if cfg.API.Token == "" {
		cfg.API.Token, _ = s.Lookup(envPrefix, secrets.APIToken)
	}
	return cfg
}
