// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory of plain-text files,
// one secret per file. The filename is the key and the trimmed contents are
// the value. The only key the scraper uses is APIToken.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// APIToken is the bearer token sent to the scraper service, when it needs one.
const APIToken = "scraper-api-token"

// Set is a loaded secrets directory.
type Set map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields an empty Set. Unreadable files are logged and
// skipped.
func Load(dir string) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := Set{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "err", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}
	return set, nil
}

// Lookup returns the secret named key. An environment variable takes
// precedence: the key upper-cased, dashes replaced by underscores, under the
// given prefix (DOCSEND_SCRAPER_SCRAPER_API_TOKEN for APIToken).
func (s Set) Lookup(prefix, key string) (string, bool) {
	env := strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	if prefix != "" {
		env = prefix + "_" + env
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v, true
	}
	v, ok := s[key]
	return v, ok
}
