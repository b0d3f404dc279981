// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pdiddy/docsend-scraper/internal/app"
)

const sessionCookie = "docsend_scraper_session"

// sessionCache holds one app.Session per visitor, keyed by a cookie. Idle
// sessions expire after the TTL; evicted sessions are closed so requests
// still in flight for them stop updating state.
type sessionCache struct {
	mu      sync.Mutex
	cache   *expirable.LRU[string, *app.Session]
	factory func() *app.Session
}

func newSessionCache(size int, ttl time.Duration, factory func() *app.Session) *sessionCache {
	return &sessionCache{
		cache: expirable.NewLRU[string, *app.Session](size, func(_ string, s *app.Session) {
			s.Close()
		}, ttl),
		factory: factory,
	}
}

// get returns the visitor's session, creating and setting a cookie for a new
// one when needed. created is true for new sessions, which still need Mount.
func (c *sessionCache) get(w http.ResponseWriter, r *http.Request) (s *app.Session, created bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if s, ok := c.cache.Get(cookie.Value); ok {
			// Re-adding renews the expiry, making the TTL an idle timeout.
			c.cache.Add(cookie.Value, s)
			return s, false
		}
	}

	id := uuid.NewString()
	s = c.factory()
	c.cache.Add(id, s)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s, true
}

// Len returns the number of live sessions.
func (c *sessionCache) Len() int {
	return c.cache.Len()
}

// purge closes and drops every session.
func (c *sessionCache) purge() {
	c.cache.Purge()
}
