// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scripts tracks the third-party script tags a document needs.
//
// Views that embed a widget Acquire its script when they mount and Release
// the handle when they unmount. A script stays in the document while at least
// one handle is held, so two views sharing a widget never remove it from under
// each other. Scripts that were present before any view asked for them are
// Pinned and never removed.
package scripts

import (
	"log/slog"
	"slices"
	"sync"
)

// Script describes one external script tag, keyed by Src.
type Script struct {
	Src   string
	Defer bool
	// Attrs holds extra attributes rendered on the tag, e.g. "async".
	Attrs map[string]string
}

type entry struct {
	script Script
	refs   int
	pinned bool
}

// Registry is a set of scripts keyed by source URL. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Pin records a script that is part of the document independently of any
// view. Pinned scripts survive every Release.
func (r *Registry) Pin(s Script) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[s.Src]; ok {
		e.pinned = true
		return
	}
	r.insert(s).pinned = true
}

// Acquire ensures s is present and returns a handle keeping it there. If a
// script with the same Src is already present, it is reused as is.
func (r *Registry) Acquire(s Script) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[s.Src]
	if !ok {
		e = r.insert(s)
		slog.Debug("script injected", "src", s.Src)
	}
	e.refs++
	return &Handle{registry: r, src: s.Src}
}

func (r *Registry) insert(s Script) *entry {
	e := &entry{script: s}
	r.entries[s.Src] = e
	r.order = append(r.order, s.Src)
	return e
}

func (r *Registry) release(src string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[src]
	if !ok {
		return
	}
	e.refs--
	if e.refs > 0 || e.pinned {
		return
	}
	delete(r.entries, src)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == src })
	slog.Debug("script removed", "src", src)
}

// Present reports whether a script with the given source is in the registry.
func (r *Registry) Present(src string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[src]
	return ok
}

// Refs returns the number of live handles on src.
func (r *Registry) Refs(src string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[src]; ok {
		return e.refs
	}
	return 0
}

// Scripts returns the present scripts in the order they were first added.
func (r *Registry) Scripts() []Script {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Script, 0, len(r.order))
	for _, src := range r.order {
		out = append(out, r.entries[src].script)
	}
	return out
}

// Handle keeps one reference on a script. Release is idempotent.
type Handle struct {
	registry *Registry
	src      string
	once     sync.Once
}

// Src returns the script source the handle refers to.
func (h *Handle) Src() string { return h.src }

// Release drops the reference. The script is removed when the last
// reference goes and it was not pinned.
func (h *Handle) Release() {
	h.once.Do(func() { h.registry.release(h.src) })
}
