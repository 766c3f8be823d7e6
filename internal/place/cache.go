// Package place deduplicates jurisdiction hierarchies.
//
// A GEDCOM place is a comma separated list of jurisdictions ordered from
// the smallest to the largest ("Baltimore, Maryland, USA"). The importer
// creates one place entity per level and links each level to its
// enclosing level. Two levels are the same place when they have the same
// name and the same enclosing place, so the cache key is the pair
// (name, parent handle) and lookups run from the largest level down. A
// blank level is a level too: "Baltimore, , Maryland, USA" and
// "Baltimore, Maryland, USA" name different places.
package place

import (
	"slices"
	"strings"
	"sync"

	"github.com/nao1215/gedcom7import/internal/resolve"
)

// Key identifies one jurisdiction level.
type Key struct {
	Name   string
	Parent string
}

// Level is one interned level of a jurisdiction chain.
type Level struct {
	// Name is the trimmed jurisdiction name.
	Name string
	// Index is the position of the level in the written list, 0 being the
	// smallest jurisdiction. It selects the matching FORM entry.
	Index int
	// Handle is the place handle for this level.
	Handle string
	// Parent is the handle of the enclosing level, or "" at the top.
	Parent string
	// New is true when this call created the level.
	New bool
}

// Cache is the per-run place deduplication cache.
type Cache struct {
	mu        sync.Mutex
	entries   map[Key]string
	hits      int
	newHandle func() string
}

// Option configures a Cache.
type Option func(*Cache)

// WithHandleFunc replaces the handle generator.
func WithHandleFunc(fn func() string) Option {
	return func(c *Cache) {
		c.newHandle = fn
	}
}

// NewCache returns an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries:   make(map[Key]string),
		newHandle: resolve.NewHandle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Intern returns the handle for (name, parent), creating it if needed.
// isNew reports whether the handle was created by this call.
func (c *Cache) Intern(name, parent string) (handle string, isNew bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := Key{Name: name, Parent: parent}
	if h, ok := c.entries[k]; ok {
		c.hits++
		return h, false
	}
	h := c.newHandle()
	c.entries[k] = h
	return h, true
}

// Chain interns every level of names, which is ordered smallest first as
// written. The result is ordered from the largest jurisdiction to the
// smallest, so the last element is the terminal place. A blank level is
// interned under the name "" and stays part of the ancestry of the levels
// below it. A list with no non-blank level yields nil and touches nothing.
func (c *Cache) Chain(names []string) []Level {
	if !slices.ContainsFunc(names, func(s string) bool { return strings.TrimSpace(s) != "" }) {
		return nil
	}
	levels := make([]Level, 0, len(names))
	parent := ""
	for i := len(names) - 1; i >= 0; i-- {
		name := strings.TrimSpace(names[i])
		h, isNew := c.Intern(name, parent)
		levels = append(levels, Level{Name: name, Index: i, Handle: h, Parent: parent, New: isNew})
		parent = h
	}
	return levels
}

// Len returns the number of distinct levels seen.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Hits returns how many Intern calls were answered from the cache.
func (c *Cache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// Split splits a jurisdiction list on commas. Entries are trimmed but blank
// entries are kept so that positions still line up with a FORM list.
func Split(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
