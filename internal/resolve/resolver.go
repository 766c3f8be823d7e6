// Package resolve maps GEDCOM cross-reference identifiers to entity handles.
//
// Records may point at records that appear later in the document, so the
// resolver is filled by a pre-scan of the whole tree before any mapping
// happens. After the pre-scan every xref in the document has exactly one
// handle, and asking for an xref that was never seen is an error.
package resolve

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nao1215/gedcom7import/internal/gedcom"
)

// NewHandle returns a fresh handle: 32 lower-case hex characters.
func NewHandle() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHandleFunc replaces the handle generator. Tests use it to get
// predictable handles.
func WithHandleFunc(fn func() string) Option {
	return func(r *Resolver) {
		r.newHandle = fn
	}
}

// Resolver owns the xref to handle map of one import run.
type Resolver struct {
	mu        sync.Mutex
	handles   map[string]string
	order     []string
	newHandle func() string
}

// New returns an empty resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		handles:   make(map[string]string),
		newHandle: NewHandle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prescan mints a handle for every xref found anywhere in records,
// including xrefs on nested structures.
func (r *Resolver) Prescan(records []*gedcom.Node) {
	for _, rec := range records {
		rec.Walk(func(n *gedcom.Node) bool {
			if n.Xref != "" {
				r.Resolve(n.Xref)
			}
			return true
		})
	}
}

// Resolve returns the handle for xref, minting one on first use.
func (r *Resolver) Resolve(xref string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.handles[xref]; ok {
		return h
	}
	h := r.newHandle()
	r.handles[xref] = h
	r.order = append(r.order, xref)
	return h
}

// Lookup returns the handle of an xref seen by Prescan or Resolve. It
// fails with gedcom.ErrUnresolvedReference otherwise.
func (r *Resolver) Lookup(xref string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.handles[xref]; ok {
		return h, nil
	}
	return "", gedcom.Unresolved(nil, xref)
}

// LookupPointer resolves the pointer of n and reports the failure against
// n. Callers must check n.HasPointer first.
func (r *Resolver) LookupPointer(n *gedcom.Node) (string, error) {
	h, err := r.Lookup(n.Pointer)
	if err != nil {
		return "", gedcom.Unresolved(n, n.Pointer)
	}
	return h, nil
}

// Known reports whether xref has a handle.
func (r *Resolver) Known(xref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[xref]
	return ok
}

// Len returns the number of known xrefs.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Map returns a copy of the xref to handle map.
func (r *Resolver) Map() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.handles))
	for k, v := range r.handles {
		out[k] = v
	}
	return out
}

// Xrefs returns the known xrefs in the order they were first resolved.
func (r *Resolver) Xrefs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
