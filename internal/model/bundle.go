package model

// Bundle is the ordered set of entities produced by one import. Entities
// keep insertion order so that output is stable across runs.
type Bundle struct {
	entities []Entity
	index    map[string]int
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{index: make(map[string]int)}
}

// Add stores e. It returns false when an entity with the same handle is
// already present, in which case the bundle is unchanged.
func (b *Bundle) Add(e Entity) bool {
	h := e.Core().Handle
	if _, ok := b.index[h]; ok {
		return false
	}
	b.index[h] = len(b.entities)
	b.entities = append(b.entities, e)
	return true
}

// Get returns the entity with the given handle.
func (b *Bundle) Get(handle string) (Entity, bool) {
	i, ok := b.index[handle]
	if !ok {
		return nil, false
	}
	return b.entities[i], true
}

// Len returns the number of entities.
func (b *Bundle) Len() int {
	return len(b.entities)
}

// All returns every entity in insertion order.
func (b *Bundle) All() []Entity {
	out := make([]Entity, len(b.entities))
	copy(out, b.entities)
	return out
}

// OfKind returns the entities of kind k in insertion order.
func (b *Bundle) OfKind(k Kind) []Entity {
	var out []Entity
	for _, e := range b.entities {
		if e.Kind() == k {
			out = append(out, e)
		}
	}
	return out
}

// Counts returns the number of entities per kind. Kinds without entities
// are present with a zero count.
func (b *Bundle) Counts() map[Kind]int {
	out := make(map[Kind]int, len(Kinds))
	for _, k := range Kinds {
		out[k] = 0
	}
	for _, e := range b.entities {
		out[e.Kind()]++
	}
	return out
}

func collect[T Entity](b *Bundle) []T {
	var out []T
	for _, e := range b.entities {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func lookup[T Entity](b *Bundle, handle string) (T, bool) {
	var zero T
	e, ok := b.Get(handle)
	if !ok {
		return zero, false
	}
	v, ok := e.(T)
	return v, ok
}

// People returns all persons.
func (b *Bundle) People() []*Person { return collect[*Person](b) }

// Families returns all families.
func (b *Bundle) Families() []*Family { return collect[*Family](b) }

// Events returns all events.
func (b *Bundle) Events() []*Event { return collect[*Event](b) }

// Places returns all places.
func (b *Bundle) Places() []*Place { return collect[*Place](b) }

// Sources returns all sources.
func (b *Bundle) Sources() []*Source { return collect[*Source](b) }

// Citations returns all citations.
func (b *Bundle) Citations() []*Citation { return collect[*Citation](b) }

// Repositories returns all repositories.
func (b *Bundle) Repositories() []*Repository { return collect[*Repository](b) }

// Notes returns all notes.
func (b *Bundle) Notes() []*Note { return collect[*Note](b) }

// Media returns all media objects.
func (b *Bundle) Media() []*Media { return collect[*Media](b) }

// Tags returns all tags.
func (b *Bundle) Tags() []*Tag { return collect[*Tag](b) }

// Person returns the person with the given handle.
func (b *Bundle) Person(handle string) (*Person, bool) { return lookup[*Person](b, handle) }

// Family returns the family with the given handle.
func (b *Bundle) Family(handle string) (*Family, bool) { return lookup[*Family](b, handle) }

// Event returns the event with the given handle.
func (b *Bundle) Event(handle string) (*Event, bool) { return lookup[*Event](b, handle) }

// Place returns the place with the given handle.
func (b *Bundle) Place(handle string) (*Place, bool) { return lookup[*Place](b, handle) }

// Source returns the source with the given handle.
func (b *Bundle) Source(handle string) (*Source, bool) { return lookup[*Source](b, handle) }

// Citation returns the citation with the given handle.
func (b *Bundle) Citation(handle string) (*Citation, bool) { return lookup[*Citation](b, handle) }

// Repository returns the repository with the given handle.
func (b *Bundle) Repository(handle string) (*Repository, bool) {
	return lookup[*Repository](b, handle)
}

// Note returns the note with the given handle.
func (b *Bundle) Note(handle string) (*Note, bool) { return lookup[*Note](b, handle) }

// MediaObject returns the media object with the given handle.
func (b *Bundle) MediaObject(handle string) (*Media, bool) { return lookup[*Media](b, handle) }
