// Package extension knows which GEDCOM extension tags the importer can map.
//
// Three community schemas are supported: shared occurrence events,
// evidence containers and citation templates. A Registry is built per
// import run from the settings and the document's HEAD.SCHMA
// declarations, and classifies every extension structure the mapper meets.
package extension

import (
	"maps"
	"slices"

	"github.com/nao1215/gedcom7import/internal/gedcom"
)

// Supported schema URIs.
const (
	URIOccurrences = "https://github.com/glamberson/gedcom-occurrences"
	URIEvidence    = "https://github.com/glamberson/gedcom-evidence"
	URICitations   = "https://github.com/dthaler/gedcom-citations"
)

// Extension tags, by schema.
const (
	TagOccurrence    = "_OCUR"
	TagOccurrenceRef = "_OCREF"
	TagParticipant   = "_PART"
	TagPresence      = "_PRESENCE"
	TagAttribute     = "_ATTR"

	TagEvidence     = "_EVID"
	TagFinding      = "_FIND"
	TagEvidenceID   = "_ID"
	TagConfidence   = "_CONF"
	TagConclusion   = "_CONC"
	TagActivity     = "_RACT"
	TagResearchDocs = "_RDOC"

	TagTemplate = "_TMPLT"
	TagField    = "_FIEL"
)

var knownTags = map[string]string{
	TagOccurrence:    URIOccurrences,
	TagOccurrenceRef: URIOccurrences,
	TagParticipant:   URIOccurrences,
	TagPresence:      URIOccurrences,
	TagAttribute:     URIOccurrences,
	TagEvidence:      URIEvidence,
	TagFinding:       URIEvidence,
	TagEvidenceID:    URIEvidence,
	TagConfidence:    URIEvidence,
	TagConclusion:    URIEvidence,
	TagActivity:      URIEvidence,
	TagResearchDocs:  URIEvidence,
	TagTemplate:      URICitations,
	TagField:         URICitations,
}

// Supported returns the supported schema URIs in a stable order.
func Supported() []string {
	return []string{URIOccurrences, URIEvidence, URICitations}
}

// Status is the outcome of classifying a structure.
type Status int

const (
	// NotExtension is a standard GEDCOM structure.
	NotExtension Status = iota
	// Known is a supported extension that should be mapped.
	Known
	// Unknown is an extension tag the importer has no mapping for, or a
	// supported tag name declared with a foreign URI.
	Unknown
	// Undeclared is a supported tag missing from HEAD.SCHMA while strict
	// mode is on.
	Undeclared
	// Disabled is a supported tag whose schema was turned off.
	Disabled
)

// String returns a lower-case label.
func (s Status) String() string {
	switch s {
	case NotExtension:
		return "standard"
	case Known:
		return "known"
	case Unknown:
		return "unknown"
	case Undeclared:
		return "undeclared"
	case Disabled:
		return "disabled"
	default:
		return "invalid"
	}
}

// Decision is the classification of one structure.
type Decision struct {
	Status   Status
	ShortTag string
	URI      string
}

// Option configures a Registry.
type Option func(*Registry)

// WithStrict drops supported tags that the document did not declare.
func WithStrict(strict bool) Option {
	return func(r *Registry) {
		r.strict = strict
	}
}

// WithWarnUnknown controls whether unknown extension records produce a
// warning diagnostic. It defaults to true.
func WithWarnUnknown(warn bool) Option {
	return func(r *Registry) {
		r.warnUnknown = warn
	}
}

// WithEnabled restricts the registry to the given schema URIs. Unsupported
// URIs are ignored.
func WithEnabled(uris ...string) Option {
	return func(r *Registry) {
		r.enabled = make(map[string]bool)
		for _, u := range uris {
			if slices.Contains(Supported(), u) {
				r.enabled[u] = true
			}
		}
	}
}

// Registry classifies extension structures for one import run.
type Registry struct {
	declared    map[string]string
	enabled     map[string]bool
	strict      bool
	warnUnknown bool
}

// NewRegistry returns a registry with every supported schema enabled.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		declared:    make(map[string]string),
		enabled:     make(map[string]bool),
		warnUnknown: true,
	}
	for _, u := range Supported() {
		r.enabled[u] = true
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Declare records HEAD.SCHMA declarations (short tag to URI).
func (r *Registry) Declare(schema map[string]string) {
	maps.Copy(r.declared, schema)
}

// Declared returns the URIs declared by the document that the importer
// supports, sorted.
func (r *Registry) Declared() []string {
	seen := make(map[string]bool)
	for _, uri := range r.declared {
		if slices.Contains(Supported(), uri) {
			seen[uri] = true
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Strict reports whether strict mode is on.
func (r *Registry) Strict() bool {
	return r.strict
}

// WarnUnknown reports whether unknown extensions should be warned about.
func (r *Registry) WarnUnknown() bool {
	return r.warnUnknown
}

// Classify decides what to do with n.
func (r *Registry) Classify(n *gedcom.Node) Decision {
	if !n.IsExtension() {
		return Decision{Status: NotExtension, ShortTag: n.ShortTag()}
	}
	short := n.ShortTag()
	d := Decision{ShortTag: short, URI: r.declared[short]}

	uri, ok := knownTags[short]
	if !ok {
		d.Status = Unknown
		return d
	}
	if d.URI != "" && d.URI != uri {
		d.Status = Unknown
		return d
	}
	d.URI = uri
	switch {
	case !r.enabled[uri]:
		d.Status = Disabled
	case r.strict && r.declared[short] == "":
		d.Status = Undeclared
	default:
		d.Status = Known
	}
	return d
}
