package mapper

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/gedcom7import/internal/extension"
	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
	"github.com/nao1215/gedcom7import/internal/place"
	"github.com/nao1215/gedcom7import/internal/resolve"
)

// Settings are the read-only inputs of a run.
type Settings struct {
	// DefaultPlaceForm names the jurisdiction levels of place names,
	// smallest first. HEAD.PLAC.FORM overrides it for one document.
	DefaultPlaceForm []string
}

// MediaProber enriches a media entity from the file its path points at.
type MediaProber interface {
	Probe(m *model.Media) error
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithSettings sets the run settings.
func WithSettings(s Settings) Option {
	return func(m *Mapper) {
		m.settings = s
	}
}

// WithRegistry sets the extension registry. The default registry enables
// every supported extension.
func WithRegistry(r *extension.Registry) Option {
	return func(m *Mapper) {
		m.registry = r
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) {
		m.logger = l
	}
}

// WithMediaProber enables media probing for OBJE records.
func WithMediaProber(p MediaProber) Option {
	return func(m *Mapper) {
		m.prober = p
	}
}

// WithHandleFunc replaces the handle generator of the mapper, its resolver
// and its place cache. Tests use it to get predictable handles.
func WithHandleFunc(fn func() string) Option {
	return func(m *Mapper) {
		m.newHandle = fn
	}
}

// Mapper maps the records of one document. It is not safe for concurrent
// use; batch imports create one Mapper per document.
type Mapper struct {
	settings  Settings
	registry  *extension.Registry
	logger    *slog.Logger
	prober    MediaProber
	newHandle func() string

	resolver     *resolve.Resolver
	places       *place.Cache
	bundle       *model.Bundle
	ids          *idAllocator
	header       Header
	placeForm    []string
	researcher   *model.Researcher
	diagnostics  []model.Diagnostic
	evidenceTag  string
	participants map[string][]participant
	parentLinks  []parentLink
	spouseLinks  []spouseLink
	records      map[string]*gedcom.Node
	links        []link

	tables tables
}

// New returns a Mapper ready for Prepare.
func New(opts ...Option) *Mapper {
	m := &Mapper{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		newHandle:    resolve.NewHandle,
		bundle:       model.NewBundle(),
		ids:          newIDAllocator(),
		participants: make(map[string][]participant),
		records:      make(map[string]*gedcom.Node),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = extension.NewRegistry()
	}
	m.resolver = resolve.New(resolve.WithHandleFunc(m.newHandle))
	m.places = place.NewCache(place.WithHandleFunc(m.newHandle))
	m.placeForm = m.settings.DefaultPlaceForm
	m.buildTables()
	return m
}

// Prepare mints a handle for every xref in records and reserves the
// document-local ids they imply. It must run before any mapping.
func (m *Mapper) Prepare(records []*gedcom.Node) {
	m.resolver.Prescan(records)
	for _, r := range records {
		if r.Xref != "" {
			m.records[r.Xref] = r
		}
	}
	for _, xref := range m.resolver.Xrefs() {
		if id, err := gedcom.ID(xref); err == nil {
			m.ids.reserve(id)
		}
	}
}

// mapsRecord reports whether MapRecord creates an entity for the record n.
// It needs the header to be mapped first, since HEAD.SCHMA decides which
// extension records are known.
func (m *Mapper) mapsRecord(n *gedcom.Node) bool {
	if n.IsExtension() {
		d := m.registry.Classify(n)
		return d.Status == extension.Known &&
			(d.ShortTag == extension.TagOccurrence || d.ShortTag == extension.TagEvidence)
	}
	switch n.Tag {
	case gedcom.TagIndividual, gedcom.TagFamily, gedcom.TagSource, gedcom.TagRepository,
		gedcom.TagSharedNote, gedcom.TagObject, gedcom.TagSubmitter:
		return true
	}
	return false
}

// MapRecord maps one top-level record. HEAD and TRLR are ignored here;
// the header is handled by MapHeader.
func (m *Mapper) MapRecord(n *gedcom.Node) error {
	if n.IsExtension() {
		return m.mapExtensionRecord(n)
	}

	var err error
	switch n.Tag {
	case gedcom.TagHeader, gedcom.TagTrailer:
		return nil
	case gedcom.TagIndividual:
		err = m.mapIndividual(n)
	case gedcom.TagFamily:
		err = m.mapFamily(n)
	case gedcom.TagSource:
		err = m.mapSource(n)
	case gedcom.TagRepository:
		err = m.mapRepository(n)
	case gedcom.TagSharedNote:
		err = m.mapSharedNote(n)
	case gedcom.TagObject:
		err = m.mapMedia(n)
	case gedcom.TagSubmitter:
		err = m.mapSubmitter(n)
	default:
		m.report(model.CodeUnknownTag, n, "unsupported record %s ignored", n.ShortTag())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to map %s record %s: %w", n.Tag, n.Xref, err)
	}
	return nil
}

// mapExtensionRecord routes a top-level extension record.
func (m *Mapper) mapExtensionRecord(n *gedcom.Node) error {
	d := m.registry.Classify(n)
	switch d.Status {
	case extension.Known:
	case extension.Undeclared:
		m.report(model.CodeUndeclaredExtension, n, "extension record %s is not declared in HEAD.SCHMA", d.ShortTag)
		return nil
	case extension.Disabled:
		m.report(model.CodeDisabledExtension, n, "extension %s is disabled", d.URI)
		return nil
	default:
		if m.registry.WarnUnknown() {
			m.report(model.CodeUnknownExtension, n, "unknown extension record %s dropped", d.ShortTag)
		}
		return nil
	}

	var err error
	switch d.ShortTag {
	case extension.TagOccurrence:
		err = m.mapOccurrence(n)
	case extension.TagEvidence:
		err = m.mapEvidence(n)
	default:
		m.report(model.CodeUnknownTag, n, "extension %s is not a record", d.ShortTag)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to map %s record %s: %w", d.ShortTag, n.Xref, err)
	}
	return nil
}

// Bundle returns the entities produced so far.
func (m *Mapper) Bundle() *model.Bundle {
	return m.bundle
}

// Header returns what MapHeader read.
func (m *Mapper) Header() Header {
	return m.header
}

// Researcher returns the researcher built from the HEAD.SUBM submitter, or
// nil when the document names none.
func (m *Mapper) Researcher() *model.Researcher {
	return m.researcher
}

// Diagnostics returns the diagnostics recorded so far in order.
func (m *Mapper) Diagnostics() []model.Diagnostic {
	out := make([]model.Diagnostic, len(m.diagnostics))
	copy(out, m.diagnostics)
	return out
}

// Xrefs returns a copy of the xref to handle map.
func (m *Mapper) Xrefs() map[string]string {
	return m.resolver.Map()
}

// PlacesReused returns how many jurisdiction levels were answered from the
// place cache.
func (m *Mapper) PlacesReused() int {
	return m.places.Hits()
}

// add stores an entity created during mapping and gives it a generated id
// when it has none.
func (m *Mapper) add(e model.Entity) {
	b := e.Core()
	if b.ID == "" {
		b.ID = m.ids.next(e.Kind())
	}
	m.bundle.Add(e)
}

// addRecord stores an entity created from a record. A second record with
// the same xref is a document error.
func (m *Mapper) addRecord(e model.Entity, n *gedcom.Node) error {
	if _, ok := m.bundle.Get(e.Core().Handle); ok {
		return gedcom.NewError(gedcom.ErrInvalidDocument, n, "duplicate xref %s", n.Xref)
	}
	m.add(e)
	return nil
}

// recordHandle returns the handle and id of a record. When required is
// false a record without xref gets a fresh handle and a generated id.
func (m *Mapper) recordHandle(n *gedcom.Node, required bool) (handle, id string, err error) {
	if n.Xref == "" && !required {
		return m.newHandle(), "", nil
	}
	id, err = gedcom.ID(n.Xref)
	if err != nil {
		return "", "", gedcom.NewError(gedcom.ErrMissingXref, n, "%s record requires an xref", n.ShortTag())
	}
	return m.resolver.Resolve(n.Xref), id, nil
}

// report records a diagnostic located at n.
func (m *Mapper) report(code string, n *gedcom.Node, format string, args ...any) {
	xref := ""
	if rec := n.Record(); rec != nil {
		xref = rec.Xref
	}
	d := model.NewDiagnostic(code, n.ShortTag(), xref, n.Line, fmt.Sprintf(format, args...))
	m.diagnostics = append(m.diagnostics, d)
	m.logger.Debug("import diagnostic",
		"severity", d.Severity.String(),
		"code", d.Code,
		"tag", d.Tag,
		"line", d.Line,
		"message", d.Message)
}
