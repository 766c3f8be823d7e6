// Package importer runs one GEDCOM 7 document through the mapper.
//
// An Importer checks the document framing, pre-populates the handle
// resolver, maps HEAD, maps every other record in document order and runs
// the link pass. Every call to Import builds a fresh mapper, resolver,
// place cache and extension registry, so one Importer may be shared by
// concurrent batch workers.
package importer

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/gedcom7import/internal/extension"
	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/mapper"
	"github.com/nao1215/gedcom7import/internal/media"
	"github.com/nao1215/gedcom7import/internal/model"
)

// Settings are the per-run inputs shared by every document.
type Settings struct {
	// DefaultPlaceForm names the jurisdiction levels of place names,
	// smallest first. HEAD.PLAC.FORM overrides it per document.
	DefaultPlaceForm []string

	// Strict drops supported extension tags the document did not declare
	// in HEAD.SCHMA.
	Strict bool

	// WarnUnknown reports unknown extension records as warnings.
	WarnUnknown bool

	// Extensions restricts the enabled extension schemas to these URIs.
	// Empty enables every supported schema.
	Extensions []string

	// MediaRoot enables media probing for files under this directory.
	MediaRoot string
}

// DefaultSettings returns the settings used when none are given.
func DefaultSettings() Settings {
	return Settings{WarnUnknown: true}
}

// Option configures an Importer.
type Option func(*Importer)

// WithSettings sets the run settings.
func WithSettings(s Settings) Option {
	return func(i *Importer) {
		i.settings = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Importer) {
		i.logger = l
	}
}

// WithMapperOptions appends options to every mapper the importer builds.
// Tests use it to pin handle generation.
func WithMapperOptions(opts ...mapper.Option) Option {
	return func(i *Importer) {
		i.mapperOpts = append(i.mapperOpts, opts...)
	}
}

// Importer maps documents into entity bundles.
type Importer struct {
	settings   Settings
	logger     *slog.Logger
	mapperOpts []mapper.Option
}

// New returns an Importer.
func New(opts ...Option) *Importer {
	i := &Importer{
		settings: DefaultSettings(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Settings returns the importer settings.
func (i *Importer) Settings() Settings {
	return i.settings
}

// Result is the output of one import.
type Result struct {
	Source       string
	Digest       string
	Records      int
	Header       mapper.Header
	Researcher   *model.Researcher
	Bundle       *model.Bundle
	Xrefs        map[string]string
	Diagnostics  []model.Diagnostic
	PlacesReused int
	// Extensions lists the supported schema URIs the document declared.
	Extensions []string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Counts returns the number of entities per kind.
func (r *Result) Counts() map[model.Kind]int {
	return r.Bundle.Counts()
}

// Warnings returns the diagnostics at warning severity or above.
func (r *Result) Warnings() []model.Diagnostic {
	var out []model.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity >= model.SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Report converts the result into a succeeded import report.
func (r *Result) Report() *model.ImportReport {
	rep := &model.ImportReport{
		Source:        r.Source,
		Digest:        r.Digest,
		GedcomVersion: r.Header.GedcomVersion,
		SourceSystem:  r.Header.SourceSystem,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		Status:        model.StatusSucceeded,
		Records:       r.Records,
		PlacesReused:  r.PlacesReused,
		Researcher:    r.Researcher,
		Diagnostics:   r.Diagnostics,
	}
	rep.SetCounts(r.Bundle)
	return rep
}

// registry builds the extension registry for one run.
func (i *Importer) registry() *extension.Registry {
	opts := []extension.Option{
		extension.WithStrict(i.settings.Strict),
		extension.WithWarnUnknown(i.settings.WarnUnknown),
	}
	if len(i.settings.Extensions) > 0 {
		opts = append(opts, extension.WithEnabled(i.settings.Extensions...))
	}
	return extension.NewRegistry(opts...)
}

func (i *Importer) newMapper(registry *extension.Registry) *mapper.Mapper {
	opts := []mapper.Option{
		mapper.WithSettings(mapper.Settings{DefaultPlaceForm: i.settings.DefaultPlaceForm}),
		mapper.WithRegistry(registry),
		mapper.WithLogger(i.logger),
	}
	if i.settings.MediaRoot != "" {
		opts = append(opts, mapper.WithMediaProber(media.NewProber(i.settings.MediaRoot)))
	}
	return mapper.New(append(opts, i.mapperOpts...)...)
}

// Import maps a decoded document. records must start with HEAD and hold at
// least one more record; a missing TRLR only produces a diagnostic.
func (i *Importer) Import(ctx context.Context, records []*gedcom.Node) (*Result, error) {
	started := time.Now().UTC()
	if len(records) < 2 {
		return nil, gedcom.NewError(gedcom.ErrInvalidDocument, nil, "document has %d records, want HEAD and at least one more", len(records))
	}

	registry := i.registry()
	m := i.newMapper(registry)
	m.Prepare(records)
	header, err := m.MapHeader(records[0])
	if err != nil {
		return nil, err
	}

	body := records[1:]
	var diags []model.Diagnostic
	if last := body[len(body)-1]; !last.Is(gedcom.TagTrailer) {
		diags = append(diags, model.NewDiagnostic(model.CodeMissingTrailer, gedcom.TagTrailer, "", last.Line,
			"document ends without TRLR"))
	}

	for _, n := range body {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("import canceled: %w", err)
		}
		if err := m.MapRecord(n); err != nil {
			return nil, err
		}
	}
	if err := m.Finalize(); err != nil {
		return nil, err
	}

	res := &Result{
		Records:      len(records),
		Header:       header,
		Researcher:   m.Researcher(),
		Bundle:       m.Bundle(),
		Xrefs:        m.Xrefs(),
		Diagnostics:  append(m.Diagnostics(), diags...),
		PlacesReused: m.PlacesReused(),
		Extensions:   registry.Declared(),
		StartedAt:    started,
		FinishedAt:   time.Now().UTC(),
	}
	i.logger.Debug("document mapped",
		"records", res.Records,
		"entities", res.Bundle.Len(),
		"diagnostics", len(res.Diagnostics))
	return res, nil
}

// ImportReader reads, digests, decodes and imports a document. source
// labels the input in the result.
func (i *Importer) ImportReader(ctx context.Context, r io.Reader, source string) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return i.ImportBytes(ctx, data, source)
}

// ImportBytes decodes and imports a document held in memory.
func (i *Importer) ImportBytes(ctx context.Context, data []byte, source string) (*Result, error) {
	records, err := gedcom.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", source, err)
	}
	res, err := i.Import(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", source, err)
	}
	res.Source = source
	res.Digest = Digest(data)
	return res, nil
}

// ImportFile imports the document at path.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is given by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return i.ImportBytes(ctx, data, path)
}

// Digest returns the hex encoded sha3-256 digest of a document.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
