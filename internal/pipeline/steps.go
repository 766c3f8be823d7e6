package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/importer"
	"github.com/nao1215/gedcom7import/internal/model"
)

// DefaultMaxFileSize is the largest document ReadStep accepts.
const DefaultMaxFileSize int64 = 256 * 1024 * 1024

// RunFinder looks up a stored run by document digest. It returns nil and no
// error when no run matches.
type RunFinder interface {
	FindRunByDigest(ctx context.Context, digest string) (*model.ImportReport, error)
}

// RunSaver persists one import run with its entities.
type RunSaver interface {
	SaveImport(ctx context.Context, report *model.ImportReport, bundle *model.Bundle, xrefs map[string]string) (int64, error)
}

// ReadStep loads the file and computes its digest.
type ReadStep struct {
	maxSize int64
}

// ReadStepOption configures a ReadStep.
type ReadStepOption func(*ReadStep)

// WithMaxFileSize sets the size limit in bytes.
func WithMaxFileSize(n int64) ReadStepOption {
	return func(s *ReadStep) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// NewReadStep creates a ReadStep.
func NewReadStep(opts ...ReadStepOption) *ReadStep {
	s := &ReadStep{maxSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ReadStep) Name() string {
	return "read"
}

// Do reads job.Path.
func (s *ReadStep) Do(_ context.Context, job *Job) error {
	f, err := os.Open(job.Path) //nolint:gosec // path is given by the user
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", job.Path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxSize+1))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", job.Path, err)
	}
	if int64(len(data)) > s.maxSize {
		return fmt.Errorf("%s is larger than %d bytes", job.Path, s.maxSize)
	}
	job.Data = data
	job.Digest = importer.Digest(data)
	job.Report.Digest = job.Digest
	return nil
}

// DedupeStep skips documents whose digest is already stored.
type DedupeStep struct {
	finder RunFinder
	force  bool
	logger *slog.Logger
}

// DedupeStepOption configures a DedupeStep.
type DedupeStepOption func(*DedupeStep)

// WithForce imports documents even when they were imported before.
func WithForce(force bool) DedupeStepOption {
	return func(s *DedupeStep) {
		s.force = force
	}
}

// WithDedupeLogger sets the logger of the step.
func WithDedupeLogger(logger *slog.Logger) DedupeStepOption {
	return func(s *DedupeStep) {
		s.logger = logger
	}
}

// NewDedupeStep creates a DedupeStep backed by finder.
func NewDedupeStep(finder RunFinder, opts ...DedupeStepOption) *DedupeStep {
	s := &DedupeStep{finder: finder, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *DedupeStep) Name() string {
	return "dedupe"
}

// Do skips the job when a run with the same digest exists.
func (s *DedupeStep) Do(ctx context.Context, job *Job) error {
	if s.force || job.Digest == "" {
		return nil
	}
	prev, err := s.finder.FindRunByDigest(ctx, job.Digest)
	if err != nil {
		return fmt.Errorf("failed to look up digest: %w", err)
	}
	if prev == nil {
		return nil
	}
	s.logger.Debug("document already imported", "source", job.Path, "run_id", prev.RunID)
	job.Report.RunID = prev.RunID
	job.Skip(fmt.Sprintf("already imported as run %d", prev.RunID))
	return nil
}

// DecodeStep parses the file bytes into a structure tree.
type DecodeStep struct{}

// NewDecodeStep creates a DecodeStep.
func NewDecodeStep() *DecodeStep {
	return &DecodeStep{}
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return "decode"
}

// Do decodes job.Data.
func (s *DecodeStep) Do(_ context.Context, job *Job) error {
	records, err := gedcom.Decode(bytes.NewReader(job.Data))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", job.Path, err)
	}
	job.Records = records
	job.Report.Records = len(records)
	return nil
}

// ImportStep maps the decoded records.
type ImportStep struct {
	importer *importer.Importer

	// importerFor picks a per-file importer. A nil result falls back to
	// importer.
	importerFor func(path string) *importer.Importer
}

// ImportStepOption configures an ImportStep.
type ImportStepOption func(*ImportStep)

// WithImporterFor selects the importer per document path, so files can
// carry their own place form or extension policy.
func WithImporterFor(fn func(path string) *importer.Importer) ImportStepOption {
	return func(s *ImportStep) {
		s.importerFor = fn
	}
}

// NewImportStep creates an ImportStep around imp.
func NewImportStep(imp *importer.Importer, opts ...ImportStepOption) *ImportStep {
	s := &ImportStep{importer: imp}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ImportStep) Name() string {
	return "import"
}

// Do runs the importer and replaces the job report with the mapped one.
func (s *ImportStep) Do(ctx context.Context, job *Job) error {
	imp := s.importer
	if s.importerFor != nil {
		if selected := s.importerFor(job.Path); selected != nil {
			imp = selected
		}
	}
	res, err := imp.Import(ctx, job.Records)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", job.Path, err)
	}
	res.Source = job.Path
	res.Digest = job.Digest
	job.Result = res

	rep := res.Report()
	rep.StartedAt = job.Report.StartedAt
	job.Report = rep
	return nil
}

// PersistStep stores the mapped run.
type PersistStep struct {
	saver RunSaver
}

// NewPersistStep creates a PersistStep backed by saver.
func NewPersistStep(saver RunSaver) *PersistStep {
	return &PersistStep{saver: saver}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do saves the report, bundle and xref map in one store call.
func (s *PersistStep) Do(ctx context.Context, job *Job) error {
	if job.Result == nil {
		return fmt.Errorf("nothing to persist for %s", job.Path)
	}
	id, err := s.saver.SaveImport(ctx, job.Report, job.Result.Bundle, job.Result.Xrefs)
	if err != nil {
		return fmt.Errorf("failed to persist %s: %w", job.Path, err)
	}
	job.Report.RunID = id
	return nil
}

// Store is what DefaultPipeline needs from the persistence layer.
type Store interface {
	RunFinder
	RunSaver
}

// DefaultPipelineConfig holds the settings of the default pipeline.
type DefaultPipelineConfig struct {
	// Force imports documents that were imported before.
	Force bool

	// DryRun maps documents without touching the store.
	DryRun bool

	// MaxFileSize is the largest document accepted, in bytes.
	MaxFileSize int64

	// ImporterFor overrides the importer per document path.
	ImporterFor func(path string) *importer.Importer
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineForce sets Force.
func WithPipelineForce(force bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Force = force
	}
}

// WithPipelineDryRun sets DryRun.
func WithPipelineDryRun(dryRun bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.DryRun = dryRun
	}
}

// WithPipelineMaxFileSize sets MaxFileSize.
func WithPipelineMaxFileSize(n int64) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MaxFileSize = n
	}
}

// WithPipelineImporterFor sets ImporterFor.
func WithPipelineImporterFor(fn func(path string) *importer.Importer) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.ImporterFor = fn
	}
}

// DefaultPipeline builds read, dedupe, decode, import and persist. In dry
// run mode, or when store is nil, the store steps are left out.
func DefaultPipeline(imp *importer.Importer, store Store, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{MaxFileSize: DefaultMaxFileSize}
	for _, opt := range configOpts {
		opt(cfg)
	}
	useStore := store != nil && !cfg.DryRun

	p.AddStep(NewReadStep(WithMaxFileSize(cfg.MaxFileSize)))
	if useStore {
		p.AddStep(NewDedupeStep(store, WithForce(cfg.Force), WithDedupeLogger(p.logger)))
	}
	p.AddSteps(NewDecodeStep(), NewImportStep(imp, WithImporterFor(cfg.ImporterFor)))
	if useStore {
		p.AddStep(NewPersistStep(store))
	}
	return p
}
