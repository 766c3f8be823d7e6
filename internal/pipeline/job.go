package pipeline

import (
	"errors"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/importer"
	"github.com/nao1215/gedcom7import/internal/model"
)

// Job is the state of one file moving through a pipeline.
type Job struct {
	// Path is the file to import.
	Path string

	// Data holds the file bytes once ReadStep ran.
	Data []byte

	// Digest is the hex sha3-256 of Data.
	Digest string

	// Records is the decoded structure tree.
	Records []*gedcom.Node

	// Result is the mapper output.
	Result *importer.Result

	// Report summarises the run. It is never nil.
	Report *model.ImportReport

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string

	// Err is the error that stopped the job, if any.
	Err error

	skipped bool
}

// NewJob returns a job for path.
func NewJob(path string) *Job {
	return &Job{
		Path:   path,
		Report: model.NewImportReport(path),
	}
}

// Skip stops the job without an error. Later steps do not run.
func (j *Job) Skip(reason string) {
	j.skipped = true
	j.Report.Status = model.StatusSkipped
	j.Report.Error = reason
}

// Skipped reports whether a step skipped the job.
func (j *Job) Skipped() bool {
	return j.skipped
}

// fail records err on the job and its report. A located gedcom error also
// becomes an import_failed diagnostic carrying its tag, xref and line.
func (j *Job) fail(err error) {
	j.Err = err
	d := model.NewDiagnostic(model.CodeImportFailed, "", "", 0, err.Error())
	var gerr *gedcom.Error
	if errors.As(err, &gerr) {
		d.Tag, d.Xref, d.Line = gerr.Tag, gerr.Xref, gerr.Line
	}
	j.Report.Diagnostics = append(j.Report.Diagnostics, d)
	j.Report.Finish(err)
}
