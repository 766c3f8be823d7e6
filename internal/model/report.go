package model

import (
	"slices"
	"time"
)

// ImportStatus is the outcome of one import run.
type ImportStatus string

const (
	StatusSucceeded ImportStatus = "succeeded"
	StatusFailed    ImportStatus = "failed"
	StatusSkipped   ImportStatus = "skipped"
)

// ImportReport summarises one import run. It is what reports print and what
// the store records next to the entities.
type ImportReport struct {
	// RunID is assigned by the store. Zero means not persisted.
	RunID int64 `json:"run_id,omitempty"`

	// Source is the file path or a label for the input.
	Source string `json:"source"`

	// Digest is the hex SHA3-256 of the input bytes.
	Digest string `json:"digest,omitempty"`

	// GedcomVersion is HEAD.GEDC.VERS.
	GedcomVersion string `json:"gedcom_version,omitempty"`

	// SourceSystem is HEAD.SOUR.
	SourceSystem string `json:"source_system,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`

	Status ImportStatus `json:"status"`

	// Error is the message of the error that aborted the run.
	Error string `json:"error,omitempty"`

	// Records is the number of top-level records read, HEAD and TRLR included.
	Records int `json:"records"`

	// Counts holds the number of entities per kind name.
	Counts map[string]int `json:"counts"`

	// PlacesReused counts jurisdiction lookups served by the place cache.
	PlacesReused int `json:"places_reused"`

	Researcher *Researcher `json:"researcher,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// NewImportReport starts a report for source.
func NewImportReport(source string) *ImportReport {
	return &ImportReport{
		Source:    source,
		StartedAt: time.Now().UTC(),
		Counts:    make(map[string]int),
	}
}

// SetCounts copies per-kind counts from a bundle.
func (r *ImportReport) SetCounts(b *Bundle) {
	r.Counts = make(map[string]int, len(Kinds))
	for k, n := range b.Counts() {
		r.Counts[k.String()] = n
	}
}

// Total returns the number of entities across all kinds.
func (r *ImportReport) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// CountBySeverity returns the number of diagnostics at severity s.
func (r *ImportReport) CountBySeverity(s Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// CodeCounts returns the number of diagnostics per code, and the codes
// sorted by descending severity then name.
func (r *ImportReport) CodeCounts() (map[string]int, []string) {
	counts := make(map[string]int)
	for _, d := range r.Diagnostics {
		counts[d.Code]++
	}
	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, c)
	}
	slices.SortFunc(codes, func(a, b string) int {
		sa, sb := GetDiagnosticInfo(a).Severity, GetDiagnosticInfo(b).Severity
		if sa != sb {
			return int(sb) - int(sa)
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	})
	return counts, codes
}

// Finish marks the run as finished with err (nil on success). A finish
// time that is already set is kept.
func (r *ImportReport) Finish(err error) {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}
	if err != nil {
		r.Status = StatusFailed
		r.Error = err.Error()
		return
	}
	if r.Status == "" {
		r.Status = StatusSucceeded
	}
}

// Duration returns how long the run took, or 0 if unfinished.
func (r *ImportReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
