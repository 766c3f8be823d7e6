package report

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/gedcom7import/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs one import report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ImportReport) (int, error)

	// WriteComparison outputs the difference between two runs.
	WriteComparison(c *Comparison) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.ImportReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteComparison outputs the comparison to all configured Writers.
func (m *MultiWriter) WriteComparison(c *Comparison) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteComparison(c)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

var titleCaser = cases.Title(language.English)

// CodeHeading turns a diagnostic code such as "missing_note" into a
// heading such as "Missing Note".
func CodeHeading(code string) string {
	return titleCaser.String(strings.ReplaceAll(code, "_", " "))
}

// KindCount is the entity count of one kind.
type KindCount struct {
	Kind  string
	Count int
}

// kindCounts returns the non-zero counts of a report in persistence order.
func kindCounts(report *model.ImportReport) []KindCount {
	out := make([]KindCount, 0, len(model.Kinds))
	for _, k := range model.Kinds {
		if n := report.Counts[k.String()]; n > 0 {
			out = append(out, KindCount{Kind: k.String(), Count: n})
		}
	}
	return out
}

// diagnosticsByCode groups diagnostics by code, most severe codes first.
func diagnosticsByCode(report *model.ImportReport) ([]string, map[string][]model.Diagnostic) {
	_, codes := report.CodeCounts()
	grouped := make(map[string][]model.Diagnostic, len(codes))
	for _, d := range report.Diagnostics {
		grouped[d.Code] = append(grouped[d.Code], d)
	}
	return codes, grouped
}

// statusText describes the outcome of a run in one line.
func statusText(report *model.ImportReport) string {
	switch report.Status {
	case model.StatusFailed:
		return "Failed - " + report.Error
	case model.StatusSkipped:
		if report.Error != "" {
			return "Skipped - " + report.Error
		}
		return "Skipped"
	case model.StatusSucceeded:
		return "Succeeded"
	default:
		return "In progress"
	}
}

// location renders where a diagnostic was raised, or "-".
func location(d model.Diagnostic) string {
	var parts []string
	if d.Line > 0 {
		parts = append(parts, "line "+strconv.Itoa(d.Line))
	}
	if d.Xref != "" {
		parts = append(parts, d.Xref)
	}
	if d.Tag != "" {
		parts = append(parts, d.Tag)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
