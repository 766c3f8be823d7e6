package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/gedcom7import/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with nothing to list are shown.
	showEmpty bool

	// verbose lists every diagnostic instead of one line per code.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with every diagnostic listed.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ImportReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeEntities(&sb, report)
	w.writeDiagnostics(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteComparison outputs the deltas between two runs.
func (w *SimpleWriter) WriteComparison(c *Comparison) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "RUN COMPARISON")
	fmt.Fprintf(&sb, "Base:    run %d  %s  %s\n", c.Base.RunID, c.Base.Source, formatTime(c.Base.StartedAt))
	fmt.Fprintf(&sb, "Target:  run %d  %s  %s\n", c.Target.RunID, c.Target.Source, formatTime(c.Target.StartedAt))
	if c.SameDigest {
		sb.WriteString("Input:   identical documents\n")
	} else {
		sb.WriteString("Input:   different documents\n")
	}
	sb.WriteString("\n")

	writeSection(&sb, "ENTITIES")
	writeDeltas(&sb, c.Entities)
	writeDeltas(&sb, []Delta{c.Total()})
	sb.WriteString("\n")

	if len(c.Diagnostics) > 0 || w.showEmpty {
		writeSection(&sb, "DIAGNOSTICS")
		writeDeltas(&sb, c.Diagnostics)
		sb.WriteString("\n")
	}

	if !c.Changed() {
		sb.WriteString("No differences.\n\n")
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ImportReport) {
	writeBanner(sb, "GEDCOM 7 IMPORT REPORT")

	fmt.Fprintf(sb, "Source:         %s\n", report.Source)
	if report.Digest != "" {
		fmt.Fprintf(sb, "Digest:         %s\n", report.Digest)
	}
	if report.RunID != 0 {
		fmt.Fprintf(sb, "Run:            %d\n", report.RunID)
	}
	if report.GedcomVersion != "" {
		version := report.GedcomVersion
		if report.SourceSystem != "" {
			version += " (" + report.SourceSystem + ")"
		}
		fmt.Fprintf(sb, "GEDCOM:         %s\n", version)
	}
	fmt.Fprintf(sb, "Started:        %s\n", formatTime(report.StartedAt))
	if d := report.Duration(); d > 0 {
		fmt.Fprintf(sb, "Duration:       %s\n", d.Round(time.Millisecond))
	}
	fmt.Fprintf(sb, "Records:        %d\n", report.Records)
	fmt.Fprintf(sb, "Status:         %s\n", statusText(report))
	if r := report.Researcher; r != nil && r.Name != "" {
		fmt.Fprintf(sb, "Researcher:     %s\n", r.Name)
	}
	sb.WriteString("\n")
}

// writeEntities writes the per-kind entity counts.
func (w *SimpleWriter) writeEntities(sb *strings.Builder, report *model.ImportReport) {
	counts := kindCounts(report)
	if len(counts) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, "ENTITIES")
	if len(counts) == 0 {
		sb.WriteString("  No entities created\n\n")
		return
	}
	for _, c := range counts {
		fmt.Fprintf(sb, "  %-12s %6d\n", c.Kind, c.Count)
	}
	fmt.Fprintf(sb, "  %-12s %6d\n", "TOTAL", report.Total())
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  Places reused: %d\n\n", report.PlacesReused)
}

// writeDiagnostics writes diagnostics grouped by code.
func (w *SimpleWriter) writeDiagnostics(sb *strings.Builder, report *model.ImportReport) {
	if len(report.Diagnostics) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, "DIAGNOSTICS")
	fmt.Fprintf(sb, "  ERROR:   %d\n", report.CountBySeverity(model.SeverityError))
	fmt.Fprintf(sb, "  WARNING: %d\n", report.CountBySeverity(model.SeverityWarning))
	fmt.Fprintf(sb, "  INFO:    %d\n\n", report.CountBySeverity(model.SeverityInfo))

	codes, grouped := diagnosticsByCode(report)
	for _, code := range codes {
		diags := grouped[code]
		info := model.GetDiagnosticInfo(code)
		fmt.Fprintf(sb, "[%s] %s (%d)\n", severityIndicator(info.Severity), CodeHeading(code), len(diags))
		fmt.Fprintf(sb, "    %s\n", info.Title)
		if w.verbose {
			for _, d := range diags {
				fmt.Fprintf(sb, "  * %s: %s\n", location(d), d.Message)
			}
		}
		sb.WriteString("\n")
	}
}

// severityIndicator returns a visual indicator for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityError:
		return "!!"
	case model.SeverityWarning:
		return "!"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by gedcom7import\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	pad := max((ruleWidth-len(title))/2, 0)
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func writeDeltas(sb *strings.Builder, rows []Delta) {
	for _, d := range rows {
		fmt.Fprintf(sb, "  %-12s %6d -> %6d  (%s)\n", d.Name, d.Base, d.Target, signed(d.Change()))
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05 MST")
}
