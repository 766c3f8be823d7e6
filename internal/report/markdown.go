package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/gedcom7import/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for documentation and
// sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ImportReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeEntities(md, report)
	w.writeDiagnostics(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteComparison outputs the deltas between two runs as tables.
func (w *MarkdownWriter) WriteComparison(c *Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Run Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"", "Base", "Target"},
		Rows: [][]string{
			{"Run", strconv.FormatInt(c.Base.RunID, 10), strconv.FormatInt(c.Target.RunID, 10)},
			{"Source", "`" + c.Base.Source + "`", "`" + c.Target.Source + "`"},
			{"Started", formatTime(c.Base.StartedAt), formatTime(c.Target.StartedAt)},
			{"Status", statusText(c.Base), statusText(c.Target)},
		},
	})
	md.PlainText("")

	if c.SameDigest {
		md.Note("Both runs imported identical documents.")
		md.PlainText("")
	}

	md.H2("Entities")
	md.PlainText("")
	rows := deltaRows(c.Entities)
	total := c.Total()
	rows = append(rows, []string{
		"**Total**",
		"**" + strconv.Itoa(total.Base) + "**",
		"**" + strconv.Itoa(total.Target) + "**",
		"**" + signed(total.Change()) + "**",
	})
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Base", "Target", "Change"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(c.Diagnostics) > 0 {
		md.H2("Diagnostics")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Severity", "Base", "Target", "Change"},
			Rows:   deltaRows(c.Diagnostics),
		})
		md.PlainText("")
	}

	if !c.Changed() {
		md.Tip("No differences between the runs.")
		md.PlainText("")
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func deltaRows(deltas []Delta) [][]string {
	rows := make([][]string, 0, len(deltas)+1)
	for _, d := range deltas {
		rows = append(rows, []string{d.Name, strconv.Itoa(d.Base), strconv.Itoa(d.Target), signed(d.Change())})
	}
	return rows
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ImportReport) {
	md.H1("GEDCOM 7 Import Report")
	md.PlainText("")

	rows := [][]string{
		{"Source", "`" + report.Source + "`"},
	}
	if report.Digest != "" {
		rows = append(rows, []string{"Digest", "`" + report.Digest + "`"})
	}
	if report.RunID != 0 {
		rows = append(rows, []string{"Run", strconv.FormatInt(report.RunID, 10)})
	}
	if report.GedcomVersion != "" {
		rows = append(rows, []string{"GEDCOM Version", report.GedcomVersion})
	}
	if report.SourceSystem != "" {
		rows = append(rows, []string{"Source System", report.SourceSystem})
	}
	rows = append(rows,
		[]string{"Started", formatTime(report.StartedAt)},
		[]string{"Records", strconv.Itoa(report.Records)},
		[]string{"Status", w.getStatusText(report)},
	)
	if r := report.Researcher; r != nil && r.Name != "" {
		rows = append(rows, []string{"Researcher", r.Name})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ImportReport) string {
	switch report.Status {
	case model.StatusFailed:
		return "❌ " + statusText(report)
	case model.StatusSkipped:
		return "⏭️ " + statusText(report)
	case model.StatusSucceeded:
		return "✅ " + statusText(report)
	default:
		return statusText(report)
	}
}

// writeEntities writes the per-kind count table and the kind distribution.
func (w *MarkdownWriter) writeEntities(md *markdown.Markdown, report *model.ImportReport) {
	md.H2("Entities")
	md.PlainText("")

	counts := kindCounts(report)
	if len(counts) == 0 {
		md.PlainText("No entities created.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(counts)+1)
	for _, c := range counts {
		rows = append(rows, []string{c.Kind, strconv.Itoa(c.Count)})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(report.Total()) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainTextf("Places reused from the cache: %d", report.PlacesReused)
	md.PlainText("")

	w.writePieChart(md, counts)
}

// writePieChart writes a mermaid pie chart of entity kinds.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts []KindCount) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Entities by Kind"),
		piechart.WithShowData(true),
	)
	for _, c := range counts {
		chart.LabelAndIntValue(c.Kind, uint64(c.Count)) //nolint:gosec // counts are never negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeDiagnostics writes an alert and the diagnostics grouped by code.
func (w *MarkdownWriter) writeDiagnostics(md *markdown.Markdown, report *model.ImportReport) {
	md.H2("Diagnostics")
	md.PlainText("")

	w.writeAlert(md, report)
	if len(report.Diagnostics) == 0 {
		return
	}

	codes, grouped := diagnosticsByCode(report)
	for _, code := range codes {
		diags := grouped[code]
		md.PlainTextf("### %s (%d)", CodeHeading(code), len(diags))
		md.PlainText("")
		md.PlainText(model.GetDiagnosticInfo(code).Title)
		md.PlainText("")

		rows := make([][]string, len(diags))
		for i, d := range diags {
			rows[i] = []string{location(d), truncateString(d.Message, 80)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Location", "Message"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeAlert writes an alert matching the most severe diagnostic.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ImportReport) {
	errs := report.CountBySeverity(model.SeverityError)
	warnings := report.CountBySeverity(model.SeverityWarning)
	switch {
	case errs > 0:
		md.Cautionf("The import failed with %d error(s).", errs)
	case warnings > 0:
		md.Warningf("%d warning(s): some data was dropped or a reference was skipped.", warnings)
	case len(report.Diagnostics) > 0:
		md.Note("Only informational diagnostics were raised.")
	default:
		md.Tip("The document imported without diagnostics.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [gedcom7import](https://github.com/nao1215/gedcom7import)*")
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// WriteMarkdownTable writes a titled Markdown table. An empty table is
// replaced by a short notice.
func WriteMarkdownTable(output io.Writer, title string, header []string, rows [][]string) error {
	md := markdown.NewMarkdown(output)
	md.H2(title)
	md.PlainText("")
	if len(rows) == 0 {
		md.PlainText("None.")
		return md.Build()
	}
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	return md.Build()
}
