package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/gedcom7import/internal/model"
)

// createTestReport creates a finished report with sample data for testing.
func createTestReport() *model.ImportReport {
	report := model.NewImportReport("family.ged")
	report.RunID = 7
	report.Digest = "abc123"
	report.GedcomVersion = "7.0"
	report.SourceSystem = "FamilyDesk"
	report.Records = 6
	report.Counts = map[string]int{"person": 2, "family": 1, "event": 3, "place": 3}
	report.PlacesReused = 3
	report.Researcher = &model.Researcher{Name: "Jane Researcher"}
	report.Diagnostics = []model.Diagnostic{
		model.NewDiagnostic(model.CodeUnknownTag, "_FOO", "@I1@", 12, "substructure _FOO ignored"),
		model.NewDiagnostic(model.CodeUnknownExtension, "_CUSTOM", "@X1@", 8, "extension record _CUSTOM dropped"),
		model.NewDiagnostic(model.CodeUnknownTag, "_BAR", "@I2@", 15, "substructure _BAR ignored"),
	}
	report.Finish(nil)
	return report
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"GEDCOM 7 IMPORT REPORT",
			"Source:         family.ged",
			"Run:            7",
			"GEDCOM:         7.0 (FamilyDesk)",
			"Records:        6",
			"Status:         Succeeded",
			"Researcher:     Jane Researcher",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("writes entity counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "ENTITIES") {
			t.Error("expected entities section")
		}
		if !strings.Contains(output, "Places reused: 3") {
			t.Error("expected places reused")
		}
		person := strings.Index(output, "person")
		place := strings.Index(output, "place")
		if person < 0 || place < 0 || person > place {
			t.Error("expected kinds in persistence order")
		}
		if strings.Contains(output, "source ") {
			t.Error("kinds without entities should be omitted")
		}
	})

	t.Run("groups diagnostics by code, most severe first", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		warning := strings.Index(output, "[!] Unknown Extension (1)")
		info := strings.Index(output, "[i] Unknown Tag (2)")
		if warning < 0 || info < 0 {
			t.Fatalf("expected both code headings, got:\n%s", output)
		}
		if warning > info {
			t.Error("expected warnings before infos")
		}
		if !strings.Contains(output, "WARNING: 1") {
			t.Error("expected warning count")
		}
		if strings.Contains(output, "extension record _CUSTOM dropped") {
			t.Error("messages should only be listed in verbose mode")
		}
	})

	t.Run("verbose mode lists every diagnostic", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "* line 8 @X1@ _CUSTOM: extension record _CUSTOM dropped") {
			t.Error("expected diagnostic location and message")
		}
		if !strings.Contains(output, "* line 15 @I2@ _BAR: substructure _BAR ignored") {
			t.Error("expected every diagnostic of a code")
		}
	})

	t.Run("shows failure in status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := model.NewImportReport("broken.ged")
		report.Finish(errors.New("unresolved reference @F9@"))

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "Status:         Failed - unresolved reference @F9@") {
			t.Error("expected failure status")
		}
	})
}

func TestSimpleWriterShowEmpty(t *testing.T) {
	t.Parallel()

	t.Run("shows empty sections with showEmpty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true))
		report := model.NewImportReport("empty.ged")
		report.Finish(nil)

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No entities created") {
			t.Error("expected 'No entities created' message")
		}
		if !strings.Contains(output, "DIAGNOSTICS") {
			t.Error("expected diagnostics section")
		}
	})

	t.Run("hides empty sections without showEmpty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := model.NewImportReport("empty.ged")
		report.Finish(nil)

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "ENTITIES") || strings.Contains(output, "DIAGNOSTICS") {
			t.Error("should not show empty sections without showEmpty")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.ImportReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Source != "family.ged" {
			t.Errorf("expected source family.ged, got %s", decoded.Source)
		}
		if decoded.Counts["person"] != 2 {
			t.Errorf("expected 2 persons, got %d", decoded.Counts["person"])
		}
		if decoded.Status != model.StatusSucceeded {
			t.Errorf("expected succeeded, got %s", decoded.Status)
		}
		if len(decoded.Diagnostics) != 3 {
			t.Errorf("expected 3 diagnostics, got %d", len(decoded.Diagnostics))
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := strings.TrimSuffix(buf.String(), "\n")
		if strings.Contains(output, "\n") {
			t.Error("expected compact single-line output")
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\n  \"source\": \"family.ged\"") {
			t.Error("expected indented output")
		}
	})

	t.Run("uses custom prefix and indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithIndent("//", "\t"))

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\n//\t\"source\"") {
			t.Error("expected custom prefix and tab indent")
		}
	})

	t.Run("writes comparison", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		base := createTestReport()
		target := createTestReport()
		target.Counts["person"] = 5

		if _, err := w.WriteComparison(Compare(base, target)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Entities   []Delta `json:"entities"`
			SameDigest bool    `json:"same_digest"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if !decoded.SameDigest {
			t.Error("expected same digest")
		}
		if len(decoded.Entities) != 4 || decoded.Entities[0] != (Delta{Name: "person", Base: 2, Target: 5}) {
			t.Errorf("unexpected entity deltas: %+v", decoded.Entities)
		}
	})
}

func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewFullJSONWriter(&buf, "1.2.3")

	if _, err := w.Write(createTestReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded JSONReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", decoded.Version)
	}
	if decoded.Report == nil || decoded.Report.RunID != 7 {
		t.Error("expected wrapped report")
	}
	want := Summary{Entities: 9, Warnings: 1, Infos: 2}
	if decoded.Summary == nil || *decoded.Summary != want {
		t.Errorf("expected summary %+v, got %+v", want, decoded.Summary)
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# GEDCOM 7 Import Report",
			"`family.ged`",
			"FamilyDesk",
			"## Entities",
			"Places reused from the cache: 3",
			"```mermaid",
			"Entities by Kind",
			"## Diagnostics",
			"### Unknown Extension (1)",
			"### Unknown Tag (2)",
			"Unknown extension dropped",
			"[!WARNING]",
			"https://github.com/nao1215/gedcom7import",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("alert follows the most severe diagnostic", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			diags []model.Diagnostic
			want  string
		}{
			{name: "none", want: "[!TIP]"},
			{name: "info", diags: []model.Diagnostic{model.NewDiagnostic(model.CodeUnknownTag, "_X", "", 3, "ignored")}, want: "[!NOTE]"},
			{name: "error", diags: []model.Diagnostic{model.NewDiagnostic(model.CodeImportFailed, "", "", 0, "boom")}, want: "[!CAUTION]"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				var buf bytes.Buffer
				report := model.NewImportReport("alert.ged")
				report.Diagnostics = tt.diags
				report.Finish(nil)

				if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !strings.Contains(buf.String(), tt.want) {
					t.Errorf("expected %s alert", tt.want)
				}
			})
		}
	})

	t.Run("handles report without entities", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := model.NewImportReport("empty.ged")
		report.Finish(nil)

		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No entities created.") {
			t.Error("expected empty entities message")
		}
		if strings.Contains(output, "```mermaid") {
			t.Error("pie chart should be omitted without entities")
		}
	})

	t.Run("shows skipped status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := model.NewImportReport("again.ged")
		report.Status = model.StatusSkipped
		report.Error = "already imported as run 3"

		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Skipped - already imported as run 3") {
			t.Error("expected skipped status")
		}
	})
}

func TestCompare(t *testing.T) {
	t.Parallel()

	base := createTestReport()
	target := createTestReport()
	target.RunID = 8
	target.Digest = "def456"
	target.Counts = map[string]int{"person": 3, "family": 1, "event": 3, "place": 2, "source": 1}
	target.Diagnostics = nil

	c := Compare(base, target)

	want := []Delta{
		{Name: "person", Base: 2, Target: 3},
		{Name: "family", Base: 1, Target: 1},
		{Name: "event", Base: 3, Target: 3},
		{Name: "place", Base: 3, Target: 2},
		{Name: "source", Base: 0, Target: 1},
	}
	if len(c.Entities) != len(want) {
		t.Fatalf("expected %d entity rows, got %d", len(want), len(c.Entities))
	}
	for i := range want {
		if c.Entities[i] != want[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, want[i], c.Entities[i])
		}
	}
	if got := c.Total(); got.Base != 9 || got.Target != 10 || got.Change() != 1 {
		t.Errorf("unexpected total %+v", got)
	}
	if len(c.Diagnostics) != 2 || c.Diagnostics[0].Name != "WARNING" || c.Diagnostics[1].Change() != -2 {
		t.Errorf("unexpected diagnostic deltas %+v", c.Diagnostics)
	}
	if c.SameDigest {
		t.Error("digests differ")
	}
	if !c.Changed() {
		t.Error("expected changes")
	}

	same := Compare(base, createTestReport())
	if same.Changed() {
		t.Error("identical runs should not change")
	}
	if !same.SameDigest {
		t.Error("expected same digest")
	}
}

func TestWriteComparison(t *testing.T) {
	t.Parallel()

	base := createTestReport()
	target := createTestReport()
	target.RunID = 8
	target.Counts = map[string]int{"person": 3, "family": 1, "event": 3, "place": 3}

	t.Run("simple", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteComparison(Compare(base, target)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"RUN COMPARISON", "run 7", "run 8", "identical documents", "(+1)", "(0)"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "No differences.") {
			t.Error("runs differ")
		}
	})

	t.Run("simple without changes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteComparison(Compare(base, base)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No differences.") {
			t.Error("expected no differences")
		}
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteComparison(Compare(base, target)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"# Run Comparison", "## Entities", "**Total**", "+1", "[!NOTE]"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})
}

type failingWriter struct{}

func (failingWriter) Write(*model.ImportReport) (int, error) {
	return 0, errors.New("disk full")
}

func (failingWriter) WriteComparison(*Comparison) (int, error) {
	return 0, errors.New("disk full")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		w := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

		n, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != text.Len()+js.Len() {
			t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
		}
		if text.Len() == 0 || js.Len() == 0 {
			t.Error("expected output in both writers")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var text bytes.Buffer
		w := NewMultiWriter(failingWriter{}, NewSimpleWriter(&text))

		if _, err := w.Write(createTestReport()); err == nil {
			t.Error("expected error")
		}
		if _, err := w.WriteComparison(Compare(createTestReport(), createTestReport())); err == nil {
			t.Error("expected error")
		}
		if text.Len() != 0 {
			t.Error("later writers should not run after an error")
		}
	})

	t.Run("handles empty writers list", func(t *testing.T) {
		t.Parallel()

		n, err := NewMultiWriter().Write(createTestReport())
		if err != nil || n != 0 {
			t.Errorf("expected 0, nil; got %d, %v", n, err)
		}
	})
}

func TestCodeHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want string
	}{
		{code: model.CodeMissingNote, want: "Missing Note"},
		{code: model.CodeUnknownExtension, want: "Unknown Extension"},
		{code: model.CodeImportFailed, want: "Import Failed"},
		{code: "custom", want: "Custom"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			if got := CodeHeading(tt.code); got != tt.want {
				t.Errorf("CodeHeading(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	t.Parallel()

	if got := location(model.Diagnostic{}); got != "-" {
		t.Errorf("expected -, got %q", got)
	}
	if got := location(model.Diagnostic{Tag: "_FOO"}); got != "_FOO" {
		t.Errorf("expected _FOO, got %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{input: "hello", maxLen: 10, want: "hello"},
		{input: "hello world", maxLen: 8, want: "hello..."},
		{input: "hello", maxLen: 3, want: "hel"},
		{input: "äöüäöü", maxLen: 5, want: "äö..."},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestWriteMarkdownTable(t *testing.T) {
	t.Parallel()

	t.Run("rows", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		err := WriteMarkdownTable(&buf, "Import Runs", []string{"Run", "Status"}, [][]string{{"1", "succeeded"}})
		if err != nil {
			t.Fatalf("WriteMarkdownTable() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{"## Import Runs", "| Run", "succeeded"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := WriteMarkdownTable(&buf, "Entities", []string{"Kind"}, nil); err != nil {
			t.Fatalf("WriteMarkdownTable() error = %v", err)
		}
		if !strings.Contains(buf.String(), "None.") {
			t.Errorf("expected empty notice, got:\n%s", buf.String())
		}
		if strings.Contains(buf.String(), "|") {
			t.Errorf("expected no table, got:\n%s", buf.String())
		}
	})
}
