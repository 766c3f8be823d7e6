package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/gedcom7import/internal/config"
	"github.com/nao1215/gedcom7import/internal/model"
	"github.com/nao1215/gedcom7import/internal/report"
)

const familyDoc = `0 HEAD
1 GEDC
2 VERS 7.0
1 SOUR FamilyDesk
1 SCHMA
2 TAG _OCUR https://github.com/glamberson/gedcom-occurrences
0 @I1@ INDI
1 NAME John /Doe/
1 BIRT
2 PLAC Baltimore, Maryland, USA
1 FAMS @F1@
0 @I2@ INDI
1 NAME Jane /Roe/
1 FAMS @F1@
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 MARR
2 PLAC Baltimore, Maryland, USA
0 @O1@ _OCUR
1 TYPE Census
0 TRLR
`

// undeclaredDoc uses an occurrence record without declaring it in SCHMA.
const undeclaredDoc = `0 HEAD
1 GEDC
2 VERS 7.0
0 @O1@ _OCUR
1 TYPE Census
0 TRLR
`

// writeFile writes content to name below dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// writeConfig writes a configuration file so tests never pick up the
// user's own.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	return writeFile(t, dir, ".gedcom7import", content)
}

// decodeReports reads consecutive JSON reports keyed by source.
func decodeReports(t *testing.T, out string) map[string]*report.JSONReport {
	t.Helper()
	reports := make(map[string]*report.JSONReport)
	dec := json.NewDecoder(strings.NewReader(out))
	for {
		var r report.JSONReport
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			return reports
		}
		if err != nil {
			t.Fatalf("failed to decode report: %v\n%s", err, out)
		}
		reports[r.Report.Source] = &r
	}
}

// TestNewImportCmd tests the import command creation.
func TestNewImportCmd(t *testing.T) {
	t.Parallel()

	cmd := NewImportCmd()

	t.Run("requires at least one argument", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, nil); err == nil {
			t.Error("expected error without arguments")
		}
	})

	t.Run("has flags", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name      string
			shorthand string
			defValue  string
		}{
			{name: "force", defValue: "false"},
			{name: "dry-run", shorthand: "n", defValue: "false"},
			{name: "concurrency", shorthand: "j", defValue: "4"},
			{name: "max-file-size", defValue: "268435456"},
			{name: "place-form", defValue: "[]"},
			{name: "strict", defValue: "false"},
			{name: "warn-unknown", defValue: "true"},
			{name: "extension", defValue: "[]"},
			{name: "media-root"},
			{name: "db-dir"},
			{name: "dsn"},
			{name: "format", shorthand: "f", defValue: config.FormatText},
			{name: "output", shorthand: "o"},
		}
		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("%s: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}
	})
}

func TestImportCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "report:\n  format: text\n")
	dbDir := filepath.Join(dir, "db")
	doc := writeFile(t, dir, "family.ged", familyDoc)

	stdout, stderr, err := executeCommand(t, "import", "-c", cfgPath, "--db-dir", dbDir, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr:\n%s", err, stderr)
	}
	for _, want := range []string{"GEDCOM 7 IMPORT REPORT", "person", "TOTAL", "Succeeded"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected report to contain %q, got:\n%s", want, stdout)
		}
	}
	for _, want := range []string{"[1/1] " + doc + ": run 1, 9 entities", "Imported 1, skipped 0, failed 0"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected progress to contain %q, got:\n%s", want, stderr)
		}
	}

	t.Run("same document is skipped", func(t *testing.T) {
		_, stderr, err := executeCommand(t, "import", "-c", cfgPath, "--db-dir", dbDir, doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr, "skipped: already imported as run 1") {
			t.Errorf("expected skip, got:\n%s", stderr)
		}
	})

	t.Run("force imports again", func(t *testing.T) {
		_, stderr, err := executeCommand(t, "import", "-c", cfgPath, "--db-dir", dbDir, "--force", doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr, "run 2, 9 entities") {
			t.Errorf("expected second run, got:\n%s", stderr)
		}
	})
}

func TestImportCmdDryRunJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "")
	dbDir := filepath.Join(dir, "db")
	doc := writeFile(t, dir, "family.ged", familyDoc)

	stdout, _, err := executeCommand(t, "import", "-c", cfgPath, "--db-dir", dbDir,
		"--dry-run", "--format", "json", doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reports := decodeReports(t, stdout)
	r, ok := reports[doc]
	if !ok {
		t.Fatalf("expected a report for %s, got:\n%s", doc, stdout)
	}
	if r.Report.RunID != 0 {
		t.Errorf("dry run stored run %d", r.Report.RunID)
	}
	if r.Report.Status != model.StatusSucceeded {
		t.Errorf("expected succeeded, got %s", r.Report.Status)
	}
	if r.Summary.Entities != 9 {
		t.Errorf("expected 9 entities, got %d", r.Summary.Entities)
	}
	if r.Report.Counts["person"] != 2 || r.Report.Counts["event"] != 3 {
		t.Errorf("unexpected counts %v", r.Report.Counts)
	}

	if _, err := os.Stat(dbDir); !os.IsNotExist(err) {
		t.Errorf("dry run must not create the database directory, stat error = %v", err)
	}
}

func TestImportCmdReportFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "")
	doc := writeFile(t, dir, "family.ged", familyDoc)
	reportPath := filepath.Join(dir, "reports", "family.md")

	stdout, _, err := executeCommand(t, "import", "-c", cfgPath, "--dry-run",
		"--format", "markdown", "-o", reportPath, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("expected nothing on stdout, got:\n%s", stdout)
	}

	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if !strings.Contains(string(content), "# GEDCOM 7 Import Report") {
		t.Errorf("unexpected report:\n%s", content)
	}
}

func TestImportCmdFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "")
	good := writeFile(t, dir, "good.ged", familyDoc)
	broken := writeFile(t, dir, "broken.ged", "0 HEAD\n1 GEDC\n2 VERS 7.0\n0 @I1@ INDI\n1 FAMC @F9@\n0 TRLR\n")

	_, stderr, err := executeCommand(t, "import", "-c", cfgPath, "--dry-run", good, broken)
	if err == nil {
		t.Fatal("expected error when an import fails")
	}
	if !strings.Contains(err.Error(), "1 of 2 imports failed") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, broken+": failed:") {
		t.Errorf("expected failure progress line, got:\n%s", stderr)
	}
	if !strings.Contains(stderr, "Imported 1, skipped 0, failed 1") {
		t.Errorf("expected summary line, got:\n%s", stderr)
	}
}

func TestImportCmdPerFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `files:
  "strict-*.ged":
    strict: true
`)
	strict := writeFile(t, dir, "strict-census.ged", undeclaredDoc)
	lenient := writeFile(t, dir, "census.ged", undeclaredDoc)

	stdout, _, err := executeCommand(t, "import", "-c", cfgPath, "--dry-run", "--format", "json", strict, lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reports := decodeReports(t, stdout)
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if got := reports[strict].Report.Counts["event"]; got != 0 {
		t.Errorf("strict file: expected no events, got %d", got)
	}
	if got := reports[lenient].Report.Counts["event"]; got != 1 {
		t.Errorf("lenient file: expected 1 event, got %d", got)
	}
}

func TestImportCmdValidation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "")
	doc := writeFile(t, dir, "family.ged", familyDoc)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "unknown format", args: []string{"--format", "xml"}, want: config.ErrInvalidFormat},
		{name: "zero concurrency", args: []string{"--concurrency", "0"}, want: config.ErrInvalidConcurrency},
		{name: "negative file size", args: []string{"--max-file-size", "-1"}, want: config.ErrInvalidMaxFileSize},
		{name: "unsupported extension", args: []string{"--extension", "https://example.com/ext"}, want: config.ErrUnknownExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := append([]string{"import", "-c", cfgPath, "--dry-run"}, tt.args...)
			_, _, err := executeCommand(t, append(args, doc)...)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("missing explicit config", func(t *testing.T) {
		t.Parallel()
		_, _, err := executeCommand(t, "import", "-c", filepath.Join(dir, "missing.yaml"), doc)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestApplyFlagsKeepsConfigValues(t *testing.T) {
	t.Parallel()

	cmd := NewImportCmd()
	if err := cmd.ParseFlags([]string{"--strict", "--place-form", "City,County"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	cfg := config.NewConfig()
	cfg.Format = config.FormatMarkdown
	cfg.Concurrency = 8
	if err := applyFlags(cmd, cfg); err != nil {
		t.Fatalf("applyFlags() error = %v", err)
	}

	if !cfg.Strict {
		t.Error("expected strict from flag")
	}
	if got := strings.Join(cfg.PlaceForm, ","); got != "City,County" {
		t.Errorf("expected place form from flag, got %q", got)
	}
	if cfg.Format != config.FormatMarkdown {
		t.Errorf("unset flag overrode format: %q", cfg.Format)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("unset flag overrode concurrency: %d", cfg.Concurrency)
	}
}

func TestJobStatusSkipped(t *testing.T) {
	t.Parallel()

	rep := model.NewImportReport("a.ged")
	rep.Status = model.StatusSkipped
	rep.Error = "already imported as run 3"
	if got := jobStatusText(rep); got != "skipped: already imported as run 3" {
		t.Errorf("unexpected status %q", got)
	}
}
