package main

import (
	"strings"
	"testing"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/importer"
)

func TestInspectCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeFile(t, dir, "family.ged", familyDoc)

	t.Run("summary and tree", func(t *testing.T) {
		t.Parallel()
		out, _, err := executeCommand(t, "inspect", doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"Digest:   " + importer.Digest([]byte(familyDoc)),
			"GEDCOM:   7.0",
			"Records:  6",
			"_OCUR" + strings.Repeat(" ", 6) + "https://github.com/glamberson/gedcom-occurrences",
			"INDI" + strings.Repeat(" ", 12) + "2",
			"0 @I1@ INDI",
			"    2 PLAC Baltimore, Maryland, USA",
			"0 @O1@ _OCUR <https://github.com/glamberson/gedcom-occurrences>",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("single record with depth", func(t *testing.T) {
		t.Parallel()
		out, _, err := executeCommand(t, "inspect", "--record", "@F1@", "--depth", "1", doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(out, "Digest:") {
			t.Errorf("expected no summary for a single record, got:\n%s", out)
		}
		if !strings.Contains(out, "  1 HUSB @I1@") {
			t.Errorf("expected HUSB line, got:\n%s", out)
		}
		if strings.Contains(out, "PLAC") {
			t.Errorf("expected level 2 to be cut, got:\n%s", out)
		}
	})

	t.Run("unknown record", func(t *testing.T) {
		t.Parallel()
		if _, _, err := executeCommand(t, "inspect", "--record", "@X9@", doc); err == nil {
			t.Error("expected error for unknown record")
		}
	})

	t.Run("raw dump", func(t *testing.T) {
		t.Parallel()
		out, _, err := executeCommand(t, "inspect", "--raw", "--record", "@I2@", doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"gedcom.Node", `"Jane /Roe/"`} {
			if !strings.Contains(out, want) {
				t.Errorf("expected dump to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("normalize round trips", func(t *testing.T) {
		t.Parallel()
		out, _, err := executeCommand(t, "inspect", "--normalize", doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		records, err := gedcom.Decode(strings.NewReader(out))
		if err != nil {
			t.Fatalf("normalized output does not decode: %v\n%s", err, out)
		}
		if len(records) != 6 {
			t.Errorf("expected 6 records, got %d", len(records))
		}
	})

	t.Run("negative depth", func(t *testing.T) {
		t.Parallel()
		if _, _, err := executeCommand(t, "inspect", "--depth", "-1", doc); err == nil {
			t.Error("expected error for negative depth")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, _, err := executeCommand(t, "inspect", dir+"/missing.ged"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestTreeLine(t *testing.T) {
	t.Parallel()

	note := gedcom.NewNode("NOTE", "first\nsecond")
	ptr := &gedcom.Node{Tag: "FAMS", OriginalTag: "FAMS", Pointer: "@F1@"}
	rec := &gedcom.Node{Tag: "INDI", OriginalTag: "INDI", Xref: "@I1@"}

	tests := []struct {
		name  string
		node  *gedcom.Node
		level int
		want  string
	}{
		{name: "record", node: rec, level: 0, want: "0 @I1@ INDI"},
		{name: "pointer", node: ptr, level: 1, want: "1 FAMS @F1@"},
		{name: "multi-line text", node: note, level: 2, want: `2 NOTE first\nsecond`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := treeLine(tt.node, tt.level); got != tt.want {
				t.Errorf("treeLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
