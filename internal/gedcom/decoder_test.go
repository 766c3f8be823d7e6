package gedcom

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const sampleDocument = `0 HEAD
1 GEDC
2 VERS 7.0
1 SCHMA
2 TAG _OCUR https://github.com/glamberson/gedcom-occurrences
0 @I1@ INDI
1 NAME John /Doe/
1 BIRT
2 DATE ABT 1850
2 PLAC Baltimore, , Maryland, USA
1 NOTE First line
2 CONT second line
2 CONT @@handle
1 FAMS @VOID@
0 @O1@ _OCUR
1 TYPE Census
0 TRLR
`

func TestDecode(t *testing.T) {
	t.Parallel()

	records, err := Decode(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, expected 4", len(records))
	}

	t.Run("records keep order and xrefs", func(t *testing.T) {
		t.Parallel()
		want := []string{"HEAD", "INDI", "_OCUR", "TRLR"}
		for i, r := range records {
			if r.ShortTag() != want[i] {
				t.Errorf("record %d: got %q, expected %q", i, r.ShortTag(), want[i])
			}
		}
		if records[1].Xref != "@I1@" {
			t.Errorf("got xref %q, expected @I1@", records[1].Xref)
		}
	})

	t.Run("schema declared tags are expanded", func(t *testing.T) {
		t.Parallel()
		ocur := records[2]
		if ocur.Tag != "https://github.com/glamberson/gedcom-occurrences" {
			t.Errorf("got tag %q", ocur.Tag)
		}
		if ocur.OriginalTag != "_OCUR" {
			t.Errorf("got original tag %q", ocur.OriginalTag)
		}
		if !ocur.IsExtension() {
			t.Error("expected extension node")
		}
	})

	t.Run("continuation lines and escapes", func(t *testing.T) {
		t.Parallel()
		note := records[1].Child("NOTE")
		got, err := note.Text()
		if err != nil {
			t.Fatal(err)
		}
		if got != "First line\nsecond line\n@handle" {
			t.Errorf("got %q", got)
		}
		if len(note.Children) != 0 {
			t.Errorf("CONT should not become a child, got %d children", len(note.Children))
		}
	})

	t.Run("dates are typed", func(t *testing.T) {
		t.Parallel()
		date := records[1].Child("BIRT").Child("DATE")
		v, ok := date.Value.(DateValue)
		if !ok {
			t.Fatalf("got %T, expected DateValue", date.Value)
		}
		if v.Kind != DateApprox || v.Qualifier != "ABT" || v.Date.Year != 1850 {
			t.Errorf("unexpected date value %+v", v)
		}
	})

	t.Run("void pointers", func(t *testing.T) {
		t.Parallel()
		fams := records[1].Child("FAMS")
		if !fams.IsVoid() || fams.HasPointer() {
			t.Errorf("expected void pointer, got %q", fams.Pointer)
		}
	})

	t.Run("parents are linked", func(t *testing.T) {
		t.Parallel()
		plac := records[1].Child("BIRT").Child("PLAC")
		if plac.Record() != records[1] {
			t.Error("PLAC should belong to INDI record")
		}
	})
}

func TestDecodeSyntaxErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "level jump", input: "0 HEAD\n2 VERS 7.0\n"},
		{name: "garbage line", input: "0 HEAD\nnot a line\n"},
		{name: "starts nested", input: "1 NAME x\n"},
		{name: "cont at level zero", input: "0 CONT x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("got %v, expected ErrSyntax", err)
			}
		})
	}
}

func TestDecodeKeepsUnparsableDate(t *testing.T) {
	t.Parallel()

	records, err := Decode(strings.NewReader("0 HEAD\n0 @I1@ INDI\n1 BIRT\n2 DATE sometime\n"))
	if err != nil {
		t.Fatal(err)
	}
	date := records[1].Child("BIRT").Child("DATE")
	if s, ok := date.Value.(string); !ok || s != "sometime" {
		t.Errorf("got %#v, expected raw string", date.Value)
	}
	if _, err := date.Text(); err != nil {
		t.Errorf("raw string payload should be readable as text: %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	records, err := Decode(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		t.Fatal(err)
	}
	again, err := Decode(&buf)
	if err != nil {
		t.Fatalf("re-decode failed: %v", err)
	}
	note := again[1].Child("NOTE")
	if got := note.String(); got != "First line\nsecond line\n@handle" {
		t.Errorf("got %q after round trip", got)
	}
	if again[2].OriginalTag != "_OCUR" {
		t.Errorf("got %q after round trip", again[2].OriginalTag)
	}
}

func TestSchemaOf(t *testing.T) {
	t.Parallel()

	head := NewNode(TagHeader, nil).Append(
		NewNode(TagSchema, nil).Append(
			NewNode(TagTag, "_EVID https://github.com/glamberson/gedcom-evidence"),
			NewNode(TagTag, "broken"),
		),
	)
	got := SchemaOf([]*Node{head})
	if len(got) != 1 || got["_EVID"] != "https://github.com/glamberson/gedcom-evidence" {
		t.Errorf("unexpected schema %v", got)
	}
}

func TestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		xref    string
		want    string
		wantErr bool
	}{
		{xref: "@I1@", want: "I1"},
		{xref: "@@", wantErr: true},
		{xref: "", wantErr: true},
		{xref: "I1", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ID(tt.xref)
		if tt.wantErr {
			if !errors.Is(err, ErrMissingXref) {
				t.Errorf("ID(%q): got %v, expected ErrMissingXref", tt.xref, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ID(%q) = %q, %v", tt.xref, got, err)
		}
	}
}
