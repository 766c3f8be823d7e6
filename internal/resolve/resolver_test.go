package resolve

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/gedcom7import/internal/gedcom"
)

func sequentialHandles() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("h%d", n)
	}
}

func TestNewHandle(t *testing.T) {
	t.Parallel()

	h := NewHandle()
	if len(h) != 32 || strings.Contains(h, "-") {
		t.Errorf("got %q, expected 32 hex characters", h)
	}
	if h == NewHandle() {
		t.Error("handles should be unique")
	}
}

func TestPrescanAndLookup(t *testing.T) {
	t.Parallel()

	records, err := gedcom.Decode(strings.NewReader(
		"0 HEAD\n0 @I1@ INDI\n1 FAMS @F1@\n0 @F1@ FAM\n1 HUSB @I1@\n0 TRLR\n"))
	if err != nil {
		t.Fatal(err)
	}

	r := New(WithHandleFunc(sequentialHandles()))
	r.Prescan(records)

	if r.Len() != 2 {
		t.Fatalf("got %d xrefs, expected 2", r.Len())
	}
	h1, err := r.Lookup("@I1@")
	if err != nil || h1 != "h1" {
		t.Errorf("got %q, %v", h1, err)
	}
	if r.Resolve("@I1@") != h1 {
		t.Error("Resolve must be idempotent")
	}
	if got := r.Xrefs(); got[0] != "@I1@" || got[1] != "@F1@" {
		t.Errorf("unexpected order %v", got)
	}

	_, err = r.Lookup("@X9@")
	if !errors.Is(err, gedcom.ErrUnresolvedReference) {
		t.Errorf("got %v, expected ErrUnresolvedReference", err)
	}
	if !strings.Contains(err.Error(), "@X9@") {
		t.Errorf("error should name the xref: %v", err)
	}
}

func TestLookupPointerReportsNode(t *testing.T) {
	t.Parallel()

	r := New()
	n := &gedcom.Node{Tag: "FAMC", OriginalTag: "FAMC", Pointer: "@F404@", Line: 7}
	_, err := r.LookupPointer(n)
	var gerr *gedcom.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("got %T, expected *gedcom.Error", err)
	}
	if gerr.Line != 7 || gerr.Xref != "@F404@" {
		t.Errorf("unexpected error location %+v", gerr)
	}
}

func TestResolveConcurrent(t *testing.T) {
	t.Parallel()

	r := New()
	var wg sync.WaitGroup
	results := make([]string, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Resolve("@I1@")
		}(i)
	}
	wg.Wait()
	for _, h := range results {
		if h != results[0] {
			t.Fatal("concurrent Resolve returned different handles")
		}
	}
}
