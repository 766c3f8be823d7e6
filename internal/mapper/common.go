package mapper

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// link is a resolved pointer. Finalize checks that its target was created.
type link struct {
	handle string
	node   *gedcom.Node
}

// pointer resolves the pointer payload of n. ok is false for a void or
// absent pointer. An unknown xref, or one naming a record that is not
// imported, is an error.
func (m *Mapper) pointer(n *gedcom.Node) (handle string, ok bool, err error) {
	if !n.HasPointer() {
		return "", false, nil
	}
	h, err := m.resolver.LookupPointer(n)
	if err != nil {
		return "", false, err
	}
	if !m.imported(n.Pointer) {
		e := gedcom.NewError(gedcom.ErrUnresolvedReference, n, "%s names a record that is not imported", n.Pointer)
		e.Xref = n.Pointer
		return "", false, e
	}
	m.links = append(m.links, link{handle: h, node: n})
	return h, true, nil
}

// optionalPointer is pointer for links that may be skipped: a target that
// is unknown or not imported is reported under code and ok is false.
func (m *Mapper) optionalPointer(n *gedcom.Node, code, what string) (handle string, ok bool, err error) {
	if !n.HasPointer() {
		return "", false, nil
	}
	if !m.resolver.Known(n.Pointer) || !m.imported(n.Pointer) {
		m.report(code, n, "%s %s not found", what, n.Pointer)
		return "", false, nil
	}
	return m.pointer(n)
}

// sharedNote resolves an SNOTE. An xref that is not defined anywhere is an
// error; a note record that exists but is not imported is skipped.
func (m *Mapper) sharedNote(n *gedcom.Node) (handle string, ok bool, err error) {
	if n.HasPointer() && m.resolver.Known(n.Pointer) && !m.imported(n.Pointer) {
		m.report(model.CodeMissingNote, n, "shared note %s is not imported", n.Pointer)
		return "", false, nil
	}
	return m.pointer(n)
}

// imported reports whether xref names a top-level record that MapRecord
// turns into an entity.
func (m *Mapper) imported(xref string) bool {
	r, ok := m.records[xref]
	return ok && m.mapsRecord(r)
}

// withNotes registers NOTE and SNOTE. Inline notes get typ.
func withNotes[T model.HasNotes](m *Mapper, t handlerTable[T], typ model.NoteType) {
	t["NOTE"] = func(owner T, n *gedcom.Node) error {
		h, err := m.note(n, typ)
		if err != nil {
			return err
		}
		owner.AddNote(h)
		return nil
	}
	t["SNOTE"] = func(owner T, n *gedcom.Node) error {
		h, ok, err := m.sharedNote(n)
		if err != nil || !ok {
			return err
		}
		owner.AddNote(h)
		return nil
	}
}

// withCitations registers SOUR.
func withCitations[T model.HasCitations](m *Mapper, t handlerTable[T]) {
	t["SOUR"] = func(owner T, n *gedcom.Node) error {
		h, err := m.citation(n)
		if err != nil {
			return err
		}
		owner.AddCitation(h)
		return nil
	}
}

// withMedia registers OBJE media links.
func withMedia[T model.HasMedia](m *Mapper, t handlerTable[T]) {
	t["OBJE"] = func(owner T, n *gedcom.Node) error {
		ref, ok, err := m.mediaRef(n)
		if err != nil || !ok {
			return err
		}
		owner.AddMediaRef(ref)
		return nil
	}
}

// withIdentifiers registers UID, REFN and EXID as attributes.
func withIdentifiers[T model.HasAttributes](t handlerTable[T]) {
	t["UID"] = func(owner T, n *gedcom.Node) error {
		v, err := n.Text()
		if err != nil {
			return err
		}
		owner.AddAttribute(model.Attribute{Type: model.AttributeUID, Value: v})
		return nil
	}
	t["REFN"] = func(owner T, n *gedcom.Node) error {
		a, err := typedIdentifier("REFN", n)
		if err != nil {
			return err
		}
		owner.AddAttribute(a)
		return nil
	}
	t["EXID"] = func(owner T, n *gedcom.Node) error {
		a, err := typedIdentifier("EXID", n)
		if err != nil {
			return err
		}
		owner.AddAttribute(a)
		return nil
	}
}

// typedIdentifier renders REFN and EXID as "<label>:<value> (Type: <type>)".
func typedIdentifier(label string, n *gedcom.Node) (model.Attribute, error) {
	v, err := n.Text()
	if err != nil {
		return model.Attribute{}, err
	}
	typ, err := n.ChildText("TYPE")
	if err != nil {
		return model.Attribute{}, err
	}
	s := label + ":" + v
	if typ != "" {
		s += " (Type: " + typ + ")"
	}
	return model.Attribute{Type: model.AttributeCustom, Value: s}, nil
}

// withRecordBasics registers RESN, CHAN and CREA.
func withRecordBasics[T model.Entity](t handlerTable[T]) {
	t["RESN"] = func(owner T, n *gedcom.Node) error {
		private, err := restricted(n)
		if err != nil {
			return err
		}
		if private {
			owner.Core().Private = true
		}
		return nil
	}
	t["CHAN"] = func(owner T, n *gedcom.Node) error {
		ts, err := changeTime(n)
		if err != nil {
			return err
		}
		if !ts.IsZero() {
			owner.Core().Changed = ts
		}
		return nil
	}
	t["CREA"] = func(owner T, n *gedcom.Node) error {
		ts, err := changeTime(n)
		if err != nil {
			return err
		}
		if core := owner.Core(); core.Changed.IsZero() {
			core.Changed = ts
		}
		return nil
	}
}

// contactHolder is implemented by entities that keep phone numbers as
// addresses and email and web addresses as URLs.
type contactHolder interface {
	model.HasAddresses
	model.HasURLs
}

// withContacts registers PHON, FAX, EMAIL and WWW. Every occurrence is
// kept.
func withContacts[T contactHolder](t handlerTable[T]) {
	t["PHON"] = func(owner T, n *gedcom.Node) error {
		v, err := n.Text()
		if err != nil {
			return err
		}
		owner.AddAddress(model.Address{Phone: v})
		return nil
	}
	t["FAX"] = func(owner T, n *gedcom.Node) error {
		v, err := n.Text()
		if err != nil {
			return err
		}
		owner.AddAddress(model.Address{Phone: "FAX: " + v})
		return nil
	}
	t["EMAIL"] = func(owner T, n *gedcom.Node) error {
		v, err := n.Text()
		if err != nil {
			return err
		}
		owner.AddURL(model.URL{Path: v, Type: model.URLEmail})
		return nil
	}
	t["WWW"] = func(owner T, n *gedcom.Node) error {
		v, err := n.Text()
		if err != nil {
			return err
		}
		owner.AddURL(model.URL{Path: v, Type: model.URLWebHome})
		return nil
	}
}

// restricted reports whether a RESN list contains CONFIDENTIAL or PRIVACY.
func restricted(n *gedcom.Node) (bool, error) {
	v, err := n.Text()
	if err != nil {
		return false, err
	}
	for _, f := range strings.Split(v, ",") {
		switch strings.ToUpper(strings.TrimSpace(f)) {
		case "CONFIDENTIAL", "PRIVACY":
			return true, nil
		}
	}
	return false, nil
}

// changeTime reads the DATE and TIME of a CHAN or CREA structure. Missing
// month or day default to 1.
func changeTime(n *gedcom.Node) (time.Time, error) {
	d := n.Child(gedcom.TagDate)
	if d == nil || d.Value == nil {
		return time.Time{}, nil
	}
	v, ok := d.Value.(gedcom.DateValue)
	if !ok || v.Kind != gedcom.DateExact {
		return time.Time{}, gedcom.NewError(gedcom.ErrMalformedValue, d, "change date %q is not an exact date", d.String())
	}
	ts := time.Date(v.Date.Year, time.Month(max(v.Date.Month, 1)), max(v.Date.Day, 1), 0, 0, 0, 0, time.UTC)
	if tn := d.Child(gedcom.TagTime); tn != nil {
		t, ok := tn.Value.(gedcom.Time)
		if !ok {
			return time.Time{}, gedcom.NewError(gedcom.ErrMalformedValue, tn, "invalid time %q", tn.String())
		}
		ts = ts.Add(time.Duration(t.Hour)*time.Hour +
			time.Duration(t.Minute)*time.Minute +
			time.Duration(t.Second)*time.Second)
	}
	return ts, nil
}

// normalizeLang returns the canonical BCP 47 form of s, or s itself when it
// does not parse.
func normalizeLang(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	return tag.String()
}

// intValue parses an integer payload.
func intValue(n *gedcom.Node) (int, error) {
	v, err := n.Text()
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, gedcom.NewError(gedcom.ErrMalformedValue, n, "expected an integer, got %q", v)
	}
	return i, nil
}

// phrase returns the PHRASE child text of n.
func phrase(n *gedcom.Node) (string, error) {
	return n.ChildText("PHRASE")
}

// plainNote creates a note of type typ holding text and returns its handle.
func (m *Mapper) plainNote(text string, typ model.NoteType) string {
	note := model.NewNote(m.newHandle(), typ)
	note.Text = model.PlainText(text)
	m.add(note)
	return note.Handle
}
