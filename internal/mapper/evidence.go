package mapper

import (
	"fmt"
	"strings"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// Evidence tag settings.
const (
	evidenceTagName  = "Evidence"
	evidenceTagColor = "#0000FF"
)

// evidenceBuilder accumulates the note body of an _EVID record. Sources
// and activities are written in document order; findings, conclusions and
// documents are appended at the end.
type evidenceBuilder struct {
	note        *model.Note
	body        strings.Builder
	findings    []string
	conclusions []string
	confidence  string
	documents   []string
}

// mapEvidence maps an _EVID record to a research note tagged "Evidence".
func (m *Mapper) mapEvidence(n *gedcom.Node) error {
	handle, id, err := m.recordHandle(n, true)
	if err != nil {
		return err
	}
	b := &evidenceBuilder{note: model.NewNote(handle, model.NoteResearch)}
	b.note.ID = id
	b.body.WriteString("=== EVIDENCE CONTAINER ===\n")
	if err := dispatch(m, m.tables.evidence, b, n); err != nil {
		return err
	}
	b.finish()
	b.note.Text = model.PlainText(b.body.String())
	b.note.AddTag(m.evidenceTagHandle())
	return m.addRecord(b.note, n)
}

func (b *evidenceBuilder) finish() {
	if len(b.findings) > 0 {
		b.body.WriteString("\n--- FINDINGS ---\n")
		for i, f := range b.findings {
			fmt.Fprintf(&b.body, "%d. %s\n", i+1, f)
		}
	}
	if len(b.conclusions) > 0 {
		b.body.WriteString("\n--- CONCLUSIONS ---\n")
		for i, c := range b.conclusions {
			fmt.Fprintf(&b.body, "%d. %s\n", i+1, c)
		}
		if b.confidence != "" {
			fmt.Fprintf(&b.body, "Confidence: %s\n", b.confidence)
		}
	}
	if len(b.documents) > 0 {
		b.body.WriteString("\n--- RESEARCH DOCUMENTS ---\n")
		for _, d := range b.documents {
			fmt.Fprintf(&b.body, "- Document: %s\n", d)
		}
	}
}

// evidenceTagHandle returns the run's "Evidence" tag, creating it on first
// use.
func (m *Mapper) evidenceTagHandle() string {
	if m.evidenceTag != "" {
		return m.evidenceTag
	}
	tag := &model.Tag{
		Base:     model.Base{Handle: m.newHandle()},
		Name:     evidenceTagName,
		Color:    evidenceTagColor,
		Priority: 1,
	}
	m.add(tag)
	m.evidenceTag = tag.Handle
	return tag.Handle
}

func (m *Mapper) evidenceTable() handlerTable[*evidenceBuilder] {
	return handlerTable[*evidenceBuilder]{
		"_ID": func(b *evidenceBuilder, n *gedcom.Node) error {
			v, err := n.Text()
			if err != nil {
				return err
			}
			fmt.Fprintf(&b.body, "Evidence ID: %s\n", v)
			return nil
		},
		"_FIND": func(b *evidenceBuilder, n *gedcom.Node) error {
			v, err := n.Text()
			if err != nil {
				return err
			}
			b.findings = append(b.findings, v)
			return nil
		},
		"_CONC": evidenceConclusion,
		"_RACT": evidenceActivity,
		"_RDOC": func(b *evidenceBuilder, n *gedcom.Node) error {
			if n.Pointer != "" {
				b.documents = append(b.documents, n.Pointer)
			}
			return nil
		},
		"SOUR": m.evidenceSource,
		"NOTE": func(b *evidenceBuilder, n *gedcom.Node) error {
			h, err := m.note(n, model.NoteResearch)
			if err != nil {
				return err
			}
			b.note.Links = append(b.note.Links, h)
			return nil
		},
		"OBJE": func(b *evidenceBuilder, n *gedcom.Node) error {
			ref, ok, err := m.mediaRef(n)
			if err != nil || !ok {
				return err
			}
			b.note.AddMediaRef(ref)
			return nil
		},
	}
}

// evidenceConclusion reads _CONC: TEXT children are conclusions and _CONF
// is the confidence.
func evidenceConclusion(b *evidenceBuilder, n *gedcom.Node) error {
	for _, c := range n.Children {
		switch c.ShortTag() {
		case "TEXT":
			v, err := c.Text()
			if err != nil {
				return err
			}
			b.conclusions = append(b.conclusions, v)
		case "_CONF":
			v, err := c.Text()
			if err != nil {
				return err
			}
			b.confidence = v
		}
	}
	return nil
}

func evidenceActivity(b *evidenceBuilder, n *gedcom.Node) error {
	b.body.WriteString("\n--- RESEARCH ACTIVITY ---\n")
	for _, c := range n.Children {
		switch c.ShortTag() {
		case "DATE":
			fmt.Fprintf(&b.body, "Date: %s\n", c.String())
		case "NOTE":
			v, err := c.Text()
			if err != nil {
				return err
			}
			fmt.Fprintf(&b.body, "Activity: %s\n", v)
		}
	}
	return nil
}

// evidenceSource cites a source from the evidence note.
func (m *Mapper) evidenceSource(b *evidenceBuilder, n *gedcom.Node) error {
	b.body.WriteString("\n--- SOURCE ---\n")
	h, err := m.citation(n)
	if err != nil {
		return err
	}
	b.note.AddCitation(h)
	page, err := n.ChildText("PAGE")
	if err != nil {
		return err
	}
	if page != "" {
		fmt.Fprintf(&b.body, "Page: %s\n", page)
	}
	return nil
}

// personEvidence maps an _EVID reference. A reference without a pointer
// is ignored.
func (m *Mapper) personEvidence(p *personBuilder, n *gedcom.Node) error {
	h, ok, err := m.pointer(n)
	if err != nil || !ok {
		return err
	}
	p.AddNote(h)
	value := "Evidence: " + n.Pointer
	if c := n.Child("_CONF"); c != nil {
		v, err := c.Text()
		if err != nil {
			return err
		}
		value += " (Confidence: " + v + ")"
	}
	p.AddAttribute(model.Attribute{Type: model.AttributeCustom, Value: value})
	return nil
}
