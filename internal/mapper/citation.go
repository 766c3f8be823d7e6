package mapper

import (
	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// quality maps QUAY to a citation confidence.
var quality = map[string]model.Confidence{
	"0": model.ConfidenceVeryLow,
	"1": model.ConfidenceLow,
	"2": model.ConfidenceNormal,
	"3": model.ConfidenceHigh,
}

// citation maps a SOUR citation structure and returns the new citation
// handle. A void pointer yields a citation with no source.
func (m *Mapper) citation(n *gedcom.Node) (string, error) {
	c := model.NewCitation(m.newHandle())
	src, ok, err := m.pointer(n)
	if err != nil {
		return "", err
	}
	if ok {
		c.Source = src
	}
	if err := dispatch(m, m.tables.citation, c, n); err != nil {
		return "", err
	}
	m.add(c)
	return c.Handle, nil
}

func (m *Mapper) citationTable() handlerTable[*model.Citation] {
	t := handlerTable[*model.Citation]{
		"PAGE": citationPage,
		"DATA": m.citationData,
		"EVEN": citationEvent,
		"QUAY": citationQuality,
	}
	withNotes(m, t, model.NoteCitation)
	withMedia(m, t)
	return t
}

func (m *Mapper) citationDataTable() handlerTable[*model.Citation] {
	return handlerTable[*model.Citation]{
		"DATE": m.citationDate,
		"TEXT": m.citationText,
	}
}

func citationPage(c *model.Citation, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	c.Page = v
	return nil
}

func (m *Mapper) citationData(c *model.Citation, n *gedcom.Node) error {
	return dispatch(m, m.tables.citationData, c, n)
}

func (m *Mapper) citationDate(c *model.Citation, n *gedcom.Node) error {
	d, err := dateOf(n)
	if err != nil {
		return err
	}
	c.Date = d
	return nil
}

// citationText keeps the transcribed source text as a note.
func (m *Mapper) citationText(c *model.Citation, n *gedcom.Node) error {
	note, err := m.noteFrom(n, m.newHandle(), model.NoteSourceText)
	if err != nil {
		return err
	}
	if lang, err := n.ChildText("LANG"); err != nil {
		return err
	} else if lang != "" {
		note.Lang = normalizeLang(lang)
	}
	m.add(note)
	c.AddNote(note.Handle)
	return nil
}

func citationEvent(c *model.Citation, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	c.AddAttribute(model.Attribute{Type: model.AttributeEventType, Value: v})
	role, err := n.ChildText("ROLE")
	if err != nil {
		return err
	}
	if role != "" {
		c.AddAttribute(model.Attribute{Type: model.AttributeRole, Value: role})
	}
	return nil
}

func citationQuality(c *model.Citation, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	q, ok := quality[v]
	if !ok {
		return gedcom.NewError(gedcom.ErrMalformedValue, n, "QUAY must be 0 to 3, got %q", v)
	}
	c.Confidence = q
	return nil
}
