package mapper

import (
	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
	"github.com/nao1215/gedcom7import/internal/richtext"
)

// note maps an inline NOTE and returns the handle of the new note. A NOTE
// written with a pointer payload links the shared note instead.
func (m *Mapper) note(n *gedcom.Node, typ model.NoteType) (string, error) {
	if n.HasPointer() {
		h, _, err := m.pointer(n)
		return h, err
	}
	note, err := m.noteFrom(n, m.newHandle(), typ)
	if err != nil {
		return "", err
	}
	if err := dispatch(m, m.tables.note, note, n); err != nil {
		return "", err
	}
	m.add(note)
	return note.Handle, nil
}

// noteFrom builds a note from the payload and MIME child of n.
func (m *Mapper) noteFrom(n *gedcom.Node, handle string, typ model.NoteType) (*model.Note, error) {
	text, err := n.Text()
	if err != nil {
		return nil, err
	}
	mime, err := n.ChildText("MIME")
	if err != nil {
		return nil, err
	}
	note := model.NewNote(handle, typ)
	note.Text, note.Format = richtext.Convert(text, mime)
	return note, nil
}

func (m *Mapper) noteTable() handlerTable[*model.Note] {
	t := handlerTable[*model.Note]{
		"MIME": ignore[*model.Note],
		"LANG": m.noteLanguage,
		"TRAN": m.noteTranslation,
	}
	withCitations(m, t)
	return t
}

func (m *Mapper) sharedNoteTable() handlerTable[*model.Note] {
	t := m.noteTable()
	withMedia(m, t)
	withIdentifiers(t)
	withRecordBasics(t)
	return t
}

func (m *Mapper) noteLanguage(note *model.Note, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	note.Lang = normalizeLang(v)
	note.AddAttribute(model.Attribute{Type: model.AttributeLanguage, Value: note.Lang})
	return nil
}

// noteTranslation maps NOTE.TRAN and SNOTE.TRAN to a transcript note linked
// from the original.
func (m *Mapper) noteTranslation(note *model.Note, n *gedcom.Node) error {
	tr, err := m.noteFrom(n, m.newHandle(), model.NoteTranscript)
	if err != nil {
		return err
	}
	lang, err := n.ChildText("LANG")
	if err != nil {
		return err
	}
	if lang != "" {
		tr.Lang = normalizeLang(lang)
		tr.AddAttribute(model.Attribute{Type: model.AttributeLanguage, Value: tr.Lang})
	}
	m.add(tr)
	note.Links = append(note.Links, tr.Handle)
	return nil
}

// mapSharedNote maps an SNOTE record. Shared notes are imported even when
// nothing points at them.
func (m *Mapper) mapSharedNote(n *gedcom.Node) error {
	handle, id, err := m.recordHandle(n, true)
	if err != nil {
		return err
	}
	note, err := m.noteFrom(n, handle, model.NoteGeneral)
	if err != nil {
		return err
	}
	note.ID = id
	if err := dispatch(m, m.tables.sharedNote, note, n); err != nil {
		return err
	}
	return m.addRecord(note, n)
}
