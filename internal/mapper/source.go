package mapper

import (
	"github.com/nao1215/gedcom7import/internal/citation"
	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// mapSource maps a SOUR record.
func (m *Mapper) mapSource(n *gedcom.Node) error {
	handle, id, err := m.recordHandle(n, true)
	if err != nil {
		return err
	}
	src := model.NewSource(handle)
	src.ID = id
	if err := dispatch(m, m.tables.source, src, n); err != nil {
		return err
	}
	return m.addRecord(src, n)
}

func (m *Mapper) sourceTable() handlerTable[*model.Source] {
	t := handlerTable[*model.Source]{
		"TITL":   sourceField(func(s *model.Source, v string) { s.Title = v }),
		"AUTH":   sourceField(func(s *model.Source, v string) { s.Author = v }),
		"PUBL":   sourceField(func(s *model.Source, v string) { s.PubInfo = v }),
		"ABBR":   sourceField(func(s *model.Source, v string) { s.Abbrev = v }),
		"TEXT":   m.sourceText,
		"DATA":   m.sourceData,
		"REPO":   m.sourceRepository,
		"_TMPLT": sourceTemplate,
	}
	withRecordBasics(t)
	withNotes(m, t, model.NoteSource)
	withMedia(m, t)
	withIdentifiers(t)
	return t
}

func (m *Mapper) sourceDataTable() handlerTable[*model.Source] {
	t := handlerTable[*model.Source]{
		"EVEN": func(s *model.Source, n *gedcom.Node) error {
			v, err := n.Text()
			if err != nil {
				return err
			}
			s.AddAttribute(model.Attribute{Type: model.AttributeDataEvent, Value: v})
			return nil
		},
		"AGNC": func(s *model.Source, n *gedcom.Node) error {
			v, err := n.Text()
			if err != nil {
				return err
			}
			s.AddAttribute(model.Attribute{Type: model.AttributeAgency, Value: v})
			return nil
		},
	}
	withNotes(m, t, model.NoteSource)
	return t
}

func sourceField(set func(*model.Source, string)) handler[*model.Source] {
	return func(s *model.Source, n *gedcom.Node) error {
		v, err := n.Text()
		if err != nil {
			return err
		}
		set(s, v)
		return nil
	}
}

// sourceText keeps the text of the source as a note.
func (m *Mapper) sourceText(s *model.Source, n *gedcom.Node) error {
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
	s.AddNote(note.Handle)
	return nil
}

func (m *Mapper) sourceData(s *model.Source, n *gedcom.Node) error {
	return dispatch(m, m.tables.sourceData, s, n)
}

// sourceRepository links a repository. A repository that does not exist is
// skipped with a warning instead of failing the import.
func (m *Mapper) sourceRepository(s *model.Source, n *gedcom.Node) error {
	h, ok, err := m.optionalPointer(n, model.CodeMissingRepository, "repository")
	if err != nil || !ok {
		return err
	}
	ref := &model.RepoRef{Ref: h}
	if err := dispatch(m, m.tables.repoRef, ref, n); err != nil {
		return err
	}
	s.RepoRefs = append(s.RepoRefs, *ref)
	return nil
}

func (m *Mapper) repoRefTable() handlerTable[*model.RepoRef] {
	t := handlerTable[*model.RepoRef]{
		"CALN": func(ref *model.RepoRef, n *gedcom.Node) error {
			v, err := n.Text()
			if err != nil {
				return err
			}
			if ref.CallNumber != "" {
				return nil
			}
			ref.CallNumber = v
			ref.MediaType, err = n.ChildText("MEDI")
			return err
		},
	}
	withNotes(m, t, model.NoteRepoRef)
	return t
}

// sourceTemplate stores a _TMPLT citation template as source attributes.
// Every _FIEL needs both a name and a TEXT value.
func sourceTemplate(s *model.Source, n *gedcom.Node) error {
	name, err := n.Text()
	if err != nil {
		return err
	}
	tmpl := citation.Template{Name: name}
	for _, f := range n.ChildrenWith("_FIEL") {
		field, err := f.Text()
		if err != nil {
			return err
		}
		text := f.Child("TEXT")
		if field == "" || text == nil {
			return gedcom.NewError(gedcom.ErrPartialField, f, "template field needs a name and a TEXT value")
		}
		value, err := text.Text()
		if err != nil {
			return err
		}
		tmpl.Set(field, value)
	}
	for _, a := range tmpl.Attributes() {
		s.AddAttribute(a)
	}
	return nil
}
