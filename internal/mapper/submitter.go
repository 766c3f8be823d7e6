package mapper

import (
	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// Submitters are kept as repositories of this custom type.
const submitterRepositoryType model.RepositoryType = "GEDCOM data"

// URL types used for submitter phone and fax numbers.
const (
	urlPhone model.URLType = "Phone"
	urlFax   model.URLType = "Fax"
)

// submitterBuilder maps a SUBM record and collects the researcher fields
// at the same time.
type submitterBuilder struct {
	*model.Repository
	researcher model.Researcher
}

// mapSubmitter maps a SUBM record to a repository. The submitter named by
// HEAD.SUBM also becomes the researcher of the run.
func (m *Mapper) mapSubmitter(n *gedcom.Node) error {
	handle, id, err := m.recordHandle(n, false)
	if err != nil {
		return err
	}
	b := &submitterBuilder{Repository: model.NewRepository(handle)}
	b.ID = id
	b.Type = submitterRepositoryType
	if err := dispatch(m, m.tables.submitter, b, n); err != nil {
		return err
	}
	if b.Name == "" {
		b.Name = "Submitter " + id
	}
	if n.Xref != "" && n.Xref == m.header.Submitter {
		r := b.researcher
		m.researcher = &r
	}
	return m.addRecord(b.Repository, n)
}

func (m *Mapper) submitterTable() handlerTable[*submitterBuilder] {
	t := handlerTable[*submitterBuilder]{
		"NAME": func(b *submitterBuilder, n *gedcom.Node) error {
			v, err := n.Text()
			if err != nil {
				return err
			}
			b.Name = "Submitter: " + v
			b.researcher.Name = v
			return nil
		},
		"ADDR": func(b *submitterBuilder, n *gedcom.Node) error {
			a, err := addressOf(n)
			if err != nil {
				return err
			}
			b.AddAddress(a)
			if b.researcher.Street == "" {
				b.researcher.Street = a.Street
				b.researcher.City = a.City
				b.researcher.State = a.State
				b.researcher.PostalCode = a.PostalCode
				b.researcher.Country = a.Country
			}
			return nil
		},
		"PHON": submitterURL(urlPhone, func(r *model.Researcher, v string) {
			if r.Phone == "" {
				r.Phone = v
			}
		}),
		"EMAIL": submitterURL(model.URLEmail, func(r *model.Researcher, v string) {
			if r.Email == "" {
				r.Email = v
			}
		}),
		"FAX": submitterURL(urlFax, nil),
		"WWW": submitterURL(model.URLWebHome, nil),
		"NOTE": func(b *submitterBuilder, n *gedcom.Node) error {
			h, err := m.note(n, model.NoteRepository)
			if err != nil {
				return err
			}
			b.AddNote(h)
			return nil
		},
		"SNOTE": m.submitterSharedNote,
	}
	for _, tag := range []string{"OBJE", "EXID", "REFN", "UID", "LANG"} {
		t[tag] = ignore[*submitterBuilder]
	}
	withRecordBasics(t)
	return t
}

func submitterURL(typ model.URLType, research func(*model.Researcher, string)) handler[*submitterBuilder] {
	return func(b *submitterBuilder, n *gedcom.Node) error {
		v, err := n.Text()
		if err != nil {
			return err
		}
		b.AddURL(model.URL{Path: v, Type: typ})
		if research != nil {
			research(&b.researcher, v)
		}
		return nil
	}
}

// submitterSharedNote links a shared note. A missing note is skipped with
// a warning.
func (m *Mapper) submitterSharedNote(b *submitterBuilder, n *gedcom.Node) error {
	h, ok, err := m.optionalPointer(n, model.CodeMissingNote, "shared note")
	if err != nil || !ok {
		return err
	}
	b.AddNote(h)
	return nil
}
