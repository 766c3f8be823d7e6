package mapper

import (
	"strings"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// personBuilder collects the names of a person until the record is done,
// since the primary name is chosen among all of them.
type personBuilder struct {
	*model.Person
	names []model.Name
}

var genders = map[string]model.Gender{
	"M": model.GenderMale,
	"F": model.GenderFemale,
	"X": model.GenderOther,
	"U": model.GenderUnknown,
}

var pedigrees = map[string]model.ChildRelType{
	"BIRTH":   model.ChildBirth,
	"ADOPTED": model.ChildAdopted,
	"FOSTER":  model.ChildFoster,
	"SEALING": model.ChildUnknown,
	"OTHER":   model.ChildUnknown,
}

// parentLink is a FAMC waiting for the link pass.
type parentLink struct {
	person   string
	family   string
	relation model.ChildRelType
	notes    []string
}

// spouseLink is a FAMS PHRASE waiting for the link pass.
type spouseLink struct {
	person string
	family string
	phrase string
}

// mapIndividual maps an INDI record.
func (m *Mapper) mapIndividual(n *gedcom.Node) error {
	handle, id, err := m.recordHandle(n, false)
	if err != nil {
		return err
	}
	p := &personBuilder{Person: model.NewPerson(handle)}
	p.ID = id
	if err := dispatch(m, m.tables.individual, p, n); err != nil {
		return err
	}
	p.setNames()
	return m.addRecord(p.Person, n)
}

// setNames makes the first birth name primary, or the first name when no
// name is a birth name.
func (p *personBuilder) setNames() {
	if len(p.names) == 0 {
		return
	}
	primary := 0
	for i, name := range p.names {
		if name.Type == model.NameBirth {
			primary = i
			break
		}
	}
	p.PrimaryName = p.names[primary]
	for i, name := range p.names {
		if i != primary {
			p.AlternateNames = append(p.AlternateNames, name)
		}
	}
}

func (m *Mapper) individualTable() handlerTable[*personBuilder] {
	t := handlerTable[*personBuilder]{
		"NAME":   m.personName,
		"SEX":    personSex,
		"FAMC":   m.personParentFamily,
		"FAMS":   m.personFamily,
		"ALIA":   m.personAlias,
		"ASSO":   m.personAssociation,
		"SUBM":   ignore[*personBuilder],
		"ANCI":   ignore[*personBuilder],
		"DESI":   ignore[*personBuilder],
		"_OCREF": m.personOccurrence,
		"_EVID":  m.personEvidence,
	}
	for tag, typ := range individualEvents {
		t[tag] = m.personEvent(typ)
	}
	withRecordBasics(t)
	withNotes(m, t, model.NotePerson)
	withCitations(m, t)
	withMedia(m, t)
	withIdentifiers(t)
	withContacts(t)
	return t
}

func personSex(p *personBuilder, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	g, ok := genders[strings.ToUpper(strings.TrimSpace(v))]
	if !ok {
		return gedcom.NewError(gedcom.ErrMalformedValue, n, "SEX must be M, F, X or U, got %q", v)
	}
	p.Gender = g
	return nil
}

// personEvent maps an individual event and references it with role
// Primary. The first birth and death are the person's birth and death.
func (m *Mapper) personEvent(typ model.EventType) handler[*personBuilder] {
	return func(p *personBuilder, n *gedcom.Node) error {
		ev, err := m.mapEvent(n, typ)
		if err != nil {
			return err
		}
		p.AddEventRef(model.EventRef{Ref: ev.Handle, Role: model.RolePrimary})
		switch {
		case typ == model.EventBirth && p.BirthRefIndex < 0:
			p.BirthRefIndex = len(p.EventRefs) - 1
		case typ == model.EventDeath && p.DeathRefIndex < 0:
			p.DeathRefIndex = len(p.EventRefs) - 1
		}
		return nil
	}
}

// personParentFamily records FAMC. The child reference in the family is
// completed in the link pass.
func (m *Mapper) personParentFamily(p *personBuilder, n *gedcom.Node) error {
	h, ok, err := m.pointer(n)
	if err != nil || !ok {
		return err
	}
	p.AddParentFamily(h)

	link := parentLink{person: p.Handle, family: h}
	if pedi := n.Child("PEDI"); pedi != nil {
		v, err := pedi.Text()
		if err != nil {
			return err
		}
		rel, ok := pedigrees[strings.ToUpper(v)]
		if !ok {
			rel = model.ChildUnknown
		}
		link.relation = rel
		text, err := phrase(pedi)
		if err != nil {
			return err
		}
		if text != "" {
			link.notes = append(link.notes, m.plainNote("Pedigree: "+text, model.NoteChildRef))
		}
	}
	if text, err := phrase(n); err != nil {
		return err
	} else if text != "" {
		link.notes = append(link.notes, m.plainNote("Pedigree: "+text, model.NoteChildRef))
	}
	for _, c := range n.ChildrenWith("NOTE") {
		h, err := m.note(c, model.NoteChildRef)
		if err != nil {
			return err
		}
		link.notes = append(link.notes, h)
	}
	m.parentLinks = append(m.parentLinks, link)
	return nil
}

// personFamily records FAMS. A PHRASE becomes a family note in the link
// pass, when the person's name is known.
func (m *Mapper) personFamily(p *personBuilder, n *gedcom.Node) error {
	h, ok, err := m.pointer(n)
	if err != nil || !ok {
		return err
	}
	p.AddFamily(h)
	text, err := phrase(n)
	if err != nil {
		return err
	}
	if text != "" {
		m.spouseLinks = append(m.spouseLinks, spouseLink{person: p.Handle, family: h, phrase: text})
	}
	return nil
}

// personAlias maps ALIA to a person reference with relation "ALIA".
func (m *Mapper) personAlias(p *personBuilder, n *gedcom.Node) error {
	h, ok, err := m.pointer(n)
	if err != nil || !ok {
		return err
	}
	ref := model.PersonRef{Ref: h, Relation: "ALIA"}
	text, err := phrase(n)
	if err != nil {
		return err
	}
	if text != "" {
		ref.AddNote(m.plainNote(text, model.NotePersonRef))
	}
	p.PersonRefs = append(p.PersonRefs, ref)
	return nil
}

// personAssociation maps ASSO to a person reference whose relation is the
// ROLE value.
func (m *Mapper) personAssociation(p *personBuilder, n *gedcom.Node) error {
	h, ok, err := m.pointer(n)
	if err != nil || !ok {
		return err
	}
	ref := &model.PersonRef{Ref: h}
	if err := dispatch(m, m.tables.association, ref, n); err != nil {
		return err
	}
	if text, err := phrase(n); err != nil {
		return err
	} else if text != "" {
		ref.AddNote(m.plainNote(text, model.NotePersonRef))
	}
	p.PersonRefs = append(p.PersonRefs, *ref)
	return nil
}

func (m *Mapper) associationTable() handlerTable[*model.PersonRef] {
	t := handlerTable[*model.PersonRef]{
		"PHRASE": ignore[*model.PersonRef],
		"ROLE": func(ref *model.PersonRef, n *gedcom.Node) error {
			v, err := n.Text()
			if err != nil {
				return err
			}
			ref.Relation = v
			text, err := phrase(n)
			if err != nil {
				return err
			}
			if text != "" {
				ref.AddNote(m.plainNote(text, model.NotePersonRef))
			}
			return nil
		},
	}
	withNotes(m, t, model.NotePersonRef)
	withCitations(m, t)
	return t
}
