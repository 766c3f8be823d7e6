package mapper

import (
	"strings"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// nameBuilder is the owner of NAME children. Evidence references under a
// name are attached to the person.
type nameBuilder struct {
	name   *model.Name
	person *personBuilder
}

var nameTypes = map[string]model.NameType{
	"BIRTH":        model.NameBirth,
	"AKA":          model.NameAKA,
	"MARRIED":      model.NameMarried,
	"IMMIGRANT":    "Immigrant",
	"MAIDEN":       "Maiden",
	"PROFESSIONAL": "Professional",
	"OTHER":        "Other",
}

// personName maps NAME. Translations become additional names.
func (m *Mapper) personName(p *personBuilder, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	name := parseName(v)
	name.Type = model.NameBirth
	b := &nameBuilder{name: &name, person: p}
	if err := dispatch(m, m.tables.name, b, n); err != nil {
		return err
	}
	p.names = append(p.names, name)

	for _, tr := range n.ChildrenWith("TRAN") {
		alt, err := m.translatedName(tr, name.Type)
		if err != nil {
			return err
		}
		p.names = append(p.names, alt)
	}
	return nil
}

// translatedName maps NAME.TRAN. The translation keeps the type of the
// name it translates.
func (m *Mapper) translatedName(n *gedcom.Node, typ model.NameType) (model.Name, error) {
	v, err := n.Text()
	if err != nil {
		return model.Name{}, err
	}
	name := parseName(v)
	b := &nameBuilder{name: &name}
	for _, c := range n.Children {
		if c.Is("LANG") {
			lang, err := c.Text()
			if err != nil {
				return model.Name{}, err
			}
			name.Lang = normalizeLang(lang)
			continue
		}
		if h, ok := nameParts[c.ShortTag()]; ok {
			if err := h(b, c); err != nil {
				return model.Name{}, err
			}
		}
	}
	name.Type = typ
	return name, nil
}

// parseName splits "Given /Surname/ Suffix".
func parseName(s string) model.Name {
	var name model.Name
	open := strings.Index(s, "/")
	if open < 0 {
		name.First = strings.TrimSpace(s)
		return name
	}
	name.First = strings.TrimSpace(s[:open])
	rest := s[open+1:]
	surname := rest
	if end := strings.Index(rest, "/"); end >= 0 {
		surname = rest[:end]
		name.Suffix = strings.TrimSpace(rest[end+1:])
	}
	if surname = strings.TrimSpace(surname); surname != "" {
		name.Surnames = []model.Surname{{Surname: surname, Primary: true}}
	}
	return name
}

// nameParts are the NAME and TRAN children that set name pieces.
var nameParts = handlerTable[*nameBuilder]{
	"NPFX": namePart(func(n *model.Name, v string) { n.Title = v }),
	"GIVN": namePart(func(n *model.Name, v string) { n.First = v }),
	"NICK": namePart(func(n *model.Name, v string) { n.Nickname = v }),
	"NSFX": namePart(func(n *model.Name, v string) { n.Suffix = v }),
	"SPFX": namePart(func(n *model.Name, v string) {
		primarySurname(n).Prefix = v
	}),
	"SURN": namePart(func(n *model.Name, v string) {
		primarySurname(n).Surname = v
	}),
}

func namePart(set func(*model.Name, string)) handler[*nameBuilder] {
	return func(b *nameBuilder, n *gedcom.Node) error {
		v, err := n.Text()
		if err != nil {
			return err
		}
		set(b.name, v)
		return nil
	}
}

// primarySurname returns the primary surname, adding one if the name has
// none.
func primarySurname(n *model.Name) *model.Surname {
	for i := range n.Surnames {
		if n.Surnames[i].Primary {
			return &n.Surnames[i]
		}
	}
	n.Surnames = append(n.Surnames, model.Surname{Primary: true})
	return &n.Surnames[len(n.Surnames)-1]
}

func (m *Mapper) nameTable() handlerTable[*nameBuilder] {
	t := handlerTable[*nameBuilder]{
		"TYPE":  nameType,
		"TRAN":  ignore[*nameBuilder],
		"_EVID": m.nameEvidence,
		"RESN": func(b *nameBuilder, n *gedcom.Node) error {
			private, err := restricted(n)
			if err != nil {
				return err
			}
			b.name.Private = b.name.Private || private
			return nil
		},
		"NOTE": func(b *nameBuilder, n *gedcom.Node) error {
			h, err := m.note(n, model.NoteName)
			if err != nil {
				return err
			}
			b.name.AddNote(h)
			return nil
		},
		"SNOTE": func(b *nameBuilder, n *gedcom.Node) error {
			h, ok, err := m.sharedNote(n)
			if err != nil || !ok {
				return err
			}
			b.name.AddNote(h)
			return nil
		},
		"SOUR": func(b *nameBuilder, n *gedcom.Node) error {
			h, err := m.citation(n)
			if err != nil {
				return err
			}
			b.name.AddCitation(h)
			return nil
		},
	}
	for tag, h := range nameParts {
		t[tag] = h
	}
	return t
}

// nameType maps NAME.TYPE. For the custom types the PHRASE wins.
func nameType(b *nameBuilder, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	typ, ok := nameTypes[strings.ToUpper(v)]
	if !ok {
		typ = model.NameType(v)
	}
	switch typ {
	case model.NameBirth, model.NameAKA, model.NameMarried:
	default:
		text, err := phrase(n)
		if err != nil {
			return err
		}
		if text != "" {
			typ = model.NameType(text)
		}
	}
	b.name.Type = typ
	return nil
}

// nameEvidence attaches an evidence reference under a name to the person.
func (m *Mapper) nameEvidence(b *nameBuilder, n *gedcom.Node) error {
	if b.person == nil {
		return nil
	}
	return m.personEvidence(b.person, n)
}
