package mapper

import (
	"strings"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// mapRepository maps a REPO record.
func (m *Mapper) mapRepository(n *gedcom.Node) error {
	handle, id, err := m.recordHandle(n, false)
	if err != nil {
		return err
	}
	repo := model.NewRepository(handle)
	repo.ID = id
	repo.Type = model.RepositoryLibrary
	if err := dispatch(m, m.tables.repository, repo, n); err != nil {
		return err
	}
	return m.addRecord(repo, n)
}

func (m *Mapper) repositoryTable() handlerTable[*model.Repository] {
	t := handlerTable[*model.Repository]{
		"NAME": repositoryName,
		"ADDR": func(r *model.Repository, n *gedcom.Node) error {
			a, err := addressOf(n)
			if err != nil {
				return err
			}
			r.AddAddress(a)
			return nil
		},
	}
	withContacts(t)
	withNotes(m, t, model.NoteRepository)
	withRecordBasics(t)
	for _, tag := range []string{"UID", "REFN", "EXID"} {
		t[tag] = ignore[*model.Repository]
	}
	return t
}

func repositoryName(r *model.Repository, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	r.Name = v
	return nil
}

// addressParts reads the parts of an ADDR structure. ADR1 to ADR3 are
// joined into the street on separate lines.
var addressParts = func() handlerTable[*model.Address] {
	field := func(set func(*model.Address, string)) handler[*model.Address] {
		return func(a *model.Address, n *gedcom.Node) error {
			v, err := n.Text()
			if err != nil {
				return err
			}
			set(a, v)
			return nil
		}
	}
	street := field(func(a *model.Address, v string) {
		if a.Street == "" {
			a.Street = v
			return
		}
		a.Street += "\n" + v
	})
	return handlerTable[*model.Address]{
		"ADR1": street,
		"ADR2": street,
		"ADR3": street,
		"CITY": field(func(a *model.Address, v string) { a.City = v }),
		"STAE": field(func(a *model.Address, v string) { a.State = v }),
		"POST": field(func(a *model.Address, v string) { a.PostalCode = v }),
		"CTRY": field(func(a *model.Address, v string) { a.Country = v }),
	}
}()

// addressOf reads an ADDR structure. The payload is the street unless ADR1
// to ADR3 are given. Unknown parts are ignored silently.
func addressOf(n *gedcom.Node) (model.Address, error) {
	v, err := n.Text()
	if err != nil {
		return model.Address{}, err
	}
	var a model.Address
	for _, c := range n.Children {
		h, ok := addressParts[c.ShortTag()]
		if !ok {
			continue
		}
		if err := h(&a, c); err != nil {
			return model.Address{}, err
		}
	}
	if a.Street == "" {
		a.Street = v
	}
	return a, nil
}

// oneLine renders an address on one line, street lines first.
func oneLine(a model.Address) string {
	var parts []string
	for _, s := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		for _, line := range strings.Split(s, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				parts = append(parts, line)
			}
		}
	}
	return strings.Join(parts, ", ")
}
