package mapper

import (
	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// Finalize runs the link pass. It must be called once, after every record
// has been mapped. Links to records that turned out not to be families or
// people are dropped. A pointer whose target has no entity is an
// unresolved reference.
func (m *Mapper) Finalize() error {
	if err := m.checkLinks(); err != nil {
		return err
	}
	m.linkParents()
	m.linkSpouses()
	m.linkParticipants()
	return nil
}

// checkLinks fails on the first resolved pointer whose target was never
// added to the bundle.
func (m *Mapper) checkLinks() error {
	for _, l := range m.links {
		if _, ok := m.bundle.Get(l.handle); !ok {
			return gedcom.Unresolved(l.node, l.node.Pointer)
		}
	}
	m.links = nil
	return nil
}

// linkParents completes the child references named by FAMC.
func (m *Mapper) linkParents() {
	for _, l := range m.parentLinks {
		f, ok := m.bundle.Family(l.family)
		if !ok {
			continue
		}
		ref := f.ChildRef(l.person)
		if ref == nil {
			f.ChildRefs = append(f.ChildRefs, model.ChildRef{
				Ref:       l.person,
				FatherRel: model.ChildBirth,
				MotherRel: model.ChildBirth,
			})
			ref = &f.ChildRefs[len(f.ChildRefs)-1]
		}
		if l.relation != "" {
			ref.FatherRel = l.relation
			ref.MotherRel = l.relation
		}
		for _, h := range l.notes {
			ref.AddNote(h)
		}
	}
	m.parentLinks = nil
}

// linkSpouses adds "Spouse (<name>): <phrase>" notes to families.
func (m *Mapper) linkSpouses() {
	for _, l := range m.spouseLinks {
		f, ok := m.bundle.Family(l.family)
		if !ok {
			continue
		}
		name := ""
		if p, ok := m.bundle.Person(l.person); ok {
			name = p.PrimaryName.Display()
		}
		f.AddNote(m.plainNote("Spouse ("+name+"): "+l.phrase, model.NoteFamily))
	}
	m.spouseLinks = nil
}

// linkParticipants gives every occurrence participant an event reference
// unless the person already references the occurrence.
func (m *Mapper) linkParticipants() {
	for _, ev := range m.bundle.Events() {
		for _, part := range m.participants[ev.Handle] {
			p, ok := m.bundle.Person(part.person)
			if !ok || p.References(ev.Handle) {
				continue
			}
			p.AddEventRef(part.ref)
		}
	}
	clear(m.participants)
}
