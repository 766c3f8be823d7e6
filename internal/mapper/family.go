package mapper

import (
	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// mapFamily maps a FAM record. A family with a marriage event is Married.
func (m *Mapper) mapFamily(n *gedcom.Node) error {
	handle, id, err := m.recordHandle(n, false)
	if err != nil {
		return err
	}
	f := model.NewFamily(handle)
	f.ID = id
	if err := dispatch(m, m.tables.family, f, n); err != nil {
		return err
	}
	return m.addRecord(f, n)
}

func (m *Mapper) familyTable() handlerTable[*model.Family] {
	t := handlerTable[*model.Family]{
		"HUSB": m.familyPartner("Father", func(f *model.Family, h string) { f.Father = h }),
		"WIFE": m.familyPartner("Mother", func(f *model.Family, h string) { f.Mother = h }),
		"CHIL": m.familyChild,
		"SUBM": ignore[*model.Family],
	}
	for tag, typ := range familyEvents {
		t[tag] = m.familyEvent(typ)
	}
	withRecordBasics(t)
	withNotes(m, t, model.NoteFamily)
	withCitations(m, t)
	withMedia(m, t)
	withIdentifiers(t)
	return t
}

// familyPartner maps HUSB or WIFE. A PHRASE becomes a family note
// "<label>: <phrase>" even when the pointer is void.
func (m *Mapper) familyPartner(label string, set func(*model.Family, string)) handler[*model.Family] {
	return func(f *model.Family, n *gedcom.Node) error {
		h, ok, err := m.pointer(n)
		if err != nil {
			return err
		}
		if ok {
			set(f, h)
		}
		text, err := phrase(n)
		if err != nil {
			return err
		}
		if text != "" {
			f.AddNote(m.plainNote(label+": "+text, model.NoteFamily))
		}
		return nil
	}
}

// familyChild maps CHIL to a child reference. Void children are dropped.
func (m *Mapper) familyChild(f *model.Family, n *gedcom.Node) error {
	h, ok, err := m.pointer(n)
	if err != nil || !ok {
		return err
	}
	if f.ChildRef(h) != nil {
		return nil
	}
	ref := model.ChildRef{Ref: h, FatherRel: model.ChildBirth, MotherRel: model.ChildBirth}
	text, err := phrase(n)
	if err != nil {
		return err
	}
	if text != "" {
		ref.AddNote(m.plainNote(text, model.NoteChildRef))
	}
	f.ChildRefs = append(f.ChildRefs, ref)
	return nil
}

// familyEvent maps a family event and references it with role Family.
func (m *Mapper) familyEvent(typ model.EventType) handler[*model.Family] {
	return func(f *model.Family, n *gedcom.Node) error {
		ev, err := m.mapEvent(n, typ)
		if err != nil {
			return err
		}
		f.AddEventRef(model.EventRef{Ref: ev.Handle, Role: model.RoleFamily})
		if typ == model.EventMarriage {
			f.Relationship = model.FamilyMarried
		}
		return nil
	}
}
