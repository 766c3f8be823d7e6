package mapper

import (
	"strings"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// occurrenceTypes maps the TYPE of an _OCUR record. Other values are
// custom event types kept verbatim.
var occurrenceTypes = map[string]model.EventType{
	"Census":         model.EventCensus,
	"Burial":         model.EventBurial,
	"Marriage":       model.EventMarriage,
	"Divorce":        model.EventDivorce,
	"Birth":          model.EventBirth,
	"Death":          model.EventDeath,
	"Baptism":        model.EventBaptism,
	"Christening":    model.EventChristening,
	"Adoption":       model.EventAdopted,
	"Confirmation":   model.EventConfirmation,
	"Cremation":      model.EventCremation,
	"Emigration":     model.EventEmigration,
	"Immigration":    model.EventImmigration,
	"Naturalization": model.EventNaturalization,
	"Probate":        model.EventProbate,
	"Will":           model.EventWill,
	"Graduation":     model.EventGraduation,
	"Retirement":     model.EventRetirement,
	"Occupation":     model.EventOccupation,
	"Education":      model.EventEducation,
	"Residence":      model.EventResidence,
	"Religion":       model.EventReligion,
	"Military":       model.EventMilitaryService,
}

// occurrenceRoles maps participant roles. Other values are custom roles.
var occurrenceRoles = map[string]model.EventRole{
	"Principal": model.RolePrimary,
	"Witness":   model.RoleWitness,
	"Officiant": model.RoleClergy,
	"Informant": model.RoleInformant,
	"Head":      model.RoleFamily,
	"Member":    model.RoleFamily,
	"Groom":     model.RoleGroom,
	"Bride":     model.RoleBride,
	"Guest":     model.RoleWitness,
}

func occurrenceRole(s string) model.EventRole {
	s = strings.TrimSpace(s)
	if r, ok := occurrenceRoles[s]; ok {
		return r
	}
	return model.EventRole(s)
}

// participant is a _PART of an occurrence. Participants become event
// references in the link pass.
type participant struct {
	person string
	ref    model.EventRef
}

// mapOccurrence maps an _OCUR record to a shared event.
func (m *Mapper) mapOccurrence(n *gedcom.Node) error {
	handle, id, err := m.recordHandle(n, true)
	if err != nil {
		return err
	}
	ev := model.NewEvent(handle, model.EventCustom)
	ev.ID = id
	if err := dispatch(m, m.tables.occurrence, ev, n); err != nil {
		return err
	}
	return m.addRecord(ev, n)
}

func (m *Mapper) occurrenceTable() handlerTable[*model.Event] {
	t := handlerTable[*model.Event]{
		"TYPE":  occurrenceType,
		"DATE":  eventDate,
		"PLAC":  m.eventPlace,
		"UID":   eventAttribute(model.AttributeUID),
		"_ATTR": occurrenceAttribute,
		"_PART": m.occurrenceParticipant,
	}
	withRecordBasics(t)
	withNotes(m, t, model.NoteEvent)
	withCitations(m, t)
	withMedia(m, t)
	return t
}

// occurrenceType sets the event type. TYPE.PHRASE is the description.
func occurrenceType(ev *model.Event, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	v = strings.TrimSpace(v)
	if typ, ok := occurrenceTypes[v]; ok {
		ev.Type = typ
	} else if v != "" {
		ev.Type = model.EventType(v)
	}
	text, err := phrase(n)
	if err != nil {
		return err
	}
	if text != "" {
		ev.Description = text
	}
	return nil
}

// occurrenceAttribute maps _ATTR: the TYPE child names the attribute and
// the payload is its value.
func occurrenceAttribute(ev *model.Event, n *gedcom.Node) error {
	typ, err := n.ChildText("TYPE")
	if err != nil {
		return err
	}
	if typ == "" {
		return nil
	}
	v, err := n.Text()
	if err != nil {
		return err
	}
	ev.AddAttribute(model.Attribute{Type: typ, Value: v})
	return nil
}

// occurrenceParticipant records a _PART for the link pass.
func (m *Mapper) occurrenceParticipant(ev *model.Event, n *gedcom.Node) error {
	h, ok, err := m.pointer(n)
	if err != nil || !ok {
		return err
	}
	p := &participant{person: h, ref: model.EventRef{Ref: ev.Handle, Role: model.RolePrimary}}
	if err := dispatch(m, m.tables.participant, p, n); err != nil {
		return err
	}
	m.participants[ev.Handle] = append(m.participants[ev.Handle], *p)
	return nil
}

func (m *Mapper) participantTable() handlerTable[*participant] {
	return handlerTable[*participant]{
		"ROLE": func(p *participant, n *gedcom.Node) error {
			return refRole(&p.ref, n)
		},
		"NOTE": func(p *participant, n *gedcom.Node) error {
			h, err := m.note(n, model.NoteEventRef)
			if err != nil {
				return err
			}
			p.ref.AddNote(h)
			return nil
		},
		"_PRESENCE": func(p *participant, n *gedcom.Node) error {
			return refPresence(&p.ref, n)
		},
	}
}

// personOccurrence maps _OCREF to an event reference. The pointer is
// required.
func (m *Mapper) personOccurrence(p *personBuilder, n *gedcom.Node) error {
	if n.Pointer == "" {
		return gedcom.NewError(gedcom.ErrMalformedValue, n, "occurrence reference must have a pointer")
	}
	h, ok, err := m.pointer(n)
	if err != nil || !ok {
		return err
	}
	ref := &model.EventRef{Ref: h, Role: model.RolePrimary}
	if err := dispatch(m, m.tables.occurrenceRef, ref, n); err != nil {
		return err
	}
	p.AddEventRef(*ref)
	return nil
}

func (m *Mapper) occurrenceRefTable() handlerTable[*model.EventRef] {
	t := handlerTable[*model.EventRef]{
		"ROLE":      refRole,
		"_PRESENCE": refPresence,
	}
	withNotes(m, t, model.NoteEventRef)
	withCitations(m, t)
	return t
}

func refRole(ref *model.EventRef, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	if v != "" {
		ref.Role = occurrenceRole(v)
	}
	return nil
}

// refPresence records an absent participant.
func refPresence(ref *model.EventRef, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(v), "Absent") {
		ref.AddAttribute(model.Attribute{Type: model.AttributePresence, Value: "Absent"})
	}
	return nil
}
