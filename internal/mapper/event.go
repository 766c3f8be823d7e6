package mapper

import (
	"strings"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// individualEvents maps individual event and attribute tags.
var individualEvents = map[string]model.EventType{
	"BIRT": model.EventBirth,
	"DEAT": model.EventDeath,
	"ADOP": model.EventAdopted,
	"CHRA": model.EventAdultChristening,
	"BARM": model.EventBarMitzvah,
	"BASM": model.EventBasMitzvah,
	"BAPM": model.EventBaptism,
	"BLES": model.EventBlessing,
	"BURI": model.EventBurial,
	"CENS": model.EventCensus,
	"CHR":  model.EventChristening,
	"CONF": model.EventConfirmation,
	"CREM": model.EventCremation,
	"EMIG": model.EventEmigration,
	"FCOM": model.EventFirstCommunion,
	"GRAD": model.EventGraduation,
	"IMMI": model.EventImmigration,
	"NATU": model.EventNaturalization,
	"ORDN": model.EventOrdination,
	"PROB": model.EventProbate,
	"RETI": model.EventRetirement,
	"WILL": model.EventWill,
	"CAST": model.EventCaste,
	"DSCR": model.EventDescription,
	"EDUC": model.EventEducation,
	"IDNO": model.EventIdentification,
	"NATI": model.EventNationality,
	"NCHI": model.EventNumChildren,
	"NMR":  model.EventNumMarriages,
	"OCCU": model.EventOccupation,
	"PROP": model.EventProperty,
	"RELI": model.EventReligion,
	"RESI": model.EventResidence,
	"SSN":  model.EventSSN,
	"TITL": model.EventNobilityTitle,
	"FACT": model.EventCustom,
	"EVEN": model.EventCustom,
}

// familyEvents maps family event and attribute tags.
var familyEvents = map[string]model.EventType{
	"ANUL": model.EventAnnulment,
	"CENS": model.EventCensus,
	"DIV":  model.EventDivorce,
	"DIVF": model.EventDivorceFiling,
	"ENGA": model.EventEngagement,
	"MARB": model.EventMarriageBanns,
	"MARC": model.EventMarriageContract,
	"MARL": model.EventMarriageLicense,
	"MARR": model.EventMarriage,
	"MARS": model.EventMarriageSettlement,
	"RESI": model.EventResidence,
	"NCHI": model.EventNumChildren,
	"FACT": model.EventCustom,
	"EVEN": model.EventCustom,
}

// mapEvent maps an event or attribute structure of the given type. The
// payload of attribute-like structures becomes the description; the "Y"
// assertion of events is dropped.
func (m *Mapper) mapEvent(n *gedcom.Node, typ model.EventType) (*model.Event, error) {
	ev := model.NewEvent(m.newHandle(), typ)
	v, err := n.Text()
	if err != nil {
		return nil, err
	}
	if v = strings.TrimSpace(v); v != "" && v != "Y" {
		ev.Description = v
	}
	if err := dispatch(m, m.tables.event, ev, n); err != nil {
		return nil, err
	}
	m.add(ev)
	return ev, nil
}

func (m *Mapper) eventTable() handlerTable[*model.Event] {
	t := handlerTable[*model.Event]{
		"TYPE":  eventType,
		"DATE":  eventDate,
		"PLAC":  m.eventPlace,
		"ADDR":  eventAddress,
		"PHON":  eventContact(model.AttributePhone, "Phone"),
		"EMAIL": eventContact(model.AttributeEmail, "Email"),
		"FAX":   eventContact(model.AttributeFax, "Fax"),
		"WWW":   eventContact(model.AttributeWebsite, "Website"),
		"AGNC":  eventAttribute(model.AttributeAgency),
		"RELI":  eventAttribute(model.AttributeReligion),
		"CAUS":  eventAttribute(model.AttributeCause),
		"AGE":   eventAttribute(model.AttributeAge),
		"HUSB":  eventSpouseAge,
		"WIFE":  eventSpouseAge,
		"ASSO":  m.eventAssociate,
		"SDATE": eventSortDate,
		"UID":   eventAttribute(model.AttributeUID),
	}
	withRecordBasics(t)
	withNotes(m, t, model.NoteEvent)
	withCitations(m, t)
	withMedia(m, t)
	return t
}

// eventType replaces the type of a custom event, or describes a typed one.
func eventType(ev *model.Event, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	switch {
	case ev.Type == model.EventCustom && v != "":
		ev.Type = model.EventType(v)
	case ev.Description == "":
		ev.Description = v
	}
	return nil
}

// eventDate sets the date. DATE.TIME becomes a "Time" attribute.
func eventDate(ev *model.Event, n *gedcom.Node) error {
	d, err := dateOf(n)
	if err != nil {
		return err
	}
	ev.Date = d
	if tn := n.Child(gedcom.TagTime); tn != nil {
		t, ok := tn.Value.(gedcom.Time)
		if !ok {
			return gedcom.NewError(gedcom.ErrMalformedValue, tn, "invalid time %q", tn.String())
		}
		ev.AddAttribute(model.Attribute{Type: model.AttributeTime, Value: t.String()})
	}
	return nil
}

func (m *Mapper) eventPlace(ev *model.Event, n *gedcom.Node) error {
	h, err := m.mapPlace(n)
	if err != nil {
		return err
	}
	ev.Place = h
	return nil
}

// eventAddress uses the address as description when the event has none.
func eventAddress(ev *model.Event, n *gedcom.Node) error {
	a, err := addressOf(n)
	if err != nil {
		return err
	}
	if ev.Description == "" {
		ev.Description = oneLine(a)
	}
	return nil
}

// eventContact stores a contact field as "<label>: <value>".
func eventContact(typ, label string) handler[*model.Event] {
	return func(ev *model.Event, n *gedcom.Node) error {
		v, err := n.Text()
		if err != nil {
			return err
		}
		ev.AddAttribute(model.Attribute{Type: typ, Value: label + ": " + v})
		return nil
	}
}

// eventAttribute stores the payload as an attribute of type typ.
func eventAttribute(typ string) handler[*model.Event] {
	return func(ev *model.Event, n *gedcom.Node) error {
		v, err := n.Text()
		if err != nil {
			return err
		}
		ev.AddAttribute(model.Attribute{Type: typ, Value: v})
		return nil
	}
}

// eventSpouseAge reads HUSB.AGE and WIFE.AGE of a family event.
func eventSpouseAge(ev *model.Event, n *gedcom.Node) error {
	for _, age := range n.ChildrenWith(gedcom.TagAge) {
		v, err := age.Text()
		if err != nil {
			return err
		}
		ev.AddAttribute(model.Attribute{Type: model.AttributeAge, Value: v})
	}
	return nil
}

// eventAssociate records an associated person on the event as
// "<id> (<role>)". Event associations do not create person references.
func (m *Mapper) eventAssociate(ev *model.Event, n *gedcom.Node) error {
	who, err := phrase(n)
	if err != nil {
		return err
	}
	if n.HasPointer() {
		if _, err := m.resolver.LookupPointer(n); err != nil {
			return err
		}
		if who, err = gedcom.ID(n.Pointer); err != nil {
			return err
		}
	}
	if who == "" {
		return nil
	}
	role, err := n.ChildText("ROLE")
	if err != nil {
		return err
	}
	if role != "" {
		who += " (" + role + ")"
	}
	ev.AddAttribute(model.Attribute{Type: model.AttributeAssociate, Value: who})
	return nil
}

func eventSortDate(ev *model.Event, n *gedcom.Node) error {
	ev.AddAttribute(model.Attribute{Type: model.AttributeSortDate, Value: n.String()})
	return nil
}
