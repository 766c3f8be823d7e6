package mapper

import (
	"net/url"
	"strings"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
	"github.com/nao1215/gedcom7import/internal/place"
)

// mapPlace maps a PLAC structure to a chain of places and returns the
// handle of the terminal (smallest) level. Metadata is applied to that
// level only.
func (m *Mapper) mapPlace(n *gedcom.Node) (string, error) {
	text, err := n.Text()
	if err != nil {
		return "", err
	}
	form := m.placeForm
	if f, err := n.ChildText("FORM"); err != nil {
		return "", err
	} else if f != "" {
		form = place.Split(f)
	}

	names := place.Split(text)
	levels := m.places.Chain(names)

	var terminal *model.Place
	if len(levels) == 0 {
		terminal = model.NewPlace(m.newHandle(), strings.TrimSpace(text))
		m.add(terminal)
	} else {
		for _, lv := range levels {
			if !lv.New {
				continue
			}
			p := model.NewPlace(lv.Handle, lv.Name)
			if lv.Index < len(form) && form[lv.Index] != "" {
				p.Type = model.PlaceType(form[lv.Index])
			}
			p.Title = placeTitle(names[lv.Index:])
			if lv.Parent != "" {
				p.PlaceRefs = []model.PlaceRef{{Ref: lv.Parent}}
			}
			m.add(p)
		}
		last := levels[len(levels)-1]
		p, ok := m.bundle.Place(last.Handle)
		if !ok {
			return "", gedcom.NewError(gedcom.ErrInvalidDocument, n, "place %q is not a place", last.Name)
		}
		terminal = p
	}

	if err := dispatch(m, m.tables.place, terminal, n); err != nil {
		return "", err
	}
	return terminal.Handle, nil
}

// placeTitle joins the non-blank names of a jurisdiction list.
func placeTitle(names []string) string {
	var parts []string
	for _, s := range names {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func (m *Mapper) placeTable() handlerTable[*model.Place] {
	t := handlerTable[*model.Place]{
		"FORM":  ignore[*model.Place],
		"MAP":   placeMap,
		"LANG":  placeLanguage,
		"TRAN":  placeTranslation,
		"EXID":  placeExternalID,
		"NOTE":  m.placeNote,
		"SNOTE": m.placeSharedNote,
	}
	return t
}

// placeMap sets coordinates unless the place already has them.
func placeMap(p *model.Place, n *gedcom.Node) error {
	lat, long := n.Child("LATI"), n.Child("LONG")
	if lat == nil || long == nil {
		return gedcom.NewError(gedcom.ErrPartialField, n, "MAP requires both LATI and LONG")
	}
	latText, err := lat.Text()
	if err != nil {
		return err
	}
	longText, err := long.Text()
	if err != nil {
		return err
	}
	if p.Latitude != "" || p.Longitude != "" {
		return nil
	}
	p.Latitude = coordinate(latText, 'N', 'S')
	p.Longitude = coordinate(longText, 'E', 'W')
	return nil
}

// coordinate turns "N18.150944" into "18.150944" and "W168.150944" into
// "-168.150944". Values without a hemisphere prefix are kept.
func coordinate(s string, positive, negative byte) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	switch strings.ToUpper(s[:1])[0] {
	case positive:
		return s[1:]
	case negative:
		return "-" + s[1:]
	default:
		return s
	}
}

// placeLanguage sets the language of the primary name when it has none.
func placeLanguage(p *model.Place, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	if p.Name.Lang == "" {
		p.Name.Lang = normalizeLang(v)
	}
	return nil
}

// placeTranslation adds an alternate name once.
func placeTranslation(p *model.Place, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	lang, err := n.ChildText("LANG")
	if err != nil {
		return err
	}
	name := model.PlaceName{Value: v, Lang: normalizeLang(lang)}
	if !p.HasName(name) {
		p.AlternateNames = append(p.AlternateNames, name)
	}
	return nil
}

// placeExternalID keeps an EXID as a link. A TYPE that is an absolute web
// URL becomes the link target with the EXID value as description; otherwise
// the EXID value is the target and the type goes into the description.
func placeExternalID(p *model.Place, n *gedcom.Node) error {
	v, err := n.Text()
	if err != nil {
		return err
	}
	typ, err := n.ChildText("TYPE")
	if err != nil {
		return err
	}

	u := model.URL{Path: v, Description: "External ID: " + v, Type: model.URLCustom}
	switch {
	case isWebURL(typ):
		u.Path, u.Description = typ, v
	case typ != "":
		u.Description += " (Type: " + typ + ")"
	}
	if !p.HasURL(u.Path) {
		p.AddURL(u)
	}
	return nil
}

// isWebURL reports whether s is an absolute http or https URL with a host.
func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// placeNote adds an inline note unless a note with the same text is already
// attached to the place.
func (m *Mapper) placeNote(p *model.Place, n *gedcom.Node) error {
	if !n.HasPointer() {
		text, err := n.Text()
		if err != nil {
			return err
		}
		for _, h := range p.Notes {
			if note, ok := m.bundle.Note(h); ok && note.Text.Text == text {
				return nil
			}
		}
	}
	h, err := m.note(n, model.NotePlace)
	if err != nil {
		return err
	}
	p.AddNote(h)
	return nil
}

func (m *Mapper) placeSharedNote(p *model.Place, n *gedcom.Node) error {
	h, ok, err := m.sharedNote(n)
	if err != nil || !ok {
		return err
	}
	p.AddNote(h)
	return nil
}
