package mapper

import (
	"strings"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
	"github.com/nao1215/gedcom7import/internal/place"
)

// Header is what the importer keeps from HEAD.
type Header struct {
	GedcomVersion string            `json:"gedcom_version,omitempty"`
	SourceSystem  string            `json:"source_system,omitempty"`
	SourceVersion string            `json:"source_version,omitempty"`
	SourceName    string            `json:"source_name,omitempty"`
	Destination   string            `json:"destination,omitempty"`
	Date          *model.Date       `json:"date,omitempty"`
	Submitter     string            `json:"submitter,omitempty"`
	Copyright     string            `json:"copyright,omitempty"`
	Language      string            `json:"language,omitempty"`
	PlaceForm     []string          `json:"place_form,omitempty"`
	Note          string            `json:"note,omitempty"`
	Schema        map[string]string `json:"schema,omitempty"`
}

// MapHeader reads HEAD. Extension declarations are handed to the registry
// and HEAD.PLAC.FORM replaces the default place form for this document.
func (m *Mapper) MapHeader(n *gedcom.Node) (Header, error) {
	if !n.Is(gedcom.TagHeader) {
		return Header{}, gedcom.NewError(gedcom.ErrInvalidDocument, n, "first record must be HEAD, got %s", n.ShortTag())
	}
	h := Header{Schema: make(map[string]string)}
	if err := dispatch(m, m.tables.header, &h, n); err != nil {
		return Header{}, err
	}
	m.registry.Declare(h.Schema)
	if len(h.PlaceForm) > 0 {
		m.placeForm = h.PlaceForm
	}
	m.header = h
	return h, nil
}

func (m *Mapper) headerTable() handlerTable[*Header] {
	text := func(set func(*Header, string)) handler[*Header] {
		return func(h *Header, n *gedcom.Node) error {
			v, err := n.Text()
			if err != nil {
				return err
			}
			set(h, v)
			return nil
		}
	}
	return handlerTable[*Header]{
		"GEDC": func(h *Header, n *gedcom.Node) error {
			v, err := n.ChildText("VERS")
			h.GedcomVersion = v
			return err
		},
		"SOUR": func(h *Header, n *gedcom.Node) error {
			var err error
			if h.SourceSystem, err = n.Text(); err != nil {
				return err
			}
			if h.SourceVersion, err = n.ChildText("VERS"); err != nil {
				return err
			}
			h.SourceName, err = n.ChildText("NAME")
			return err
		},
		"DEST": text(func(h *Header, v string) { h.Destination = v }),
		"DATE": func(h *Header, n *gedcom.Node) error {
			d, err := dateOf(n)
			h.Date = d
			return err
		},
		"SUBM": func(h *Header, n *gedcom.Node) error {
			if n.HasPointer() {
				if _, err := m.resolver.LookupPointer(n); err != nil {
					return err
				}
				h.Submitter = n.Pointer
			}
			return nil
		},
		"COPR": text(func(h *Header, v string) { h.Copyright = v }),
		"LANG": text(func(h *Header, v string) { h.Language = normalizeLang(v) }),
		"PLAC": func(h *Header, n *gedcom.Node) error {
			form, err := n.ChildText("FORM")
			h.PlaceForm = place.Split(form)
			return err
		},
		"NOTE": text(func(h *Header, v string) { h.Note = v }),
		"SCHMA": func(h *Header, n *gedcom.Node) error {
			for _, t := range n.ChildrenWith(gedcom.TagTag) {
				v, err := t.Text()
				if err != nil {
					return err
				}
				if f := strings.Fields(v); len(f) == 2 {
					h.Schema[f[0]] = f[1]
				}
			}
			return nil
		},
	}
}
