package mapper

import (
	"errors"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/media"
	"github.com/nao1215/gedcom7import/internal/model"
)

// mapMedia maps an OBJE record. With a prober configured the first file is
// probed for a checksum and metadata; probe failures are diagnostics.
func (m *Mapper) mapMedia(n *gedcom.Node) error {
	handle, id, err := m.recordHandle(n, false)
	if err != nil {
		return err
	}
	obj := model.NewMedia(handle)
	obj.ID = id
	if err := dispatch(m, m.tables.media, obj, n); err != nil {
		return err
	}
	if m.prober != nil && obj.Path != "" {
		if err := m.prober.Probe(obj); err != nil {
			code := model.CodeMediaUnavailable
			if errors.Is(err, media.ErrNoMetadata) {
				code = model.CodeMediaMetadata
			}
			m.report(code, n, "%s: %v", obj.Path, err)
		}
	}
	return m.addRecord(obj, n)
}

func (m *Mapper) mediaTable() handlerTable[*model.Media] {
	t := handlerTable[*model.Media]{
		"FILE": mediaFile,
	}
	withRecordBasics(t)
	withNotes(m, t, model.NoteMedia)
	withCitations(m, t)
	withIdentifiers(t)
	return t
}

// mediaFile maps FILE. The first file is the media path; later files are
// kept as "Alternate File" attributes.
func mediaFile(obj *model.Media, n *gedcom.Node) error {
	path, err := n.Text()
	if err != nil {
		return err
	}
	if obj.Path != "" {
		obj.AddAttribute(model.Attribute{Type: model.AttributeAltFile, Value: path})
		return nil
	}
	obj.Path = path
	if obj.MIME, err = n.ChildText("FORM"); err != nil {
		return err
	}
	if obj.Description, err = n.ChildText("TITL"); err != nil {
		return err
	}
	return nil
}

// mediaRef maps an OBJE link. ok is false for a void pointer.
func (m *Mapper) mediaRef(n *gedcom.Node) (ref model.MediaRef, ok bool, err error) {
	h, ok, err := m.pointer(n)
	if err != nil || !ok {
		return model.MediaRef{}, false, err
	}
	ref = model.MediaRef{Ref: h}
	if crop := n.Child("CROP"); crop != nil {
		if ref.Crop, err = cropRect(crop); err != nil {
			return model.MediaRef{}, false, err
		}
	}
	return ref, true, nil
}

// cropRect converts CROP (TOP, LEFT, HEIGHT, WIDTH) into a rectangle.
// A missing HEIGHT or WIDTH extends the rectangle to 100.
func cropRect(n *gedcom.Node) (*model.Rect, error) {
	get := func(tag string, def int) (int, error) {
		c := n.Child(tag)
		if c == nil {
			return def, nil
		}
		return intValue(c)
	}
	top, err := get("TOP", 0)
	if err != nil {
		return nil, err
	}
	left, err := get("LEFT", 0)
	if err != nil {
		return nil, err
	}
	r := &model.Rect{Left: left, Top: top, Right: 100, Bottom: 100}
	if h, err := get("HEIGHT", -1); err != nil {
		return nil, err
	} else if h >= 0 {
		r.Bottom = top + h
	}
	if w, err := get("WIDTH", -1); err != nil {
		return nil, err
	} else if w >= 0 {
		r.Right = left + w
	}
	return r, nil
}
