package model

// Person is an individual.
type Person struct {
	Base
	Gender         Gender      `json:"gender"`
	PrimaryName    Name        `json:"primary_name"`
	AlternateNames []Name      `json:"alternate_names,omitempty"`
	BirthRefIndex  int         `json:"birth_ref_index"`
	DeathRefIndex  int         `json:"death_ref_index"`
	Families       []string    `json:"family_list,omitempty"`
	ParentFamilies []string    `json:"parent_family_list,omitempty"`
	PersonRefs     []PersonRef `json:"person_ref_list,omitempty"`
	EventRefList
	AddressList
	URLList
	NoteList
	AttributeList
	CitationList
	MediaList
}

// NewPerson returns a person with no birth or death reference.
func NewPerson(handle string) *Person {
	return &Person{
		Base:          Base{Handle: handle},
		Gender:        GenderUnknown,
		BirthRefIndex: -1,
		DeathRefIndex: -1,
	}
}

// Kind implements Entity.
func (*Person) Kind() Kind { return KindPerson }

// AddFamily appends a family handle (FAMS) once.
func (p *Person) AddFamily(handle string) {
	for _, h := range p.Families {
		if h == handle {
			return
		}
	}
	p.Families = append(p.Families, handle)
}

// AddParentFamily appends a parent family handle (FAMC) once. The first
// parent family is the preferred one.
func (p *Person) AddParentFamily(handle string) {
	for _, h := range p.ParentFamilies {
		if h == handle {
			return
		}
	}
	p.ParentFamilies = append(p.ParentFamilies, handle)
}

// Family is a couple and their children.
type Family struct {
	Base
	Father       string        `json:"father_handle,omitempty"`
	Mother       string        `json:"mother_handle,omitempty"`
	ChildRefs    []ChildRef    `json:"child_ref_list,omitempty"`
	Relationship FamilyRelType `json:"type"`
	EventRefList
	NoteList
	AttributeList
	CitationList
	MediaList
}

// NewFamily returns a family with an unknown relationship type.
func NewFamily(handle string) *Family {
	return &Family{Base: Base{Handle: handle}, Relationship: FamilyUnknown}
}

// Kind implements Entity.
func (*Family) Kind() Kind { return KindFamily }

// ChildRef returns a pointer to the reference to child, or nil.
func (f *Family) ChildRef(child string) *ChildRef {
	for i := range f.ChildRefs {
		if f.ChildRefs[i].Ref == child {
			return &f.ChildRefs[i]
		}
	}
	return nil
}

// Event is something that happened at a time and place.
type Event struct {
	Base
	Type        EventType `json:"type"`
	Date        *Date     `json:"date,omitempty"`
	Place       string    `json:"place,omitempty"`
	Description string    `json:"description,omitempty"`
	NoteList
	AttributeList
	CitationList
	MediaList
}

// NewEvent returns an event of the given type.
func NewEvent(handle string, typ EventType) *Event {
	return &Event{Base: Base{Handle: handle}, Type: typ}
}

// Kind implements Entity.
func (*Event) Kind() Kind { return KindEvent }

// Place is one jurisdiction level. Enclosing levels are linked through
// PlaceRefs.
type Place struct {
	Base
	Name           PlaceName   `json:"name"`
	AlternateNames []PlaceName `json:"alt_names,omitempty"`
	Type           PlaceType   `json:"place_type"`
	Title          string      `json:"title,omitempty"`
	Latitude       string      `json:"lat,omitempty"`
	Longitude      string      `json:"long,omitempty"`
	PlaceRefs      []PlaceRef  `json:"placeref_list,omitempty"`
	URLList
	NoteList
	CitationList
	MediaList
}

// NewPlace returns a place with a single name.
func NewPlace(handle, name string) *Place {
	return &Place{Base: Base{Handle: handle}, Name: PlaceName{Value: name}, Type: PlaceUnknown}
}

// Kind implements Entity.
func (*Place) Kind() Kind { return KindPlace }

// Parent returns the handle of the enclosing place, or "".
func (p *Place) Parent() string {
	if len(p.PlaceRefs) == 0 {
		return ""
	}
	return p.PlaceRefs[0].Ref
}

// HasName reports whether n is already the primary or an alternate name.
func (p *Place) HasName(n PlaceName) bool {
	if p.Name.Value == n.Value && p.Name.Lang == n.Lang {
		return true
	}
	for _, a := range p.AlternateNames {
		if a.Value == n.Value && a.Lang == n.Lang {
			return true
		}
	}
	return false
}

// HasURL reports whether a URL with the same path is present.
func (p *Place) HasURL(path string) bool {
	for _, u := range p.URLs {
		if u.Path == path {
			return true
		}
	}
	return false
}

// Source is a source record.
type Source struct {
	Base
	Title    string    `json:"title,omitempty"`
	Author   string    `json:"author,omitempty"`
	PubInfo  string    `json:"pubinfo,omitempty"`
	Abbrev   string    `json:"abbrev,omitempty"`
	RepoRefs []RepoRef `json:"reporef_list,omitempty"`
	NoteList
	AttributeList
	MediaList
}

// NewSource returns an empty source.
func NewSource(handle string) *Source {
	return &Source{Base: Base{Handle: handle}}
}

// Kind implements Entity.
func (*Source) Kind() Kind { return KindSource }

// Citation points at a source with detail such as a page.
type Citation struct {
	Base
	Source     string     `json:"source_handle,omitempty"`
	Page       string     `json:"page,omitempty"`
	Date       *Date      `json:"date,omitempty"`
	Confidence Confidence `json:"confidence"`
	NoteList
	AttributeList
	MediaList
}

// NewCitation returns a citation of normal confidence.
func NewCitation(handle string) *Citation {
	return &Citation{Base: Base{Handle: handle}, Confidence: ConfidenceNormal}
}

// Kind implements Entity.
func (*Citation) Kind() Kind { return KindCitation }

// Repository holds sources. Submitters are imported as repositories too.
type Repository struct {
	Base
	Name string         `json:"name"`
	Type RepositoryType `json:"type"`
	AddressList
	URLList
	NoteList
}

// NewRepository returns a repository of unknown type.
func NewRepository(handle string) *Repository {
	return &Repository{Base: Base{Handle: handle}, Type: RepositoryUnknown}
}

// Kind implements Entity.
func (*Repository) Kind() Kind { return KindRepository }

// Note is a piece of text with optional styling.
type Note struct {
	Base
	Text   StyledText `json:"text"`
	Type   NoteType   `json:"type"`
	Format NoteFormat `json:"format"`
	Lang   string     `json:"lang,omitempty"`
	// Links holds handles of notes derived from this one, such as
	// translations.
	Links []string `json:"links,omitempty"`
	AttributeList
	CitationList
	MediaList
}

// NewNote returns a flowed note of the given type.
func NewNote(handle string, typ NoteType) *Note {
	return &Note{Base: Base{Handle: handle}, Type: typ, Format: NoteFlowed}
}

// Kind implements Entity.
func (*Note) Kind() Kind { return KindNote }

// Media is a multimedia object.
type Media struct {
	Base
	Path        string `json:"path"`
	MIME        string `json:"mime,omitempty"`
	Description string `json:"desc,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
	Date        *Date  `json:"date,omitempty"`
	NoteList
	AttributeList
	CitationList
}

// NewMedia returns an empty media object.
func NewMedia(handle string) *Media {
	return &Media{Base: Base{Handle: handle}}
}

// Kind implements Entity.
func (*Media) Kind() Kind { return KindMedia }

// Tag is a label attached to entities.
type Tag struct {
	Base
	Name     string `json:"name"`
	Color    string `json:"color"`
	Priority int    `json:"priority"`
}

// Kind implements Entity.
func (*Tag) Kind() Kind { return KindTag }
