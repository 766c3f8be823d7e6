package model

// Attribute is a typed key/value pair. Type is either one of the
// Attribute* constants or a free-form custom label.
type Attribute struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Attribute types used by the importer.
const (
	AttributeCustom      = "Custom"
	AttributeUID         = "UID"
	AttributeAge         = "Age"
	AttributeAgency      = "Agency"
	AttributeReligion    = "Religion"
	AttributeCause       = "Cause"
	AttributeTime        = "Time"
	AttributePhone       = "Phone"
	AttributeEmail       = "Email"
	AttributeFax         = "Fax"
	AttributeWebsite     = "Website"
	AttributeLanguage    = "Language"
	AttributePresence    = "Presence"
	AttributeSortDate    = "Sort Date"
	AttributeAssociate   = "Associate"
	AttributeNobility    = "Nobility Title"
	AttributeIDNumber    = "Identification Number"
	AttributeDataEvent   = "Data Event"
	AttributeEventType   = "Event Type"
	AttributeRole        = "Role"
	AttributeAltFile     = "Alternate File"
	AttributeChecksum    = "Checksum"
	AttributeNumChildren = "Number of Children"
)

// EventRef links a person or family to an event.
type EventRef struct {
	Ref  string    `json:"ref"`
	Role EventRole `json:"role"`
	NoteList
	AttributeList
	CitationList
	Private bool `json:"private,omitempty"`
}

// ChildRef links a family to a child.
type ChildRef struct {
	Ref       string       `json:"ref"`
	FatherRel ChildRelType `json:"father_rel"`
	MotherRel ChildRelType `json:"mother_rel"`
	NoteList
	CitationList
}

// PersonRef links a person to another person with a free-form relation,
// used for aliases and associations.
type PersonRef struct {
	Ref      string `json:"ref"`
	Relation string `json:"relation"`
	NoteList
	CitationList
}

// RepoRef links a source to a repository.
type RepoRef struct {
	Ref        string `json:"ref"`
	CallNumber string `json:"call_number,omitempty"`
	MediaType  string `json:"media_type,omitempty"`
	NoteList
}

// Rect is a crop rectangle in percent of the image size.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// MediaRef links an entity to a media object.
type MediaRef struct {
	Ref  string `json:"ref"`
	Crop *Rect  `json:"crop,omitempty"`
	NoteList
	CitationList
	AttributeList
}

// PlaceRef links a place to its enclosing place.
type PlaceRef struct {
	Ref  string `json:"ref"`
	Date *Date  `json:"date,omitempty"`
}

// PlaceName is one name of a place.
type PlaceName struct {
	Value string `json:"value"`
	Lang  string `json:"lang,omitempty"`
	Date  *Date  `json:"date,omitempty"`
}

// Address is a postal address, optionally with a phone number.
type Address struct {
	Street     string `json:"street,omitempty"`
	Locality   string `json:"locality,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Date       *Date  `json:"date,omitempty"`
	CitationList
	NoteList
}

// IsEmpty reports whether no field is set.
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.Locality == "" && a.City == "" && a.State == "" &&
		a.PostalCode == "" && a.Country == "" && a.Phone == ""
}

// URL is a link with a description.
type URL struct {
	Path        string  `json:"path"`
	Description string  `json:"description,omitempty"`
	Type        URLType `json:"type"`
}

// Surname is one component of a name's surname list.
type Surname struct {
	Surname string `json:"surname"`
	Prefix  string `json:"prefix,omitempty"`
	Primary bool   `json:"primary,omitempty"`
}

// Name is a personal name.
type Name struct {
	Type     NameType  `json:"type"`
	First    string    `json:"first_name,omitempty"`
	Surnames []Surname `json:"surnames,omitempty"`
	Title    string    `json:"title,omitempty"`
	Suffix   string    `json:"suffix,omitempty"`
	Nickname string    `json:"nickname,omitempty"`
	Lang     string    `json:"lang,omitempty"`
	Date     *Date     `json:"date,omitempty"`
	Private  bool      `json:"private,omitempty"`
	NoteList
	CitationList
}

// PrimarySurname returns the first surname flagged primary, or the first
// surname, or "".
func (n Name) PrimarySurname() string {
	for _, s := range n.Surnames {
		if s.Primary {
			return s.Surname
		}
	}
	if len(n.Surnames) > 0 {
		return n.Surnames[0].Surname
	}
	return ""
}

// Display returns "First Surname".
func (n Name) Display() string {
	first, last := n.First, n.PrimarySurname()
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// Researcher describes the person who produced the document.
type Researcher struct {
	Name       string `json:"name,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// IsEmpty reports whether no field is set.
func (r Researcher) IsEmpty() bool {
	return r == Researcher{}
}
