package model

import "slices"

// Gender of a person.
type Gender string

const (
	GenderUnknown Gender = "unknown"
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
)

// EventType names the kind of an event. Values outside the constants below
// are custom types and are kept verbatim.
type EventType string

const (
	EventAdopted            EventType = "Adopted"
	EventAdultChristening   EventType = "Adult Christening"
	EventAnnulment          EventType = "Annulment"
	EventBaptism            EventType = "Baptism"
	EventBarMitzvah         EventType = "Bar Mitzvah"
	EventBasMitzvah         EventType = "Bas Mitzvah"
	EventBirth              EventType = "Birth"
	EventBlessing           EventType = "Blessing"
	EventBurial             EventType = "Burial"
	EventCaste              EventType = "Caste"
	EventCensus             EventType = "Census"
	EventChristening        EventType = "Christening"
	EventConfirmation       EventType = "Confirmation"
	EventCremation          EventType = "Cremation"
	EventDeath              EventType = "Death"
	EventDescription        EventType = "Description"
	EventDivorce            EventType = "Divorce"
	EventDivorceFiling      EventType = "Divorce Filing"
	EventEducation          EventType = "Education"
	EventEmigration         EventType = "Emigration"
	EventEngagement         EventType = "Engagement"
	EventFirstCommunion     EventType = "First Communion"
	EventGraduation         EventType = "Graduation"
	EventIdentification     EventType = "Identification Number"
	EventImmigration        EventType = "Immigration"
	EventMarriage           EventType = "Marriage"
	EventMarriageBanns      EventType = "Marriage Banns"
	EventMarriageContract   EventType = "Marriage Contract"
	EventMarriageLicense    EventType = "Marriage License"
	EventMarriageSettlement EventType = "Marriage Settlement"
	EventMilitaryService    EventType = "Military Service"
	EventNationality        EventType = "Nationality"
	EventNaturalization     EventType = "Naturalization"
	EventNobilityTitle      EventType = "Nobility Title"
	EventNumChildren        EventType = "Number of Children"
	EventNumMarriages       EventType = "Number of Marriages"
	EventOccupation         EventType = "Occupation"
	EventOrdination         EventType = "Ordination"
	EventProbate            EventType = "Probate"
	EventProperty           EventType = "Property"
	EventReligion           EventType = "Religion"
	EventResidence          EventType = "Residence"
	EventRetirement         EventType = "Retirement"
	EventSSN                EventType = "Social Security Number"
	EventWill               EventType = "Will"
	EventCustom             EventType = "Custom"
)

var standardEventTypes = []EventType{
	EventAdopted, EventAdultChristening, EventAnnulment, EventBaptism, EventBarMitzvah,
	EventBasMitzvah, EventBirth, EventBlessing, EventBurial, EventCaste, EventCensus,
	EventChristening, EventConfirmation, EventCremation, EventDeath, EventDescription,
	EventDivorce, EventDivorceFiling, EventEducation, EventEmigration, EventEngagement,
	EventFirstCommunion, EventGraduation, EventIdentification, EventImmigration,
	EventMarriage, EventMarriageBanns, EventMarriageContract, EventMarriageLicense,
	EventMarriageSettlement, EventMilitaryService, EventNationality, EventNaturalization,
	EventNobilityTitle, EventNumChildren, EventNumMarriages, EventOccupation,
	EventOrdination, EventProbate, EventProperty, EventReligion, EventResidence,
	EventRetirement, EventSSN, EventWill,
}

// IsCustom reports whether t is not one of the predefined event types.
func (t EventType) IsCustom() bool {
	return !slices.Contains(standardEventTypes, t)
}

// EventRole is a participant's role in an event. Unknown roles are custom
// and kept verbatim.
type EventRole string

const (
	RolePrimary   EventRole = "Primary"
	RoleClergy    EventRole = "Clergy"
	RoleCelebrant EventRole = "Celebrant"
	RoleAide      EventRole = "Aide"
	RoleBride     EventRole = "Bride"
	RoleGroom     EventRole = "Groom"
	RoleWitness   EventRole = "Witness"
	RoleFamily    EventRole = "Family"
	RoleInformant EventRole = "Informant"
)

// IsCustom reports whether r is not one of the predefined roles.
func (r EventRole) IsCustom() bool {
	switch r {
	case RolePrimary, RoleClergy, RoleCelebrant, RoleAide, RoleBride, RoleGroom,
		RoleWitness, RoleFamily, RoleInformant:
		return false
	}
	return true
}

// FamilyRelType is the relationship between the partners of a family.
type FamilyRelType string

const (
	FamilyMarried   FamilyRelType = "Married"
	FamilyUnmarried FamilyRelType = "Unmarried"
	FamilyCivil     FamilyRelType = "Civil Union"
	FamilyUnknown   FamilyRelType = "Unknown"
)

// ChildRelType is the relationship between a child and one parent.
type ChildRelType string

const (
	ChildBirth     ChildRelType = "Birth"
	ChildAdopted   ChildRelType = "Adopted"
	ChildStepchild ChildRelType = "Stepchild"
	ChildFoster    ChildRelType = "Foster"
	ChildUnknown   ChildRelType = "Unknown"
)

// NoteType classifies a note by what it is attached to or what it holds.
type NoteType string

const (
	NoteGeneral    NoteType = "General"
	NotePerson     NoteType = "Person Note"
	NoteFamily     NoteType = "Family Note"
	NoteEvent      NoteType = "Event Note"
	NotePlace      NoteType = "Place Note"
	NoteSource     NoteType = "Source Note"
	NoteSourceText NoteType = "Source text"
	NoteCitation   NoteType = "Citation"
	NoteRepository NoteType = "Repository Note"
	NoteRepoRef    NoteType = "Repository Reference Note"
	NoteMedia      NoteType = "Media Note"
	NoteMediaRef   NoteType = "Media Reference Note"
	NoteEventRef   NoteType = "Event Reference Note"
	NoteChildRef   NoteType = "Child Reference Note"
	NotePersonRef  NoteType = "Association Note"
	NoteName       NoteType = "Name Note"
	NoteTranscript NoteType = "Transcript"
	NoteResearch   NoteType = "Research"
)

// NoteFormat says whether whitespace in note text is significant.
type NoteFormat string

const (
	NoteFlowed    NoteFormat = "flowed"
	NoteFormatted NoteFormat = "formatted"
)

// URLType classifies a URL.
type URLType string

const (
	URLEmail     URLType = "E-mail"
	URLWebHome   URLType = "Web Home"
	URLWebSearch URLType = "Web Search"
	URLCustom    URLType = "Custom"
)

// Confidence is the citation quality, from QUAY.
type Confidence int

const (
	ConfidenceVeryLow Confidence = iota
	ConfidenceLow
	ConfidenceNormal
	ConfidenceHigh
	ConfidenceVeryHigh
)

// String returns the display label.
func (c Confidence) String() string {
	switch c {
	case ConfidenceVeryLow:
		return "Very Low"
	case ConfidenceLow:
		return "Low"
	case ConfidenceNormal:
		return "Normal"
	case ConfidenceHigh:
		return "High"
	case ConfidenceVeryHigh:
		return "Very High"
	default:
		return "Unknown"
	}
}

// NameType classifies a personal name. Unknown values are custom.
type NameType string

const (
	NameBirth   NameType = "Birth Name"
	NameAKA     NameType = "Also Known As"
	NameMarried NameType = "Married Name"
	NameUnknown NameType = "Unknown"
)

// PlaceType classifies a jurisdiction level.
type PlaceType string

const PlaceUnknown PlaceType = "Unknown"

// RepositoryType classifies a repository. Unknown values are custom.
type RepositoryType string

const (
	RepositoryLibrary RepositoryType = "Library"
	RepositoryArchive RepositoryType = "Archive"
	RepositoryUnknown RepositoryType = "Unknown"
)
