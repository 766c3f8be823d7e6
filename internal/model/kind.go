package model

import "fmt"

// Kind identifies a primary entity type.
type Kind int

const (
	KindPerson Kind = iota
	KindFamily
	KindEvent
	KindPlace
	KindSource
	KindCitation
	KindRepository
	KindNote
	KindMedia
	KindTag
)

// Kinds lists every kind in persistence order.
var Kinds = []Kind{
	KindPerson, KindFamily, KindEvent, KindPlace, KindSource,
	KindCitation, KindRepository, KindNote, KindMedia, KindTag,
}

var kindNames = map[Kind]string{
	KindPerson:     "person",
	KindFamily:     "family",
	KindEvent:      "event",
	KindPlace:      "place",
	KindSource:     "source",
	KindCitation:   "citation",
	KindRepository: "repository",
	KindNote:       "note",
	KindMedia:      "media",
	KindTag:        "tag",
}

// String returns the lower-case kind name used in storage and reports.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IDPrefix returns the prefix of generated document-local ids.
func (k Kind) IDPrefix() string {
	switch k {
	case KindPerson:
		return "I"
	case KindFamily:
		return "F"
	case KindEvent:
		return "E"
	case KindPlace:
		return "P"
	case KindSource:
		return "S"
	case KindCitation:
		return "C"
	case KindRepository:
		return "R"
	case KindNote:
		return "N"
	case KindMedia:
		return "O"
	case KindTag:
		return "T"
	default:
		return "X"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// Zero returns an empty entity of kind k, ready to be filled by a decoder.
func (k Kind) Zero() (Entity, error) {
	switch k {
	case KindPerson:
		return &Person{}, nil
	case KindFamily:
		return &Family{}, nil
	case KindEvent:
		return &Event{}, nil
	case KindPlace:
		return &Place{}, nil
	case KindSource:
		return &Source{}, nil
	case KindCitation:
		return &Citation{}, nil
	case KindRepository:
		return &Repository{}, nil
	case KindNote:
		return &Note{}, nil
	case KindMedia:
		return &Media{}, nil
	case KindTag:
		return &Tag{}, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %d", int(k))
	}
}
