package model

import (
	"slices"
	"time"
)

// Entity is implemented by every primary entity.
type Entity interface {
	Core() *Base
	Kind() Kind
}

// Base holds the fields shared by all primary entities.
type Base struct {
	// Handle is the globally unique identity of the entity.
	Handle string `json:"handle"`
	// ID is the document-local identifier (xref without '@' or a generated id).
	ID string `json:"gramps_id"`
	// Private marks records restricted with RESN CONFIDENTIAL or PRIVACY.
	Private bool `json:"private,omitempty"`
	// Tags holds handles of Tag entities.
	Tags []string `json:"tags,omitempty"`
	// Changed is the CHAN timestamp when the document recorded one.
	Changed time.Time `json:"changed,omitzero"`
}

// Core returns b. Embedding Base gives every entity this method.
func (b *Base) Core() *Base {
	return b
}

// AddTag appends a tag handle once.
func (b *Base) AddTag(handle string) {
	if !slices.Contains(b.Tags, handle) {
		b.Tags = append(b.Tags, handle)
	}
}

// HasNotes is implemented by entities and references that carry notes.
type HasNotes interface {
	AddNote(handle string)
}

// HasAttributes is implemented by values that carry attributes.
type HasAttributes interface {
	AddAttribute(a Attribute)
}

// HasCitations is implemented by values that carry citations.
type HasCitations interface {
	AddCitation(handle string)
}

// HasMedia is implemented by values that carry media references.
type HasMedia interface {
	AddMediaRef(ref MediaRef)
}

// HasURLs is implemented by values that carry URLs.
type HasURLs interface {
	AddURL(u URL)
}

// HasEventRefs is implemented by people and families.
type HasEventRefs interface {
	AddEventRef(ref EventRef)
}

// HasAddresses is implemented by people and repositories.
type HasAddresses interface {
	AddAddress(a Address)
}

// NoteList is embedded by types that implement HasNotes.
type NoteList struct {
	Notes []string `json:"notes,omitempty"`
}

// AddNote appends a note handle. Adding the same handle twice is a no-op.
func (l *NoteList) AddNote(handle string) {
	if !slices.Contains(l.Notes, handle) {
		l.Notes = append(l.Notes, handle)
	}
}

// AttributeList is embedded by types that implement HasAttributes.
type AttributeList struct {
	Attributes []Attribute `json:"attributes,omitempty"`
}

// AddAttribute appends a. Repeated attributes are kept.
func (l *AttributeList) AddAttribute(a Attribute) {
	l.Attributes = append(l.Attributes, a)
}

// AttributesOf returns the values of all attributes with the given type.
func (l *AttributeList) AttributesOf(typ string) []string {
	var out []string
	for _, a := range l.Attributes {
		if a.Type == typ {
			out = append(out, a.Value)
		}
	}
	return out
}

// CitationList is embedded by types that implement HasCitations.
type CitationList struct {
	Citations []string `json:"citations,omitempty"`
}

// AddCitation appends a citation handle.
func (l *CitationList) AddCitation(handle string) {
	l.Citations = append(l.Citations, handle)
}

// MediaList is embedded by types that implement HasMedia.
type MediaList struct {
	MediaRefs []MediaRef `json:"media_refs,omitempty"`
}

// AddMediaRef appends ref.
func (l *MediaList) AddMediaRef(ref MediaRef) {
	l.MediaRefs = append(l.MediaRefs, ref)
}

// URLList is embedded by types that implement HasURLs.
type URLList struct {
	URLs []URL `json:"urls,omitempty"`
}

// AddURL appends u.
func (l *URLList) AddURL(u URL) {
	l.URLs = append(l.URLs, u)
}

// EventRefList is embedded by types that implement HasEventRefs.
type EventRefList struct {
	EventRefs []EventRef `json:"event_refs,omitempty"`
}

// AddEventRef appends ref.
func (l *EventRefList) AddEventRef(ref EventRef) {
	l.EventRefs = append(l.EventRefs, ref)
}

// References reports whether an event reference to handle exists.
func (l *EventRefList) References(handle string) bool {
	for _, r := range l.EventRefs {
		if r.Ref == handle {
			return true
		}
	}
	return false
}

// AddressList is embedded by types that implement HasAddresses.
type AddressList struct {
	Addresses []Address `json:"addresses,omitempty"`
}

// AddAddress appends a.
func (l *AddressList) AddAddress(a Address) {
	l.Addresses = append(l.Addresses, a)
}
