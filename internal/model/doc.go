// Package model defines the genealogy entities produced by an import.
//
// The types mirror the subset of the target application's object model
// that GEDCOM mapping touches: people, families, events, places, sources,
// citations, repositories, notes, media and tags, plus the value objects
// that hang off them (attributes, references, names, addresses, URLs,
// dates and styled text).
//
// Every primary entity embeds Base, which carries its handle. Handles are
// the only way entities refer to each other. Capability interfaces
// (HasNotes, HasAttributes, HasCitations, HasMedia, HasURLs, HasEventRefs)
// let mapping code attach shared children without knowing the concrete
// entity type.
//
// Bundle is the ordered output of one import, and ImportReport summarises
// it for reports and persistence.
package model
