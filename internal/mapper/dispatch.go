package mapper

import (
	"github.com/nao1215/gedcom7import/internal/extension"
	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/model"
)

// handler maps one child structure onto its owner.
type handler[T any] func(owner T, n *gedcom.Node) error

// handlerTable maps a written child tag to its handler.
type handlerTable[T any] map[string]handler[T]

// dispatch runs the handler of every child of n. Children without a
// handler are reported and skipped; the first handler error stops the walk.
func dispatch[T any](m *Mapper, table handlerTable[T], owner T, n *gedcom.Node) error {
	for _, c := range n.Children {
		if !m.admit(c) {
			continue
		}
		h, ok := table[c.ShortTag()]
		if !ok {
			m.report(model.CodeUnknownTag, c, "unsupported substructure %s under %s ignored", c.ShortTag(), n.ShortTag())
			continue
		}
		if err := h(owner, c); err != nil {
			return err
		}
	}
	return nil
}

// admit reports whether a child structure may be mapped. Extension
// structures the registry rejects are reported here.
func (m *Mapper) admit(c *gedcom.Node) bool {
	d := m.registry.Classify(c)
	switch d.Status {
	case extension.NotExtension, extension.Known:
		return true
	case extension.Undeclared:
		m.report(model.CodeUndeclaredExtension, c, "extension %s is not declared in HEAD.SCHMA", d.ShortTag)
	case extension.Disabled:
		m.report(model.CodeDisabledExtension, c, "extension %s is disabled", d.URI)
	default:
		if m.registry.WarnUnknown() {
			m.report(model.CodeUnknownExtension, c, "unknown extension %s dropped", d.ShortTag)
		}
	}
	return false
}

// ignore is the handler for children that are valid but carry nothing the
// target model keeps.
func ignore[T any](T, *gedcom.Node) error {
	return nil
}

// tables holds the dispatch tables of one Mapper.
type tables struct {
	individual    handlerTable[*personBuilder]
	name          handlerTable[*nameBuilder]
	association   handlerTable[*model.PersonRef]
	family        handlerTable[*model.Family]
	event         handlerTable[*model.Event]
	place         handlerTable[*model.Place]
	citation      handlerTable[*model.Citation]
	citationData  handlerTable[*model.Citation]
	source        handlerTable[*model.Source]
	sourceData    handlerTable[*model.Source]
	repoRef       handlerTable[*model.RepoRef]
	repository    handlerTable[*model.Repository]
	note          handlerTable[*model.Note]
	sharedNote    handlerTable[*model.Note]
	media         handlerTable[*model.Media]
	submitter     handlerTable[*submitterBuilder]
	header        handlerTable[*Header]
	occurrence    handlerTable[*model.Event]
	participant   handlerTable[*participant]
	occurrenceRef handlerTable[*model.EventRef]
	evidence      handlerTable[*evidenceBuilder]
}

// buildTables fills m.tables. Handlers are method values bound to m, so
// the tables belong to one Mapper.
func (m *Mapper) buildTables() {
	m.tables.individual = m.individualTable()
	m.tables.name = m.nameTable()
	m.tables.association = m.associationTable()
	m.tables.family = m.familyTable()
	m.tables.event = m.eventTable()
	m.tables.place = m.placeTable()
	m.tables.citation = m.citationTable()
	m.tables.citationData = m.citationDataTable()
	m.tables.source = m.sourceTable()
	m.tables.sourceData = m.sourceDataTable()
	m.tables.repoRef = m.repoRefTable()
	m.tables.repository = m.repositoryTable()
	m.tables.note = m.noteTable()
	m.tables.sharedNote = m.sharedNoteTable()
	m.tables.media = m.mediaTable()
	m.tables.submitter = m.submitterTable()
	m.tables.header = m.headerTable()
	m.tables.occurrence = m.occurrenceTable()
	m.tables.participant = m.participantTable()
	m.tables.occurrenceRef = m.occurrenceRefTable()
	m.tables.evidence = m.evidenceTable()
}
