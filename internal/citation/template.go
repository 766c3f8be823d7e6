// Package citation renders citations for sources that carry a citation
// template.
//
// A template is stored on the source as attributes: one "Citation
// Template" attribute naming the template and one "Template Field: <name>"
// attribute per field. Format reads them back and produces the citation
// text for a page reference.
package citation

import (
	"strings"

	"github.com/nao1215/gedcom7import/internal/model"
)

// Attribute types used to store a template on a source.
const (
	AttributeTemplate    = "Citation Template"
	AttributeFieldPrefix = "Template Field: "
)

// Well-known template names.
const (
	TemplateCensus       = "Census"
	TemplateChurchRecord = "Church Record"
	TemplateCivil        = "Civil Registration"
	TemplateNewspaper    = "Newspaper"
	TemplateOnline       = "Online Database"
	TemplateBook         = "Book"
)

var templateFields = map[string][]string{
	TemplateCensus:       {"Year", "Jurisdiction", "Enumeration District", "Page", "Line", "Repository", "Roll"},
	TemplateChurchRecord: {"Church", "Location", "Record Type", "Year", "Page", "Entry"},
	TemplateCivil:        {"Type", "Year", "Registry", "Volume", "Page", "Entry"},
	TemplateNewspaper:    {"Paper", "Date", "Page", "Column", "Edition"},
	TemplateOnline:       {"Database Title", "Website", "URL", "Access Date", "Publisher"},
	TemplateBook:         {"Author", "Title", "Publisher", "Place", "Year", "Page"},
}

// Fields returns the expected field names of a well-known template, or nil.
func Fields(template string) []string {
	fields := templateFields[template]
	if fields == nil {
		return nil
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// Field is one named template value.
type Field struct {
	Name  string
	Value string
}

// Template is a named template with its fields in document order.
type Template struct {
	Name   string
	Fields []Field
}

// Set adds or replaces a field. A replaced field keeps its position.
func (t *Template) Set(name, value string) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			t.Fields[i].Value = value
			return
		}
	}
	t.Fields = append(t.Fields, Field{Name: name, Value: value})
}

// Get returns the value of a field.
func (t Template) Get(name string) (string, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Attributes returns the source attributes that store t.
func (t Template) Attributes() []model.Attribute {
	out := []model.Attribute{{Type: AttributeTemplate, Value: t.Name}}
	for _, f := range t.Fields {
		out = append(out, model.Attribute{Type: AttributeFieldPrefix + f.Name, Value: f.Value})
	}
	return out
}

// FromAttributes rebuilds a template from source attributes. The second
// result is false when no template attribute is present.
func FromAttributes(attrs []model.Attribute) (Template, bool) {
	var (
		t     Template
		found bool
	)
	for _, a := range attrs {
		switch {
		case a.Type == AttributeTemplate:
			t.Name = a.Value
			found = true
		case strings.HasPrefix(a.Type, AttributeFieldPrefix):
			t.Set(strings.TrimPrefix(a.Type, AttributeFieldPrefix), a.Value)
		}
	}
	return t, found && t.Name != ""
}

// Format renders a citation for src and an optional page reference.
func Format(src *model.Source, page string) string {
	t, ok := FromAttributes(src.Attributes)
	if !ok {
		return withPage(src.Title, page)
	}

	switch t.Name {
	case TemplateCensus:
		var parts []string
		if v, ok := t.Get("Year"); ok {
			parts = append(parts, v)
		}
		parts = append(parts, "U.S. Federal Census")
		if v, ok := t.Get("Jurisdiction"); ok {
			parts = append(parts, v)
		}
		return withPage(strings.Join(parts, ", "), page)
	case TemplateChurchRecord:
		return withPage(strings.Join(t.values("Church", "Location", "Record Type", "Year"), ", "), page)
	case TemplateNewspaper:
		s := strings.Join(t.values("Paper", "Date"), ", ")
		if page != "" {
			return s + ", " + page
		}
		if v, ok := t.Get("Page"); ok {
			return s + ", page " + v
		}
		return s
	default:
		s := t.Name + ": " + src.Title
		if len(t.Fields) > 0 {
			parts := make([]string, 0, len(t.Fields))
			for _, f := range t.Fields {
				parts = append(parts, f.Name+": "+f.Value)
			}
			s += " (" + strings.Join(parts, ", ") + ")"
		}
		return withPage(s, page)
	}
}

func (t Template) values(names ...string) []string {
	var out []string
	for _, n := range names {
		if v, ok := t.Get(n); ok {
			out = append(out, v)
		}
	}
	return out
}

func withPage(s, page string) string {
	if page == "" {
		return s
	}
	return s + ", " + page
}
