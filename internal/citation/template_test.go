package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nao1215/gedcom7import/internal/model"
)

func sourceWith(title string, tmpl *Template) *model.Source {
	src := model.NewSource("s1")
	src.Title = title
	if tmpl != nil {
		for _, a := range tmpl.Attributes() {
			src.AddAttribute(a)
		}
	}
	return src
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		tmpl  *Template
		page  string
		want  string
	}{
		{
			name:  "no template",
			title: "Parish Register",
			page:  "p. 12",
			want:  "Parish Register, p. 12",
		},
		{
			name:  "census",
			title: "1850 Census",
			tmpl: &Template{Name: TemplateCensus, Fields: []Field{
				{Name: "Year", Value: "1850"},
				{Name: "Jurisdiction", Value: "Worcester County, Massachusetts"},
			}},
			want: "1850, U.S. Federal Census, Worcester County, Massachusetts",
		},
		{
			name:  "census with page",
			tmpl:  &Template{Name: TemplateCensus, Fields: []Field{{Name: "Year", Value: "1900"}}},
			page:  "sheet 4",
			want:  "1900, U.S. Federal Census, sheet 4",
		},
		{
			name: "church record",
			tmpl: &Template{Name: TemplateChurchRecord, Fields: []Field{
				{Name: "Year", Value: "1875"},
				{Name: "Church", Value: "St. Mary's Church"},
				{Name: "Location", Value: "Winchester"},
				{Name: "Record Type", Value: "Marriages"},
			}},
			want: "St. Mary's Church, Winchester, Marriages, 1875",
		},
		{
			name: "newspaper uses page field",
			tmpl: &Template{Name: TemplateNewspaper, Fields: []Field{
				{Name: "Paper", Value: "Hampshire Chronicle"},
				{Name: "Date", Value: "15 May 1875"},
				{Name: "Page", Value: "5"},
			}},
			want: "Hampshire Chronicle, 15 May 1875, page 5",
		},
		{
			name: "newspaper prefers explicit page",
			tmpl: &Template{Name: TemplateNewspaper, Fields: []Field{
				{Name: "Paper", Value: "Hampshire Chronicle"},
				{Name: "Page", Value: "5"},
			}},
			page: "col. 2",
			want: "Hampshire Chronicle, col. 2",
		},
		{
			name:  "generic template",
			title: "Land Records",
			tmpl: &Template{Name: "Deed", Fields: []Field{
				{Name: "Book", Value: "12"},
				{Name: "Folio", Value: "44"},
			}},
			page: "entry 3",
			want: "Deed: Land Records (Book: 12, Folio: 44), entry 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Format(sourceWith(tt.title, tt.tmpl), tt.page))
		})
	}
}

func TestTemplateAttributesRoundTrip(t *testing.T) {
	t.Parallel()

	tmpl := Template{Name: TemplateBook}
	tmpl.Set("Author", "Smith")
	tmpl.Set("Year", "1901")
	tmpl.Set("Author", "Jones")

	attrs := tmpl.Attributes()
	assert.Equal(t, model.Attribute{Type: "Citation Template", Value: "Book"}, attrs[0])
	assert.Equal(t, model.Attribute{Type: "Template Field: Author", Value: "Jones"}, attrs[1])

	back, ok := FromAttributes(attrs)
	assert.True(t, ok)
	assert.Equal(t, tmpl, back)

	_, ok = FromAttributes([]model.Attribute{{Type: "UID", Value: "x"}})
	assert.False(t, ok)
}

func TestFields(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Paper", "Date", "Page", "Column", "Edition"}, Fields(TemplateNewspaper))
	assert.Len(t, Fields(TemplateCensus), 7)
	assert.Nil(t, Fields("Unknown"))

	f := Fields(TemplateBook)
	f[0] = "changed"
	assert.Equal(t, "Author", Fields(TemplateBook)[0])
}
