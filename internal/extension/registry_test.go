package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nao1215/gedcom7import/internal/gedcom"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	ocur := gedcom.NewNode(TagOccurrence, nil)
	foreign := gedcom.NewNode("_UID2", nil)
	indi := gedcom.NewNode(gedcom.TagIndividual, nil)

	tests := []struct {
		name     string
		registry *Registry
		schema   map[string]string
		node     *gedcom.Node
		want     Status
	}{
		{name: "standard tag", registry: NewRegistry(), node: indi, want: NotExtension},
		{name: "supported tag", registry: NewRegistry(), node: ocur, want: Known},
		{name: "unknown tag", registry: NewRegistry(), node: foreign, want: Unknown},
		{name: "strict without declaration", registry: NewRegistry(WithStrict(true)), node: ocur, want: Undeclared},
		{
			name:     "strict with declaration",
			registry: NewRegistry(WithStrict(true)),
			schema:   map[string]string{TagOccurrence: URIOccurrences},
			node:     ocur,
			want:     Known,
		},
		{
			name:     "same name but foreign uri",
			registry: NewRegistry(),
			schema:   map[string]string{TagOccurrence: "https://example.com/other"},
			node:     ocur,
			want:     Unknown,
		},
		{name: "disabled schema", registry: NewRegistry(WithEnabled(URIEvidence)), node: ocur, want: Disabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.schema != nil {
				tt.registry.Declare(tt.schema)
			}
			got := tt.registry.Classify(tt.node)
			assert.Equal(t, tt.want, got.Status, "status %s", got.Status)
		})
	}
}

func TestClassifyExpandedTag(t *testing.T) {
	t.Parallel()

	n := &gedcom.Node{Tag: URIEvidence, OriginalTag: TagEvidence}
	r := NewRegistry(WithStrict(true))
	r.Declare(map[string]string{TagEvidence: URIEvidence})

	got := r.Classify(n)
	assert.Equal(t, Known, got.Status)
	assert.Equal(t, TagEvidence, got.ShortTag)
	assert.Equal(t, URIEvidence, got.URI)
}

func TestDeclared(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Declare(map[string]string{
		TagOccurrence:    URIOccurrences,
		TagOccurrenceRef: URIOccurrences,
		"_OTHER":         "https://example.com/x",
		TagTemplate:      URICitations,
	})
	assert.Equal(t, []string{URICitations, URIOccurrences}, r.Declared())
	assert.True(t, r.WarnUnknown())
	assert.False(t, r.Strict())
	assert.False(t, NewRegistry(WithWarnUnknown(false)).WarnUnknown())
}
