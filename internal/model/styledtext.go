package model

// Style is a text style applied to a range of a StyledText.
type Style string

const (
	StyleBold        Style = "bold"
	StyleItalic      Style = "italic"
	StyleUnderline   Style = "underline"
	StyleSuperscript Style = "superscript"
	StyleSubscript   Style = "subscript"
	StyleLink        Style = "link"
)

// Span is a half-open [Start, End) range measured in runes.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// StyleTag applies one style, with an optional value such as a link
// target, to one or more spans.
type StyleTag struct {
	Style Style  `json:"name"`
	Value string `json:"value,omitempty"`
	Spans []Span `json:"ranges"`
}

// StyledText is plain text plus style ranges.
type StyledText struct {
	Text string     `json:"string"`
	Tags []StyleTag `json:"tags,omitempty"`
}

// PlainText returns styled text without styles.
func PlainText(s string) StyledText {
	return StyledText{Text: s}
}

// SpansOf returns all spans carrying style s.
func (t StyledText) SpansOf(s Style) []Span {
	var out []Span
	for _, tag := range t.Tags {
		if tag.Style == s {
			out = append(out, tag.Spans...)
		}
	}
	return out
}
