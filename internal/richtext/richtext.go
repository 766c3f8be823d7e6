// Package richtext converts the HTML subset allowed in GEDCOM 7 notes into
// styled text.
//
// Only b, i, u, sup, sub and a (with href) carry styles. Other elements are
// stripped but still take part in nesting, br becomes a newline, and
// character references are decoded. Offsets are counted in runes.
package richtext

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/nao1215/gedcom7import/internal/model"
)

// MIME types understood by notes.
const (
	MIMEHTML  = "text/html"
	MIMEPlain = "text/plain"
)

var styles = map[string]model.Style{
	"b":   model.StyleBold,
	"i":   model.StyleItalic,
	"u":   model.StyleUnderline,
	"sup": model.StyleSuperscript,
	"sub": model.StyleSubscript,
	"a":   model.StyleLink,
}

type openTag struct {
	name  string
	start int
	href  string
}

// FromHTML converts s into styled text. Closing tags that do not match the
// innermost open element are ignored, and elements still open at the end
// produce no style.
func FromHTML(s string) model.StyledText {
	var (
		text  strings.Builder
		pos   int
		stack []openTag
		tags  []model.StyleTag
	)

	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF; a strings.Reader has no other failure mode.
			return model.StyledText{Text: text.String(), Tags: tags}
		case html.TextToken:
			data := string(z.Text())
			text.WriteString(data)
			pos += utf8.RuneCountInString(data)
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				text.WriteByte('\n')
				pos++
			}
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag == "br" {
				text.WriteByte('\n')
				pos++
				continue
			}
			open := openTag{name: tag, start: pos}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "href" {
					open.href = string(val)
				}
			}
			stack = append(stack, open)
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if len(stack) == 0 || stack[len(stack)-1].name != tag {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			style, ok := styles[tag]
			if !ok || pos == open.start {
				continue
			}
			if style == model.StyleLink && open.href == "" {
				continue
			}
			tags = append(tags, model.StyleTag{
				Style: style,
				Value: open.href,
				Spans: []model.Span{{Start: open.start, End: pos}},
			})
		}
	}
}

// Convert returns styled text for a note payload with the given MIME type.
// HTML payloads are converted, anything else is kept verbatim. The second
// result is the note format: flowed for HTML, formatted for plain text.
func Convert(s, mime string) (model.StyledText, model.NoteFormat) {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case MIMEHTML:
		return FromHTML(s), model.NoteFlowed
	case MIMEPlain:
		return model.PlainText(s), model.NoteFormatted
	default:
		return model.PlainText(s), model.NoteFlowed
	}
}
