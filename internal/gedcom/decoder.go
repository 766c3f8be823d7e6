package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// maxLineSize bounds a single physical line. Notes with embedded HTML can
// be long, so the default bufio limit is too small.
const maxLineSize = 1024 * 1024

var (
	linePattern    = regexp.MustCompile(`^([0-9]+) (?:(@[^@ ]+@) )?([A-Za-z0-9_]+)(?: (.*))?$`)
	pointerPattern = regexp.MustCompile(`^@[^@ ]+@$`)
)

// Decoder reads a GEDCOM 7 document into a structure tree.
type Decoder struct {
	r      io.Reader
	schema map[string]string
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, schema: make(map[string]string)}
}

// Decode is a convenience wrapper around NewDecoder(r).Decode().
func Decode(r io.Reader) ([]*Node, error) {
	return NewDecoder(r).Decode()
}

// Schema returns the extension tags declared in HEAD.SCHMA, keyed by the
// short tag. It is populated by Decode.
func (d *Decoder) Schema() map[string]string {
	out := make(map[string]string, len(d.schema))
	for k, v := range d.schema {
		out[k] = v
	}
	return out
}

// Decode reads the whole document. The returned slice holds the records in
// document order, including HEAD and TRLR when present.
func (d *Decoder) Decode() ([]*Node, error) {
	scanner := bufio.NewScanner(d.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		records []*Node
		stack   []*Node // stack[i] is the open node at level i
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			return nil, &Error{Kind: ErrSyntax, Line: lineNo, Msg: fmt.Sprintf("cannot parse line %q", line)}
		}
		level, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, &Error{Kind: ErrSyntax, Line: lineNo, Msg: fmt.Sprintf("invalid level %q", m[1])}
		}
		if level > len(stack) {
			return nil, &Error{Kind: ErrSyntax, Line: lineNo, Tag: m[3], Msg: fmt.Sprintf("level %d follows level %d", level, len(stack)-1)}
		}
		if level > 0 && len(stack) == 0 {
			return nil, &Error{Kind: ErrSyntax, Line: lineNo, Tag: m[3], Msg: "document does not start at level 0"}
		}

		tag, payload := m[3], m[4]

		if tag == TagContinue {
			if level == 0 {
				return nil, &Error{Kind: ErrSyntax, Line: lineNo, Tag: tag, Msg: "CONT at level 0"}
			}
			parent := stack[level-1]
			prev, _ := parent.Value.(string)
			parent.Value = prev + "\n" + unescape(payload)
			stack = stack[:level]
			continue
		}

		n := &Node{Tag: tag, OriginalTag: tag, Xref: m[2], Line: lineNo}
		if uri, ok := d.schema[tag]; ok {
			n.Tag = uri
		}
		switch {
		case pointerPattern.MatchString(payload):
			n.Pointer = payload
		case payload != "":
			n.Value = unescape(payload)
		}

		stack = stack[:level]
		if level == 0 {
			records = append(records, n)
		} else {
			stack[level-1].Append(n)
		}
		stack = append(stack, n)

		if tag == TagTag && level == 2 && stack[0].Tag == TagHeader && stack[1].Tag == TagSchema {
			d.declare(n)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read gedcom document: %w", err)
	}

	for _, r := range records {
		r.Walk(func(n *Node) bool {
			castValue(n)
			return true
		})
	}
	return records, nil
}

// declare registers a HEAD.SCHMA.TAG "<short> <uri>" line.
func (d *Decoder) declare(n *Node) {
	s, _ := n.Value.(string)
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return
	}
	d.schema[fields[0]] = fields[1]
}

// unescape turns a leading "@@" back into "@".
func unescape(s string) string {
	if strings.HasPrefix(s, "@@") {
		return s[1:]
	}
	return s
}

// castValue converts DATE, TIME and AGE payloads into typed values. A DATE
// that does not parse keeps its string payload so the mapper can report it
// against the owning record.
func castValue(n *Node) {
	s, ok := n.Value.(string)
	switch n.ShortTag() {
	case TagDate:
		if !ok {
			return
		}
		if strings.TrimSpace(s) == "" {
			n.Value = nil
			return
		}
		if v, err := ParseDateValue(s); err == nil {
			n.Value = v
		}
	case TagTime:
		if !ok {
			return
		}
		if t, err := ParseTime(s); err == nil {
			n.Value = t
		}
	case TagAge:
		if ok {
			n.Value = ParseAge(s)
		}
	}
}

// SchemaOf reads the extension declarations from the HEAD record of an
// already built tree.
func SchemaOf(records []*Node) map[string]string {
	out := make(map[string]string)
	if len(records) == 0 || !records[0].Is(TagHeader) {
		return out
	}
	schma := records[0].Child(TagSchema)
	if schma == nil {
		return out
	}
	for _, t := range schma.ChildrenWith(TagTag) {
		s, _ := t.Value.(string)
		if fields := strings.Fields(s); len(fields) == 2 {
			out[fields[0]] = fields[1]
		}
	}
	return out
}
